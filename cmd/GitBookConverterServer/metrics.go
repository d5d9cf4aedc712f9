package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	errorsTotalMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gitbookconverter_errors_total",
		Help: "The total number of errors found",
	})
	conversionsTotalMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gitbookconverter_conversions_total",
		Help: "The total number of finished conversions",
	}, []string{"mode"})
	convertedFilesTotalMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gitbookconverter_converted_files_total",
		Help: "The total number of files written to output archives",
	})
	skippedFilesTotalMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gitbookconverter_skipped_files_total",
		Help: "The total number of input files that could not be converted",
	})
	downloadsTotalMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gitbookconverter_downloads_total",
		Help: "The total number of archive downloads",
	})
)
