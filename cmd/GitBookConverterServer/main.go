package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func printBanner() {
	banner := `
  ___ _ _   ___           _      ___                     _
 / __(_) |_| _ ) ___  ___| |__  / __|___ _ ___ _____ _ _| |_ ___ _ _
| (_ | |  _| _ \/ _ \/ _ \ / / | (__/ _ \ ' \ V / -_) '_|  _/ -_) '_|
 \___|_|\__|___/\___/\___/_\_\  \___\___/_||_\_/\___|_|  \__\___|_|
	`
	fmt.Println(banner)
}

func main() {
	printBanner()
	configPath := flag.String("config", "", "path to a YAML configuration file")
	port := flag.Int("port", 0, "port to be used by the service (overrides the configuration)")
	folder := flag.String("folder", "", "folder to keep converted archives in (overrides the configuration)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	config, err := loadConfig(*configPath, *port, *folder)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := NewStorage(ctx, config)
	if err != nil {
		log.Fatalf("Failed to set up storage: %v", err)
	}

	server := NewServer(config, storage)
	go func() {
		if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.Cleanup(shutdownCtx)
}

func loadConfig(path string, port int, folder string) (*Config, error) {
	var config *Config
	var err error
	if path != "" {
		config, err = LoadConfig(path)
	} else {
		config, err = NewConfig()
	}
	if err != nil {
		return nil, err
	}

	if port != 0 {
		config.Port = port
	}
	if folder != "" {
		config.DownloadsDir = folder
	}
	return config, config.Validate()
}
