package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

const (
	contentTypeHeader = "Content-Type"
	multipartMemory   = 32 << 20
)

// Server represents the HTTP server for the conversion service
type Server struct {
	addr    string
	config  *Config
	storage Storage
	states  *StateManager
	auth    *AuthMiddleware
}

// NewServer creates a new server instance storing archives in storage
func NewServer(config *Config, storage Storage) *Server {
	return &Server{
		addr:    fmt.Sprintf(":%d", config.Port),
		config:  config,
		storage: storage,
		states:  NewStateManager(),
		auth:    NewAuthMiddleware(&config.Auth),
	}
}

// Router builds the handler serving every endpoint
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	// Public endpoints (no auth required)
	router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Protected endpoints (auth required when enabled)
	router.HandleFunc("/convert/mdx", s.auth.WrapFunc(s.convertMDXHandler)).Methods(http.MethodPost)
	router.HandleFunc("/convert/notion", s.auth.WrapFunc(s.convertNotionHandler)).Methods(http.MethodPost)
	router.HandleFunc("/conversions/{id}", s.auth.WrapFunc(s.conversionHandler)).Methods(http.MethodGet)
	router.HandleFunc("/download/{id}", s.auth.WrapFunc(s.downloadHandler)).Methods(http.MethodGet)

	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(log.StandardLogger()))
	return handlers.LoggingHandler(log.StandardLogger().Writer(), recovery(router))
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.auth.IsEnabled() {
		log.Infof("Starting server on %s (storage: %s, auth: enabled)", s.addr, s.config.Storage.Type)
	} else {
		log.Infof("Starting server on %s (storage: %s)", s.addr, s.config.Storage.Type)
	}
	return srv.ListenAndServe()
}

// healthHandler handles the /health endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	_, err := fmt.Fprintln(w, "OK")
	if err != nil {
		log.Errorf("Failed to write health response: %v", err)
	}
}

// convertMDXHandler cleans the uploaded .mdx files into a flat Markdown archive
func (s *Server) convertMDXHandler(w http.ResponseWriter, r *http.Request) {
	if !s.parseUpload(w, r) {
		return
	}

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		writeJSONError(w, "missing required 'files' form field", http.StatusBadRequest)
		return
	}

	docs := make([]gitbookconverter.Document, 0, len(uploads))
	for _, upload := range uploads {
		if !gitbookconverter.IsMDX(upload.Filename) {
			writeJSONError(w, fmt.Sprintf("only .mdx files are accepted, got %s", gitbookconverter.Sanitize(upload.Filename)), http.StatusBadRequest)
			return
		}
		content, err := readUpload(upload)
		if err != nil {
			writeJSONError(w, fmt.Sprintf("failed to read upload: %v", err), http.StatusBadRequest)
			return
		}
		docs = append(docs, gitbookconverter.Document{Name: upload.Filename, Content: content})
	}

	s.convert(w, r, ModeMDX, func(outPath string) (*gitbookconverter.Result, error) {
		return gitbookconverter.ConvertMDX(docs, outPath)
	})
}

// convertNotionHandler converts an uploaded Notion export archive
func (s *Server) convertNotionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.parseUpload(w, r) {
		return
	}

	upload, header, err := r.FormFile("archive")
	if err != nil {
		writeJSONError(w, "missing required 'archive' form field", http.StatusBadRequest)
		return
	}
	defer closeWithLog(upload, "upload")

	archive, err := os.CreateTemp("", "notion-export-*.zip")
	if err != nil {
		errorsTotalMetric.Inc()
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer removeWithLog(archive.Name())

	_, err = io.Copy(archive, upload)
	if closeErr := archive.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		errorsTotalMetric.Inc()
		writeJSONError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	log.Debugf("Received Notion export %s (%d bytes)", gitbookconverter.Sanitize(header.Filename), header.Size)

	opts := s.config.ConversionOptions()
	s.convert(w, r, ModeNotion, func(outPath string) (*gitbookconverter.Result, error) {
		return gitbookconverter.ConvertNotion(archive.Name(), outPath, opts)
	})
}

// convert runs a conversion in a scratch directory and publishes the archive
func (s *Server) convert(w http.ResponseWriter, r *http.Request, mode string, run func(outPath string) (*gitbookconverter.Result, error)) {
	id := uuid.NewString()
	s.states.SetStatus(id, mode, StatusConverting)

	workspace, err := os.MkdirTemp("", "gitbook-convert-*")
	if err != nil {
		s.fail(w, id, err)
		return
	}
	defer removeAllWithLog(workspace)

	result, err := run(filepath.Join(workspace, id+".zip"))
	if err != nil {
		s.fail(w, id, err)
		return
	}

	info, err := s.storage.Put(r.Context(), objectKey(id), result.ArchivePath)
	if err != nil {
		s.fail(w, id, fmt.Errorf("failed to store archive: %w", err))
		return
	}

	s.states.SetReady(id, "/download/"+id, info.Size, result)
	conversionsTotalMetric.WithLabelValues(mode).Inc()
	convertedFilesTotalMetric.Add(float64(result.Converted))
	skippedFilesTotalMetric.Add(float64(len(result.Skipped)))
	log.Infof("Conversion %s (%s) ready: %d files, %d skipped", id, mode, result.Converted, len(result.Skipped))

	writeJSON(w, s.states.GetState(id).Response(), http.StatusOK)
}

func (s *Server) fail(w http.ResponseWriter, id string, err error) {
	log.Errorf("Conversion %s failed: %v", id, err)
	errorsTotalMetric.Inc()
	s.states.SetError(id, err.Error())
	writeJSONError(w, err.Error(), statusFor(err))
}

// statusFor maps conversion errors to HTTP status codes
func statusFor(err error) int {
	var archiveErr *gitbookconverter.ArchiveError
	var encodingErr *gitbookconverter.EncodingError
	switch {
	case errors.As(err, &archiveErr), errors.As(err, &encodingErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// conversionHandler reports the state of a conversion
func (s *Server) conversionHandler(w http.ResponseWriter, r *http.Request) {
	state := s.lookup(w, r)
	if state == nil {
		return
	}
	writeJSON(w, state.Response(), http.StatusOK)
}

// downloadHandler streams a converted archive with Range request support
func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	state := s.lookup(w, r)
	if state == nil {
		return
	}
	if !s.states.IsReady(state.ID) {
		message := fmt.Sprintf("conversion %s is not ready", state.ID)
		if s.states.HasError(state.ID) {
			message = fmt.Sprintf("conversion %s failed: %s", state.ID, state.Error)
		}
		writeJSONError(w, message, http.StatusNotFound)
		return
	}

	archive, info, err := s.storage.Get(r.Context(), objectKey(state.ID))
	if err != nil {
		log.Errorf("Failed to open archive %s: %v", state.ID, err)
		errorsTotalMetric.Inc()
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer closeWithLog(archive, "archive")

	filename := state.Filename()
	w.Header().Set(contentTypeHeader, zipContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	http.ServeContent(w, r, filename, info.LastModified, archive)

	log.Infof("Served archive %s (%d bytes total)", state.ID, info.Size)
	downloadsTotalMetric.Inc()
}

// lookup finds the conversion named in the request, answering 404 when it is unknown
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *ConversionState {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeJSONError(w, "conversion not found", http.StatusNotFound)
		return nil
	}
	state := s.states.GetState(id)
	if state == nil {
		writeJSONError(w, "conversion not found", http.StatusNotFound)
		return nil
	}
	return state
}

// parseUpload enforces the upload limit and parses the multipart form
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSONError(w, fmt.Sprintf("upload exceeds %d MB", s.config.MaxUploadMB), http.StatusRequestEntityTooLarge)
			return false
		}
		writeJSONError(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer closeWithLog(file, "upload")
	return io.ReadAll(file)
}

func objectKey(id string) string {
	return id + ".zip"
}

// Cleanup removes the stored archive of every finished conversion and
// releases the storage
func (s *Server) Cleanup(ctx context.Context) {
	for _, id := range s.states.ReadyIDs() {
		if err := s.storage.Delete(ctx, objectKey(id)); err != nil {
			log.Warnf("Failed to remove archive %s: %v", id, err)
		}
		s.states.Delete(id)
	}
	if closer, ok := s.storage.(io.Closer); ok {
		closeWithLog(closer, "storage")
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, body any, statusCode int) {
	w.Header().Set(contentTypeHeader, "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		errorsTotalMetric.Inc()
		log.Errorf("Failed to write JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, map[string]string{"error": message}, statusCode)
}

func removeWithLog(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to remove %s: %v", path, err)
	}
}

func removeAllWithLog(path string) {
	if err := os.RemoveAll(path); err != nil {
		log.Warnf("Failed to remove %s: %v", path, err)
	}
}
