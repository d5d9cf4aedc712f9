package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cavaliergopher/grab/v3"
	log "github.com/sirupsen/logrus"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

// Client talks to a GitBookConverterServer
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	grab    *grab.Client
}

// RemoteError is an error answered by the server
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server answered %d: %s", e.StatusCode, e.Message)
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
		grab:    grab.NewClient(),
	}
}

// Convert uploads files in the multipart field and waits for the conversion
func (c *Client) Convert(ctx context.Context, mode, field string, paths []string) (*gitbookconverter.ConvertResponse, error) {
	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)

	go func() {
		writer.CloseWithError(writeForm(form, field, paths))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert/"+mode, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.authorize(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload: %w", err)
	}
	defer closeWithLog(resp.Body, "response body")

	var response gitbookconverter.ConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unreadable response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: response.Error}
	}
	return &response, nil
}

func writeForm(form *multipart.Writer, field string, paths []string) error {
	for _, path := range paths {
		if err := addFormFile(form, field, path); err != nil {
			return err
		}
	}
	return form.Close()
}

func addFormFile(form *multipart.Writer, field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer closeWithLog(file, "upload")

	part, err := form.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}

// Download saves the archive at url into dst. progress is called every
// interval with the transferred and total byte counts.
func (c *Client) Download(ctx context.Context, url, dst string, interval time.Duration, progress func(done, total int64)) error {
	if strings.HasPrefix(url, "/") {
		url = c.baseURL + url
	}

	req, err := grab.NewRequest(dst, url)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	// every conversion produces a new archive
	req.NoResume = true
	c.authorize(req.HTTPRequest.Header)

	resp := c.grab.Do(req)

	t := time.NewTicker(interval)
	defer t.Stop()

Loop:
	for {
		select {
		case <-t.C:
			progress(resp.BytesComplete(), resp.Size())
		case <-resp.Done:
			break Loop
		}
	}

	if err := resp.Err(); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	progress(resp.BytesComplete(), resp.Size())
	return nil
}

func (c *Client) authorize(header http.Header) {
	if c.apiKey != "" {
		header.Set("X-API-Key", c.apiKey)
	}
}

func closeWithLog(c io.Closer, context string) {
	if err := c.Close(); err != nil {
		log.Errorf("Failed to close %s: %v", context, err)
	}
}
