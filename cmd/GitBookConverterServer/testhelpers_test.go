package main

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type uploadFile struct {
	name    string
	content []byte
}

// multipartRequest builds a POST request carrying files under field
func multipartRequest(t *testing.T, target, field string, files ...uploadFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, file := range files {
		part, err := writer.CreateFormFile(field, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(contentTypeHeader, writer.FormDataContentType())
	return req
}

// zipBytes returns an in-memory zip archive with the given entries
func zipBytes(t *testing.T, entries ...uploadFile) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := zip.NewWriter(buf)
	for _, entry := range entries {
		w, err := writer.Create(entry.name)
		require.NoError(t, err)
		_, err = w.Write(entry.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

// unzipBytes maps entry names to their content
func unzipBytes(t *testing.T, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := map[string]string{}
	for _, file := range reader.File {
		rc, err := file.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[file.Name] = string(content)
	}
	return entries
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Put(ctx context.Context, key, path string) (ObjectInfo, error) {
	args := m.Called(ctx, key, path)
	return args.Get(0).(ObjectInfo), args.Error(1)
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadSeekCloser, ObjectInfo, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadSeekCloser)
	return rc, args.Get(1).(ObjectInfo), args.Error(2)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
