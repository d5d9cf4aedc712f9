package gitbookconverter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		source   string
		expected string
	}{
		{"front matter title", "a.md", "---\ntitle: From Front Matter\n---\n# Heading\n", "From Front Matter"},
		{"first level one heading", "a.md", "intro\n\n## Minor\n\n# Major Heading\n", "Major Heading"},
		{"file name fallback", "docs/Release-Notes.md", "no headings here\n", "Release Notes"},
		{"invalid front matter falls back to heading", "a.md", "---\ntitle: [oops\n---\n# Still Works\n", "Still Works"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PageTitle(tt.path, []byte(tt.source)))
		})
	}
}

func TestWriteSummary(t *testing.T) {
	dir := makeTempDir(t, "test-summary-*")
	writeTree(t, dir, map[string][]byte{
		"Guide.md":             []byte("# Guide\n"),
		"Guide/Install.md":     []byte("# Install\n"),
		"Guide/Deep/Detail.md": []byte("# Detail\n"),
		"Guide/pic.png":        []byte("png"),
		"About.md":             []byte("about us\n"),
	})

	path, err := WriteSummary(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, SummaryFileName), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Table of contents\n\n"+
		"* [About](About.md)\n"+
		"* [Guide](Guide.md)\n"+
		"    * [Detail](Guide/Deep/Detail.md)\n"+
		"  * [Install](Guide/Install.md)\n", string(content))
}

func TestWriteSummary_EscapesLinkText(t *testing.T) {
	dir := makeTempDir(t, "test-summary-escape-*")
	writeTree(t, dir, map[string][]byte{
		"Notes.md": []byte("---\ntitle: \"[Draft] Notes]\"\n---\nbody\n"),
		"Paths.md": []byte("---\ntitle: 'C:\\temp [old]'\n---\n"),
	})

	path, err := WriteSummary(dir)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Table of contents\n\n"+
		"* [\\[Draft\\] Notes\\]](Notes.md)\n"+
		"* [C:\\\\temp \\[old\\]](Paths.md)\n", string(content))
}

func TestWriteSummary_KeepsExisting(t *testing.T) {
	dir := makeTempDir(t, "test-summary-existing-*")
	writeTree(t, dir, map[string][]byte{
		SummaryFileName: []byte("custom"),
		"Page.md":       []byte("# Page\n"),
	})

	_, err := WriteSummary(dir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, SummaryFileName))
	require.NoError(t, err)
	assert.Equal(t, "custom", string(content))
}
