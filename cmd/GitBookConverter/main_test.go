package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout, stderr and the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	entries := map[string]string{}
	for _, file := range reader.File {
		rc, err := file.Open()
		require.NoError(t, err)
		buf := new(bytes.Buffer)
		_, err = buf.ReadFrom(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[file.Name] = buf.String()
	}
	return entries
}

func TestRootCommand_Version(t *testing.T) {
	version = "1.2.3"

	stdout, _, err := execute(t, "", "--version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "1.2.3")
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := execute(t, "", "--help")

	require.NoError(t, err)
	for _, expected := range []string{"GitBookConverter", "Usage:", "--json", "notion", "sanitize", "mcp"} {
		assert.Contains(t, stdout, expected)
	}
}

func TestMDXCommand(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.mdx", []byte("import A from 'a'\n<Callout>Read {props.x} me</Callout>\n"))
	out := filepath.Join(dir, "out.zip")

	stdout, _, err := execute(t, "", "mdx", page, "-o", out)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Converted 1 files")
	assert.Equal(t, map[string]string{"page.md": "Read  me\n"}, readArchive(t, out))
}

func TestMDXCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.mdx", []byte("# Title\n"))
	out := filepath.Join(dir, "out.zip")

	stdout, _, err := execute(t, "", "--json", "mdx", page, "-o", out)
	require.NoError(t, err)

	var result convertOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, out, result.Archive)
	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, "page.md", result.Files[page])
	assert.Empty(t, result.Skipped)
}

func TestMDXCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.mdx", []byte{0xff, 0xfe})
	notes := writeFile(t, dir, "notes.txt", []byte("x"))
	out := filepath.Join(dir, "out.zip")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "invalid encoding", args: []string{"mdx", bad, "-o", out}, code: ExitUserError},
		{name: "wrong extension", args: []string{"mdx", notes, "-o", out}, code: ExitUserError},
		{name: "missing file", args: []string{"mdx", filepath.Join(dir, "gone.mdx"), "-o", out}, code: ExitUserError},
		{name: "unwritable output", args: []string{"mdx", writeFile(t, dir, "ok.mdx", []byte("x")), "-o", filepath.Join(dir, "missing", "out.zip")}, code: ExitSystemError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)

			require.Error(t, err)
			assert.Equal(t, tt.code, GetExitCode(err))
			assert.NoFileExists(t, out)
		})
	}
}

func TestMDXCommand_JSONError(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.mdx", []byte{0xff})

	stdout, _, err := execute(t, "", "--json", "mdx", bad, "-o", filepath.Join(dir, "out.zip"))
	require.Error(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &body))
	assert.Contains(t, body["error"], "not valid UTF-8")
	assert.Equal(t, float64(ExitUserError), body["code"])
}

func TestNotionCommand(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "export.zip")
	writeZip(t, export, map[string]string{
		"Team Wiki 0123456789abcdef0123456789abcdef/Onboarding Guide.md": "# Onboarding\n",
		"Team Wiki 0123456789abcdef0123456789abcdef/broken.png":          "nope",
	})
	out := filepath.Join(dir, "gitbook.zip")

	stdout, stderr, err := execute(t, "", "notion", export, "-o", out, "--summary")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Converted 1 files")
	assert.Contains(t, stderr, "1 files could not be converted")
	assert.Contains(t, stderr, "Team Wiki 0123456789abcdef0123456789abcdef/broken.png")

	entries := readArchive(t, out)
	assert.Equal(t, "# Onboarding\n", entries["Team-Wiki/Onboarding-Guide.md"])
	assert.Contains(t, entries["SUMMARY.md"], "[Onboarding](Team-Wiki/Onboarding-Guide.md)")
}

func TestNotionCommand_NoVerifyMedia(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "export.zip")
	writeZip(t, export, map[string]string{"logo.png": "not really a png"})
	out := filepath.Join(dir, "gitbook.zip")

	_, _, err := execute(t, "", "notion", export, "-o", out, "--verify-media=false")

	require.NoError(t, err)
	assert.Contains(t, readArchive(t, out), "logo.png")
}

func TestNotionCommand_InvalidArchive(t *testing.T) {
	dir := t.TempDir()
	export := writeFile(t, dir, "export.zip", []byte("not a zip"))
	out := filepath.Join(dir, "gitbook.zip")

	_, _, err := execute(t, "", "notion", export, "-o", out)

	require.Error(t, err)
	assert.Equal(t, ExitUserError, GetExitCode(err))
	assert.NoFileExists(t, out)
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	writer := zip.NewWriter(file)
	for name, content := range entries {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
}
