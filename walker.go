package gitbookconverter

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// SupportedExtensions lists the file types kept from a Notion export.
// Everything else is left out of the output without being reported.
var SupportedExtensions = []string{".md", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".mp4", ".mov", ".csv"}

var decodableImages = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// IsSupported reports whether name has an extension from SupportedExtensions.
func IsSupported(name string) bool {
	ext := extension(name)
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

func extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func isMarkdown(name string) bool {
	return extension(name) == ".md"
}

// BuildFileMap walks root and maps the relative path of every supported file
// to its sanitized path. Files that cannot be mapped are returned as skipped
// entries and do not stop the walk. Only a failure to read root itself is
// returned as an error.
func BuildFileMap(root string, opts Options) (FileMap, []SkippedEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("source %s is not a directory", root)
	}

	files := FileMap{}
	var skipped []SkippedEntry

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			skipped = append(skipped, skip(root, path, walkErr))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsSupported(d.Name()) {
			return nil
		}

		rel, target, err := mapFile(root, path, opts)
		if err != nil {
			skipped = append(skipped, skip(root, path, err))
			return nil
		}
		log.Debugf("Mapped %s -> %s", Sanitize(rel), target)
		files[rel] = target
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk source directory: %w", err)
	}

	return files, skipped, nil
}

func mapFile(root, path string, opts Options) (string, string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", "", err
	}
	rel = filepath.ToSlash(rel)
	if err := probeFile(path, rel, opts); err != nil {
		return "", "", err
	}
	return rel, filepath.ToSlash(SanitizePath(rel)), nil
}

// probeFile checks that a file can be read the way the copy step will read it.
func probeFile(path, rel string, opts Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer closeWithLog(f, "probed file")

	ext := extension(path)
	switch {
	case ext == ".md":
		content, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		if !utf8.Valid(content) {
			return &EncodingError{Path: rel}
		}
	case opts.VerifyMedia && decodableImages[ext]:
		if _, _, err := image.DecodeConfig(f); err != nil {
			return fmt.Errorf("failed to decode image: %w", err)
		}
	}
	return nil
}

func skip(root, path string, err error) SkippedEntry {
	name := path
	if rel, relErr := filepath.Rel(root, path); relErr == nil {
		name = filepath.ToSlash(rel)
	}
	log.Warnf("Skipping %s: %v", Sanitize(name), err)
	return SkippedEntry{Filename: name, Reason: err.Error()}
}

// SortedKeys returns the original paths of a FileMap in lexical order.
func (m FileMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// CopyTree copies every mapped file from src to its sanitized location under
// dst. Markdown is copied as text, everything else byte for byte. Internal
// links are not rewritten. It returns the number of copied files and the
// files that could not be copied.
func CopyTree(src, dst string, files FileMap) (int, []SkippedEntry) {
	copied := 0
	var skipped []SkippedEntry

	for _, rel := range files.SortedKeys() {
		from := filepath.Join(src, filepath.FromSlash(rel))
		to := filepath.Join(dst, filepath.FromSlash(files[rel]))

		if err := copyMapped(dst, from, to, rel); err != nil {
			log.Warnf("Skipping %s: %v", Sanitize(rel), err)
			skipped = append(skipped, SkippedEntry{Filename: rel, Reason: err.Error()})
			continue
		}
		copied++
	}

	return copied, skipped
}

func copyMapped(dst, from, to, rel string) error {
	if err := validatePathContainment(dst, to); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if isMarkdown(rel) {
		return copyText(from, to, rel)
	}
	return copyFile(from, to)
}

func copyText(from, to, rel string) error {
	content, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	if !utf8.Valid(content) {
		return &EncodingError{Path: rel}
	}
	return os.WriteFile(to, content, 0644)
}

func copyFile(from, to string) error {
	srcFile, err := os.Open(from)
	if err != nil {
		return err
	}
	defer closeWithLog(srcFile, "source file")

	dstFile, err := os.Create(to)
	if err != nil {
		return err
	}
	defer closeWithLog(dstFile, "destination file")

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// validatePathContainment ensures the final path stays within the base directory
func validatePathContainment(basePath, fullPath string) error {
	cleanBase := filepath.Clean(basePath)
	cleanFull := filepath.Clean(fullPath)

	if !strings.HasPrefix(cleanFull, cleanBase+string(filepath.Separator)) && cleanFull != cleanBase {
		return fmt.Errorf("path traversal detected: %s escapes %s", fullPath, basePath)
	}
	return nil
}
