package gitbookconverter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// Default archive names offered for download.
const (
	DefaultMDXArchiveName    = "converted_markdown.zip"
	DefaultNotionArchiveName = "gitbook_export.zip"
)

// ConvertMDX cleans every document and packs the resulting Markdown files into
// a flat zip archive at outPath. A document that is not valid UTF-8 aborts
// the run before the archive is written.
func ConvertMDX(docs []Document, outPath string) (*Result, error) {
	for _, doc := range docs {
		if !utf8.Valid(doc.Content) {
			return nil, &EncodingError{Path: doc.Name}
		}
	}

	workspace, err := os.MkdirTemp("", "gitbook-mdx-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer removeAllWithLog(workspace)

	files := FileMap{}
	for _, doc := range docs {
		outputName := MarkdownName(filepath.Base(filepath.FromSlash(doc.Name)))
		if outputName == "." || outputName == string(filepath.Separator) {
			outputName = UntitledName + ".md"
		}

		convertedPath := filepath.Join(workspace, outputName)
		if err := os.WriteFile(convertedPath, []byte(CleanMDX(string(doc.Content))), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", outputName, err)
		}
		files[doc.Name] = outputName
		log.Debugf("Converted %s -> %s", Sanitize(doc.Name), outputName)
	}

	converted := uniqueTargets(files)
	convertedPaths := make([]string, len(converted))
	for i, name := range converted {
		convertedPaths[i] = filepath.Join(workspace, name)
	}
	if err := ZipFiles(outPath, convertedPaths); err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}

	log.Infof("Converted %d files to GitBook-compatible Markdown", len(converted))
	return &Result{
		ArchivePath: outPath,
		Converted:   len(converted),
		Files:       files,
	}, nil
}

// uniqueTargets returns the distinct target names of a FileMap in order.
func uniqueTargets(files FileMap) []string {
	seen := map[string]bool{}
	var targets []string
	for _, target := range files {
		if !seen[target] {
			seen[target] = true
			targets = append(targets, target)
		}
	}
	sort.Strings(targets)
	return targets
}

// ConvertNotion extracts a Notion export archive, copies every supported file
// to its sanitized path and packs the result into a zip archive at outPath.
// An unreadable archive aborts the run with an *ArchiveError; problems with
// single files are reported in Result.Skipped.
func ConvertNotion(archivePath, outPath string, opts Options) (*Result, error) {
	workspace, err := os.MkdirTemp("", "gitbook-notion-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer removeAllWithLog(workspace)

	extracted := filepath.Join(workspace, "export")
	output := filepath.Join(workspace, "gitbook")
	if err := os.MkdirAll(extracted, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	if err := os.MkdirAll(output, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	if err := Unzip(archivePath, extracted); err != nil {
		return nil, err
	}

	files, skipped, err := BuildFileMap(extracted, opts)
	if err != nil {
		return nil, err
	}

	converted, copySkipped := CopyTree(extracted, output, files)
	skipped = append(skipped, copySkipped...)

	if opts.Summary {
		if _, err := WriteSummary(output); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if err := ZipDirectory(outPath, output); err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}

	log.Infof("Converted %d files from %s (%d skipped)", converted, filepath.Base(archivePath), len(skipped))
	return &Result{
		ArchivePath: outPath,
		Converted:   converted,
		Files:       files,
		Skipped:     skipped,
	}, nil
}
