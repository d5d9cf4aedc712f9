package gitbookconverter

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	log "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// SummaryFileName is the table of contents file GitBook reads.
const SummaryFileName = "SUMMARY.md"

var linkTextEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

type summaryFrontMatter struct {
	Title string `yaml:"title"`
}

// WriteSummary writes a GitBook table of contents listing every Markdown file
// under dir, nested by directory depth. An existing SUMMARY.md is kept as is.
// It returns the path of the summary file.
func WriteSummary(dir string) (string, error) {
	summaryPath := filepath.Join(dir, SummaryFileName)
	if _, err := os.Stat(summaryPath); err == nil {
		log.Infof("Keeping existing %s", SummaryFileName)
		return summaryPath, nil
	}

	pages, err := collectPages(dir)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("# Table of contents\n\n")
	for _, page := range pages {
		source, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(page)))
		if err != nil {
			return "", err
		}
		depth := strings.Count(page, "/")
		fmt.Fprintf(&builder, "%s* [%s](%s)\n", strings.Repeat("  ", depth), linkTextEscaper.Replace(PageTitle(page, source)), page)
	}

	if err := os.WriteFile(summaryPath, []byte(builder.String()), 0644); err != nil {
		return "", err
	}
	log.Debugf("Wrote %s with %d pages", SummaryFileName, len(pages))
	return summaryPath, nil
}

func collectPages(dir string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != SummaryFileName {
			pages = append(pages, rel)
		}
		return nil
	})
	sort.Strings(pages)
	return pages, err
}

// PageTitle picks the title of a Markdown page: the front matter title, then
// the first level one heading, then the file name.
func PageTitle(path string, source []byte) string {
	var meta summaryFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		body = source
	}
	if title := strings.TrimSpace(meta.Title); title != "" {
		return title
	}
	if title := firstHeading(body); title != "" {
		return title
	}

	base := filepath.Base(filepath.FromSlash(path))
	return strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), "-", " ")
}

func firstHeading(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok && heading.Level == 1 {
			title = strings.TrimSpace(string(heading.Text(source)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}
