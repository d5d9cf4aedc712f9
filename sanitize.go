package gitbookconverter

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// UntitledName replaces names that sanitize down to nothing.
const UntitledName = "untitled"

// Notion appends page identifiers to exported titles. These are stripped from
// the end of a name, one pass each, in this order.
var identifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s*[0-9a-f]{32}$`),
	regexp.MustCompile(`\s*[0-9a-fA-F]{8}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{12}$`),
	regexp.MustCompile(`\s*[0-9a-f]{16}$`),
	regexp.MustCompile(`\s*\([0-9a-fA-F]{3,}\)$`),
}

var (
	forbiddenCharsPattern = regexp.MustCompile(`[<>:"/\\|?*]`)
	hyphenRunPattern      = regexp.MustCompile(`-{2,}`)
)

// misencodedEllipsis is U+2026 encoded as UTF-8 and then decoded as cp1252.
const misencodedEllipsis = "â€¦"

var asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool {
	return r >= utf8.RuneSelf
}))

// SanitizePath cleans every segment of a relative path and joins them back
// in order with the platform separator. A ".." segment never climbs out of
// its parent, it becomes "untitled" like any other unnamed segment. The last segment is treated as a file name so
// its extension survives identifier stripping.
func SanitizePath(rel string) string {
	segments := splitPath(rel)
	if len(segments) == 0 {
		return UntitledName
	}

	cleaned := make([]string, len(segments))
	last := len(segments) - 1
	for i, segment := range segments[:last] {
		cleaned[i] = SanitizeName(segment)
	}
	cleaned[last] = sanitizeFileName(segments[last])

	return strings.Join(cleaned, string(filepath.Separator))
}

// SanitizeName cleans a single path segment: identifier suffixes are stripped,
// spaces and reserved characters become hyphens, hyphen runs are collapsed and
// non-ASCII characters are dropped.
func SanitizeName(segment string) string {
	name := normalizeName(stripIdentifiers(segment))
	if isUnnamed(name) {
		return UntitledName
	}
	return name
}

func sanitizeFileName(name string) string {
	ext := filepath.Ext(name)
	if ext == name || ext == "." {
		return SanitizeName(name)
	}

	stem := normalizeName(stripIdentifiers(strings.TrimSuffix(name, ext)))
	if isUnnamed(stem) {
		stem = UntitledName
	}

	ext = normalizeName(ext)
	if ext == "" || ext == "." {
		return stem
	}
	return stem + ext
}

func isUnnamed(name string) bool {
	return name == "" || name == "." || name == ".."
}

func stripIdentifiers(name string) string {
	for _, pattern := range identifierPatterns {
		name = pattern.ReplaceAllString(name, "")
	}
	return name
}

func normalizeName(name string) string {
	name = strings.ReplaceAll(name, misencodedEllipsis, "...")
	name = strings.ReplaceAll(name, " ", "-")
	name = forbiddenCharsPattern.ReplaceAllString(name, "-")
	name = collapseHyphens(name)

	folded, _, err := transform.String(asciiOnly, name)
	if err != nil {
		return ""
	}
	// dropping characters can bring two hyphens together again
	return collapseHyphens(folded)
}

func collapseHyphens(name string) string {
	return strings.Trim(hyphenRunPattern.ReplaceAllString(name, "-"), "-")
}

// splitPath breaks a relative path into its named segments, accepting both
// slash and platform separators and dropping empty and "." segments.
func splitPath(rel string) []string {
	var segments []string
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
