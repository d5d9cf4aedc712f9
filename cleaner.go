package gitbookconverter

import "regexp"

// The passes run in this order. None of them understands nesting: each one
// removes the shortest bracketed run it can find and leaves unmatched
// brackets where they are.
var (
	tagPattern          = regexp.MustCompile(`<[^>]+>`)
	expressionPattern   = regexp.MustCompile(`\{[^}]+\}`)
	importExportPattern = regexp.MustCompile(`(?m)^(import|export).*\n`)
)

// CleanMDX converts MDX content to GitBook-compatible Markdown by removing
// HTML/JSX tags, JSX expressions and import/export lines.
func CleanMDX(text string) string {
	cleaned := tagPattern.ReplaceAllString(text, "")
	cleaned = expressionPattern.ReplaceAllString(cleaned, "")
	return importExportPattern.ReplaceAllString(cleaned, "")
}
