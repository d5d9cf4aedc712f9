package gitbookconverter

import "strings"

// Sanitize removes line breaks from user supplied values before they are logged.
func Sanitize(s string) string {
	escapedString := strings.Replace(s, "\n", "", -1)
	escapedString = strings.Replace(escapedString, "\r", "", -1)
	return escapedString
}

// MarkdownName returns the output name of an uploaded MDX file.
func MarkdownName(name string) string {
	return strings.ReplaceAll(name, ".mdx", ".md")
}

// IsMDX reports whether a file name has the .mdx extension.
func IsMDX(name string) bool {
	return strings.EqualFold(extension(name), ".mdx")
}
