package gitbookconverter

// Document is a single uploaded file and its original name.
type Document struct {
	Name    string
	Content []byte
}

// FileMap maps original relative paths (slash separated) to sanitized
// relative paths.
type FileMap map[string]string

// SkippedEntry records an input file that could not be converted.
type SkippedEntry struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Result describes a finished conversion run.
type Result struct {
	ArchivePath string
	Converted   int
	Files       FileMap
	Skipped     []SkippedEntry
}

// Options tunes the Notion conversion.
type Options struct {
	// VerifyMedia decodes PNG, JPEG and GIF headers and skips files that fail.
	VerifyMedia bool
	// Summary writes a GitBook SUMMARY.md at the root of the output tree.
	Summary bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{VerifyMedia: true}
}
