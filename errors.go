package gitbookconverter

import "fmt"

// ArchiveError is returned when an input archive cannot be opened or
// extracted. It aborts the whole conversion.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("invalid archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// EncodingError is returned when text content is not valid UTF-8.
type EncodingError struct {
	Path string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: content is not valid UTF-8", e.Path)
}
