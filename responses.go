package gitbookconverter

// ConvertResponse is the response format of the conversion endpoints
type ConvertResponse struct {
	ID        string         `json:"id,omitempty"`
	Mode      string         `json:"mode,omitempty"`
	Status    string         `json:"status,omitempty"`
	Converted int            `json:"converted"`
	URL       string         `json:"url,omitempty"`
	Size      int64          `json:"size,omitempty"`
	Skipped   []SkippedEntry `json:"skipped,omitempty"`
	Error     string         `json:"error,omitempty"`
}
