package gitbookconverter

import (
	"fmt"
	"io"
	"strings"

	"github.com/InVisionApp/tabular"
)

const maxReportFileWidth = 60

// WriteSkippedReport prints skipped entries as an aligned File/Reason table.
// Nothing is printed when there are no skipped entries.
func WriteSkippedReport(w io.Writer, skipped []SkippedEntry) error {
	if len(skipped) == 0 {
		return nil
	}

	width := len("File")
	for _, entry := range skipped {
		if len(entry.Filename) > width {
			width = len(entry.Filename)
		}
	}
	if width > maxReportFileWidth {
		width = maxReportFileWidth
	}

	tab := tabular.New()
	tab.Col("file", "File", width)
	tab.Col("reason", "Reason", len("Reason"))
	table := tab.Parse("file", "reason")
	format := strings.TrimSuffix(table.Format, "\n") + "\n"

	if _, err := fmt.Fprintln(w, table.Header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, table.SubHeader); err != nil {
		return err
	}
	for _, entry := range skipped {
		if _, err := fmt.Fprintf(w, format, entry.Filename, entry.Reason); err != nil {
			return err
		}
	}
	return nil
}
