package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

// Printer handles formatted output to a writer.
// It supports both JSON and human-readable output modes.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	json   bool
	styles *Styles
}

// Styles holds lipgloss styles for human-readable output.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
}

// NewPrinter creates a new Printer. Colors are only used when isTTY is true.
func NewPrinter(writer io.Writer, jsonMode bool, isTTY bool) *Printer {
	styles := &Styles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
	if !isTTY {
		plain := lipgloss.NewStyle()
		styles = &Styles{Success: plain, Warning: plain, Bold: plain}
	}

	return &Printer{w: writer, errW: writer, json: jsonMode, styles: styles}
}

// newCmdPrinter builds the printer for a command from its flags and writers.
func newCmdPrinter(cmd *cobra.Command) *Printer {
	out := cmd.OutOrStdout()
	return NewPrinter(out, isJSONMode(cmd), IsTTY(out)).WithStderr(cmd.ErrOrStderr())
}

// WithStderr sets a separate writer for errors and warnings in human mode.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsJSON returns true if the printer is in JSON mode.
func (p *Printer) IsJSON() bool {
	return p.json
}

// Success prints a styled message in human mode.
func (p *Printer) Success(format string, args ...any) {
	if p.json {
		return
	}
	fmt.Fprintln(p.w, p.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a styled warning to the error writer in human mode.
func (p *Printer) Warn(format string, args ...any) {
	if p.json {
		return
	}
	fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Warning.Render("Warning"), fmt.Sprintf(format, args...))
}

// Stderr writes a status message to the error writer in human mode.
func (p *Printer) Stderr(format string, args ...any) {
	if p.json {
		return
	}
	fmt.Fprintf(p.errW, format, args...)
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

// Fail reports err and returns it classified for the exit code. In JSON mode
// the error is written as {"error": "...", "code": N}.
func (p *Printer) Fail(err error) error {
	exitErr := classifyError(err)
	if p.json {
		_ = p.WriteJSON(map[string]any{"error": exitErr.Message, "code": exitErr.Code})
	}
	return exitErr
}

// WriteJSON encodes data as indented JSON.
func (p *Printer) WriteJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// Skipped prints the files that could not be converted as a table.
func (p *Printer) Skipped(skipped []gitbookconverter.SkippedEntry) {
	if p.json || len(skipped) == 0 {
		return
	}
	p.Warn("%d files could not be converted", len(skipped))
	if err := gitbookconverter.WriteSkippedReport(p.errW, skipped); err != nil {
		log.Errorf("Failed to print skipped files: %v", err)
	}
}

// IsTTY checks if a writer is a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
