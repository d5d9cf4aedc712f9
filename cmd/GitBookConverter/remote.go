package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/kyokomi/emoji"
	"github.com/spf13/cobra"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

const defaultServerURL = "http://localhost:8080"

type remoteOptions struct {
	server string
	apiKey string
}

func newRemoteCmd() *cobra.Command {
	opts := &remoteOptions{}
	var mdxOutput, notionOutput string

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Convert files on a GitBookConverter server",
		Long: `Upload files to a GitBookConverter server and download the converted archive.

The server URL and API key default to the GITBOOK_SERVER and GITBOOK_API_KEY
environment variables.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.server, "server", "s", envOr("GITBOOK_SERVER", defaultServerURL), "URL of the GitBookConverter server")
	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", os.Getenv("GITBOOK_API_KEY"), "API key sent in the X-API-Key header")

	mdx := &cobra.Command{
		Use:   "mdx FILE...",
		Short: "Convert MDX files remotely",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if !gitbookconverter.IsMDX(path) {
					return newCmdPrinter(cmd).Fail(NewUserError(fmt.Sprintf("only .mdx files are accepted: %s", path)))
				}
			}
			return runRemote(cmd, opts, ModeMDX, "files", args, mdxOutput)
		},
	}
	mdx.Flags().StringVarP(&mdxOutput, "output", "o", gitbookconverter.DefaultMDXArchiveName, "Archive to write")

	notion := &cobra.Command{
		Use:   "notion EXPORT.zip",
		Short: "Convert a Notion export remotely",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(cmd, opts, ModeNotion, "archive", args, notionOutput)
		},
	}
	notion.Flags().StringVarP(&notionOutput, "output", "o", gitbookconverter.DefaultNotionArchiveName, "Archive to write")

	cmd.AddCommand(mdx, notion)
	return cmd
}

// Conversion modes as named by the server routes
const (
	ModeMDX    = "mdx"
	ModeNotion = "notion"
)

func runRemote(cmd *cobra.Command, opts *remoteOptions, mode, field string, paths []string, output string) error {
	printer := newCmdPrinter(cmd)
	client := NewClient(opts.server, opts.apiKey)
	printer.Stderr("Using server: %s\n", opts.server)

	s := startSpinner(cmd.ErrOrStderr(), printer, "Converting on remote host")
	response, err := client.Convert(cmd.Context(), mode, field, paths)
	stopSpinner(s)
	if err != nil {
		return printer.Fail(remoteExitError(err))
	}
	printer.Stderr("%s\n", emoji.Sprintf(":ok: Converted %d files on remote host", response.Converted))

	progress := func(done, total int64) {
		printer.Stderr("  transferred %v / %v\t\t\r", humanize.Bytes(uint64(done)), humanize.Bytes(uint64(max(total, 0))))
	}
	if err := client.Download(cmd.Context(), response.URL, output, 500*time.Millisecond, progress); err != nil {
		return printer.Fail(NewSystemErrorWithCause(err.Error(), err))
	}
	printer.Stderr("\n")

	if printer.IsJSON() {
		response.URL = output
		return printer.WriteJSON(response)
	}
	printer.Success("Download saved to %s", output)
	printer.Skipped(response.Skipped)
	return nil
}

// remoteExitError maps server answers to exit codes. Rejected input is a
// user error, everything else a system error.
func remoteExitError(err error) *ExitError {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && remoteErr.StatusCode >= 400 && remoteErr.StatusCode < 500 {
		return &ExitError{Code: ExitUserError, Message: remoteErr.Message, Cause: err}
	}
	return NewSystemErrorWithCause(err.Error(), err)
}

func startSpinner(w io.Writer, printer *Printer, message string) *spinner.Spinner {
	if printer.IsJSON() {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	_ = s.Color("magenta")
	s.Start()
	return s
}

func stopSpinner(s *spinner.Spinner) {
	if s != nil {
		s.Stop()
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
