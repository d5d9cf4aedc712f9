package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

// convertOutput is the JSON output of the local conversion commands.
type convertOutput struct {
	Archive   string                          `json:"archive"`
	Converted int                             `json:"converted"`
	Files     gitbookconverter.FileMap        `json:"files"`
	Skipped   []gitbookconverter.SkippedEntry `json:"skipped"`
}

func newMDXCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "mdx FILE...",
		Short: "Convert MDX files into a zip of Markdown files",
		Long: `Convert one or more .mdx files into plain Markdown.

JSX tags, {expressions} and import/export lines are removed. The cleaned
files are written flat into a zip archive. A file that is not valid UTF-8
aborts the conversion and no archive is written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)

			docs := make([]gitbookconverter.Document, 0, len(args))
			for _, path := range args {
				if !gitbookconverter.IsMDX(path) {
					return printer.Fail(NewUserError(fmt.Sprintf("only .mdx files are accepted: %s", path)))
				}
				content, err := os.ReadFile(path)
				if err != nil {
					return printer.Fail(NewUserErrorWithCause(err.Error(), err))
				}
				docs = append(docs, gitbookconverter.Document{Name: path, Content: content})
			}

			result, err := gitbookconverter.ConvertMDX(docs, outPath)
			if err != nil {
				return printer.Fail(err)
			}
			return printResult(printer, result)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", gitbookconverter.DefaultMDXArchiveName, "Archive to write")
	return cmd
}

func newNotionCmd() *cobra.Command {
	var outPath string
	opts := gitbookconverter.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "notion EXPORT.zip",
		Short: "Convert a Notion export into a GitBook-ready zip",
		Long: `Convert a Notion export archive into a GitBook-ready tree.

Page identifiers, spaces and reserved characters are removed from every path.
Markdown, images, videos and CSV files are kept, other files are left out.
Files that cannot be read are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)

			result, err := gitbookconverter.ConvertNotion(args[0], outPath, opts)
			if err != nil {
				return printer.Fail(err)
			}
			return printResult(printer, result)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", gitbookconverter.DefaultNotionArchiveName, "Archive to write")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "Generate a SUMMARY.md table of contents")
	cmd.Flags().BoolVar(&opts.VerifyMedia, "verify-media", opts.VerifyMedia, "Skip images that cannot be decoded")
	return cmd
}

func printResult(printer *Printer, result *gitbookconverter.Result) error {
	if printer.IsJSON() {
		skipped := result.Skipped
		if skipped == nil {
			skipped = []gitbookconverter.SkippedEntry{}
		}
		return printer.WriteJSON(convertOutput{
			Archive:   result.ArchivePath,
			Converted: result.Converted,
			Files:     result.Files,
			Skipped:   skipped,
		})
	}

	printer.Success("Converted %d files into %s", result.Converted, printer.styles.Bold.Render(result.ArchivePath))
	printer.Skipped(result.Skipped)
	return nil
}
