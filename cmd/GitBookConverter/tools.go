package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [FILE]",
		Short: "Print a cleaned MDX file",
		Long:  `Print the Markdown left after removing JSX from an MDX file. Reads stdin when no file is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)

			var content []byte
			var err error
			if len(args) == 1 {
				content, err = os.ReadFile(args[0])
			} else {
				content, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return printer.Fail(NewUserErrorWithCause(err.Error(), err))
			}

			cleaned := gitbookconverter.CleanMDX(string(content))
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]string{"text": cleaned})
			}
			_, err = io.WriteString(cmd.OutOrStdout(), cleaned)
			return err
		},
	}
}

func newSanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize PATH...",
		Short: "Print the sanitized form of Notion export paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)

			paths := make([]string, len(args))
			for i, arg := range args {
				paths[i] = gitbookconverter.SanitizePath(arg)
			}

			if printer.IsJSON() {
				return printer.WriteJSON(map[string][]string{"paths": paths})
			}
			for _, path := range paths {
				printer.Println(path)
			}
			return nil
		},
	}
}
