// Package main provides the GitBookConverter command line client.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(version))
	return GetExitCode(err)
}

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// newRootCmd creates the root command for the GitBookConverter CLI.
func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "GitBookConverter",
		Short: "Convert MDX files and Notion exports to GitBook Markdown",
		Long: `GitBookConverter turns exported documents into GitBook-compatible Markdown.

MDX files are stripped of JSX tags, expressions and import/export lines.
Notion exports get their page identifiers and unsafe characters removed from
every path while images and other media are carried over.

All commands support --json for structured output.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			log.SetOutput(os.Stderr)
			log.SetLevel(log.WarnLevel)
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every converted file")

	lipgloss.SetHasDarkBackground(true)

	cmd.AddGroup(&cobra.Group{ID: "convert", Title: "Convert Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "tools", Title: "Tool Commands:"})

	addGroupedCommand(cmd, newMDXCmd(), "convert")
	addGroupedCommand(cmd, newNotionCmd(), "convert")
	addGroupedCommand(cmd, newRemoteCmd(), "convert")
	addGroupedCommand(cmd, newCleanCmd(), "tools")
	addGroupedCommand(cmd, newSanitizeCmd(), "tools")
	addGroupedCommand(cmd, newMCPCmd(), "tools")

	return cmd
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
