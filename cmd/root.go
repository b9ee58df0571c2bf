package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bittrack",
	Short: "BitTrack is a local, content-addressed version control system",
	Long: `BitTrack records snapshots of a working tree, organizes them along named
branches, and merges divergent histories. All state lives in the .bittrack
directory at the repository root.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// legacyFlags maps the historical flag-style invocation (bittrack --status,
// bittrack --stage <path>, ...) onto the equivalent subcommand.
var legacyFlags = map[string]string{
	"--status":         "status",
	"--stage":          "stage",
	"--unstage":        "unstage",
	"--commit":         "commit",
	"--log":            "log",
	"--current-commit": "current-commit",
	"--branch":         "branch",
	"--checkout":       "checkout",
	"--merge":          "merge",
	"--diff":           "diff",
	"--stash":          "stash",
	"--tag":            "tag",
	"--config":         "config",
	"--remote":         "remote",
	"--remove-repo":    "remove-repo",
}

func Execute() {
	args := os.Args[1:]
	if len(args) > 0 {
		if name, ok := legacyFlags[args[0]]; ok {
			args[0] = name
		}
	}
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		PrintError(err)
		os.Exit(exitCode(err))
	}
}
