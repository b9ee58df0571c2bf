package cmd

import (
	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
	"github.com/pterm/pterm"
)

// LogHandler prints the commit history, newest first.
func LogHandler(repo *core.Repository, args []string) error {
	entries, err := objects.History(repo)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		pterm.Info.Println("No commits yet")
		return nil
	}

	for _, entry := range entries {
		commit, err := objects.GetCommit(repo, entry.Commit)
		if err != nil {
			return err
		}
		pterm.FgYellow.Printfln("commit %s (%s)", commit.Hash, entry.Branch)
		pterm.Printfln("Author: %s", commit.Author)
		pterm.Printfln("Date:   %s", commit.Timestamp)
		if len(commit.Parents) == 2 {
			pterm.Printfln("Merge:  %s %s", commit.Parents[0][:12], commit.Parents[1][:12])
		}
		pterm.Println()
		pterm.Printfln("    %s", commit.Message)
		pterm.Println()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(NewRepoCommand(
		"log",
		"Show the commit history",
		LogHandler,
	))
}
