package cmd

import (
	"fmt"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/merge"
	"github.com/Ahmadalmuhidat/bittrack/internal/staging"
	"github.com/fatih/color"
)

var (
	stagedColor   = color.New(color.FgGreen)
	unstagedColor = color.New(color.FgRed)
)

// StatusHandler lists staged and unstaged files for the current branch.
func StatusHandler(repo *core.Repository, args []string) error {
	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	fmt.Printf("On branch %s\n", branch)

	if merge.InProgress(repo) {
		state, err := merge.LoadState(repo)
		if err != nil {
			return err
		}
		fmt.Println("\nYou have unmerged paths:")
		for _, path := range state.Conflicts {
			unstagedColor.Printf("  both modified: %s\n", path)
		}
	}

	staged, err := staging.StagedFiles(repo)
	if err != nil {
		return err
	}
	unstaged, err := staging.UnstagedFiles(repo)
	if err != nil {
		return err
	}

	fmt.Println("\nstaged files:")
	for _, path := range staged {
		stagedColor.Printf("  %s\n", path)
	}
	fmt.Println("\nunstaged files:")
	for _, path := range unstaged {
		unstagedColor.Printf("  %s\n", path)
	}

	if len(staged) == 0 && len(unstaged) == 0 {
		fmt.Println("\nnothing to commit, working tree clean")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(NewRepoCommand(
		"status",
		"Show the working tree status",
		StatusHandler,
	))
}
