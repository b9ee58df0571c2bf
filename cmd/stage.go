package cmd

import (
	"fmt"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/staging"
)

// StageHandler stages one path, or the entire tree for ".".
func StageHandler(repo *core.Repository, args []string) error {
	path := args[0]
	if err := staging.Stage(repo, path); err != nil {
		return err
	}
	if path == "." {
		fmt.Println("staged working tree")
	} else {
		fmt.Printf("staged: %s\n", core.NormalizePath(path))
	}
	return nil
}

// UnstageHandler removes one path from the index.
func UnstageHandler(repo *core.Repository, args []string) error {
	if err := staging.Unstage(repo, args[0]); err != nil {
		return err
	}
	fmt.Printf("unstaged: %s\n", core.NormalizePath(args[0]))
	return nil
}

func init() {
	rootCmd.AddCommand(NewCommand(
		"stage <path|.>",
		"Add a file (or the whole tree) to the staging area",
		StageHandler,
		1,
	))
	rootCmd.AddCommand(NewCommand(
		"unstage <path>",
		"Remove a file from the staging area",
		UnstageHandler,
		1,
	))
}
