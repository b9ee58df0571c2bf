package cmd

import (
	"fmt"
	"os"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/config"
)

// InitHandler creates a new repository in the current directory.
func InitHandler(args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	repo := core.NewRepository(cwd)
	if err := core.CreateRepo(repo, config.DefaultBranch()); err != nil {
		return err
	}
	fmt.Printf("Initialized empty BitTrack repository in %s\n", repo.BitDir)
	return nil
}

// RemoveRepoHandler deletes the metadata directory.
func RemoveRepoHandler(repo *core.Repository, args []string) error {
	if err := core.RemoveRepo(repo); err != nil {
		return err
	}
	fmt.Println("Repository removed.")
	return nil
}

func init() {
	rootCmd.AddCommand(NewBareCommand(
		"init",
		"Create an empty BitTrack repository",
		InitHandler,
	))
	rootCmd.AddCommand(NewRepoCommand(
		"remove-repo",
		"Delete the repository metadata, keeping the working tree",
		RemoveRepoHandler,
	))
}
