package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/config"
	"github.com/Ahmadalmuhidat/bittrack/internal/merge"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
	"github.com/Ahmadalmuhidat/bittrack/internal/refs"
	"github.com/Ahmadalmuhidat/bittrack/internal/staging"
)

var commitMessage string

// CommitHandler creates a commit from the current index. The message comes
// from -m or is read from standard input.
func CommitHandler(repo *core.Repository, args []string) error {
	if merge.InProgress(repo) {
		return core.StateError("commit",
			"a merge is in progress; run 'bittrack merge --continue' or 'bittrack merge --abort'")
	}

	message := commitMessage
	if message == "" {
		fmt.Print("message: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return core.ValidationError("commit", "failed to read commit message")
		}
		message = strings.TrimRight(line, "\n")
	}

	index, err := staging.LoadIndex(repo)
	if err != nil {
		return err
	}
	commitHash, err := objects.CreateCommit(repo, config.Author(repo), message, nil, index.Paths())
	if err != nil {
		return err
	}
	if err := index.Clear(); err != nil {
		return err
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	fmt.Printf("[%s %s] %s\n", branch, commitHash[:12], message)
	return nil
}

// CurrentCommitHandler prints the HEAD branch's tip hash.
func CurrentCommitHandler(repo *core.Repository, args []string) error {
	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	tip, err := refs.Tip(repo, branch)
	if err != nil {
		return err
	}
	if tip == "" {
		return core.StateError("current-commit", "no commits found on branch '%s'", branch)
	}
	fmt.Println(tip)
	return nil
}

func init() {
	commitCmd := NewRepoCommand(
		"commit",
		"Record the staged files as a new commit",
		CommitHandler,
	)
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	rootCmd.AddCommand(commitCmd)

	rootCmd.AddCommand(NewRepoCommand(
		"current-commit",
		"Print the tip commit hash of the current branch",
		CurrentCommitHandler,
	))
}
