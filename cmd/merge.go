package cmd

import (
	"fmt"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/config"
	"github.com/Ahmadalmuhidat/bittrack/internal/merge"
	"github.com/fatih/color"
)

var (
	mergeAbort    bool
	mergeContinue bool
)

// MergeHandler merges a source branch into the target branch, which must be
// checked out. --abort and --continue manage an in-progress merge.
func MergeHandler(repo *core.Repository, args []string) error {
	if mergeAbort {
		if err := merge.Abort(repo); err != nil {
			return err
		}
		fmt.Println("Merge aborted.")
		return nil
	}
	if mergeContinue {
		commitHash, err := merge.Continue(repo, config.Author(repo))
		if err != nil {
			return err
		}
		fmt.Printf("Merge completed: %s\n", commitHash[:12])
		return nil
	}

	if len(args) < 2 {
		return core.ValidationError("merge", "usage: bittrack merge <source> <target>")
	}
	source, target := args[0], args[1]

	result, err := merge.Merge(repo, source, target, config.Author(repo))
	if err != nil {
		return err
	}

	switch {
	case result.UpToDate:
		fmt.Println("Already up to date.")
	case result.FastForward:
		fmt.Printf("Fast-forward to %s\n", result.Commit[:12])
	case len(result.Conflicts) > 0:
		color.Red("Merge conflicts detected in %d file(s):", len(result.Conflicts))
		for _, path := range result.Conflicts {
			fmt.Printf("  - %s\n", path)
		}
		fmt.Println("Resolve the conflicts, then run 'bittrack merge --continue' (or --abort).")
		return core.NewError(core.CodeState, core.SeverityWarning, "merge", "merge stopped on conflicts")
	default:
		for _, path := range result.Added {
			fmt.Printf("[ADDED] %s\n", path)
		}
		for _, path := range result.Modified {
			fmt.Printf("[MERGED] %s\n", path)
		}
		for _, path := range result.Deleted {
			fmt.Printf("[DELETED] %s\n", path)
		}
		if result.Commit != "" {
			fmt.Printf("Merge completed: %s\n", result.Commit[:12])
		} else {
			fmt.Println("Merge completed.")
		}
	}
	return nil
}

func init() {
	mergeCmd := NewCommand(
		"merge <source> <target>",
		"Merge a source branch into the checked-out target branch",
		MergeHandler,
		0,
	)
	mergeCmd.Flags().BoolVar(&mergeAbort, "abort", false, "Abort the in-progress merge")
	mergeCmd.Flags().BoolVar(&mergeContinue, "continue", false, "Finish a merge after resolving conflicts")
	rootCmd.AddCommand(mergeCmd)
}
