package cmd

import (
	"fmt"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
	"github.com/Ahmadalmuhidat/bittrack/internal/refs"
	"github.com/Ahmadalmuhidat/bittrack/internal/staging"
)

var (
	branchList   bool
	branchCreate string
	branchRemove string
	branchRename string
	branchInfo   string
)

// BranchHandler lists, creates, removes, renames or describes branches
// depending on the flag given. With no flags it lists names; -l adds each
// branch's tip.
func BranchHandler(repo *core.Repository, args []string) error {
	switch {
	case branchCreate != "":
		return createBranch(repo, branchCreate)
	case branchRemove != "":
		return removeBranch(repo, branchRemove)
	case branchRename != "":
		return renameBranch(repo, branchRename)
	case branchInfo != "":
		return showBranchInfo(repo, branchInfo)
	default:
		return listBranches(repo, branchList)
	}
}

func listBranches(repo *core.Repository, verbose bool) error {
	branches, err := refs.ListBranches(repo)
	if err != nil {
		return err
	}
	currentBranch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	for _, branch := range branches {
		marker := " "
		if branch == currentBranch {
			marker = "*"
		}
		if !verbose {
			fmt.Printf("%s %s\n", marker, branch)
			continue
		}
		tip, err := refs.Tip(repo, branch)
		if err != nil {
			return err
		}
		if tip == "" {
			fmt.Printf("%s %s (no commits)\n", marker, branch)
		} else {
			fmt.Printf("%s %s %s\n", marker, branch, tip[:12])
		}
	}
	return nil
}

// showBranchInfo prints one branch's name, whether it is checked out, its
// last commit and its commit count.
func showBranchInfo(repo *core.Repository, name string) error {
	if !refs.BranchExists(repo, name) {
		return core.NotFoundError("branch-info", "branch '%s' not found", name)
	}
	currentBranch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	tip, err := refs.Tip(repo, name)
	if err != nil {
		return err
	}

	commitCount := 0
	entries, err := objects.History(repo)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Branch == name {
			commitCount++
		}
	}

	current := "No"
	if name == currentBranch {
		current = "Yes"
	}
	lastCommit := tip
	if lastCommit == "" {
		lastCommit = "None"
	}
	fmt.Printf("Branch: %s\n", name)
	fmt.Printf("  Current: %s\n", current)
	fmt.Printf("  Last commit: %s\n", lastCommit)
	fmt.Printf("  Commits: %d\n", commitCount)
	return nil
}

func createBranch(repo *core.Repository, name string) error {
	if err := refs.CreateBranch(repo, name); err != nil {
		return err
	}
	fmt.Printf("Created branch '%s'\n", name)
	return nil
}

func removeBranch(repo *core.Repository, name string) error {
	currentBranch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	if name == currentBranch {
		return core.StateError("branch-remove", "cannot remove the checked-out branch '%s'", name)
	}
	index, err := staging.LoadIndex(repo)
	if err != nil {
		return err
	}
	if !index.IsEmpty() {
		return core.StateError("branch-remove", "staged changes present; commit or unstage them first")
	}
	if err := refs.RemoveBranch(repo, name); err != nil {
		return err
	}
	fmt.Printf("Removed branch '%s'\n", name)
	return nil
}

func renameBranch(repo *core.Repository, spec string) error {
	names := strings.Fields(spec)
	if len(names) != 2 {
		return core.ValidationError("branch-rename", "rename requires '<old> <new>'")
	}
	if err := refs.RenameBranch(repo, names[0], names[1]); err != nil {
		return err
	}
	fmt.Printf("Renamed branch '%s' to '%s'\n", names[0], names[1])
	return nil
}

func init() {
	branchCmd := NewRepoCommand(
		"branch",
		"List, create, remove, rename or describe branches",
		BranchHandler,
	)
	branchCmd.Flags().BoolVarP(&branchList, "list", "l", false, "List branches with their tip commits")
	branchCmd.Flags().StringVarP(&branchCreate, "create", "c", "", "Create a branch from the current tip")
	branchCmd.Flags().StringVarP(&branchRemove, "remove", "r", "", "Remove a branch")
	branchCmd.Flags().StringVarP(&branchRename, "rename", "m", "", "Rename a branch: '<old> <new>'")
	branchCmd.Flags().StringVar(&branchInfo, "info", "", "Show one branch's details")
	rootCmd.AddCommand(branchCmd)
}
