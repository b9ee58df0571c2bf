package refs

import (
	"os"
	"sort"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
)

// ListBranches enumerates the branch names under refs/heads.
func ListBranches(repo *core.Repository) ([]string, error) {
	entries, err := os.ReadDir(repo.HeadsDir())
	if err != nil {
		return nil, core.FSError("branch-list", err, "failed to read branch directory")
	}
	var branches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		branches = append(branches, entry.Name())
	}
	sort.Strings(branches)
	return branches, nil
}

// BranchExists reports whether a branch ref file is present.
func BranchExists(repo *core.Repository, name string) bool {
	return core.FileExists(repo.BranchRefPath(name))
}

// Tip returns the commit hash a branch points at, or "" before the branch's
// first commit.
func Tip(repo *core.Repository, branch string) (string, error) {
	content, err := os.ReadFile(repo.BranchRefPath(branch))
	if err != nil {
		if os.IsNotExist(err) {
			return "", core.NotFoundError("branch", "branch '%s' not found", branch)
		}
		return "", core.FSError("branch", err, "failed to read branch '%s'", branch)
	}
	return strings.TrimSpace(string(content)), nil
}

// SetTip overwrites a branch's tip commit.
func SetTip(repo *core.Repository, branch, commitHash string) error {
	if err := os.WriteFile(repo.BranchRefPath(branch), []byte(commitHash+"\n"), 0644); err != nil {
		return core.FSError("branch", err, "failed to update branch '%s'", branch)
	}
	return nil
}

// CreateBranch forks the current HEAD branch at its tip: the tip's snapshot
// is copied into the new branch's object subtree, the new ref file is
// written, and a history record links the commit to the new branch name.
func CreateBranch(repo *core.Repository, name string) error {
	if err := core.ValidateBranchName(name); err != nil {
		return err
	}
	if BranchExists(repo, name) {
		return core.AlreadyExistsError("branch-create", "branch '%s' already exists", name)
	}

	currentBranch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	if currentBranch == "" || !BranchExists(repo, currentBranch) {
		return core.StateError("branch-create", "HEAD does not point at an existing branch")
	}
	tip, err := Tip(repo, currentBranch)
	if err != nil {
		return err
	}
	if tip == "" {
		return core.StateError("branch-create", "branch '%s' has no commits to fork from", currentBranch)
	}

	if err := objects.CopySnapshotTree(repo, currentBranch, name, tip); err != nil {
		return err
	}
	if err := SetTip(repo, name, tip); err != nil {
		return err
	}
	return objects.PrependHistory(repo, tip, name)
}

// RemoveBranch deletes a branch's ref file and its object subtree. The
// caller guarantees the branch is not HEAD and the index is empty.
func RemoveBranch(repo *core.Repository, name string) error {
	if !BranchExists(repo, name) {
		return core.NotFoundError("branch-remove", "branch '%s' not found", name)
	}
	if err := os.Remove(repo.BranchRefPath(name)); err != nil {
		return core.FSError("branch-remove", err, "failed to remove branch '%s'", name)
	}
	return objects.RemoveBranchObjects(repo, name)
}

// RenameBranch moves the ref file and the object subtree to a new name and
// repoints HEAD if needed.
func RenameBranch(repo *core.Repository, oldName, newName string) error {
	if err := core.ValidateBranchName(newName); err != nil {
		return err
	}
	if !BranchExists(repo, oldName) {
		return core.NotFoundError("branch-rename", "branch '%s' not found", oldName)
	}
	if BranchExists(repo, newName) {
		return core.AlreadyExistsError("branch-rename", "branch '%s' already exists", newName)
	}

	if err := os.Rename(repo.BranchRefPath(oldName), repo.BranchRefPath(newName)); err != nil {
		return core.FSError("branch-rename", err, "failed to rename branch file")
	}
	oldObjects := repo.SnapshotDir(oldName, "")
	newObjects := repo.SnapshotDir(newName, "")
	if core.FileExists(oldObjects) {
		if err := os.Rename(oldObjects, newObjects); err != nil {
			return core.FSError("branch-rename", err, "failed to rename branch objects")
		}
	}

	currentBranch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	if currentBranch == oldName {
		return repo.SetCurrentBranch(newName)
	}
	return nil
}
