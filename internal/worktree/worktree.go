package worktree

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
	"github.com/Ahmadalmuhidat/bittrack/internal/refs"
)

// artifactPrefixes are working-tree paths never treated as untracked work
// worth preserving across a branch switch.
var artifactPrefixes = []string{
	core.BitDirName,
	".git",
	".github",
	"build",
	".DS_Store",
}

func isArtifact(relPath string) bool {
	for _, prefix := range artifactPrefixes {
		if relPath == prefix || strings.HasPrefix(relPath, prefix+"/") {
			return true
		}
	}
	return false
}

// untrackedFiles lists working-tree files absent from the current tip's
// snapshot, excluding metadata and common build artifacts.
func untrackedFiles(repo *core.Repository, branch, tip string) ([]string, error) {
	files, err := core.ListFiles(repo.Root)
	if err != nil {
		return nil, core.FSError("checkout", err, "failed to walk working tree")
	}
	var untracked []string
	for _, relPath := range files {
		if isArtifact(relPath) {
			continue
		}
		if tip != "" && objects.BlobExists(repo, branch, tip, relPath) {
			continue
		}
		untracked = append(untracked, relPath)
	}
	return untracked, nil
}

// SwitchBranch updates the working tree to the target branch's tip and
// rewrites HEAD. Untracked files survive the switch through a scratch backup
// under the metadata directory. The caller has already confirmed the switch
// when uncommitted changes exist.
func SwitchBranch(repo *core.Repository, target string) error {
	if !refs.BranchExists(repo, target) {
		return core.NotFoundError("checkout", "branch '%s' not found", target)
	}
	currentBranch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	if currentBranch == target {
		return core.StateError("checkout", "already on branch '%s'", target)
	}

	targetTip, err := refs.Tip(repo, target)
	if err != nil {
		return err
	}
	if targetTip == "" {
		return core.StateError("checkout", "no commits found on branch '%s'", target)
	}

	currentTip := ""
	if refs.BranchExists(repo, currentBranch) {
		currentTip, err = refs.Tip(repo, currentBranch)
		if err != nil {
			return err
		}
	}

	untracked, err := untrackedFiles(repo, currentBranch, currentTip)
	if err != nil {
		return err
	}

	backupDir := repo.UntrackedBackupDir()
	if len(untracked) > 0 {
		for _, relPath := range untracked {
			src := filepath.Join(repo.Root, relPath)
			if err := core.CopyFile(src, filepath.Join(backupDir, relPath)); err != nil {
				return core.FSError("checkout", err, "failed to back up untracked file %s", relPath)
			}
		}
	}

	// Drop the current snapshot's files, then lay down the target's.
	if currentTip != "" {
		currentFiles, err := objects.SnapshotFiles(repo, currentBranch, currentTip)
		if err != nil {
			return err
		}
		for _, relPath := range currentFiles {
			workingFile := filepath.Join(repo.Root, relPath)
			if core.FileExists(workingFile) {
				if err := os.Remove(workingFile); err != nil {
					return core.FSError("checkout", err, "failed to remove %s", relPath)
				}
			}
		}
	}

	targetFiles, err := objects.SnapshotFiles(repo, target, targetTip)
	if err != nil {
		return err
	}
	for _, relPath := range targetFiles {
		src := filepath.Join(repo.SnapshotDir(target, targetTip), relPath)
		if err := core.CopyFile(src, filepath.Join(repo.Root, relPath)); err != nil {
			return core.FSError("checkout", err, "failed to restore %s", relPath)
		}
	}

	if len(untracked) > 0 {
		if err := core.CopyDir(backupDir, repo.Root); err != nil {
			return core.FSError("checkout", err, "failed to restore untracked files")
		}
		if err := os.RemoveAll(backupDir); err != nil {
			return core.FSError("checkout", err, "failed to clean untracked backup")
		}
	}

	return repo.SetCurrentBranch(target)
}
