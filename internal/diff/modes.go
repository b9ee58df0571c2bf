package diff

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
	"github.com/Ahmadalmuhidat/bittrack/internal/refs"
	"github.com/Ahmadalmuhidat/bittrack/internal/staging"
)

// FileDiff is one file's diff within a multi-file report.
type FileDiff struct {
	Path   string
	Result *Result
}

func headTip(repo *core.Repository) (string, string, error) {
	branch, err := repo.CurrentBranch()
	if err != nil {
		return "", "", err
	}
	tip, err := refs.Tip(repo, branch)
	if err != nil {
		return "", "", err
	}
	return branch, tip, nil
}

func diffAgainstSnapshot(repo *core.Repository, snapshotDir, relPath string) (*Result, error) {
	workingFile := filepath.Join(repo.Root, relPath)
	workingContent, err := os.ReadFile(workingFile)
	if err != nil {
		if os.IsNotExist(err) {
			workingContent = nil
		} else {
			return nil, core.FSError("diff", err, "failed to read %s", relPath)
		}
	}

	var snapshotContent []byte
	if snapshotDir != "" {
		blobPath := filepath.Join(snapshotDir, relPath)
		if content, err := os.ReadFile(blobPath); err == nil {
			snapshotContent = content
		}
	}
	return CompareContents(relPath, relPath, snapshotContent, workingContent), nil
}

// Staged diffs every staged file against the last commit's blob, or against
// nothing when the file is new.
func Staged(repo *core.Repository) ([]FileDiff, error) {
	stagedPaths, err := staging.StagedFiles(repo)
	if err != nil {
		return nil, err
	}
	branch, tip, err := headTip(repo)
	if err != nil {
		return nil, err
	}

	snapshotDir := ""
	if tip != "" {
		snapshotDir = repo.SnapshotDir(branch, tip)
	}

	var diffs []FileDiff
	for _, relPath := range stagedPaths {
		result, err := diffAgainstSnapshot(repo, snapshotDir, relPath)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, FileDiff{Path: relPath, Result: result})
	}
	return diffs, nil
}

// Unstaged diffs every unstaged file against its last committed blob. The
// index records hashes, not contents, so the committed blob is the nearest
// comparable source; files without one report as pure additions.
func Unstaged(repo *core.Repository) ([]FileDiff, error) {
	unstagedPaths, err := staging.UnstagedFiles(repo)
	if err != nil {
		return nil, err
	}
	branch, tip, err := headTip(repo)
	if err != nil {
		return nil, err
	}

	snapshotDir := ""
	if tip != "" {
		snapshotDir = repo.SnapshotDir(branch, tip)
	}

	var diffs []FileDiff
	for _, relPath := range unstagedPaths {
		result, err := diffAgainstSnapshot(repo, snapshotDir, relPath)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, FileDiff{Path: relPath, Result: result})
	}
	return diffs, nil
}

// Working diffs the whole working tree against the last commit: every
// staged, unstaged and committed path participates.
func Working(repo *core.Repository) ([]FileDiff, error) {
	branch, tip, err := headTip(repo)
	if err != nil {
		return nil, err
	}
	if tip == "" {
		return nil, core.StateError("diff", "no commits found")
	}
	snapshotDir := repo.SnapshotDir(branch, tip)

	paths := make(map[string]bool)
	stagedPaths, err := staging.StagedFiles(repo)
	if err != nil {
		return nil, err
	}
	unstagedPaths, err := staging.UnstagedFiles(repo)
	if err != nil {
		return nil, err
	}
	committedPaths, err := objects.SnapshotFiles(repo, branch, tip)
	if err != nil {
		return nil, err
	}
	for _, list := range [][]string{stagedPaths, unstagedPaths, committedPaths} {
		for _, relPath := range list {
			paths[relPath] = true
		}
	}

	var diffs []FileDiff
	for _, relPath := range sortedKeys(paths) {
		result, err := diffAgainstSnapshot(repo, snapshotDir, relPath)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, FileDiff{Path: relPath, Result: result})
	}
	return diffs, nil
}

// Commits diffs two arbitrary commits file by file.
func Commits(repo *core.Repository, fromCommit, toCommit string) ([]FileDiff, error) {
	fromDir, err := objects.FindSnapshotDir(repo, fromCommit)
	if err != nil {
		return nil, err
	}
	toDir, err := objects.FindSnapshotDir(repo, toCommit)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]bool)
	for _, dir := range []string{fromDir, toDir} {
		files, err := core.ListFiles(dir)
		if err != nil {
			return nil, core.FSError("diff", err, "failed to list snapshot")
		}
		for _, relPath := range files {
			paths[relPath] = true
		}
	}

	var diffs []FileDiff
	for _, relPath := range sortedKeys(paths) {
		fromContent, _ := os.ReadFile(filepath.Join(fromDir, relPath))
		toContent, _ := os.ReadFile(filepath.Join(toDir, relPath))
		diffs = append(diffs, FileDiff{
			Path:   relPath,
			Result: CompareContents(relPath, relPath, fromContent, toContent),
		})
	}
	return diffs, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
