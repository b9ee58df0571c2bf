package merge

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
	"github.com/Ahmadalmuhidat/bittrack/internal/refs"
	"github.com/Ahmadalmuhidat/bittrack/internal/staging"
)

// Result captures the outcome of a merge operation.
type Result struct {
	FastForward bool
	UpToDate    bool
	Commit      string
	Added       []string
	Modified    []string
	Deleted     []string
	Conflicts   []string
}

// Merge merges sourceBranch into targetBranch. The target must be the
// currently checked-out branch.
func Merge(repo *core.Repository, sourceBranch, targetBranch, author string) (*Result, error) {
	if sourceBranch == targetBranch {
		return nil, core.ValidationError("merge", "cannot merge branch '%s' with itself", sourceBranch)
	}
	if !refs.BranchExists(repo, sourceBranch) {
		return nil, core.NotFoundError("merge", "branch '%s' not found", sourceBranch)
	}
	if !refs.BranchExists(repo, targetBranch) {
		return nil, core.NotFoundError("merge", "branch '%s' not found", targetBranch)
	}

	currentBranch, err := repo.CurrentBranch()
	if err != nil {
		return nil, err
	}
	if currentBranch != targetBranch {
		return nil, core.StateError("merge", "must be on branch '%s' to merge into it", targetBranch)
	}
	if InProgress(repo) {
		return nil, core.StateError("merge", "a merge is already in progress; resolve it or run merge --abort")
	}

	index, err := staging.LoadIndex(repo)
	if err != nil {
		return nil, err
	}
	if !index.IsEmpty() {
		return nil, core.StateError("merge", "staged changes present; commit or stash them before merging")
	}

	sourceTip, err := refs.Tip(repo, sourceBranch)
	if err != nil {
		return nil, err
	}
	targetTip, err := refs.Tip(repo, targetBranch)
	if err != nil {
		return nil, err
	}
	if sourceTip == "" || targetTip == "" {
		return nil, core.StateError("merge", "one or both branches have no commits")
	}

	if sourceTip == targetTip {
		return &Result{UpToDate: true}, nil
	}

	// Fast-forward: the target is an ancestor of the source.
	ff, err := IsAncestor(repo, targetTip, sourceTip)
	if err != nil {
		return nil, err
	}
	if ff {
		if err := fastForward(repo, sourceBranch, targetBranch, sourceTip); err != nil {
			return nil, err
		}
		return &Result{FastForward: true, Commit: sourceTip}, nil
	}

	base, err := FindMergeBase(repo, sourceTip, targetTip)
	if err != nil {
		return nil, err
	}
	if base == "" {
		return nil, core.StateError("merge", "no common ancestor between '%s' and '%s'", sourceBranch, targetBranch)
	}

	result, err := threeWay(repo, base, targetTip, sourceTip)
	if err != nil {
		return nil, err
	}

	if len(result.Conflicts) > 0 {
		state := &State{
			SourceBranch: sourceBranch,
			SourceCommit: sourceTip,
			TargetCommit: targetTip,
			Conflicts:    result.Conflicts,
		}
		if err := SaveState(repo, state); err != nil {
			return nil, err
		}
		return result, nil
	}

	// Nothing stageable: both sides converged, or only deletions were
	// applied. The index cannot express a deletion, so there is no commit
	// to record.
	if len(result.Added) == 0 && len(result.Modified) == 0 {
		result.UpToDate = len(result.Deleted) == 0
		return result, nil
	}

	commitHash, err := commitMerge(repo, sourceBranch, targetBranch, sourceTip, targetTip, author)
	if err != nil {
		return nil, err
	}
	result.Commit = commitHash
	return result, nil
}

// fastForward advances the target tip and lays the source tip's snapshot
// down in the working tree. The snapshot is copied into the target branch's
// subtree so both branches own the blobs they can reach.
func fastForward(repo *core.Repository, sourceBranch, targetBranch, sourceTip string) error {
	if err := objects.CopySnapshotTree(repo, sourceBranch, targetBranch, sourceTip); err != nil {
		return err
	}
	files, err := objects.SnapshotFiles(repo, sourceBranch, sourceTip)
	if err != nil {
		return err
	}
	for _, relPath := range files {
		src := filepath.Join(repo.SnapshotDir(sourceBranch, sourceTip), relPath)
		if err := core.CopyFile(src, filepath.Join(repo.Root, relPath)); err != nil {
			return core.FSError("merge", err, "failed to update %s", relPath)
		}
	}
	if err := refs.SetTip(repo, targetBranch, sourceTip); err != nil {
		return err
	}
	// Record the tip movement so the log shows the commit on the target
	// branch as well.
	return objects.PrependHistory(repo, sourceTip, targetBranch)
}

// commitMerge stages the merge result and produces the two-parent commit.
func commitMerge(repo *core.Repository, sourceBranch, targetBranch, sourceTip, targetTip, author string) (string, error) {
	index, err := staging.LoadIndex(repo)
	if err != nil {
		return "", err
	}
	message := fmt.Sprintf("Merge branch '%s' into %s", sourceBranch, targetBranch)
	parents := []string{targetTip, sourceTip}
	commitHash, err := objects.CreateCommit(repo, author, message, parents, index.Paths())
	if err != nil {
		return "", err
	}
	if err := index.Clear(); err != nil {
		return "", err
	}
	return commitHash, nil
}

// Continue finishes a conflicted merge after the user resolved and kept the
// listed files: they are restaged and the two-parent commit is created.
func Continue(repo *core.Repository, author string) (string, error) {
	state, err := LoadState(repo)
	if err != nil {
		return "", err
	}
	for _, relPath := range state.Conflicts {
		workingFile := filepath.Join(repo.Root, relPath)
		if !core.FileExists(workingFile) {
			continue
		}
		content, err := os.ReadFile(workingFile)
		if err != nil {
			return "", core.FSError("merge", err, "failed to read %s", relPath)
		}
		if bytes.Contains(content, []byte("<<<<<<< ")) {
			return "", core.StateError("merge", "unresolved conflict markers in %s", relPath)
		}
		if err := staging.Stage(repo, relPath); err != nil {
			return "", err
		}
	}

	currentBranch, err := repo.CurrentBranch()
	if err != nil {
		return "", err
	}
	index, err := staging.LoadIndex(repo)
	if err != nil {
		return "", err
	}
	message := fmt.Sprintf("Merge branch '%s' into %s", state.SourceBranch, currentBranch)
	parents := []string{state.TargetCommit, state.SourceCommit}
	commitHash, err := objects.CreateCommit(repo, author, message, parents, index.Paths())
	if err != nil {
		return "", err
	}
	if err := index.Clear(); err != nil {
		return "", err
	}
	return commitHash, ClearState(repo)
}

// Abort drops the merge state. Conflict-marked files are left for the user
// to restore; checkout of the current branch recovers the tip's contents.
func Abort(repo *core.Repository) error {
	if !InProgress(repo) {
		return core.StateError("merge", "no merge in progress")
	}
	return ClearState(repo)
}

// threeWay merges every file that appears in base, target or source.
func threeWay(repo *core.Repository, base, target, source string) (*Result, error) {
	baseDir, err := objects.FindSnapshotDir(repo, base)
	if err != nil {
		return nil, err
	}
	targetDir, err := objects.FindSnapshotDir(repo, target)
	if err != nil {
		return nil, err
	}
	sourceDir, err := objects.FindSnapshotDir(repo, source)
	if err != nil {
		return nil, err
	}

	allFiles := make(map[string]bool)
	for _, dir := range []string{baseDir, targetDir, sourceDir} {
		files, err := core.ListFiles(dir)
		if err != nil {
			return nil, core.FSError("merge", err, "failed to list snapshot")
		}
		for _, relPath := range files {
			allFiles[relPath] = true
		}
	}

	result := &Result{}
	for relPath := range allFiles {
		b, bOK := readIfExists(filepath.Join(baseDir, relPath))
		t, tOK := readIfExists(filepath.Join(targetDir, relPath))
		s, sOK := readIfExists(filepath.Join(sourceDir, relPath))

		outcome, err := mergeFile(repo, relPath, b, bOK, t, tOK, s, sOK)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case outcomeAdded:
			result.Added = append(result.Added, relPath)
		case outcomeModified:
			result.Modified = append(result.Modified, relPath)
		case outcomeDeleted:
			result.Deleted = append(result.Deleted, relPath)
		case outcomeConflict:
			result.Conflicts = append(result.Conflicts, relPath)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Modified)
	sort.Strings(result.Deleted)
	sort.Strings(result.Conflicts)

	// Stage additions and modifications for the merge commit.
	if len(result.Conflicts) == 0 {
		for _, relPath := range append(append([]string{}, result.Added...), result.Modified...) {
			if err := staging.Stage(repo, relPath); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeAdded
	outcomeModified
	outcomeDeleted
	outcomeConflict
)

func readIfExists(path string) ([]byte, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return content, true
}

// mergeFile applies the three-way outcome table for one path and performs
// the corresponding working-tree update.
func mergeFile(repo *core.Repository, relPath string, b []byte, bOK bool, t []byte, tOK bool, s []byte, sOK bool) (outcome, error) {
	workingFile := filepath.Join(repo.Root, relPath)

	writeWorking := func(content []byte) error {
		if err := core.EnsureDirExists(filepath.Dir(workingFile)); err != nil {
			return core.FSError("merge", err, "failed to create directories for %s", relPath)
		}
		if err := os.WriteFile(workingFile, content, 0644); err != nil {
			return core.FSError("merge", err, "failed to write %s", relPath)
		}
		return nil
	}
	removeWorking := func() error {
		if core.FileExists(workingFile) {
			if err := os.Remove(workingFile); err != nil {
				return core.FSError("merge", err, "failed to remove %s", relPath)
			}
		}
		return nil
	}
	conflict := func() (outcome, error) {
		if err := writeWorking(conflictContent(t, s)); err != nil {
			return outcomeConflict, err
		}
		return outcomeConflict, nil
	}

	switch {
	case !bOK && !tOK && sOK:
		// Added on the source side only.
		if err := writeWorking(s); err != nil {
			return outcomeUnchanged, err
		}
		return outcomeAdded, nil

	case !bOK && tOK && !sOK:
		return outcomeUnchanged, nil

	case !bOK && tOK && sOK:
		if bytes.Equal(t, s) || autoMergeable(t, s) {
			return outcomeUnchanged, nil
		}
		if len(t) == 0 && len(s) > 0 {
			if err := writeWorking(s); err != nil {
				return outcomeUnchanged, err
			}
			return outcomeModified, nil
		}
		if len(s) == 0 && len(t) > 0 {
			return outcomeUnchanged, nil
		}
		return conflict()

	case bOK && !tOK && !sOK:
		return outcomeUnchanged, nil

	case bOK && !tOK && sOK:
		if bytes.Equal(s, b) {
			// Deleted on the target side, untouched on the source side.
			return outcomeDeleted, nil
		}
		return conflict()

	case bOK && tOK && !sOK:
		if bytes.Equal(t, b) {
			// Deleted on the source side, untouched on the target side.
			if err := removeWorking(); err != nil {
				return outcomeUnchanged, err
			}
			return outcomeDeleted, nil
		}
		return conflict()

	case bOK && tOK && sOK:
		switch {
		case bytes.Equal(t, b) && bytes.Equal(s, b):
			return outcomeUnchanged, nil
		case bytes.Equal(t, b):
			if err := writeWorking(s); err != nil {
				return outcomeUnchanged, err
			}
			return outcomeModified, nil
		case bytes.Equal(s, b):
			return outcomeUnchanged, nil
		case bytes.Equal(t, s):
			return outcomeUnchanged, nil
		default:
			if autoMergeable(t, s) {
				return outcomeUnchanged, nil
			}
			if len(t) == 0 && len(s) > 0 {
				if err := writeWorking(s); err != nil {
					return outcomeUnchanged, err
				}
				return outcomeModified, nil
			}
			if len(s) == 0 && len(t) > 0 {
				return outcomeUnchanged, nil
			}
			return conflict()
		}
	}
	return outcomeUnchanged, nil
}

// autoMergeable reports whether two contents differ only in leading or
// trailing whitespace on corresponding lines.
func autoMergeable(t, s []byte) bool {
	tLines := splitLines(t)
	sLines := splitLines(s)
	if len(tLines) != len(sLines) {
		return false
	}
	for i := range tLines {
		if strings.TrimSpace(tLines[i]) != strings.TrimSpace(sLines[i]) {
			return false
		}
	}
	return true
}

func splitLines(content []byte) []string {
	text := strings.TrimSuffix(string(content), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// conflictContent builds the marker layout written over a conflicted file.
func conflictContent(target, source []byte) []byte {
	var b bytes.Buffer
	b.WriteString("<<<<<<< HEAD\n")
	b.Write(withTrailingNewline(target))
	b.WriteString("=======\n")
	b.Write(withTrailingNewline(source))
	b.WriteString(">>>>>>> theirs\n")
	return b.Bytes()
}

func withTrailingNewline(content []byte) []byte {
	if len(content) == 0 || content[len(content)-1] == '\n' {
		return content
	}
	return append(append([]byte{}, content...), '\n')
}
