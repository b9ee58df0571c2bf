package worktree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
	"github.com/Ahmadalmuhidat/bittrack/internal/refs"
	"github.com/Ahmadalmuhidat/bittrack/internal/staging"
)

func newTestRepo(t *testing.T) *core.Repository {
	t.Helper()
	testDir, err := os.MkdirTemp("", "bittrack-worktree-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(testDir) })

	repo := core.NewRepository(testDir)
	if err := core.CreateRepo(repo, ""); err != nil {
		t.Fatal(err)
	}
	return repo
}

func writeWorkingFile(t *testing.T, repo *core.Repository, relPath, content string) {
	t.Helper()
	absPath := filepath.Join(repo.Root, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func commitFile(t *testing.T, repo *core.Repository, relPath, content, message string) string {
	t.Helper()
	writeWorkingFile(t, repo, relPath, content)
	hash, err := objects.CreateCommit(repo, "tester", message, nil, []string{relPath})
	if err != nil {
		t.Fatal(err)
	}
	return hash
}

func readWorkingFile(t *testing.T, repo *core.Repository, relPath string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(repo.Root, relPath))
	if err != nil {
		t.Fatalf("failed to read %s: %v", relPath, err)
	}
	return string(content)
}

func TestSwitchBranchPreservesUntracked(t *testing.T) {
	repo := newTestRepo(t)
	commitFile(t, repo, "a.txt", "hello\n", "first")

	if err := refs.CreateBranch(repo, "feature"); err != nil {
		t.Fatal(err)
	}
	writeWorkingFile(t, repo, "scratch.txt", "x")

	if err := SwitchBranch(repo, "feature"); err != nil {
		t.Fatalf("SwitchBranch() failed: %v", err)
	}

	if got := readWorkingFile(t, repo, "scratch.txt"); got != "x" {
		t.Errorf("untracked file content = %q, want %q", got, "x")
	}
	if got := readWorkingFile(t, repo, "a.txt"); got != "hello\n" {
		t.Errorf("tracked file content = %q, want %q", got, "hello\n")
	}
	branch, err := repo.CurrentBranch()
	if err != nil {
		t.Fatal(err)
	}
	if branch != "feature" {
		t.Errorf("HEAD = %q, want feature", branch)
	}
	if core.FileExists(repo.UntrackedBackupDir()) {
		t.Errorf("untracked backup should be cleaned up")
	}
}

func TestSwitchBranchUpdatesContent(t *testing.T) {
	repo := newTestRepo(t)
	preCommit := "hello\n"
	commitFile(t, repo, "a.txt", preCommit, "first")
	if err := refs.CreateBranch(repo, "feature"); err != nil {
		t.Fatal(err)
	}

	if err := SwitchBranch(repo, "feature"); err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, "a.txt", "feature change\n", "feature work")

	// Round-trip: back to master restores the original bytes, back to
	// feature restores the change.
	if err := SwitchBranch(repo, core.DefaultBranch); err != nil {
		t.Fatal(err)
	}
	if got := readWorkingFile(t, repo, "a.txt"); got != preCommit {
		t.Errorf("a.txt after switching back = %q, want %q", got, preCommit)
	}
	if err := SwitchBranch(repo, "feature"); err != nil {
		t.Fatal(err)
	}
	if got := readWorkingFile(t, repo, "a.txt"); got != "feature change\n" {
		t.Errorf("a.txt on feature = %q", got)
	}
}

func TestSwitchBranchRejections(t *testing.T) {
	repo := newTestRepo(t)
	commitFile(t, repo, "a.txt", "x\n", "first")

	if err := SwitchBranch(repo, core.DefaultBranch); err == nil {
		t.Errorf("switching to the current branch should fail")
	}
	if err := SwitchBranch(repo, "ghost"); err == nil {
		t.Errorf("switching to a missing branch should fail")
	}

	// A forked branch with its ref emptied has no commits to check out.
	if err := refs.CreateBranch(repo, "empty"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(repo.BranchRefPath("empty"), []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SwitchBranch(repo, "empty"); err == nil {
		t.Errorf("switching to a branch with no commits should fail")
	}
}

func TestStashSaveAndPop(t *testing.T) {
	repo := newTestRepo(t)
	commitFile(t, repo, "a.txt", "committed\n", "first")

	writeWorkingFile(t, repo, "wip.txt", "work in progress\n")
	if err := staging.Stage(repo, "wip.txt"); err != nil {
		t.Fatal(err)
	}

	entry, err := StashSave(repo, "half-done idea")
	if err != nil {
		t.Fatalf("StashSave() failed: %v", err)
	}
	if entry.Message != "half-done idea" {
		t.Errorf("message = %q", entry.Message)
	}

	// The staged file left the working tree and the index.
	if core.FileExists(filepath.Join(repo.Root, "wip.txt")) {
		t.Errorf("stashed file should be removed from the working tree")
	}
	index, err := staging.LoadIndex(repo)
	if err != nil {
		t.Fatal(err)
	}
	if !index.IsEmpty() {
		t.Errorf("index should be empty after stashing")
	}

	entries, err := StashEntries(repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Errorf("stash entries = %v", entries)
	}

	popped, err := StashPop(repo, "")
	if err != nil {
		t.Fatalf("StashPop() failed: %v", err)
	}
	if popped.ID != entry.ID {
		t.Errorf("popped wrong stash: %s", popped.ID)
	}
	if got := readWorkingFile(t, repo, "wip.txt"); got != "work in progress\n" {
		t.Errorf("restored content = %q", got)
	}
	index, err = staging.LoadIndex(repo)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index.Lookup("wip.txt"); !ok {
		t.Errorf("popped file should be restaged")
	}

	entries, err = StashEntries(repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("stash should be empty after pop: %v", entries)
	}
}

func TestStashDefaultMessageAndClear(t *testing.T) {
	repo := newTestRepo(t)
	commitFile(t, repo, "a.txt", "x\n", "first")

	writeWorkingFile(t, repo, "one.txt", "1\n")
	if err := staging.Stage(repo, "one.txt"); err != nil {
		t.Fatal(err)
	}
	entry, err := StashSave(repo, "")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Message != "WIP on "+core.DefaultBranch {
		t.Errorf("default message = %q", entry.Message)
	}

	if err := StashClear(repo); err != nil {
		t.Fatalf("StashClear() failed: %v", err)
	}
	entries, err := StashEntries(repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("stash entries should be gone: %v", entries)
	}
}

func TestStashSaveRequiresStagedFiles(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := StashSave(repo, "nothing"); err == nil {
		t.Errorf("stashing with an empty index should fail")
	}
}
