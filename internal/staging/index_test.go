package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/utils"
)

func newTestRepo(t *testing.T) *core.Repository {
	t.Helper()
	testDir, err := os.MkdirTemp("", "bittrack-staging-test")
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

func TestStageAndUnstage(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkingFile(t, repo, "a.txt", "hello\n")

	if err := Stage(repo, "a.txt"); err != nil {
		t.Fatalf("Stage() failed: %v", err)
	}

	index, err := LoadIndex(repo)
	if err != nil {
		t.Fatal(err)
	}
	hash, ok := index.Lookup("a.txt")
	if !ok {
		t.Fatalf("a.txt not staged")
	}
	if hash != utils.HashBytes([]byte("hello\n")) {
		t.Errorf("staged hash does not match file content")
	}

	if err := Unstage(repo, "a.txt"); err != nil {
		t.Fatalf("Unstage() failed: %v", err)
	}
	index, err = LoadIndex(repo)
	if err != nil {
		t.Fatal(err)
	}
	if !index.IsEmpty() {
		t.Errorf("index should be empty after unstage")
	}

	if err := Unstage(repo, "a.txt"); err == nil {
		t.Errorf("unstaging a file that is not staged should fail")
	}
}

func TestStageIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkingFile(t, repo, "a.txt", "hello\n")

	if err := Stage(repo, "a.txt"); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(repo.IndexPath())
	if err != nil {
		t.Fatal(err)
	}

	if err := Stage(repo, "a.txt"); err != nil {
		t.Fatalf("re-staging an unchanged file should not fail: %v", err)
	}
	after, err := os.ReadFile(repo.IndexPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Errorf("re-staging an unchanged file altered the index")
	}
}

func TestStageNormalizesPaths(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkingFile(t, repo, "dir/b.txt", "b\n")

	if err := Stage(repo, "./dir//b.txt"); err != nil {
		t.Fatalf("Stage() failed: %v", err)
	}
	index, err := LoadIndex(repo)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index.Lookup("dir/b.txt"); !ok {
		t.Errorf("path was not normalized: %v", index.Entries)
	}
}

func TestStageRejections(t *testing.T) {
	repo := newTestRepo(t)

	if err := Stage(repo, "missing.txt"); err == nil {
		t.Errorf("staging a missing file should fail")
	}

	if err := os.Mkdir(filepath.Join(repo.Root, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := Stage(repo, "subdir"); err == nil {
		t.Errorf("staging a directory should fail")
	}

	if err := Stage(repo, "../outside.txt"); err == nil {
		t.Errorf("staging a path outside the repository should fail")
	}

	writeWorkingFile(t, repo, "secret.txt", "x\n")
	writeWorkingFile(t, repo, ".bitignore", "secret.txt\n")
	if err := Stage(repo, "secret.txt"); err == nil {
		t.Errorf("staging an ignored file should fail")
	}
}

func TestStageAllHonorsIgnore(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkingFile(t, repo, ".bitignore", "build/\n!build/keep.txt\n")
	writeWorkingFile(t, repo, "build/a.o", "obj")
	writeWorkingFile(t, repo, "build/keep.txt", "keep")
	writeWorkingFile(t, repo, "src/main.go", "package main\n")

	if err := Stage(repo, "."); err != nil {
		t.Fatalf("Stage(.) failed: %v", err)
	}

	index, err := LoadIndex(repo)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index.Lookup("build/a.o"); ok {
		t.Errorf("build/a.o should not be staged")
	}
	if _, ok := index.Lookup("build/keep.txt"); !ok {
		t.Errorf("build/keep.txt should be staged through the negation")
	}
	if _, ok := index.Lookup("src/main.go"); !ok {
		t.Errorf("src/main.go should be staged")
	}
	if _, ok := index.Lookup(".bittrack/index"); ok {
		t.Errorf("metadata must never be staged")
	}
}

func TestUnstagedListing(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkingFile(t, repo, "a.txt", "one\n")
	writeWorkingFile(t, repo, "b.txt", "two\n")

	if err := Stage(repo, "a.txt"); err != nil {
		t.Fatal(err)
	}

	unstaged, err := UnstagedFiles(repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(unstaged) != 1 || unstaged[0] != "b.txt" {
		t.Errorf("unstaged = %v, want [b.txt]", unstaged)
	}

	// Modifying a staged file after staging reports it as unstaged again,
	// without dropping the index entry.
	writeWorkingFile(t, repo, "a.txt", "changed\n")
	unstaged, err = UnstagedFiles(repo)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, path := range unstaged {
		if path == "a.txt" {
			found = true
		}
	}
	if !found {
		t.Errorf("modified staged file should appear unstaged: %v", unstaged)
	}
	index, err := LoadIndex(repo)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index.Lookup("a.txt"); !ok {
		t.Errorf("index entry must survive later modification")
	}
}
