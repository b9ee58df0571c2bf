package objects

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/utils"
)

func newTestRepo(t *testing.T) *core.Repository {
	t.Helper()
	testDir, err := os.MkdirTemp("", "bittrack-objects-test")
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

func TestCreateCommit(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkingFile(t, repo, "a.txt", "hello\n")

	hash, err := CreateCommit(repo, "alice", "first", nil, []string{"a.txt"})
	if err != nil {
		t.Fatalf("CreateCommit() failed: %v", err)
	}

	// Branch tip advanced.
	tip, err := os.ReadFile(repo.BranchRefPath(core.DefaultBranch))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(tip)) != hash {
		t.Errorf("branch tip = %q, want %q", strings.TrimSpace(string(tip)), hash)
	}

	// Record starts with Author and carries the branch.
	record, err := os.ReadFile(repo.CommitPath(hash))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(record), "Author: alice\n") {
		t.Errorf("commit record should start with the author line:\n%s", record)
	}

	commit, err := GetCommit(repo, hash)
	if err != nil {
		t.Fatalf("GetCommit() failed: %v", err)
	}
	if commit.Branch != core.DefaultBranch {
		t.Errorf("commit branch = %q, want %q", commit.Branch, core.DefaultBranch)
	}
	if len(commit.Parents) != 0 {
		t.Errorf("first commit should have no parents, got %v", commit.Parents)
	}

	// Blob stored byte-for-byte and hash recorded.
	blob, err := ReadBlob(repo, core.DefaultBranch, hash, "a.txt")
	if err != nil {
		t.Fatalf("ReadBlob() failed: %v", err)
	}
	if string(blob) != "hello\n" {
		t.Errorf("blob = %q, want %q", blob, "hello\n")
	}
	if commit.Files["a.txt"] != utils.HashBytes([]byte("hello\n")) {
		t.Errorf("recorded hash does not match content")
	}

	// History is newest first.
	entries, err := History(repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Commit != hash {
		t.Errorf("unexpected history: %v", entries)
	}
}

func TestCommitParentChain(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkingFile(t, repo, "a.txt", "one\n")
	first, err := CreateCommit(repo, "alice", "first", nil, []string{"a.txt"})
	if err != nil {
		t.Fatal(err)
	}

	writeWorkingFile(t, repo, "a.txt", "two\n")
	second, err := CreateCommit(repo, "alice", "second", nil, []string{"a.txt"})
	if err != nil {
		t.Fatal(err)
	}

	commit, err := GetCommit(repo, second)
	if err != nil {
		t.Fatal(err)
	}
	if len(commit.Parents) != 1 || commit.Parents[0] != first {
		t.Errorf("second commit parents = %v, want [%s]", commit.Parents, first)
	}

	tip, err := LastCommit(repo, core.DefaultBranch)
	if err != nil {
		t.Fatal(err)
	}
	if tip != second {
		t.Errorf("LastCommit = %q, want %q", tip, second)
	}
}

func TestCreateCommitValidation(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := CreateCommit(repo, "alice", "msg", nil, nil); err == nil {
		t.Errorf("empty index should be rejected")
	}
	if _, err := CreateCommit(repo, "", "msg", nil, []string{"a.txt"}); err == nil {
		t.Errorf("empty author should be rejected")
	}
	if _, err := CreateCommit(repo, "alice", "", nil, []string{"a.txt"}); err == nil {
		t.Errorf("empty message should be rejected")
	}
}

func TestEmptyFileCommit(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkingFile(t, repo, "empty.txt", "")

	hash, err := CreateCommit(repo, "alice", "add empty", nil, []string{"empty.txt"})
	if err != nil {
		t.Fatalf("CreateCommit() failed: %v", err)
	}
	blob, err := ReadBlob(repo, core.DefaultBranch, hash, "empty.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(blob) != 0 {
		t.Errorf("expected a zero-length blob, got %d bytes", len(blob))
	}
}

func TestMergeCommitRecordRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	commit := &Commit{
		Hash:      "deadbeef",
		Author:    "alice",
		Branch:    "master",
		Timestamp: "2026-01-02T10:30:00",
		Parents:   []string{"p1", "p2"},
		Message:   "Merge branch 'feature' into master",
		Files:     map[string]string{"a.txt": "h1", "dir/b.txt": "h2"},
	}
	if err := commit.WriteRecord(repo); err != nil {
		t.Fatalf("WriteRecord() failed: %v", err)
	}

	loaded, err := GetCommit(repo, "deadbeef")
	if err != nil {
		t.Fatalf("GetCommit() failed: %v", err)
	}
	if loaded.Author != commit.Author || loaded.Branch != commit.Branch ||
		loaded.Timestamp != commit.Timestamp || loaded.Message != commit.Message {
		t.Errorf("loaded commit differs: %+v", loaded)
	}
	if len(loaded.Parents) != 2 || loaded.Parents[0] != "p1" || loaded.Parents[1] != "p2" {
		t.Errorf("parents = %v, want [p1 p2]", loaded.Parents)
	}
	if loaded.Files["dir/b.txt"] != "h2" {
		t.Errorf("files = %v", loaded.Files)
	}
}

func TestPrependHistory(t *testing.T) {
	repo := newTestRepo(t)
	if err := PrependHistory(repo, "c1", "master"); err != nil {
		t.Fatal(err)
	}
	if err := PrependHistory(repo, "c2", "feature"); err != nil {
		t.Fatal(err)
	}

	entries, err := History(repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Commit != "c2" || entries[1].Commit != "c1" {
		t.Errorf("history should be newest first: %v", entries)
	}
}

func TestCopySnapshotTree(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkingFile(t, repo, "dir/a.txt", "content\n")
	hash, err := CreateCommit(repo, "alice", "first", nil, []string{"dir/a.txt"})
	if err != nil {
		t.Fatal(err)
	}

	if err := CopySnapshotTree(repo, core.DefaultBranch, "feature", hash); err != nil {
		t.Fatalf("CopySnapshotTree() failed: %v", err)
	}
	blob, err := ReadBlob(repo, "feature", hash, "dir/a.txt")
	if err != nil {
		t.Fatalf("ReadBlob() from copied tree failed: %v", err)
	}
	if string(blob) != "content\n" {
		t.Errorf("copied blob = %q", blob)
	}
}
