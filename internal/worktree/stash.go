package worktree

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/refs"
	"github.com/Ahmadalmuhidat/bittrack/internal/staging"
)

// StashEntry is one saved set of staged changes. Entries are listed newest
// first; index 0 is the most recent.
type StashEntry struct {
	ID        string
	Message   string
	Branch    string
	Commit    string
	Timestamp int64
	Files     []string
}

func stashIndexPath(repo *core.Repository) string {
	return filepath.Join(repo.StashDir(), "index")
}

func stashFilesDir(repo *core.Repository, id string) string {
	return filepath.Join(repo.StashDir(), id)
}

// StashEntries reads the stash index, newest first.
func StashEntries(repo *core.Repository) ([]StashEntry, error) {
	file, err := os.Open(stashIndexPath(repo))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, core.FSError("stash", err, "failed to open stash index")
	}
	defer file.Close()

	var entries []StashEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "|", 5)
		if len(fields) != 5 {
			continue
		}
		ts, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, StashEntry{
			ID:        fields[0],
			Message:   fields[1],
			Branch:    fields[2],
			Commit:    fields[3],
			Timestamp: ts,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, core.FSError("stash", err, "failed to read stash index")
	}

	// Newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// GetStashEntry loads one entry and its captured file list. An empty id
// selects the most recent stash.
func GetStashEntry(repo *core.Repository, id string) (*StashEntry, error) {
	entries, err := StashEntries(repo)
	if err != nil {
		return nil, err
	}
	if id == "" {
		if len(entries) == 0 {
			return nil, core.NotFoundError("stash", "no stashes found")
		}
		id = entries[0].ID
	}
	for _, entry := range entries {
		if entry.ID != id {
			continue
		}
		dir := stashFilesDir(repo, id)
		if core.FileExists(dir) {
			files, err := core.ListFiles(dir)
			if err != nil {
				return nil, core.FSError("stash", err, "failed to list stash %s", id)
			}
			entry.Files = files
		}
		return &entry, nil
	}
	return nil, core.NotFoundError("stash", "stash '%s' not found", id)
}

func appendStashEntry(repo *core.Repository, entry *StashEntry) error {
	if err := core.EnsureDirExists(repo.StashDir()); err != nil {
		return core.FSError("stash", err, "failed to create stash directory")
	}
	file, err := os.OpenFile(stashIndexPath(repo), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return core.FSError("stash", err, "failed to open stash index")
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, "%s|%s|%s|%s|%d\n",
		entry.ID, entry.Message, entry.Branch, entry.Commit, entry.Timestamp)
	if err != nil {
		return core.FSError("stash", err, "failed to append stash entry")
	}
	return nil
}

func removeStashEntry(repo *core.Repository, id string) error {
	entries, err := StashEntries(repo)
	if err != nil {
		return err
	}
	var b strings.Builder
	// Rewrite oldest first to preserve file order.
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if entry.ID == id {
			continue
		}
		fmt.Fprintf(&b, "%s|%s|%s|%s|%d\n",
			entry.ID, entry.Message, entry.Branch, entry.Commit, entry.Timestamp)
	}
	if err := os.WriteFile(stashIndexPath(repo), []byte(b.String()), 0644); err != nil {
		return core.FSError("stash", err, "failed to rewrite stash index")
	}
	return nil
}

// StashSave captures the staged files' contents, records an entry, then
// clears the index and deletes the captured files from the working tree.
func StashSave(repo *core.Repository, message string) (*StashEntry, error) {
	index, err := staging.LoadIndex(repo)
	if err != nil {
		return nil, err
	}
	if index.IsEmpty() {
		return nil, core.StateError("stash", "no staged changes to stash")
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		return nil, err
	}
	commit := ""
	if refs.BranchExists(repo, branch) {
		commit, err = refs.Tip(repo, branch)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	entry := &StashEntry{
		ID:        fmt.Sprintf("stash_%d", now.Unix()),
		Message:   message,
		Branch:    branch,
		Commit:    commit,
		Timestamp: now.Unix(),
		Files:     index.Paths(),
	}
	if entry.Message == "" {
		entry.Message = "WIP on " + branch
	}

	dir := stashFilesDir(repo, entry.ID)
	for _, relPath := range entry.Files {
		src := filepath.Join(repo.Root, relPath)
		if !core.FileExists(src) {
			continue
		}
		if err := core.CopyFile(src, filepath.Join(dir, relPath)); err != nil {
			return nil, core.FSError("stash", err, "failed to capture %s", relPath)
		}
	}
	if err := appendStashEntry(repo, entry); err != nil {
		return nil, err
	}

	if err := index.Clear(); err != nil {
		return nil, err
	}
	for _, relPath := range entry.Files {
		workingFile := filepath.Join(repo.Root, relPath)
		if core.FileExists(workingFile) {
			if err := os.Remove(workingFile); err != nil {
				return nil, core.FSError("stash", err, "failed to remove %s", relPath)
			}
		}
	}
	return entry, nil
}

// StashApply copies a stash's captured files back into the working tree and
// restages them. The entry is kept.
func StashApply(repo *core.Repository, id string) (*StashEntry, error) {
	entry, err := GetStashEntry(repo, id)
	if err != nil {
		return nil, err
	}

	dir := stashFilesDir(repo, entry.ID)
	for _, relPath := range entry.Files {
		src := filepath.Join(dir, relPath)
		if err := core.CopyFile(src, filepath.Join(repo.Root, relPath)); err != nil {
			return nil, core.FSError("stash", err, "failed to restore %s", relPath)
		}
	}
	for _, relPath := range entry.Files {
		if err := staging.Stage(repo, relPath); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// StashPop applies a stash and then drops it.
func StashPop(repo *core.Repository, id string) (*StashEntry, error) {
	entry, err := StashApply(repo, id)
	if err != nil {
		return nil, err
	}
	if err := StashDrop(repo, entry.ID); err != nil {
		return nil, err
	}
	return entry, nil
}

// StashDrop removes a stash's capture directory and its index entry.
func StashDrop(repo *core.Repository, id string) error {
	entry, err := GetStashEntry(repo, id)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(stashFilesDir(repo, entry.ID)); err != nil {
		return core.FSError("stash", err, "failed to remove stash %s", entry.ID)
	}
	return removeStashEntry(repo, entry.ID)
}

// StashClear removes every stash.
func StashClear(repo *core.Repository) error {
	entries, err := StashEntries(repo)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(stashFilesDir(repo, entry.ID)); err != nil {
			return core.FSError("stash", err, "failed to remove stash %s", entry.ID)
		}
	}
	if core.FileExists(stashIndexPath(repo)) {
		if err := os.Remove(stashIndexPath(repo)); err != nil {
			return core.FSError("stash", err, "failed to remove stash index")
		}
	}
	return nil
}
