package objects

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/utils"
)

// TimestampFormat is the ISO-8601 local form stored in commit records.
const TimestampFormat = "2006-01-02T15:04:05"

// Commit is one immutable history record.
type Commit struct {
	Hash      string
	Author    string
	Branch    string
	Timestamp string
	Parents   []string
	Message   string
	Files     map[string]string // path -> content hash
}

// WriteRecord serializes the commit record to commits/<hash>.
func (c *Commit) WriteRecord(repo *core.Repository) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Author: %s\n", c.Author)
	fmt.Fprintf(&b, "Branch: %s\n", c.Branch)
	fmt.Fprintf(&b, "Timestamp: %s\n", c.Timestamp)
	if len(c.Parents) > 0 {
		fmt.Fprintf(&b, "Parents: %s\n", strings.Join(c.Parents, " "))
	}
	fmt.Fprintf(&b, "Message: %s\n", c.Message)
	b.WriteString("Files:\n")

	paths := make([]string, 0, len(c.Files))
	for path := range c.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(&b, "%s %s\n", path, c.Files[path])
	}

	if err := os.WriteFile(repo.CommitPath(c.Hash), []byte(b.String()), 0644); err != nil {
		return core.FSError("commit", err, "failed to write commit record %s", c.Hash)
	}
	return nil
}

// GetCommit loads a commit record by hash.
func GetCommit(repo *core.Repository, hash string) (*Commit, error) {
	if hash == "" {
		return nil, core.NotFoundError("get-commit", "empty commit hash")
	}
	file, err := os.Open(repo.CommitPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NotFoundError("get-commit", "commit %s not found", hash)
		}
		return nil, core.FSError("get-commit", err, "failed to open commit record %s", hash)
	}
	defer file.Close()

	commit := &Commit{Hash: hash, Files: make(map[string]string)}
	inFiles := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if inFiles {
			fields := strings.SplitN(line, " ", 2)
			if len(fields) == 2 && fields[0] != "" {
				commit.Files[fields[0]] = strings.TrimSpace(fields[1])
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, "Author: "):
			commit.Author = strings.TrimPrefix(line, "Author: ")
		case strings.HasPrefix(line, "Branch: "):
			commit.Branch = strings.TrimPrefix(line, "Branch: ")
		case strings.HasPrefix(line, "Timestamp: "):
			commit.Timestamp = strings.TrimPrefix(line, "Timestamp: ")
		case strings.HasPrefix(line, "Parents: "):
			commit.Parents = strings.Fields(strings.TrimPrefix(line, "Parents: "))
		case strings.HasPrefix(line, "Message: "):
			commit.Message = strings.TrimPrefix(line, "Message: ")
		case line == "Files:":
			inFiles = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, core.FSError("get-commit", err, "failed to read commit record %s", hash)
	}
	return commit, nil
}

// HistoryEntry is one "<commit> <branch>" line from the shared history log.
type HistoryEntry struct {
	Commit string
	Branch string
}

// PrependHistory inserts a new record at the top of the history log, keeping
// it newest-first.
func PrependHistory(repo *core.Repository, commitHash, branch string) error {
	existing, err := os.ReadFile(repo.HistoryPath())
	if err != nil && !os.IsNotExist(err) {
		return core.FSError("history", err, "failed to read history")
	}
	content := fmt.Sprintf("%s %s\n%s", commitHash, branch, string(existing))
	if err := os.WriteFile(repo.HistoryPath(), []byte(content), 0644); err != nil {
		return core.FSError("history", err, "failed to write history")
	}
	return nil
}

// History returns every log entry, newest first.
func History(repo *core.Repository) ([]HistoryEntry, error) {
	file, err := os.Open(repo.HistoryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, core.FSError("history", err, "failed to open history")
	}
	defer file.Close()

	var entries []HistoryEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		entries = append(entries, HistoryEntry{Commit: fields[0], Branch: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, core.FSError("history", err, "failed to read history")
	}
	return entries, nil
}

// LastCommit returns the newest history entry for the given branch, or ""
// when the branch has no commits.
func LastCommit(repo *core.Repository, branch string) (string, error) {
	entries, err := History(repo)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.Branch == branch {
			return entry.Commit, nil
		}
	}
	return "", nil
}

// CreateCommit runs the commit transaction: snapshot every staged file,
// write the commit record, prepend the history entry and advance the branch
// tip. The caller clears the index only after a nil return.
func CreateCommit(repo *core.Repository, author, message string, parents, stagedPaths []string) (string, error) {
	if strings.TrimSpace(author) == "" {
		return "", core.ValidationError("commit", "author cannot be empty")
	}
	if err := core.ValidateCommitMessage(message); err != nil {
		return "", err
	}
	if len(stagedPaths) == 0 {
		return "", core.StateError("commit", "no files staged")
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		return "", err
	}
	if branch == "" {
		return "", core.CorruptedError("commit", "HEAD does not name a branch")
	}

	// A regular commit's parent is the current tip; the first commit on a
	// fresh repository has none. Merge commits pass both parents explicitly.
	if parents == nil {
		tipContent, err := os.ReadFile(repo.BranchRefPath(branch))
		if err != nil && !os.IsNotExist(err) {
			return "", core.FSError("commit", err, "failed to read branch tip")
		}
		if tip := strings.TrimSpace(string(tipContent)); tip != "" {
			parents = []string{tip}
		}
	}

	timestamp := time.Now().Format(TimestampFormat)
	commitHash := utils.CommitHash(author, message, timestamp)

	files := make(map[string]string, len(stagedPaths))
	for _, relPath := range stagedPaths {
		if err := StoreSnapshot(repo, branch, commitHash, relPath); err != nil {
			return "", err
		}
		contentHash, err := utils.HashFile(filepath.Join(repo.Root, relPath))
		if err != nil {
			return "", core.FSError("commit", err, "failed to hash %s", relPath)
		}
		files[relPath] = contentHash
	}

	commit := &Commit{
		Hash:      commitHash,
		Author:    author,
		Branch:    branch,
		Timestamp: timestamp,
		Parents:   parents,
		Message:   message,
		Files:     files,
	}
	if err := commit.WriteRecord(repo); err != nil {
		return "", err
	}
	if err := PrependHistory(repo, commitHash, branch); err != nil {
		return "", err
	}
	if err := os.WriteFile(repo.BranchRefPath(branch), []byte(commitHash+"\n"), 0644); err != nil {
		return "", core.FSError("commit", err, "failed to update branch tip")
	}
	return commitHash, nil
}
