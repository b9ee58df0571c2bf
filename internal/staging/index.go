package staging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/ignore"
	"github.com/Ahmadalmuhidat/bittrack/utils"
)

// Entry is one staged file: a normalized relative path and the content hash
// recorded at stage time.
type Entry struct {
	Path string
	Hash string
}

// Index is the staging area, persisted as "<path> <hash>" lines.
type Index struct {
	Entries []Entry
	path    string
	temp    string
}

// LoadIndex reads the index file, returning an empty index when missing.
func LoadIndex(repo *core.Repository) (*Index, error) {
	index := &Index{path: repo.IndexPath(), temp: repo.IndexTempPath()}
	file, err := os.Open(index.path)
	if err != nil {
		if os.IsNotExist(err) {
			return index, nil
		}
		return nil, core.FSError("index", err, "failed to open index")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		index.Entries = append(index.Entries, Entry{Path: fields[0], Hash: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, core.FSError("index", err, "failed to read index")
	}
	return index, nil
}

// Write persists the index through a temporary file renamed into place.
func (i *Index) Write() error {
	var b strings.Builder
	for _, entry := range i.Entries {
		fmt.Fprintf(&b, "%s %s\n", entry.Path, entry.Hash)
	}
	if err := os.WriteFile(i.temp, []byte(b.String()), 0644); err != nil {
		return core.FSError("index", err, "failed to write index")
	}
	if err := os.Rename(i.temp, i.path); err != nil {
		os.Remove(i.temp)
		return core.FSError("index", err, "failed to replace index")
	}
	return nil
}

// Clear truncates the index file and drops all entries.
func (i *Index) Clear() error {
	i.Entries = nil
	if err := os.WriteFile(i.path, []byte(""), 0644); err != nil {
		return core.FSError("index", err, "failed to truncate index")
	}
	return nil
}

// IsEmpty reports whether nothing is staged.
func (i *Index) IsEmpty() bool {
	return len(i.Entries) == 0
}

// Paths returns the staged paths in index order.
func (i *Index) Paths() []string {
	paths := make([]string, 0, len(i.Entries))
	for _, entry := range i.Entries {
		paths = append(paths, entry.Path)
	}
	return paths
}

// Lookup returns the recorded hash for a path.
func (i *Index) Lookup(path string) (string, bool) {
	for _, entry := range i.Entries {
		if entry.Path == path {
			return entry.Hash, true
		}
	}
	return "", false
}

func (i *Index) upsert(path, hash string) {
	for j, entry := range i.Entries {
		if entry.Path == path {
			i.Entries[j].Hash = hash
			return
		}
	}
	i.Entries = append(i.Entries, Entry{Path: path, Hash: hash})
}

// Stage adds one path to the index, or every regular file under the root
// when path is ".". Already-staged unchanged files are reported, not
// re-staged.
func Stage(repo *core.Repository, path string) error {
	index, err := LoadIndex(repo)
	if err != nil {
		return err
	}
	matcher, err := ignore.LoadMatcher(repo.Root)
	if err != nil {
		return core.FSError("stage", err, "failed to load ignore patterns")
	}

	changed := false
	if path == "." {
		files, err := core.ListFiles(repo.Root)
		if err != nil {
			return core.FSError("stage", err, "failed to walk working tree")
		}
		for _, relPath := range files {
			if matcher.Ignored(relPath) {
				continue
			}
			staged, err := stageOne(repo, index, relPath)
			if err != nil {
				return err
			}
			changed = changed || staged
		}
	} else {
		relPath := core.NormalizePath(path)
		if err := core.ValidateRelPath(relPath); err != nil {
			return err
		}
		if matcher.Ignored(relPath) {
			return core.NewError(core.CodeValidation, core.SeverityInfo, "stage",
				"path '%s' is ignored", relPath)
		}
		staged, err := stageOne(repo, index, relPath)
		if err != nil {
			return err
		}
		changed = staged
	}

	if !changed {
		return nil
	}
	return index.Write()
}

func stageOne(repo *core.Repository, index *Index, relPath string) (bool, error) {
	absPath := filepath.Join(repo.Root, relPath)
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, core.NotFoundError("stage", "file '%s' does not exist", relPath)
		}
		return false, core.FSError("stage", err, "failed to stat '%s'", relPath)
	}
	if info.IsDir() {
		return false, core.ValidationError("stage", "'%s' is a directory", relPath)
	}

	hash, err := utils.HashFile(absPath)
	if err != nil {
		return false, core.FSError("stage", err, "staging failed for '%s'", relPath)
	}
	if existing, ok := index.Lookup(relPath); ok && existing == hash {
		fmt.Printf("file already staged and unchanged: %s\n", relPath)
		return false, nil
	}
	index.upsert(relPath, hash)
	return true, nil
}

// Unstage removes one path from the index.
func Unstage(repo *core.Repository, path string) error {
	index, err := LoadIndex(repo)
	if err != nil {
		return err
	}
	relPath := core.NormalizePath(path)
	if _, ok := index.Lookup(relPath); !ok {
		return core.NotFoundError("unstage", "'%s' is not staged", relPath)
	}

	kept := index.Entries[:0]
	for _, entry := range index.Entries {
		if entry.Path != relPath {
			kept = append(kept, entry)
		}
	}
	index.Entries = kept
	return index.Write()
}

// StagedFiles returns the staged paths.
func StagedFiles(repo *core.Repository) ([]string, error) {
	index, err := LoadIndex(repo)
	if err != nil {
		return nil, err
	}
	return index.Paths(), nil
}

// UnstagedFiles enumerates working-tree files that are not staged, plus
// staged files whose on-disk content no longer matches the recorded hash.
func UnstagedFiles(repo *core.Repository) ([]string, error) {
	index, err := LoadIndex(repo)
	if err != nil {
		return nil, err
	}
	matcher, err := ignore.LoadMatcher(repo.Root)
	if err != nil {
		return nil, core.FSError("status", err, "failed to load ignore patterns")
	}

	files, err := core.ListFiles(repo.Root)
	if err != nil {
		return nil, core.FSError("status", err, "failed to walk working tree")
	}

	seen := make(map[string]bool)
	var unstaged []string
	for _, relPath := range files {
		if matcher.Ignored(relPath) {
			continue
		}
		seen[relPath] = true
		if _, ok := index.Lookup(relPath); !ok {
			unstaged = append(unstaged, relPath)
		}
	}

	// Staged files modified after staging are unstaged too.
	for _, entry := range index.Entries {
		if !seen[entry.Path] {
			continue
		}
		hash, err := utils.HashFile(filepath.Join(repo.Root, entry.Path))
		if err != nil {
			continue
		}
		if hash != entry.Hash {
			unstaged = append(unstaged, entry.Path)
		}
	}
	sort.Strings(unstaged)
	return unstaged, nil
}

// HasUncommittedChanges reports whether anything is staged or unstaged.
func HasUncommittedChanges(repo *core.Repository) (bool, error) {
	staged, err := StagedFiles(repo)
	if err != nil {
		return false, err
	}
	if len(staged) > 0 {
		return true, nil
	}
	unstaged, err := UnstagedFiles(repo)
	if err != nil {
		return false, err
	}
	return len(unstaged) > 0, nil
}
