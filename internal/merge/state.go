package merge

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
)

// State records an in-progress merge in MERGE_HEAD. Its presence forbids new
// merges and silent commits until the merge is aborted or continued.
type State struct {
	SourceBranch string
	SourceCommit string
	TargetCommit string
	Conflicts    []string
}

// InProgress reports whether MERGE_HEAD exists.
func InProgress(repo *core.Repository) bool {
	return core.FileExists(repo.MergeHeadPath())
}

// SaveState writes MERGE_HEAD.
func SaveState(repo *core.Repository, state *State) error {
	var b strings.Builder
	fmt.Fprintf(&b, "source=%s\n", state.SourceBranch)
	fmt.Fprintf(&b, "sourcecommit=%s\n", state.SourceCommit)
	fmt.Fprintf(&b, "targetcommit=%s\n", state.TargetCommit)
	fmt.Fprintf(&b, "conflicts=%t\n", len(state.Conflicts) > 0)
	for _, path := range state.Conflicts {
		fmt.Fprintf(&b, "conflict=%s\n", path)
	}
	if err := os.WriteFile(repo.MergeHeadPath(), []byte(b.String()), 0644); err != nil {
		return core.FSError("merge", err, "failed to write MERGE_HEAD")
	}
	return nil
}

// LoadState reads MERGE_HEAD.
func LoadState(repo *core.Repository) (*State, error) {
	file, err := os.Open(repo.MergeHeadPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.StateError("merge", "no merge in progress")
		}
		return nil, core.FSError("merge", err, "failed to read MERGE_HEAD")
	}
	defer file.Close()

	state := &State{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "source="):
			state.SourceBranch = strings.TrimPrefix(line, "source=")
		case strings.HasPrefix(line, "sourcecommit="):
			state.SourceCommit = strings.TrimPrefix(line, "sourcecommit=")
		case strings.HasPrefix(line, "targetcommit="):
			state.TargetCommit = strings.TrimPrefix(line, "targetcommit=")
		case strings.HasPrefix(line, "conflict="):
			state.Conflicts = append(state.Conflicts, strings.TrimPrefix(line, "conflict="))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, core.FSError("merge", err, "failed to read MERGE_HEAD")
	}
	return state, nil
}

// ClearState removes MERGE_HEAD.
func ClearState(repo *core.Repository) error {
	if err := os.Remove(repo.MergeHeadPath()); err != nil && !os.IsNotExist(err) {
		return core.FSError("merge", err, "failed to remove MERGE_HEAD")
	}
	return nil
}
