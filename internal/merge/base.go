package merge

import (
	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
)

// ancestors walks the parent links of a commit and returns every reachable
// hash, including the commit itself. Commit records persist a genuine parent
// list, so merge commits contribute both sides of their history.
func ancestors(repo *core.Repository, commitHash string) (map[string]bool, error) {
	visited := make(map[string]bool)
	queue := []string{commitHash}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == "" || visited[current] {
			continue
		}
		visited[current] = true

		commit, err := objects.GetCommit(repo, current)
		if err != nil {
			return nil, err
		}
		queue = append(queue, commit.Parents...)
	}
	return visited, nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
func IsAncestor(repo *core.Repository, ancestor, descendant string) (bool, error) {
	if ancestor == "" || descendant == "" {
		return false, nil
	}
	reachable, err := ancestors(repo, descendant)
	if err != nil {
		return false, err
	}
	return reachable[ancestor], nil
}

// FindMergeBase returns the first commit reachable from source (breadth
// first over parents) that is also an ancestor of target, or "" when the
// histories share no commit.
func FindMergeBase(repo *core.Repository, source, target string) (string, error) {
	if source == "" || target == "" {
		return "", nil
	}
	targetAncestors, err := ancestors(repo, target)
	if err != nil {
		return "", err
	}

	visited := make(map[string]bool)
	queue := []string{source}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == "" || visited[current] {
			continue
		}
		visited[current] = true

		if targetAncestors[current] {
			return current, nil
		}
		commit, err := objects.GetCommit(repo, current)
		if err != nil {
			return "", err
		}
		queue = append(queue, commit.Parents...)
	}
	return "", nil
}
