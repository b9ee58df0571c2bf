package refs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
)

// Tag is a named immutable pointer to a commit. Annotated tags carry a
// message, a tagger and a timestamp alongside the target hash.
type Tag struct {
	Name      string
	Commit    string
	Annotated bool
	Message   string
	Tagger    string
	Timestamp string
}

func tagPath(repo *core.Repository, name string) string {
	return filepath.Join(repo.TagsDir(), name)
}

// TagExists reports whether a tag file is present.
func TagExists(repo *core.Repository, name string) bool {
	return core.FileExists(tagPath(repo, name))
}

// ListTags enumerates tag names under refs/tags.
func ListTags(repo *core.Repository) ([]string, error) {
	entries, err := os.ReadDir(repo.TagsDir())
	if err != nil {
		return nil, core.FSError("tag-list", err, "failed to read tags directory")
	}
	var tags []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		tags = append(tags, entry.Name())
	}
	sort.Strings(tags)
	return tags, nil
}

// CreateTag writes a tag file pointing at the given commit. Tag names share
// the branch-name character set and must be unique.
func CreateTag(repo *core.Repository, tag *Tag) error {
	if err := core.ValidateBranchName(tag.Name); err != nil {
		return err
	}
	if TagExists(repo, tag.Name) {
		return core.AlreadyExistsError("tag-create", "tag '%s' already exists", tag.Name)
	}
	if _, err := objects.GetCommit(repo, tag.Commit); err != nil {
		return err
	}

	var content string
	if tag.Annotated {
		content = fmt.Sprintf("object %s\ntype commit\ntag %s\ntagger %s %s\n\n%s\n",
			tag.Commit, tag.Name, tag.Tagger, tag.Timestamp, tag.Message)
	} else {
		content = tag.Commit + "\n"
	}
	if err := os.WriteFile(tagPath(repo, tag.Name), []byte(content), 0644); err != nil {
		return core.FSError("tag-create", err, "failed to write tag '%s'", tag.Name)
	}
	return nil
}

// GetTag loads a tag, detecting the annotated format by its "object " header.
func GetTag(repo *core.Repository, name string) (*Tag, error) {
	data, err := os.ReadFile(tagPath(repo, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NotFoundError("tag", "tag '%s' not found", name)
		}
		return nil, core.FSError("tag", err, "failed to read tag '%s'", name)
	}

	content := string(data)
	tag := &Tag{Name: name}
	if !strings.HasPrefix(content, "object ") {
		tag.Commit = strings.TrimSpace(content)
		return tag, nil
	}

	tag.Annotated = true
	parts := strings.SplitN(content, "\n\n", 2)
	for _, line := range strings.Split(parts[0], "\n") {
		switch {
		case strings.HasPrefix(line, "object "):
			tag.Commit = strings.TrimPrefix(line, "object ")
		case strings.HasPrefix(line, "tagger "):
			fields := strings.SplitN(strings.TrimPrefix(line, "tagger "), " ", 2)
			tag.Tagger = fields[0]
			if len(fields) == 2 {
				tag.Timestamp = fields[1]
			}
		}
	}
	if len(parts) == 2 {
		tag.Message = strings.TrimSpace(parts[1])
	}
	return tag, nil
}

// DeleteTag removes a tag file.
func DeleteTag(repo *core.Repository, name string) error {
	if !TagExists(repo, name) {
		return core.NotFoundError("tag-delete", "tag '%s' not found", name)
	}
	if err := os.Remove(tagPath(repo, name)); err != nil {
		return core.FSError("tag-delete", err, "failed to delete tag '%s'", name)
	}
	return nil
}
