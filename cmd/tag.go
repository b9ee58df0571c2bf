package cmd

import (
	"fmt"
	"time"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/config"
	"github.com/Ahmadalmuhidat/bittrack/internal/objects"
	"github.com/Ahmadalmuhidat/bittrack/internal/refs"
	"github.com/spf13/cobra"
)

var (
	tagAnnotated bool
	tagMessage   string
	tagDelete    string
)

// TagHandler creates, lists or deletes tags. With no arguments it lists.
func TagHandler(repo *core.Repository, args []string) error {
	if tagDelete != "" {
		if err := refs.DeleteTag(repo, tagDelete); err != nil {
			return err
		}
		fmt.Printf("Deleted tag '%s'\n", tagDelete)
		return nil
	}
	if len(args) == 0 {
		return listTags(repo)
	}

	name := args[0]
	target := ""
	if len(args) > 1 {
		target = args[1]
	}
	if target == "" {
		branch, err := repo.CurrentBranch()
		if err != nil {
			return err
		}
		tip, err := refs.Tip(repo, branch)
		if err != nil {
			return err
		}
		if tip == "" {
			return core.StateError("tag-create", "no commit to tag")
		}
		target = tip
	}

	tag := &refs.Tag{Name: name, Commit: target}
	if tagAnnotated {
		tag.Annotated = true
		tag.Message = tagMessage
		if tag.Message == "" {
			tag.Message = "Tagged commit " + target
		}
		tag.Tagger = config.Author(repo)
		tag.Timestamp = time.Now().Format(objects.TimestampFormat)
	}
	if err := refs.CreateTag(repo, tag); err != nil {
		return err
	}
	kind := "lightweight"
	if tag.Annotated {
		kind = "annotated"
	}
	fmt.Printf("Created %s tag '%s' -> %s\n", kind, name, target)
	return nil
}

func listTags(repo *core.Repository) error {
	names, err := refs.ListTags(repo)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No tags found")
		return nil
	}
	for _, name := range names {
		tag, err := refs.GetTag(repo, name)
		if err != nil {
			return err
		}
		kind := "lightweight"
		if tag.Annotated {
			kind = "annotated"
		}
		fmt.Printf("  %s (%s) -> %s\n", tag.Name, kind, tag.Commit)
	}
	return nil
}

// TagShowHandler prints one tag in full.
func TagShowHandler(repo *core.Repository, args []string) error {
	tag, err := refs.GetTag(repo, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Tag: %s\n", tag.Name)
	fmt.Printf("Commit: %s\n", tag.Commit)
	if tag.Annotated {
		fmt.Printf("Tagger: %s\n", tag.Tagger)
		fmt.Printf("Date: %s\n", tag.Timestamp)
		fmt.Printf("Message: %s\n", tag.Message)
	}
	return nil
}

func init() {
	tagCmd := &cobra.Command{
		Use:   "tag [name] [commit]",
		Short: "Create, list or delete tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := core.FindRepository()
			if err != nil {
				return err
			}
			return TagHandler(repo, args)
		},
	}
	tagCmd.Flags().BoolVarP(&tagAnnotated, "annotate", "a", false, "Create an annotated tag")
	tagCmd.Flags().StringVarP(&tagMessage, "message", "m", "", "Annotated tag message")
	tagCmd.Flags().StringVarP(&tagDelete, "delete", "d", "", "Delete a tag")

	tagCmd.AddCommand(NewCommand("show <name>", "Show a tag's details", TagShowHandler, 1))
	rootCmd.AddCommand(tagCmd)
}
