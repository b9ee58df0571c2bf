package cmd

import (
	"fmt"
	"time"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/worktree"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var stashMessage string

func stashSave(repo *core.Repository, args []string) error {
	entry, err := worktree.StashSave(repo, stashMessage)
	if err != nil {
		return err
	}
	fmt.Printf("Stashed %d staged file(s): %s\n", len(entry.Files), entry.Message)
	return nil
}

func stashList(repo *core.Repository, args []string) error {
	entries, err := worktree.StashEntries(repo)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		pterm.Info.Println("No stashes found")
		return nil
	}
	items := make([]pterm.BulletListItem, 0, len(entries))
	for _, entry := range entries {
		when := time.Unix(entry.Timestamp, 0).Format("2006-01-02 15:04:05")
		items = append(items, pterm.BulletListItem{
			Level: 0,
			Text:  fmt.Sprintf("%s: %s (%s, %s)", entry.ID, entry.Message, entry.Branch, when),
		})
	}
	return pterm.DefaultBulletList.WithItems(items).Render()
}

func stashShow(repo *core.Repository, args []string) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	entry, err := worktree.GetStashEntry(repo, id)
	if err != nil {
		return err
	}
	fmt.Printf("Stash: %s\n", entry.ID)
	fmt.Printf("Message: %s\n", entry.Message)
	fmt.Printf("Branch: %s\n", entry.Branch)
	fmt.Printf("Commit: %s\n", entry.Commit)
	fmt.Printf("Timestamp: %s\n", time.Unix(entry.Timestamp, 0).Format("2006-01-02 15:04:05"))
	fmt.Printf("Files: %d\n", len(entry.Files))
	for _, path := range entry.Files {
		fmt.Printf("  %s\n", path)
	}
	return nil
}

func stashApply(repo *core.Repository, args []string) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	entry, err := worktree.StashApply(repo, id)
	if err != nil {
		return err
	}
	fmt.Printf("Applied stash: %s (%d files restaged)\n", entry.Message, len(entry.Files))
	return nil
}

func stashPop(repo *core.Repository, args []string) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	entry, err := worktree.StashPop(repo, id)
	if err != nil {
		return err
	}
	fmt.Printf("Popped stash: %s\n", entry.Message)
	return nil
}

func stashDrop(repo *core.Repository, args []string) error {
	if err := worktree.StashDrop(repo, args[0]); err != nil {
		return err
	}
	fmt.Printf("Dropped stash: %s\n", args[0])
	return nil
}

func stashClear(repo *core.Repository, args []string) error {
	if err := worktree.StashClear(repo); err != nil {
		return err
	}
	fmt.Println("Cleared all stashes")
	return nil
}

func init() {
	stashCmd := &cobra.Command{
		Use:   "stash",
		Short: "Save and restore staged changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := core.FindRepository()
			if err != nil {
				return err
			}
			return stashSave(repo, args)
		},
	}
	stashCmd.Flags().StringVarP(&stashMessage, "message", "m", "", "Stash message")

	stashCmd.AddCommand(NewRepoCommand("list", "List stash entries", stashList))
	stashCmd.AddCommand(NewCommand("show [id]", "Show one stash entry", stashShow, 0))
	stashCmd.AddCommand(NewCommand("apply [id]", "Restore a stash, keeping it", stashApply, 0))
	stashCmd.AddCommand(NewCommand("pop [id]", "Restore a stash and drop it", stashPop, 0))
	stashCmd.AddCommand(NewCommand("drop <id>", "Delete a stash entry", stashDrop, 1))
	stashCmd.AddCommand(NewRepoCommand("clear", "Delete all stash entries", stashClear))
	rootCmd.AddCommand(stashCmd)
}
