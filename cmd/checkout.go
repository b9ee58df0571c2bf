package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/staging"
	"github.com/Ahmadalmuhidat/bittrack/internal/worktree"
	"golang.org/x/term"
)

var checkoutYes bool

// CheckoutHandler switches to another branch. With staged or unstaged
// changes present the switch must be confirmed, interactively or via --yes.
func CheckoutHandler(repo *core.Repository, args []string) error {
	target := args[0]

	changed, err := staging.HasUncommittedChanges(repo)
	if err != nil {
		return err
	}
	if changed && !checkoutYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return core.StateError("checkout",
				"uncommitted changes present; pass --yes to switch anyway")
		}
		fmt.Println("Warning: you have uncommitted changes. Switching branches may overwrite them.")
		fmt.Print("Do you want to continue? (y/N): ")
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Println("Branch switch cancelled.")
			return nil
		}
	}

	if err := worktree.SwitchBranch(repo, target); err != nil {
		return err
	}
	fmt.Printf("Switched to branch '%s'\n", target)
	return nil
}

func init() {
	checkoutCmd := NewCommand(
		"checkout <branch>",
		"Switch to another branch",
		CheckoutHandler,
		1,
	)
	checkoutCmd.Flags().BoolVarP(&checkoutYes, "yes", "y", false, "Confirm switching with uncommitted changes")
	rootCmd.AddCommand(checkoutCmd)
}
