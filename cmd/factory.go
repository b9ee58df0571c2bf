package cmd

import (
	"fmt"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/spf13/cobra"
)

// HandlerFunc is the signature for command handlers that operate on an
// existing repository.
type HandlerFunc func(repo *core.Repository, args []string) error

// NewCommand creates a cobra.Command with standard repository handling: the
// repository is located first and passed to the handler.
func NewCommand(use, short string, handler HandlerFunc, requiredArgs int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < requiredArgs {
				return fmt.Errorf("requires at least %d argument(s)", requiredArgs)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := core.FindRepository()
			if err != nil {
				return err
			}
			return handler(repo, args)
		},
	}
}

// NewRepoCommand creates a command that requires a repository and no
// arguments.
func NewRepoCommand(use, short string, run HandlerFunc) *cobra.Command {
	return NewCommand(use, short, run, 0)
}

// NewBareCommand creates a command that does not require an existing
// repository, such as 'init'.
func NewBareCommand(use, short string, run func(args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}
}
