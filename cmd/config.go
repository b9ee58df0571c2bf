package cmd

import (
	"fmt"
	"sort"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/config"
	"github.com/spf13/cobra"
)

var configGlobal bool

func configScope() config.Scope {
	if configGlobal {
		return config.ScopeGlobal
	}
	return config.ScopeRepository
}

// configRepo locates the repository unless the operation is global-only.
func configRepo() (*core.Repository, error) {
	repo, err := core.FindRepository()
	if err != nil {
		if configGlobal {
			return nil, nil
		}
		return nil, err
	}
	return repo, nil
}

func configGet(args []string) error {
	repo, err := configRepo()
	if err != nil {
		return err
	}
	value, err := config.Get(repo, args[0])
	if err != nil {
		return err
	}
	if value == "" {
		return core.NotFoundError("config", "key '%s' is not set", args[0])
	}
	fmt.Println(value)
	return nil
}

func configSet(args []string) error {
	repo, err := configRepo()
	if err != nil {
		return err
	}
	if err := config.Set(repo, args[0], args[1], configScope()); err != nil {
		return err
	}
	scopeName := "repository"
	if configGlobal {
		scopeName = "global"
	}
	fmt.Printf("Set %s config: %s = %s\n", scopeName, args[0], args[1])
	return nil
}

func configUnset(args []string) error {
	repo, err := configRepo()
	if err != nil {
		return err
	}
	return config.Unset(repo, args[0], configScope())
}

func configList(args []string) error {
	repo, err := configRepo()
	if err != nil {
		return err
	}
	cfg, err := config.Load(repo, configScope())
	if err != nil {
		return err
	}
	if len(cfg.Values) == 0 {
		fmt.Println("(no configuration set)")
		return nil
	}
	keys := make([]string, 0, len(cfg.Values))
	for key := range cfg.Values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%s=%s\n", key, cfg.Values[key])
	}
	return nil
}

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write configuration values",
	}
	configCmd.PersistentFlags().BoolVar(&configGlobal, "global", false, "Operate on the global scope")

	configCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return configGet(args) },
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store one configuration value",
		Args:  cobra.ExactArgs(2),
		RunE:  func(cmd *cobra.Command, args []string) error { return configSet(args) },
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "unset <key>",
		Short: "Remove one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return configUnset(args) },
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configuration values in the chosen scope",
		RunE:  func(cmd *cobra.Command, args []string) error { return configList(args) },
	})
	rootCmd.AddCommand(configCmd)
}
