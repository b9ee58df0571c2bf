package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
)

// RemoteHandler stores or shows the remote origin URL. Synchronization
// itself is handled by the transport layer, not here.
func RemoteHandler(repo *core.Repository, args []string) error {
	if len(args) == 0 {
		content, err := os.ReadFile(repo.RemotePath())
		if err != nil {
			if os.IsNotExist(err) {
				return core.NotFoundError("remote", "no remote configured")
			}
			return core.FSError("remote", err, "failed to read remote")
		}
		fmt.Println(strings.TrimSpace(string(content)))
		return nil
	}

	url := args[0]
	if err := core.ValidateRemoteURL(url); err != nil {
		return err
	}
	if err := os.WriteFile(repo.RemotePath(), []byte(url+"\n"), 0644); err != nil {
		return core.FSError("remote", err, "failed to write remote")
	}
	fmt.Printf("Set remote origin to %s\n", url)
	return nil
}

func init() {
	rootCmd.AddCommand(NewCommand(
		"remote [url]",
		"Show or set the remote origin URL",
		RemoteHandler,
		0,
	))
}
