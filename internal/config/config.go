package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
)

// Scope selects which config file an operation targets.
type Scope int

const (
	ScopeRepository Scope = iota
	ScopeGlobal
)

// Recognized keys. Unknown keys are stored unchanged.
const (
	KeyUserName      = "user.name"
	KeyUserEmail     = "user.email"
	KeyCoreEditor    = "core.editor"
	KeyCorePager     = "core.pager"
	KeyDefaultBranch = "init.defaultBranch"
	KeyGithubToken   = "github.token"
)

// Config is one scope's key/value store, persisted as "key=value" lines.
type Config struct {
	Values map[string]string
	path   string
}

// GlobalPath locates the global config file under HOME.
func GlobalPath() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
	}
	return filepath.Join(home, core.BitDirName, "config"), nil
}

// Load reads the config file for a scope. Missing files yield an empty
// config bound to the right path.
func Load(repo *core.Repository, scope Scope) (*Config, error) {
	var path string
	if scope == ScopeGlobal {
		globalPath, err := GlobalPath()
		if err != nil {
			return nil, err
		}
		path = globalPath
	} else {
		if repo == nil {
			return nil, core.NotInRepositoryError("config")
		}
		path = repo.ConfigPath()
	}

	cfg := &Config{Values: make(map[string]string), path: path}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, core.FSError("config", err, "failed to open config")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		cfg.Values[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, core.FSError("config", err, "failed to read config")
	}
	return cfg, nil
}

// Save writes the config back to its file, keys sorted.
func (c *Config) Save() error {
	if err := core.EnsureDirExists(filepath.Dir(c.path)); err != nil {
		return core.FSError("config", err, "failed to create config directory")
	}

	keys := make([]string, 0, len(c.Values))
	for key := range c.Values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, c.Values[key])
	}
	if err := os.WriteFile(c.path, []byte(b.String()), 0644); err != nil {
		return core.FSError("config", err, "failed to write config")
	}
	return nil
}

// Get resolves a key with repository scope shadowing global.
func Get(repo *core.Repository, key string) (string, error) {
	if repo != nil {
		repoCfg, err := Load(repo, ScopeRepository)
		if err != nil {
			return "", err
		}
		if value, ok := repoCfg.Values[key]; ok {
			return value, nil
		}
	}
	globalCfg, err := Load(repo, ScopeGlobal)
	if err != nil {
		return "", err
	}
	return globalCfg.Values[key], nil
}

// Set stores a key in the chosen scope.
func Set(repo *core.Repository, key, value string, scope Scope) error {
	if strings.TrimSpace(key) == "" {
		return core.ValidationError("config", "config key cannot be empty")
	}
	cfg, err := Load(repo, scope)
	if err != nil {
		return err
	}
	cfg.Values[key] = value
	return cfg.Save()
}

// Unset removes a key from the chosen scope.
func Unset(repo *core.Repository, key string, scope Scope) error {
	cfg, err := Load(repo, scope)
	if err != nil {
		return err
	}
	if _, ok := cfg.Values[key]; !ok {
		return core.NotFoundError("config", "key '%s' is not set", key)
	}
	delete(cfg.Values, key)
	return cfg.Save()
}

// Author resolves the commit author: user.name from config, then $USER,
// then a fixed fallback.
func Author(repo *core.Repository) string {
	if name, err := Get(repo, KeyUserName); err == nil && name != "" {
		return name
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "unknown"
}

// DefaultBranch resolves init.defaultBranch, falling back to the built-in
// default. Used by init before any repository exists.
func DefaultBranch() string {
	globalCfg, err := Load(nil, ScopeGlobal)
	if err != nil {
		return core.DefaultBranch
	}
	if name, ok := globalCfg.Values[KeyDefaultBranch]; ok && name != "" {
		return name
	}
	return core.DefaultBranch
}
