// Package where resolves the directories and files the application keeps on disk.
// Directories are created on first use.
package where

import (
	"os"
	"path/filepath"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the config directory.
const EnvConfigPath = "LISTENTUI_CONFIG_PATH"

func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config holds the config file, the history and the logs.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return mkdir(custom)
	}
	return mkdir(filepath.Join(lo.Must(os.UserConfigDir()), constant.App))
}

// Cache holds data that is safe to delete, like song lookups and the release check.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = "cache"
	}
	return mkdir(filepath.Join(base, constant.App))
}

func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// History is the file of songs heard on the radio.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries is the file of remembered search queries.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp holds the player sockets.
func Temp() string {
	return mkdir(filepath.Join(os.TempDir(), constant.App))
}
