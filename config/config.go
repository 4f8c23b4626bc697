// Package config loads the settings from the config file, the environment and the defaults, in that order.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/filesystem"
	"github.com/listentui/listentui/where"
	"github.com/spf13/viper"
)

const fileType = "toml"

// EnvKeyReplacer maps "player.volume" to "player_volume".
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// File is where the configuration is saved.
func File() string {
	return filepath.Join(where.Config(), constant.App+"."+fileType)
}

func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.App)
	viper.SetConfigType(fileType)
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.SetTypeByDefaultValue(true)

	for _, f := range fields {
		viper.MustBindEnv(f.Key)
		viper.SetDefault(f.Key, f.Value)
	}

	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

// Write saves the current configuration, creating the file when there is none yet.
func Write() error {
	var notFound viper.ConfigFileNotFoundError
	err := viper.WriteConfig()
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}

// Persist sets a key and saves the configuration.
func Persist(name string, value any) error {
	viper.Set(name, value)
	return Write()
}

// Restore restores the defaults of keys, or of every key when none are given, and saves the configuration.
func Restore(keys ...string) error {
	if len(keys) == 0 {
		keys = Keys()
	}
	for _, k := range keys {
		f, err := Lookup(k)
		if err != nil {
			return err
		}
		viper.Set(k, f.Value)
	}
	return Write()
}

// Remove deletes the config file. The settings in memory are kept.
func Remove() error {
	return filesystem.API().Remove(File())
}
