// Package config loads settings from a config file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names, e.g. TREESYNC_ENDPOINT.
const EnvPrefix = "TREESYNC"

// Settings is the resolved configuration.
type Settings struct {
	Root          string
	ScanPaths     []string
	Endpoint      string
	Token         string
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	LogLevel      string
	Locale        string
	StateFile     string
	ExpandDepth   int
}

// New returns a viper instance with defaults applied and, if present, the
// config file read. An explicit cfgFile must exist.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName("config")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// DefaultDir is $HOME/.config/treesync.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "treesync"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", 200*time.Millisecond)
	v.SetDefault("log.level", "warn")
	v.SetDefault("locale", "und")
	v.SetDefault("expand_depth", 1)
	if dir, err := DefaultDir(); err == nil {
		v.SetDefault("state_file", filepath.Join(dir, "state.yaml"))
	}
}

// Resolve reads Settings out of v.
func Resolve(v *viper.Viper) (Settings, error) {
	s := Settings{
		Root:          v.GetString("root"),
		ScanPaths:     v.GetStringSlice("scan_paths"),
		Endpoint:      v.GetString("endpoint"),
		Token:         v.GetString("token"),
		Timeout:       v.GetDuration("timeout"),
		RetryAttempts: v.GetUint("retry.attempts"),
		RetryDelay:    v.GetDuration("retry.delay"),
		LogLevel:      v.GetString("log.level"),
		Locale:        v.GetString("locale"),
		StateFile:     v.GetString("state_file"),
		ExpandDepth:   v.GetInt("expand_depth"),
	}
	if s.ExpandDepth < 0 {
		return Settings{}, fmt.Errorf("expand_depth must not be negative")
	}
	return s, nil
}
