// Package config loads filegate.Options from a configuration file (YAML,
// TOML or JSON, decided by extension) with FILEGATE_* environment overrides.
// Every recognized key has an explicit default; unknown values fail at load
// time, not at first use.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/filegate/filegate"
)

// fileConfig enumerates every recognized option.
type fileConfig struct {
	Root              string        `mapstructure:"root"`
	MaxMemoryUsage    int64         `mapstructure:"max_memory_usage"`
	MaxEntries        int           `mapstructure:"max_entries"`
	MaxFileSize       int64         `mapstructure:"max_file_size"`
	TTL               time.Duration `mapstructure:"ttl"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
	AllowedExtensions []string      `mapstructure:"allowed_extensions"`
	ReadConcurrency   int           `mapstructure:"read_concurrency"`
	IntegrityCheck    bool          `mapstructure:"integrity_check"`
	Disabled          bool          `mapstructure:"disabled"`
}

// Load reads path and returns Options ready for filegate.New. Injection
// points (FS, Logger, Hooks, Clock) are left nil for the caller to fill.
func Load(path string) (filegate.Options, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("FILEGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return filegate.Options{}, fmt.Errorf("read config: %w", err)
	}

	var c fileConfig
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&c, decodeHook); err != nil {
		return filegate.Options{}, fmt.Errorf("parse config: %w", err)
	}

	if c.Root == "" {
		return filegate.Options{}, fmt.Errorf("config: root is required")
	}
	if c.MaxMemoryUsage < 0 || c.MaxEntries < 0 || c.MaxFileSize < 0 ||
		c.TTL < 0 || c.SweepInterval < 0 || c.ReadConcurrency < 0 {
		return filegate.Options{}, fmt.Errorf("config: negative limits are not valid")
	}

	return filegate.Options{
		Root:                  c.Root,
		MaxMemoryUsage:        c.MaxMemoryUsage,
		MaxEntries:            c.MaxEntries,
		MaxFileSize:           c.MaxFileSize,
		TTL:                   c.TTL,
		SweepInterval:         c.SweepInterval,
		AllowedExtensions:     c.AllowedExtensions,
		ReadConcurrency:       c.ReadConcurrency,
		DisableIntegrityCheck: !c.IntegrityCheck,
		Disabled:              c.Disabled,
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_memory_usage", 256<<20)
	v.SetDefault("max_entries", 10_000)
	v.SetDefault("max_file_size", 10<<20)
	v.SetDefault("ttl", "30m")
	v.SetDefault("sweep_interval", "5m")
	v.SetDefault("read_concurrency", 10)
	v.SetDefault("integrity_check", true)
	v.SetDefault("disabled", false)
	// allowed_extensions has no default here: nil lets filegate apply
	// DefaultAllowedExtensions.
}
