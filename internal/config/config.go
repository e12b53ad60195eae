// Package config gathers settings from command line flags, BITFISH_* environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bitfish/fishmg"
)

const EnvPrefix = "BITFISH"

type Config struct {
	LogLevel    string
	FEN         string
	Workers     int
	CacheSize   int
	HistoryFile string

	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// NewFlagSet returns a flag set carrying the shared flags. Commands add their
// own flags to it before calling LoadFlags.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("log-level", "info", "log level: trace, debug, info, warn, error")
	fs.String("fen", fishmg.FENStartPos, "starting position")
	fs.Int("workers", runtime.NumCPU(), "goroutines used by perft divide")
	fs.Int("cache-size", 0, "perft cache entries per shard, 0 disables the cache")
	fs.String("history-file", "/tmp/bitfish.history", "shell history file")
	fs.String("config", "", "optional config file (yaml, toml or json)")
	return fs
}

// Load parses args against the shared flags.
func Load(args []string) (*Config, error) {
	return LoadFlags(NewFlagSet("bitfish"), args)
}

// LoadFlags parses args with fs, which must have come from NewFlagSet.
func LoadFlags(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	c := &Config{
		LogLevel:    v.GetString("log-level"),
		FEN:         v.GetString("fen"),
		Workers:     v.GetInt("workers"),
		CacheSize:   v.GetInt("cache-size"),
		HistoryFile: v.GetString("history-file"),
		Args:        fs.Args(),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log-level: %w", err)
	}
	if _, err := fishmg.ParseFEN(c.FEN); err != nil {
		return fmt.Errorf("config: fen: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config: cache-size must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// Level returns the parsed log level. It is info when LogLevel is unset.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// SetupLogging points the global logger at a console writer on w.
func (c *Config) SetupLogging(w io.Writer) {
	zerolog.SetGlobalLevel(c.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
}
