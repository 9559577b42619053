// Package config binds cmd/lira's flags, environment, and optional config
// file into a single Config struct via spf13/viper. The core pkg/lira
// package itself takes no implicit configuration (spec.md §6 "Persisted
// state: none") — this package exists purely for the CLI surface.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the CLI's tunables.
type Config struct {
	// LogLevel is the zap verbosity passed to lira.NewLogger (0 = info,
	// >0 = debug-level pivot/dispatch tracing).
	LogLevel int
	// IntegerDefault makes every variable declared without an explicit
	// sort annotation Int rather than Real, matching installations that
	// mostly reason about integer programs (e.g. scenario-driven batch
	// scripts exercising Gomory cuts).
	IntegerDefault bool
	// CompleteTests records the --complete-tests flag. Nothing in cmd/lira
	// or pkg/lira reads it, and pkg/lira has no `valid(φ)` query for it to
	// affect.
	CompleteTests bool
}

// BindFlags registers this package's flags on fs and binds them through
// viper, so that LIRA_LOG_LEVEL etc. environment variables and an optional
// config file both take effect (spf13/viper's standard precedence:
// flag > env > file > default).
func BindFlags(fs *pflag.FlagSet) {
	fs.Int("log-level", 0, "verbosity (0=info, 1+=debug)")
	fs.Bool("integer-default", false, "declare variables Int unless annotated Real")
	fs.Bool("complete-tests", false, "recorded in the config; no command reads it")

	viper.SetEnvPrefix("lira")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(fs)
}

// Load reads the bound values into a Config. cfgFile, if non-empty, is
// read as an additional source, below flags and environment variables and
// above flag defaults.
func Load(cfgFile string) (Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", cfgFile, err)
		}
	}
	return Config{
		LogLevel:       viper.GetInt("log-level"),
		IntegerDefault: viper.GetBool("integer-default"),
		CompleteTests:  viper.GetBool("complete-tests"),
	}, nil
}
