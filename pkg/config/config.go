// Package config loads the core's configuration: match credentials and
// engine tuning knobs, either from a TOML file or, absent one, defaults.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/halvard/corechess/pkg/engine"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// DefaultPath is the config file location searched when the caller does
// not name one explicitly.
const DefaultPath = "./corechess.toml"

// file is the on-disk TOML shape. Every field is optional; an absent
// field keeps its Go zero value, and Load maps that zero value to
// "unset" via lang.Option where the engine itself distinguishes zero from
// unset.
type file struct {
	Credentials credentialsSection `toml:"credentials"`
	Engine      engineSection      `toml:"engine"`
	Log         logSection         `toml:"log"`
}

type credentialsSection struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type engineSection struct {
	MaxDepth               int     `toml:"max_depth"`
	TimeBudgetMultiplier   float64 `toml:"time_budget_multiplier"`
	QuiescenceExtensionCap int     `toml:"quiescence_extension_cap"`
	CacheSize              int64   `toml:"cache_size"`
}

type logSection struct {
	Level string `toml:"level"`
}

// Settings is the fully resolved configuration: credentials plus
// engine.Options ready to pass to engine.New, and the requested log
// level string. LogLevel is only recorded: neither this package nor
// cmd/corechess applies it to the logger.
type Settings struct {
	Username string
	Password string
	Engine   engine.Options
	LogLevel string
}

// Load reads path (DefaultPath if empty) and decodes it into Settings.
// A missing file is not an error: it logs and falls back to the
// zero-valued defaults, overridden field by field by whatever the file
// does supply.
func Load(ctx context.Context, path string) (Settings, error) {
	if path == "" {
		path = DefaultPath
	}

	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("config: load %v: %w", path, err)
		}
		logw.Infof(ctx, "config: %v not found, using defaults", path)
		return defaults(), nil
	}

	s := Settings{
		Username: f.Credentials.Username,
		Password: f.Credentials.Password,
		LogLevel: f.Log.Level,
		Engine: engine.Options{
			TimeBudgetMultiplier: f.Engine.TimeBudgetMultiplier,
			CacheSize:            f.Engine.CacheSize,
		},
	}
	if f.Engine.MaxDepth > 0 {
		s.Engine.MaxDepth = lang.Some(f.Engine.MaxDepth)
	}
	if f.Engine.QuiescenceExtensionCap > 0 {
		s.Engine.QuiescenceExtensionCap = lang.Some(f.Engine.QuiescenceExtensionCap)
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}

	logw.Infof(ctx, "config: loaded %v: %v", path, s.Engine)
	return s, nil
}

func defaults() Settings {
	return Settings{
		LogLevel: "info",
		Engine:   engine.Options{CacheSize: 1 << 16},
	}
}

// String renders Settings without the password, for logging.
func (s Settings) String() string {
	return fmt.Sprintf("{username=%v, logLevel=%v, engine=%v}", s.Username, s.LogLevel, s.Engine)
}
