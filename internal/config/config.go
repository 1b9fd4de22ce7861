// Package config loads layerviz configuration with Viper.
//
// Configuration is read from a TOML file (layerviz.toml in the working
// directory or $HOME/.layerviz) and LAYERVIZ_* environment variables.
package config

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/Benny93/layerviz/internal/layers"
	"github.com/Benny93/layerviz/internal/scheme"
	"github.com/Benny93/layerviz/internal/storage"
)

// Config is the layerviz configuration.
type Config struct {
	// Theme is the scheme used when a command does not name one.
	Theme string `mapstructure:"theme"`

	Extensions ExtensionsConfig `mapstructure:"extensions"`
	Store      StoreConfig      `mapstructure:"store"`
	Log        LogConfig        `mapstructure:"log"`

	// Overrides maps theme name -> key -> color.
	Overrides map[string]map[string]string `mapstructure:"overrides"`
}

// ExtensionsConfig declares which optional libraries are present in the
// models being visualized.
type ExtensionsConfig struct {
	Transformers bool `mapstructure:"transformers"`
}

// StoreConfig locates the saved scheme database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Verbosity int  `mapstructure:"verbosity"`
	JSON      bool `mapstructure:"json"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("theme", scheme.PresetLight)
	v.SetDefault("extensions.transformers", false)
	v.SetDefault("store.path", ".layerviz/badger")
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.json", false)
}

// Load reads configuration. An explicit path must exist; without one the
// default search locations are tried and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("LAYERVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("layerviz")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.layerviz")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper loads configuration using a provided Viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, _ := LoadWithViper(v)
	return cfg
}

// Validate checks that every override names a known key.
func (c *Config) Validate() error {
	for theme, overrides := range c.Overrides {
		for name := range overrides {
			if _, err := scheme.ParseKeyFold(name); err != nil {
				return errors.Wrapf(err, "overrides.%s", theme)
			}
		}
	}
	return nil
}

// TableOptions returns the layer table options the configuration enables.
func (c *Config) TableOptions() layers.Options {
	return layers.Options{Transformers: c.Extensions.Transformers}
}

// Table returns the layer table for the configured extensions.
func (c *Config) Table() *layers.Table {
	return layers.DefaultTable(c.TableOptions())
}

// SchemeSource supplies saved schemes. storage.Backend implementations satisfy it.
type SchemeSource interface {
	GetScheme(ctx context.Context, name string) (*storage.SchemeRecord, error)
}

// ResolveScheme returns the scheme called name with the configured overrides
// applied. An empty name selects the configured theme. Names that are not
// presets are looked up in store, which may be nil.
func (c *Config) ResolveScheme(ctx context.Context, store SchemeSource, name string) (scheme.ColorScheme, error) {
	if name == "" {
		name = c.Theme
	}

	base, err := scheme.Preset(name)
	if err != nil {
		if store == nil {
			return scheme.ColorScheme{}, err
		}
		rec, getErr := store.GetScheme(ctx, name)
		if getErr != nil {
			return scheme.ColorScheme{}, getErr
		}
		if rec == nil {
			return scheme.ColorScheme{}, err
		}
		base = rec.Scheme
	}

	return c.applyOverrides(base, name)
}

func (c *Config) applyOverrides(base scheme.ColorScheme, name string) (scheme.ColorScheme, error) {
	for theme, overrides := range c.Overrides {
		if !strings.EqualFold(theme, name) {
			continue
		}
		for keyName, color := range overrides {
			k, err := scheme.ParseKeyFold(keyName)
			if err != nil {
				return scheme.ColorScheme{}, errors.Wrapf(err, "overrides.%s", theme)
			}
			_ = base.Set(k, color)
		}
	}
	return base, nil
}
