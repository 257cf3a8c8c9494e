package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/patchdeps/patchdeps/internal/errors"
)

// Config holds all analysis settings
type Config struct {
	// Context is the diff context width in lines; lines that close to a
	// change count as part of it. 0 considers only the changed lines.
	Context int `mapstructure:"context"`
	// Output selects the report format: list, matrix, dot or json
	Output string `mapstructure:"output"`
	// Reduce omits transitively implied edges from list/dot output
	Reduce bool `mapstructure:"reduce"`
	// Repo is the repository path (default: current directory)
	Repo string `mapstructure:"repo"`
	// PrefetchWorkers bounds concurrent patch retrieval; 1 disables it
	PrefetchWorkers int `mapstructure:"prefetch_workers"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Context:         2,
		Output:          "matrix",
		Repo:            ".",
		PrefetchWorkers: 4,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from file, environment and defaults.
// Search order: explicit path, then .patchdeps/config.yaml in the working
// directory; PATCHDEPS_* environment variables override either.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env is the normal case
	_ = godotenv.Load()

	v := viper.New()
	def := Default()
	v.SetDefault("context", def.Context)
	v.SetDefault("output", def.Output)
	v.SetDefault("reduce", def.Reduce)
	v.SetDefault("repo", def.Repo)
	v.SetDefault("prefetch_workers", def.PrefetchWorkers)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.json", def.Log.JSON)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".patchdeps")
	}

	v.SetEnvPrefix("PATCHDEPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && path != "" {
			return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityCritical, "failed to read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityCritical, "failed to parse configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings for consistency
func (c *Config) Validate() error {
	if c.Context < 0 {
		return errors.ConfigErrorf("context must be >= 0, got %d", c.Context)
	}
	if c.PrefetchWorkers < 1 {
		return errors.ConfigErrorf("prefetch_workers must be >= 1, got %d", c.PrefetchWorkers)
	}
	switch c.Output {
	case "list", "matrix", "dot", "json":
	default:
		return errors.ConfigErrorf("unknown output format %q (expected list, matrix, dot or json)", c.Output)
	}
	return nil
}
