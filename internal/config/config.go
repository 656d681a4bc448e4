// Package config resolves runtime settings from defaults, an optional .env
// file, environment variables, an optional config file and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/twd38/alamo-app-sub003/pkg/site"
)

// EnvPrefix namespaces environment variables, e.g. LOTYIELD_WORKERS.
const EnvPrefix = "LOTYIELD"

// Config holds all runtime settings.
type Config struct {
	LogLevel    string                  `mapstructure:"log_level"`
	LogFormat   string                  `mapstructure:"log_format"`
	Workers     int                     `mapstructure:"workers"`
	Catalog     string                  `mapstructure:"catalog"`
	Port        int                     `mapstructure:"port"`
	Assumptions site.FinanceAssumptions `mapstructure:"assumptions"`
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit YAML/TOML/JSON config path. Optional.
	ConfigFile string
	// EnvFile is a dotenv file loaded into the process environment. A
	// missing file is not an error.
	EnvFile string
	// Flags are bound by name; flag names use dashes for underscores.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && opts.EnvFile != "" {
		return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := site.DefaultAssumptions()
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("workers", 0)
	v.SetDefault("catalog", "")
	v.SetDefault("port", 3000)
	v.SetDefault("assumptions.soft_cost_pct", d.SoftCostPct)
	v.SetDefault("assumptions.contingency_pct", d.ContingencyPct)
	v.SetDefault("assumptions.discount_rate", d.DiscountRate)
	v.SetDefault("assumptions.sell_cap_rate", d.SellCapRate)
	v.SetDefault("assumptions.hold_years", d.HoldYears)
	v.SetDefault("assumptions.story_height_ft", d.StoryHeightFt)
}

// bindFlags binds only the flags that exist, so each command can register
// the subset it needs.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{"log_level", "log_format", "workers", "catalog", "port"} {
		f := fs.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", f.Name, err)
		}
	}
	return nil
}

// Validate checks settings that cannot be fixed up with a default.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_format must be json or console, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
