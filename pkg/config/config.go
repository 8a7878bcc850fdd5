package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds the runtime settings shared by every command.
type Config struct {
	RulesPath  string
	OutputPath string
	Source     string
	Strict     bool
}

// Build assembles the configuration from, in increasing precedence: the
// ventu.yaml config file, VENTU_* environment variables (a local .env is
// loaded first when present), and command-line flags.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("VENTU")
	v.AutomaticEnv()
	v.SetDefault("source", "generic")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("ventu")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config file is fine, an explicit one is not.
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		RulesPath:  v.GetString("rules"),
		OutputPath: v.GetString("output"),
		Source:     v.GetString("source"),
		Strict:     v.GetBool("strict"),
	}
	if cfg.Source == "" {
		cfg.Source = "generic"
	}
	return cfg, nil
}
