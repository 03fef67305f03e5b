package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DecodeConfig holds configuration for the decode command.
type DecodeConfig struct {
	In        string
	Out       string
	Errors    string
	Chains    string
	Chain     string
	ChainID   uint64
	Workers   int
	BatchSize int
	LogLevel  string
}

// LoadDecode merges config file, environment variables, and flags into DecodeConfig.
func LoadDecode(cfgFile string, flags *pflag.FlagSet) (DecodeConfig, error) {
	v := newViper()

	v.SetDefault("out", "./data/across_rows.jsonl")
	v.SetDefault("errors", "./data/decode_errors.jsonl")
	v.SetDefault("workers", 0)
	v.SetDefault("batch-size", 1024)
	v.SetDefault("log-level", "info")

	if err := bindAndRead(v, cfgFile, flags); err != nil {
		return DecodeConfig{}, err
	}

	cfg := DecodeConfig{
		In:        v.GetString("in"),
		Out:       v.GetString("out"),
		Errors:    v.GetString("errors"),
		Chains:    v.GetString("chains"),
		Chain:     v.GetString("chain"),
		ChainID:   v.GetUint64("chain-id"),
		Workers:   v.GetInt("workers"),
		BatchSize: v.GetInt("batch-size"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}

// newViper returns a viper seeded with the repo-wide env conventions.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ACROSS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// bindAndRead binds command flags and reads the optional config file. A
// missing implicit config file is not an error; an explicit one is.
func bindAndRead(v *viper.Viper, cfgFile string, flags *pflag.FlagSet) error {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}
