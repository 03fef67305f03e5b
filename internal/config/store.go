package config

import (
	"github.com/spf13/pflag"
)

// StoreConfig holds configuration for the load command.
type StoreConfig struct {
	In        string
	PGDSN     string
	BatchSize int
	LogLevel  string
}

// LoadStore merges config file, environment variables, and flags into StoreConfig.
func LoadStore(cfgFile string, flags *pflag.FlagSet) (StoreConfig, error) {
	v := newViper()

	v.SetDefault("batch-size", 1000)
	v.SetDefault("log-level", "info")

	if err := bindAndRead(v, cfgFile, flags); err != nil {
		return StoreConfig{}, err
	}

	cfg := StoreConfig{
		In:        v.GetString("in"),
		PGDSN:     v.GetString("pg-dsn"),
		BatchSize: v.GetInt("batch-size"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}
