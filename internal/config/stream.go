package config

import (
	"time"

	"github.com/spf13/pflag"
)

// StreamConfig holds configuration for the stream command.
type StreamConfig struct {
	NATSURL       string
	Subject       string
	Queue         string
	BatchSize     int
	FlushInterval time.Duration
	Chains        string
	Chain         string
	ChainID       uint64
	Workers       int
	Out           string
	Errors        string
	LogLevel      string
}

// LoadStream merges config file, environment variables, and flags into StreamConfig.
func LoadStream(cfgFile string, flags *pflag.FlagSet) (StreamConfig, error) {
	v := newViper()

	v.SetDefault("nats-url", "nats://127.0.0.1:4222")
	v.SetDefault("subject", "across.rawlogs")
	v.SetDefault("queue", "across-decode")
	v.SetDefault("batch-size", 256)
	v.SetDefault("flush-interval", 2*time.Second)
	v.SetDefault("workers", 0)
	v.SetDefault("out", "./data/across_rows.jsonl")
	v.SetDefault("errors", "./data/decode_errors.jsonl")
	v.SetDefault("log-level", "info")

	if err := bindAndRead(v, cfgFile, flags); err != nil {
		return StreamConfig{}, err
	}

	cfg := StreamConfig{
		NATSURL:       v.GetString("nats-url"),
		Subject:       v.GetString("subject"),
		Queue:         v.GetString("queue"),
		BatchSize:     v.GetInt("batch-size"),
		FlushInterval: v.GetDuration("flush-interval"),
		Chains:        v.GetString("chains"),
		Chain:         v.GetString("chain"),
		ChainID:       v.GetUint64("chain-id"),
		Workers:       v.GetInt("workers"),
		Out:           v.GetString("out"),
		Errors:        v.GetString("errors"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}
