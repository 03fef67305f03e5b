package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0xlong/across-analytics/internal/config"
	"github.com/0xlong/across-analytics/internal/model"
	"github.com/0xlong/across-analytics/internal/storage"
	"github.com/0xlong/across-analytics/internal/storage/postgres"
)

const (
	upsertRetries = 5
	upsertBackoff = 500 * time.Millisecond
)

func runLoad(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadStore(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	input := os.Stdin
	inName := "stdin"
	if cfg.In != "" && cfg.In != "-" {
		file, err := os.Open(cfg.In)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		input = file
		inName = cfg.In
	}

	logger.Info("load start",
		zap.String("in", inName),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Int("batch_size", cfg.BatchSize),
	)

	scanner := bufio.NewScanner(input)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var total, loaded, failed int
	batch := make([]model.OutputRecord, 0, cfg.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		records := batch
		err := storage.WithRetry(ctx, upsertRetries, upsertBackoff, func(ctx context.Context) error {
			return store.UpsertRecords(ctx, records)
		})
		if err != nil {
			return fmt.Errorf("upsert rows: %w", err)
		}
		loaded += len(batch)
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.OutputRecord
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			logger.Warn("skip unparseable row line", zap.Int("line", total), zap.Error(err))
			continue
		}

		batch = append(batch, record)
		if len(batch) >= cfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	logger.Info("load complete",
		zap.Int("total", total),
		zap.Int("loaded", loaded),
		zap.Int("failed", failed),
	)

	return nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
