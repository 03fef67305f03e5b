package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0xlong/across-analytics/internal/config"
	"github.com/0xlong/across-analytics/internal/ingest"
	"github.com/0xlong/across-analytics/internal/spokepool"
	"github.com/0xlong/across-analytics/internal/storage"
)

func runStream(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadStream(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.NATSURL == "" {
		return fmt.Errorf("nats url is required")
	}
	if cfg.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}
	if cfg.Errors == "" {
		return fmt.Errorf("errors path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := resolveSignatures(cfg.Chains, cfg.Chain, cfg.ChainID, logger)
	if err != nil {
		return err
	}

	pipeline := spokepool.NewPipeline(spokepool.NewDecoder(table), cfg.Workers, logger)

	consumer := ingest.NewConsumer(ingest.ConsumerOptions{
		URL:     cfg.NATSURL,
		Subject: cfg.Subject,
		Queue:   cfg.Queue,
		Buffer:  cfg.BatchSize * 4,
	}, logger)
	if err := consumer.Connect(); err != nil {
		return err
	}
	defer consumer.Close()

	sink := storage.NewJsonlStorage(cfg.Out)
	diagSink := storage.NewJsonlDiagnostics(cfg.Errors)

	logger.Info("stream start",
		zap.String("nats_url", cfg.NATSURL),
		zap.String("subject", cfg.Subject),
		zap.String("queue", cfg.Queue),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Duration("flush_interval", cfg.FlushInterval),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
	)

	batches := ingest.Batch(ctx, consumer.Logs(), cfg.BatchSize, cfg.FlushInterval)

	var total, rows, skipped, failed int
	for batch := range batches {
		for i := range batch {
			if batch[i].ChainID == 0 {
				batch[i].ChainID = cfg.ChainID
			}
		}
		total += len(batch)

		records, diags := pipeline.DecodeBatch(batch)
		for _, diag := range diags {
			if diag.Benign() {
				skipped++
			} else {
				failed++
			}
		}

		if err := sink.PutRecordBatch(records); err != nil {
			return fmt.Errorf("write rows: %w", err)
		}
		if err := diagSink.PutDiagnosticBatch(diags); err != nil {
			return fmt.Errorf("write diagnostics: %w", err)
		}
		rows += len(records)
	}

	logger.Info("stream stopped",
		zap.Int("total", total),
		zap.Int("rows", rows),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return nil
}
