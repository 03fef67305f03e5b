package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0xlong/across-analytics/internal/config"
	"github.com/0xlong/across-analytics/internal/model"
	"github.com/0xlong/across-analytics/internal/spokepool"
)

func runDecode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDecode(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

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

	outWriter, err := newJSONLWriter(cfg.Out, false)
	if err != nil {
		return err
	}
	defer outWriter.Close()

	errWriter, err := newJSONLWriter(cfg.Errors, false)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	logger.Info("decode start",
		zap.String("in", inName),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Int("workers", cfg.Workers),
	)

	scanner := bufio.NewScanner(input)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var total, decoded, skipped, failed, rows int
	batch := make([]model.RawLog, 0, cfg.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		records, diags := pipeline.DecodeBatch(batch)
		decoded += len(batch) - len(diags)
		for _, diag := range diags {
			if diag.Benign() {
				skipped++
			} else {
				failed++
			}
			writeDiagnostic(errWriter, diag)
		}

		for _, record := range records {
			if err := outWriter.Write(record); err != nil {
				return err
			}
		}
		rows += len(records)

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

		var raw model.RawLog
		if err := json.Unmarshal(line, &raw); err != nil {
			failed++
			logger.Warn("skip unparseable raw log line", zap.Int("line", total), zap.Error(err))
			continue
		}
		if raw.ChainID == 0 {
			raw.ChainID = cfg.ChainID
		}

		batch = append(batch, raw)
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

	logger.Info("decode complete",
		zap.Int("total", total),
		zap.Int("decoded", decoded),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Int("rows", rows),
	)

	return nil
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newJSONLWriter(path string, appendMode bool) (*jsonlWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func writeDiagnostic(writer *jsonlWriter, diag model.DecodeDiagnostic) {
	if writer == nil {
		return
	}
	_ = writer.Write(diag)
}
