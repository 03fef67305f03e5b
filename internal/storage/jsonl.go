package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/0xlong/across-analytics/internal/model"
)

// JsonlStorage appends decoded rows to a JSONL file, one record per
// line. Amounts stay base-10 strings through serialization.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutRecordBatch appends a batch of rows as JSON lines.
func (s *JsonlStorage) PutRecordBatch(records []model.OutputRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := openAppend(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		if err := writeLine(writer, record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// JsonlDiagnostics appends decode diagnostics to a separate JSONL
// errors file.
type JsonlDiagnostics struct {
	path string
	mu   sync.Mutex
}

func NewJsonlDiagnostics(path string) *JsonlDiagnostics {
	return &JsonlDiagnostics{path: path}
}

// PutDiagnosticBatch appends a batch of diagnostics as JSON lines.
func (s *JsonlDiagnostics) PutDiagnosticBatch(diags []model.DecodeDiagnostic) error {
	if len(diags) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := openAppend(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, diag := range diags {
		if err := writeLine(writer, diag); err != nil {
			return fmt.Errorf("write diagnostic: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush errors output: %w", err)
	}
	return nil
}

// openAppend opens the file for appending, creating parent directories
// as needed.
func openAppend(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return file, nil
}

func writeLine(writer *bufio.Writer, value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := writer.Write(line); err != nil {
		return err
	}
	return writer.WriteByte('\n')
}
