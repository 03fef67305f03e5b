package spokepool

import (
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/0xlong/across-analytics/internal/abiword"
	"github.com/0xlong/across-analytics/internal/model"
)

// Pipeline decodes batches of raw logs concurrently. A failing log
// never aborts its batch: each failure becomes one diagnostic and the
// remaining logs still produce rows. Output row order follows batch
// order regardless of worker scheduling.
type Pipeline struct {
	decoder *Decoder
	workers int
	logger  *zap.Logger
}

// NewPipeline builds a pipeline over the given decoder. workers <= 0
// selects GOMAXPROCS, a nil logger disables logging, a nil decoder
// selects the canonical signatures.
func NewPipeline(decoder *Decoder, workers int, logger *zap.Logger) *Pipeline {
	if decoder == nil {
		decoder = NewDecoder(nil)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		decoder: decoder,
		workers: workers,
		logger:  logger,
	}
}

// logResult holds the outcome of one log. Exactly one of rows and diag
// is set for recognized logs; unknown logs set diag only.
type logResult struct {
	rows []model.OutputRecord
	diag *model.DecodeDiagnostic
}

// DecodeBatch decodes every log in the batch and returns the flat rows
// plus one diagnostic per skipped log. Unknown-signature diagnostics
// are benign; the rest are decode failures.
func (p *Pipeline) DecodeBatch(logs []model.RawLog) ([]model.OutputRecord, []model.DecodeDiagnostic) {
	if len(logs) == 0 {
		return nil, nil
	}

	results := make([]logResult, len(logs))
	jobs := make(chan int)

	workers := p.workers
	if workers > len(logs) {
		workers = len(logs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.decodeOne(i, logs[i])
			}
		}()
	}
	for i := range logs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var (
		rows    []model.OutputRecord
		diags   []model.DecodeDiagnostic
		decoded int
		unknown int
		failed  int
	)
	for _, res := range results {
		if res.diag != nil {
			diags = append(diags, *res.diag)
			if res.diag.Benign() {
				unknown++
			} else {
				failed++
			}
			continue
		}
		decoded++
		rows = append(rows, res.rows...)
	}

	p.logger.Info("decoded log batch",
		zap.Int("logs", len(logs)),
		zap.Int("decoded", decoded),
		zap.Int("unknown", unknown),
		zap.Int("failed", failed),
		zap.Int("rows", len(rows)),
	)
	return rows, diags
}

// decodeOne decodes a single log into rows or a diagnostic.
func (p *Pipeline) decodeOne(batchIndex int, log model.RawLog) logResult {
	decoded, err := p.decoder.Decode(log)
	if err != nil {
		diag := p.diagnosticFor(batchIndex, log, err)
		return logResult{diag: &diag}
	}
	if decoded.Kind == model.KindUnknown {
		diag := model.DecodeDiagnostic{
			BatchIndex:  batchIndex,
			ChainID:     log.ChainID,
			BlockNumber: log.BlockNumber,
			TxHash:      log.TxHash,
			LogIndex:    log.LogIndex,
			Address:     log.Address,
			Topic0:      log.Topic0(),
			EventKind:   model.KindUnknown,
			Reason:      model.ReasonUnknownEvent,
		}
		return logResult{diag: &diag}
	}
	return logResult{rows: Flatten(decoded)}
}

// diagnosticFor maps a decode failure onto its stable reason code.
func (p *Pipeline) diagnosticFor(batchIndex int, log model.RawLog, err error) model.DecodeDiagnostic {
	return model.DecodeDiagnostic{
		BatchIndex:  batchIndex,
		ChainID:     log.ChainID,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		LogIndex:    log.LogIndex,
		Address:     log.Address,
		Topic0:      log.Topic0(),
		EventKind:   p.decoder.Classify(log),
		Reason:      reasonOf(err),
		Error:       err.Error(),
	}
}

// reasonOf resolves an error chain to its reason code. Wrapped causes
// are checked most-specific first; anything unrecognized reports as a
// malformed word.
func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrRefundArrayLengthMismatch):
		return model.ReasonRefundArrayLengthMismatch
	case errors.Is(err, ErrMissingIndexedTopic):
		return model.ReasonMissingIndexedTopic
	case errors.Is(err, abiword.ErrArrayLengthOverflow):
		return model.ReasonArrayLengthOverflow
	case errors.Is(err, abiword.ErrTruncatedArray):
		return model.ReasonTruncatedArray
	case errors.Is(err, abiword.ErrSlotOutOfBounds):
		return model.ReasonSlotOutOfBounds
	default:
		return model.ReasonMalformedWord
	}
}
