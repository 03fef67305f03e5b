package model

// Diagnostic reason codes, stable across releases so operators can
// alert on them.
const (
	ReasonMalformedWord             = "malformed_word"
	ReasonSlotOutOfBounds           = "slot_out_of_bounds"
	ReasonTruncatedArray            = "truncated_array"
	ReasonArrayLengthOverflow       = "array_length_overflow"
	ReasonRefundArrayLengthMismatch = "refund_array_length_mismatch"
	ReasonMissingIndexedTopic       = "missing_indexed_topic"
	ReasonUnknownEvent              = "unknown_event"
)

// DecodeDiagnostic records why a single log produced no output rows.
// BatchIndex is the log's position in the submitted batch; the rest
// identifies the log on chain.
type DecodeDiagnostic struct {
	BatchIndex  int       `json:"batch_index"`
	ChainID     uint64    `json:"chain_id"`
	BlockNumber uint64    `json:"block_number"`
	TxHash      string    `json:"tx_hash"`
	LogIndex    uint64    `json:"log_index"`
	Address     string    `json:"address,omitempty"`
	Topic0      string    `json:"topic0"`
	EventKind   EventKind `json:"event_kind"`
	Reason      string    `json:"reason"`
	Error       string    `json:"error,omitempty"`
}

// Benign reports whether the diagnostic is an expected classification
// outcome rather than a decode failure. Unknown signatures are routine:
// unrelated contracts share the same log stream.
func (d DecodeDiagnostic) Benign() bool {
	return d.Reason == ReasonUnknownEvent
}
