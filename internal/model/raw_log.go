package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RawLog is one chain event log as handed over by the extraction layer.
// Topics and data stay hex-encoded; every other field is an opaque
// passthrough copied into output unchanged.
type RawLog struct {
	ChainID     uint64   `json:"chain_id"`
	BlockNumber uint64   `json:"block_number"`
	BlockHash   string   `json:"block_hash,omitempty"`
	TxHash      string   `json:"tx_hash"`
	TxIndex     uint64   `json:"tx_index"`
	LogIndex    uint64   `json:"log_index"`
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	Removed     bool     `json:"removed,omitempty"`
	Timestamp   uint64   `json:"timestamp"`
}

// Topic0 returns the event signature topic, or "" when absent.
func (rl RawLog) Topic0() string {
	if len(rl.Topics) == 0 {
		return ""
	}
	return rl.Topics[0]
}

// MarshalJSON ensures RawLog is encoded with stable field names.
func (rl RawLog) MarshalJSON() ([]byte, error) {
	type Alias RawLog
	return json.Marshal(Alias(rl))
}

// rawLogWire accepts both this repo's snake_case keys and the camelCase
// hex-quantity shape block-explorer getLogs responses use.
type rawLogWire struct {
	ChainID     *hexQuantity `json:"chain_id"`
	BlockNumber *hexQuantity `json:"block_number"`
	BlockHash   string       `json:"block_hash"`
	TxHash      string       `json:"tx_hash"`
	TxIndex     *hexQuantity `json:"tx_index"`
	LogIndex    *hexQuantity `json:"log_index"`
	Address     string       `json:"address"`
	Topics      []string     `json:"topics"`
	Data        string       `json:"data"`
	Removed     bool         `json:"removed"`
	Timestamp   *hexQuantity `json:"timestamp"`

	AltBlockNumber *hexQuantity `json:"blockNumber"`
	AltTimeStamp   *hexQuantity `json:"timeStamp"`
	AltLogIndex    *hexQuantity `json:"logIndex"`
	AltTxIndex     *hexQuantity `json:"transactionIndex"`
	AltTxHash      string       `json:"transactionHash"`
	AltBlockHash   string       `json:"blockHash"`
}

// UnmarshalJSON decodes a RawLog, tolerating explorer-style field names
// and "0x"-hex integer encodings.
func (rl *RawLog) UnmarshalJSON(data []byte) error {
	var w rawLogWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*rl = RawLog{
		ChainID:     pickQuantity(w.ChainID, nil),
		BlockNumber: pickQuantity(w.BlockNumber, w.AltBlockNumber),
		BlockHash:   pickString(w.BlockHash, w.AltBlockHash),
		TxHash:      pickString(w.TxHash, w.AltTxHash),
		TxIndex:     pickQuantity(w.TxIndex, w.AltTxIndex),
		LogIndex:    pickQuantity(w.LogIndex, w.AltLogIndex),
		Address:     w.Address,
		Topics:      w.Topics,
		Data:        w.Data,
		Removed:     w.Removed,
		Timestamp:   pickQuantity(w.Timestamp, w.AltTimeStamp),
	}
	return nil
}

func pickQuantity(primary, fallback *hexQuantity) uint64 {
	if primary != nil {
		return uint64(*primary)
	}
	if fallback != nil {
		return uint64(*fallback)
	}
	return 0
}

func pickString(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

// hexQuantity unmarshals from a JSON number, a decimal string, or a
// "0x"-hex string.
type hexQuantity uint64

func (h *hexQuantity) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*h = 0
		return nil
	}
	if b[0] != '"' {
		var n uint64
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*h = hexQuantity(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*h = 0
		return nil
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	n, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return fmt.Errorf("parse quantity %q: %w", s, err)
	}
	*h = hexQuantity(n)
	return nil
}
