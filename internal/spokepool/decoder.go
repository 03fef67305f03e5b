package spokepool

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/0xlong/across-analytics/internal/abiword"
	"github.com/0xlong/across-analytics/internal/model"
)

// indexedTopicCount is the number of indexed parameters every SpokePool
// event carries. topics[0] is the signature hash, topics[1..3] the
// indexed values.
const indexedTopicCount = 3

var (
	// ErrMissingIndexedTopic indicates a log whose topics array is
	// shorter than the event declaration requires.
	ErrMissingIndexedTopic = errors.New("missing indexed topic")

	// ErrRefundArrayLengthMismatch indicates an ExecutedRelayerRefundRoot
	// payload whose refundAmounts and refundAddresses arrays disagree in
	// length.
	ErrRefundArrayLengthMismatch = errors.New("refund array length mismatch")
)

// Decoder turns raw SpokePool logs into typed events. Classification
// uses only topics[0]; payload bytes are never inspected for logs the
// signature table does not recognize.
type Decoder struct {
	table *SignatureTable
}

// NewDecoder returns a decoder backed by the given signature table. A
// nil table selects the canonical SpokePool signatures.
func NewDecoder(table *SignatureTable) *Decoder {
	if table == nil {
		table = DefaultSignatureTable()
	}
	return &Decoder{table: table}
}

// Classify reports the event kind of a raw log from its first topic.
func (d *Decoder) Classify(log model.RawLog) model.EventKind {
	return d.table.Kind(log.Topic0())
}

// Decode classifies the log and, for recognized kinds, decodes the
// indexed topics and data payload into the matching typed event.
// Unknown logs return a DecodedLog with KindUnknown and no error.
func (d *Decoder) Decode(log model.RawLog) (*model.DecodedLog, error) {
	decoded := &model.DecodedLog{
		Kind: d.Classify(log),
		Raw:  log,
	}
	if decoded.Kind == model.KindUnknown {
		return decoded, nil
	}

	topics, err := indexedTopicWords(log)
	if err != nil {
		return nil, err
	}
	data, err := dataBytes(log.Data)
	if err != nil {
		return nil, err
	}

	switch decoded.Kind {
	case model.KindFilledRelay:
		decoded.FilledRelay, err = decodeFilledRelay(topics, data)
	case model.KindFundsDeposited:
		decoded.FundsDeposited, err = decodeFundsDeposited(topics, data)
	case model.KindExecutedRelayerRefundRoot:
		decoded.RelayerRefund, err = decodeRelayerRefund(topics, data)
	default:
		return nil, fmt.Errorf("unhandled event kind %q", decoded.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", decoded.Kind, err)
	}
	return decoded, nil
}

// indexedTopicWords validates the topic count and decodes topics[1..3]
// into 32-byte words.
func indexedTopicWords(log model.RawLog) ([][]byte, error) {
	if len(log.Topics) != indexedTopicCount+1 {
		return nil, fmt.Errorf("%w: expected %d topics, got %d",
			ErrMissingIndexedTopic, indexedTopicCount+1, len(log.Topics))
	}
	words := make([][]byte, 0, indexedTopicCount)
	for i, topic := range log.Topics[1:] {
		word, err := topicWord(topic)
		if err != nil {
			return nil, fmt.Errorf("topic %d: %w", i+1, err)
		}
		words = append(words, word)
	}
	return words, nil
}

// topicWord decodes a single topic into exactly one 32-byte word.
func topicWord(topic string) ([]byte, error) {
	raw, err := hexutil.Decode(topic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", abiword.ErrMalformedWord, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: topic is %d bytes, want 32", abiword.ErrMalformedWord, len(raw))
	}
	return raw, nil
}

// dataBytes decodes the hex data payload. Empty and "0x" payloads
// decode to nil.
func dataBytes(data string) ([]byte, error) {
	if data == "" || data == "0x" || data == "0X" {
		return nil, nil
	}
	raw, err := hexutil.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: data payload: %v", abiword.ErrMalformedWord, err)
	}
	return raw, nil
}
