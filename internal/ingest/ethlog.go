package ingest

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/0xlong/across-analytics/internal/model"
)

// FromEthLog converts a go-ethereum log into the decoder's raw form.
// Receipt logs do not carry the block timestamp, so the caller supplies
// it alongside the chain id.
func FromEthLog(chainID uint64, log types.Log, timestamp uint64) model.RawLog {
	topics := make([]string, 0, len(log.Topics))
	for _, topic := range log.Topics {
		topics = append(topics, topic.Hex())
	}

	return model.RawLog{
		ChainID:     chainID,
		BlockNumber: log.BlockNumber,
		BlockHash:   log.BlockHash.Hex(),
		TxHash:      log.TxHash.Hex(),
		TxIndex:     uint64(log.TxIndex),
		LogIndex:    uint64(log.Index),
		Address:     strings.ToLower(log.Address.Hex()),
		Topics:      topics,
		Data:        hexutil.Encode(log.Data),
		Removed:     log.Removed,
		Timestamp:   timestamp,
	}
}
