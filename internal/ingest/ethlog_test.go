package ingest

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func TestFromEthLog(t *testing.T) {
	topic0 := common.HexToHash("0x44b559f101f8fbcc8a0ea43fa91a05a729a5ea6e14a7c75aa750374690137208")
	topic1 := common.HexToHash("0x0000000000000000000000000000000000000000000000000000000000000001")
	txHash := common.HexToHash("0x5f1e3c7a5a814b236ca5c6982b4f2d5c8e9e3b27e86b5a1dd9f04f26b2f18c55")
	blockHash := common.HexToHash("0x98b2f6a0c9d7e84c869b2f58a0d1c3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c0")

	ethLog := types.Log{
		Address:     common.HexToAddress("0x6f26BF09B1C792e3228e5467807a900A503c0281"),
		Topics:      []common.Hash{topic0, topic1},
		Data:        []byte{0x01, 0x02},
		BlockNumber: 120000000,
		TxHash:      txHash,
		TxIndex:     5,
		BlockHash:   blockHash,
		Index:       9,
	}

	raw := FromEthLog(10, ethLog, 1700000000)

	if raw.ChainID != 10 || raw.BlockNumber != 120000000 || raw.Timestamp != 1700000000 {
		t.Fatalf("identifier mismatch: %+v", raw)
	}
	if raw.TxHash != txHash.Hex() || raw.BlockHash != blockHash.Hex() {
		t.Fatalf("hash mismatch: %+v", raw)
	}
	if raw.TxIndex != 5 || raw.LogIndex != 9 {
		t.Fatalf("index mismatch: %+v", raw)
	}
	if raw.Address != "0x6f26bf09b1c792e3228e5467807a900a503c0281" {
		t.Fatalf("address not lowercased: %s", raw.Address)
	}
	if len(raw.Topics) != 2 || raw.Topic0() != topic0.Hex() || raw.Topics[1] != topic1.Hex() {
		t.Fatalf("topics mismatch: %+v", raw.Topics)
	}
	if raw.Data != "0x0102" {
		t.Fatalf("data mismatch: %s", raw.Data)
	}
	if raw.Removed {
		t.Fatalf("removed mismatch")
	}
}
