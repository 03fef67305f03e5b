package spokepool

import (
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/0xlong/across-analytics/internal/abiword"
	"github.com/0xlong/across-analytics/internal/model"
)

func TestPipelineRefundExpansion(t *testing.T) {
	refundAddresses := []common.Address{
		common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc"),
	}
	data := packEventData(t, "ExecutedRelayerRefundRoot",
		big.NewInt(1000),
		[]*big.Int{big.NewInt(100), big.NewInt(200), big.NewInt(300)},
		common.HexToAddress("0x4200000000000000000000000000000000000006"),
		refundAddresses,
		false,
		common.HexToAddress("0x7777777777777777777777777777777777777777"),
	)
	log := buildRawLog(SigExecutedRelayerRefundRoot, []common.Hash{
		topicFromBig(big.NewInt(10)),
		topicFromBig(big.NewInt(512)),
		topicFromBig(big.NewInt(3)),
	}, data)

	pipeline := NewPipeline(nil, 0, zap.NewNop())
	rows, diags := pipeline.DecodeBatch([]model.RawLog{log})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if len(rows) != 3 {
		t.Fatalf("row count: %d", len(rows))
	}

	wantAmounts := []string{"100", "200", "300"}
	for i, row := range rows {
		if row.EventKind != model.KindExecutedRelayerRefundRoot {
			t.Fatalf("row %d kind: %s", i, row.EventKind)
		}
		if row.ChainID != 10 || row.TxHash != "0xdef" || row.LogIndex != 7 {
			t.Fatalf("row %d passthrough mismatch: %+v", i, row)
		}
		if row.RefundChainID == nil || *row.RefundChainID != "10" {
			t.Fatalf("row %d refund chain: %+v", i, row.RefundChainID)
		}
		if row.RootBundleID == nil || *row.RootBundleID != "512" {
			t.Fatalf("row %d root bundle: %+v", i, row.RootBundleID)
		}
		if row.LeafID == nil || *row.LeafID != "3" {
			t.Fatalf("row %d leaf: %+v", i, row.LeafID)
		}
		if row.AmountToReturn == nil || *row.AmountToReturn != "1000" {
			t.Fatalf("row %d amount to return: %+v", i, row.AmountToReturn)
		}
		if row.RefundAmount == nil || *row.RefundAmount != wantAmounts[i] {
			t.Fatalf("row %d refund amount: %+v", i, row.RefundAmount)
		}
		if row.RefundAddress == nil || *row.RefundAddress != strings.ToLower(refundAddresses[i].Hex()) {
			t.Fatalf("row %d refund address: %+v", i, row.RefundAddress)
		}
		if row.RefundIndex == nil || *row.RefundIndex != uint32(i) {
			t.Fatalf("row %d refund index: %+v", i, row.RefundIndex)
		}
	}
}

func TestPipelineRefundEmptyArraysSingleRow(t *testing.T) {
	data := packEventData(t, "ExecutedRelayerRefundRoot",
		big.NewInt(1000),
		[]*big.Int{},
		common.HexToAddress("0x4200000000000000000000000000000000000006"),
		[]common.Address{},
		false,
		common.HexToAddress("0x7777777777777777777777777777777777777777"),
	)
	log := buildRawLog(SigExecutedRelayerRefundRoot, []common.Hash{
		topicFromBig(big.NewInt(10)),
		topicFromBig(big.NewInt(512)),
		topicFromBig(big.NewInt(3)),
	}, data)

	rows, diags := NewPipeline(nil, 1, nil).DecodeBatch([]model.RawLog{log})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if len(rows) != 1 {
		t.Fatalf("row count: %d", len(rows))
	}

	row := rows[0]
	if row.AmountToReturn == nil || *row.AmountToReturn != "1000" {
		t.Fatalf("amount to return: %+v", row.AmountToReturn)
	}
	if row.RefundAddress != nil || row.RefundAmount != nil || row.RefundIndex != nil {
		t.Fatalf("expected null refund columns: %+v", row)
	}
}

func TestPipelineBatchIsolation(t *testing.T) {
	data := packEventData(t, "FilledRelay",
		topicFromAddress(common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")),
		topicFromAddress(common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")),
		big.NewInt(500),
		big.NewInt(499),
		big.NewInt(10),
		uint32(1700001000),
		uint32(0),
		topicFromAddress(common.Address{}),
		topicFromAddress(common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd")),
		topicFromAddress(common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")),
		common.Hash{},
		relayExecutionInfoArg{UpdatedOutputAmount: big.NewInt(0)},
	)
	relayer := common.HexToAddress("0x9999999999999999999999999999999999999999")

	logs := make([]model.RawLog, 0, 100)
	for i := 0; i < 100; i++ {
		log := buildRawLog(SigFilledRelay, []common.Hash{
			topicFromBig(big.NewInt(1)),
			topicFromBig(big.NewInt(int64(i))),
			topicFromAddress(relayer),
		}, data)
		log.LogIndex = uint64(i)
		if i == 50 {
			log.Data = hexutil.Encode(data[:abiword.WordSize])
		}
		logs = append(logs, log)
	}

	rows, diags := NewPipeline(nil, 8, nil).DecodeBatch(logs)
	if len(rows) != 99 {
		t.Fatalf("row count: %d", len(rows))
	}
	if len(diags) != 1 {
		t.Fatalf("diagnostic count: %d", len(diags))
	}

	diag := diags[0]
	if diag.BatchIndex != 50 || diag.LogIndex != 50 {
		t.Fatalf("diagnostic position: %+v", diag)
	}
	if diag.Reason != model.ReasonSlotOutOfBounds {
		t.Fatalf("diagnostic reason: %s", diag.Reason)
	}
	if diag.EventKind != model.KindFilledRelay {
		t.Fatalf("diagnostic kind: %s", diag.EventKind)
	}
	if diag.Benign() {
		t.Fatalf("decode failure reported benign")
	}

	// Row order must follow batch order with only the failed log missing.
	for j, row := range rows {
		want := j
		if j >= 50 {
			want = j + 1
		}
		if row.DepositID == nil || *row.DepositID != strconv.Itoa(want) {
			t.Fatalf("row %d deposit id: %+v, want %d", j, row.DepositID, want)
		}
		if row.LogIndex != uint64(want) {
			t.Fatalf("row %d log index: %d, want %d", j, row.LogIndex, want)
		}
	}
}

func TestPipelineUnknownIsBenign(t *testing.T) {
	fillData := packEventData(t, "FilledRelay",
		topicFromAddress(common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")),
		topicFromAddress(common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")),
		big.NewInt(500),
		big.NewInt(499),
		big.NewInt(10),
		uint32(1700001000),
		uint32(0),
		topicFromAddress(common.Address{}),
		topicFromAddress(common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd")),
		topicFromAddress(common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")),
		common.Hash{},
		relayExecutionInfoArg{UpdatedOutputAmount: big.NewInt(0)},
	)
	depositData := packEventData(t, "FundsDeposited",
		topicFromAddress(common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")),
		topicFromAddress(common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")),
		big.NewInt(1),
		big.NewInt(1),
		uint32(1700000000),
		uint32(1700003600),
		uint32(0),
		topicFromAddress(common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")),
		topicFromAddress(common.Address{}),
		[]byte{},
	)

	relayer := common.HexToAddress("0x9999999999999999999999999999999999999999")
	depositor := common.HexToAddress("0x8888888888888888888888888888888888888888")

	logs := []model.RawLog{
		buildRawLog(SigFilledRelay, []common.Hash{
			topicFromBig(big.NewInt(1)),
			topicFromBig(big.NewInt(5)),
			topicFromAddress(relayer),
		}, fillData),
		buildRawLog("0x784ba8a0bf8b09e4cbba4fbade929b7acbdf38536c4e3b9b2bdbcf4b1c067b1d", nil, []byte{0xff}),
		buildRawLog(SigFundsDeposited, []common.Hash{
			topicFromBig(big.NewInt(42161)),
			topicFromBig(big.NewInt(6)),
			topicFromAddress(depositor),
		}, depositData),
	}

	rows, diags := NewPipeline(nil, 4, nil).DecodeBatch(logs)
	if len(rows) != 2 {
		t.Fatalf("row count: %d", len(rows))
	}
	if rows[0].EventKind != model.KindFilledRelay || rows[1].EventKind != model.KindFundsDeposited {
		t.Fatalf("row order mismatch: %s, %s", rows[0].EventKind, rows[1].EventKind)
	}

	if len(diags) != 1 {
		t.Fatalf("diagnostic count: %d", len(diags))
	}
	diag := diags[0]
	if !diag.Benign() {
		t.Fatalf("unknown signature reported as failure: %+v", diag)
	}
	if diag.BatchIndex != 1 || diag.Reason != model.ReasonUnknownEvent || diag.EventKind != model.KindUnknown {
		t.Fatalf("diagnostic mismatch: %+v", diag)
	}
}

func TestPipelineMismatchSkipsExpansion(t *testing.T) {
	mismatched := packEventData(t, "ExecutedRelayerRefundRoot",
		big.NewInt(1000),
		[]*big.Int{big.NewInt(100), big.NewInt(200), big.NewInt(300)},
		common.HexToAddress("0x4200000000000000000000000000000000000006"),
		[]common.Address{
			common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
			common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		},
		false,
		common.HexToAddress("0x7777777777777777777777777777777777777777"),
	)
	valid := packEventData(t, "ExecutedRelayerRefundRoot",
		big.NewInt(50),
		[]*big.Int{big.NewInt(7), big.NewInt(8)},
		common.HexToAddress("0x4200000000000000000000000000000000000006"),
		[]common.Address{
			common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
			common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		},
		false,
		common.HexToAddress("0x7777777777777777777777777777777777777777"),
	)

	topics := []common.Hash{
		topicFromBig(big.NewInt(10)),
		topicFromBig(big.NewInt(512)),
		topicFromBig(big.NewInt(3)),
	}
	logs := []model.RawLog{
		buildRawLog(SigExecutedRelayerRefundRoot, topics, mismatched),
		buildRawLog(SigExecutedRelayerRefundRoot, topics, valid),
	}

	rows, diags := NewPipeline(nil, 2, nil).DecodeBatch(logs)
	if len(rows) != 2 {
		t.Fatalf("row count: %d", len(rows))
	}
	for i, row := range rows {
		if row.RefundIndex == nil || *row.RefundIndex != uint32(i) {
			t.Fatalf("row %d refund index: %+v", i, row.RefundIndex)
		}
	}
	if *rows[0].RefundAmount != "7" || *rows[1].RefundAmount != "8" {
		t.Fatalf("rows not from the valid log: %+v", rows)
	}

	if len(diags) != 1 {
		t.Fatalf("diagnostic count: %d", len(diags))
	}
	if diags[0].BatchIndex != 0 || diags[0].Reason != model.ReasonRefundArrayLengthMismatch {
		t.Fatalf("diagnostic mismatch: %+v", diags[0])
	}
}

func TestPipelineEmptyBatch(t *testing.T) {
	rows, diags := NewPipeline(nil, 4, nil).DecodeBatch(nil)
	if rows != nil || diags != nil {
		t.Fatalf("expected empty results: %v, %v", rows, diags)
	}
}
