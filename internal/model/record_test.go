package model

import (
	"encoding/json"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestOutputRecordAmountsStayStrings(t *testing.T) {
	rec := OutputRecord{
		ChainID:      42161,
		BlockNumber:  301443280,
		TxHash:       "0xdef",
		LogIndex:     3,
		Timestamp:    1700000000,
		EventKind:    KindFilledRelay,
		InputAmount:  strPtr("123456789012345678901234567890"),
		OutputAmount: strPtr("9007199254740993"),
		DepositID:    strPtr("118227"),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, field := range []string{"input_amount", "output_amount", "deposit_id"} {
		v, ok := decoded[field].(string)
		if !ok {
			t.Fatalf("%s should be a string, got %T", field, decoded[field])
		}
		if v == "" {
			t.Fatalf("%s empty", field)
		}
	}
	if decoded["input_amount"].(string) != "123456789012345678901234567890" {
		t.Fatalf("input_amount lost precision: %v", decoded["input_amount"])
	}

	// Absent decoded fields stay out of the JSON entirely.
	if _, present := decoded["refund_amount"]; present {
		t.Fatalf("refund_amount should be omitted for %s", rec.EventKind)
	}
	if _, present := decoded["amount_to_return"]; present {
		t.Fatalf("amount_to_return should be omitted for %s", rec.EventKind)
	}
}

func TestOutputRecordRowIndex(t *testing.T) {
	var rec OutputRecord
	if rec.RowIndex() != 0 {
		t.Fatalf("nil refund index should map to row 0")
	}

	idx := uint32(4)
	rec.RefundIndex = &idx
	if rec.RowIndex() != 4 {
		t.Fatalf("row index mismatch: %d", rec.RowIndex())
	}
}
