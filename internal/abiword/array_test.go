package abiword

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func buildBuf(words ...[]byte) []byte {
	var out []byte
	for _, w := range words {
		out = append(out, w...)
	}
	return out
}

func TestU256ArrayAtDecodesInOrder(t *testing.T) {
	// Head: slot 0 unused scalar, slot 1 offset pointer to the tail.
	buf := buildBuf(
		wordOfUint(t, 1000),
		wordOfUint(t, 64),
		wordOfUint(t, 3),
		wordOfUint(t, 100),
		wordOfUint(t, 200),
		wordOfUint(t, 300),
	)

	got, err := U256ArrayAt(buf, 1)
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("length mismatch: %d", len(got))
	}
	for i, want := range []int64{100, 200, 300} {
		if got[i].Cmp(big.NewInt(want)) != 0 {
			t.Fatalf("element %d: got %s, want %d", i, got[i], want)
		}
	}
}

func TestU256ArrayAtEmpty(t *testing.T) {
	buf := buildBuf(
		wordOfUint(t, 32),
		wordOfUint(t, 0),
	)

	got, err := U256ArrayAt(buf, 0)
	if err != nil {
		t.Fatalf("empty array: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty, got %d elements", len(got))
	}
}

func TestU256ArrayAtTruncated(t *testing.T) {
	// Declared length 5, only 3 element words present.
	buf := buildBuf(
		wordOfUint(t, 1000),
		wordOfUint(t, 64),
		wordOfUint(t, 5),
		wordOfUint(t, 100),
		wordOfUint(t, 200),
		wordOfUint(t, 300),
	)

	if _, err := U256ArrayAt(buf, 1); !errors.Is(err, ErrTruncatedArray) {
		t.Fatalf("want ErrTruncatedArray, got %v", err)
	}
}

func TestU256ArrayAtLengthOverflow(t *testing.T) {
	buf := buildBuf(
		wordOfUint(t, 32),
		wordOfUint(t, MaxArrayLen+1),
	)
	if _, err := U256ArrayAt(buf, 0); !errors.Is(err, ErrArrayLengthOverflow) {
		t.Fatalf("cap overflow: want ErrArrayLengthOverflow, got %v", err)
	}

	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	buf = buildBuf(
		wordOfUint(t, 32),
		wordOfBig(t, huge),
	)
	if _, err := U256ArrayAt(buf, 0); !errors.Is(err, ErrArrayLengthOverflow) {
		t.Fatalf("uint64 overflow: want ErrArrayLengthOverflow, got %v", err)
	}
}

func TestU256ArrayAtBadOffset(t *testing.T) {
	// Offset past the buffer leaves no room for a length word.
	buf := buildBuf(wordOfUint(t, 512))
	if _, err := U256ArrayAt(buf, 0); !errors.Is(err, ErrTruncatedArray) {
		t.Fatalf("far offset: want ErrTruncatedArray, got %v", err)
	}

	// Offset that does not even fit a uint64.
	buf = buildBuf(wordOfBig(t, new(big.Int).Lsh(big.NewInt(1), 80)))
	if _, err := U256ArrayAt(buf, 0); !errors.Is(err, ErrTruncatedArray) {
		t.Fatalf("wide offset: want ErrTruncatedArray, got %v", err)
	}

	// Missing head slot entirely.
	if _, err := U256ArrayAt(buildBuf(wordOfUint(t, 0)), 1); !errors.Is(err, ErrSlotOutOfBounds) {
		t.Fatalf("missing head: want ErrSlotOutOfBounds, got %v", err)
	}
}

func TestAddressArrayAt(t *testing.T) {
	a := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	b := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	buf := buildBuf(
		wordOfUint(t, 32),
		wordOfUint(t, 2),
		common.BytesToHash(a.Bytes()).Bytes(),
		common.BytesToHash(b.Bytes()).Bytes(),
	)

	got, err := AddressArrayAt(buf, 0)
	if err != nil {
		t.Fatalf("address array: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("address array mismatch: %v", got)
	}
}

func TestDynamicBytesAt(t *testing.T) {
	content := []byte("hello")
	padded := make([]byte, WordSize)
	copy(padded, content)

	buf := buildBuf(
		wordOfUint(t, 32),
		wordOfUint(t, uint64(len(content))),
		padded,
	)

	got, err := DynamicBytesAt(buf, 0)
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("bytes mismatch: %q", got)
	}
}

func TestDynamicBytesAtEmpty(t *testing.T) {
	buf := buildBuf(
		wordOfUint(t, 32),
		wordOfUint(t, 0),
	)

	got, err := DynamicBytesAt(buf, 0)
	if err != nil {
		t.Fatalf("empty bytes: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil content, got %q", got)
	}
}

func TestDynamicBytesAtTruncated(t *testing.T) {
	buf := buildBuf(
		wordOfUint(t, 32),
		wordOfUint(t, 80),
		wordOfUint(t, 0),
	)

	if _, err := DynamicBytesAt(buf, 0); !errors.Is(err, ErrTruncatedArray) {
		t.Fatalf("want ErrTruncatedArray, got %v", err)
	}
}
