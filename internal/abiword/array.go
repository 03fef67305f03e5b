package abiword

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MaxArrayLen caps decoded dynamic lengths. Refund batches hold at most
// a few hundred entries; a bigger length means a corrupt offset or
// length word, and decoding it would only serve an unbounded allocation.
const MaxArrayLen = 1 << 20

// U256ArrayAt decodes the length-prefixed uint256[] whose tail is
// addressed by the offset word at the given head slot.
func U256ArrayAt(buf []byte, slot int) ([]*big.Int, error) {
	words, err := tailWords(buf, slot)
	if err != nil {
		return nil, err
	}
	out := make([]*big.Int, 0, len(words))
	for _, w := range words {
		v, err := U256(w)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// AddressArrayAt decodes the length-prefixed address[] whose tail is
// addressed by the offset word at the given head slot.
func AddressArrayAt(buf []byte, slot int) ([]common.Address, error) {
	words, err := tailWords(buf, slot)
	if err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(words))
	for _, w := range words {
		a, err := AddressOf(w)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// DynamicBytesAt decodes the length-prefixed bytes value addressed by
// the offset word at the given head slot. A zero length yields nil,
// not an error. Content is returned unpadded and uninterpreted.
func DynamicBytesAt(buf []byte, slot int) ([]byte, error) {
	start, n, err := tailHeader(buf, slot)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	content, err := BytesAt(buf, start+WordSize, n)
	if err != nil {
		return nil, fmt.Errorf("%w: bytes content of %d at offset %d", ErrTruncatedArray, n, start)
	}
	return content, nil
}

// tailWords resolves the offset word at slot and slices the tail array
// into its element words.
func tailWords(buf []byte, slot int) ([][]byte, error) {
	start, n, err := tailHeader(buf, slot)
	if err != nil {
		return nil, err
	}
	elems := start + WordSize
	if uint64(len(buf))-elems < n*WordSize {
		return nil, fmt.Errorf("%w: %d elements need %d bytes, %d remain", ErrTruncatedArray, n, n*WordSize, uint64(len(buf))-elems)
	}
	out := make([][]byte, n)
	for i := uint64(0); i < n; i++ {
		out[i] = buf[elems+i*WordSize : elems+(i+1)*WordSize]
	}
	return out, nil
}

// tailHeader reads the head word at slot as a tail byte offset and
// returns that offset together with the declared length found there.
func tailHeader(buf []byte, slot int) (start, length uint64, err error) {
	head, err := WordAt(buf, slot)
	if err != nil {
		return 0, 0, err
	}
	off := new(big.Int).SetBytes(head)
	if !off.IsUint64() {
		return 0, 0, fmt.Errorf("%w: offset %s does not fit the buffer", ErrTruncatedArray, off)
	}
	start = off.Uint64()
	if start > uint64(len(buf)) || uint64(len(buf))-start < WordSize {
		return 0, 0, fmt.Errorf("%w: offset %d leaves no room for a length word in %d bytes", ErrTruncatedArray, start, len(buf))
	}
	lw, err := BytesAt(buf, start, WordSize)
	if err != nil {
		return 0, 0, err
	}
	l := new(big.Int).SetBytes(lw)
	if !l.IsUint64() || l.Uint64() > MaxArrayLen {
		return 0, 0, fmt.Errorf("%w: declared length %s exceeds cap %d", ErrArrayLengthOverflow, l, MaxArrayLen)
	}
	return start, l.Uint64(), nil
}
