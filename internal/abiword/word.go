// Package abiword reads 32-byte ABI words and dynamic tail sections out
// of raw event data buffers. Layouts are resolved by the caller; this
// package only does bounds-checked slot arithmetic and primitive decoding.
package abiword

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// WordSize is the width of one ABI slot in bytes.
const WordSize = 32

var (
	// ErrMalformedWord reports a slice of the wrong length where a
	// 32-byte word was required, or data hex that cannot be decoded.
	ErrMalformedWord = errors.New("malformed word")
	// ErrSlotOutOfBounds reports a fixed slot read past the buffer end.
	ErrSlotOutOfBounds = errors.New("slot out of bounds")
	// ErrTruncatedArray reports dynamic content running past the buffer.
	ErrTruncatedArray = errors.New("truncated array")
	// ErrArrayLengthOverflow reports an implausibly large declared length.
	ErrArrayLengthOverflow = errors.New("array length overflow")
)

// WordAt returns the 32-byte word at the given slot index of the data
// section.
func WordAt(buf []byte, slot int) ([]byte, error) {
	if slot < 0 {
		return nil, fmt.Errorf("%w: negative slot %d", ErrSlotOutOfBounds, slot)
	}
	start := slot * WordSize
	if start+WordSize > len(buf) {
		return nil, fmt.Errorf("%w: slot %d needs bytes [%d:%d), buffer holds %d", ErrSlotOutOfBounds, slot, start, start+WordSize, len(buf))
	}
	return buf[start : start+WordSize], nil
}

// BytesAt returns n bytes starting at the given byte offset.
func BytesAt(buf []byte, off, n uint64) ([]byte, error) {
	if off > uint64(len(buf)) || uint64(len(buf))-off < n {
		return nil, fmt.Errorf("%w: range [%d:%d) exceeds buffer of %d bytes", ErrSlotOutOfBounds, off, off+n, len(buf))
	}
	return buf[off : off+n], nil
}

// U256 decodes a word as an unsigned big-endian 256-bit integer. Every
// bit pattern is valid; values keep full precision up to 2^256-1.
func U256(word []byte) (*big.Int, error) {
	if len(word) != WordSize {
		return nil, wrongWidth(len(word))
	}
	return new(big.Int).SetBytes(word), nil
}

// U32 decodes the low four bytes of a word. Upper padding bytes are
// ignored, not validated, matching ABI left-zero-padding of sub-256-bit
// integers.
func U32(word []byte) (uint32, error) {
	if len(word) != WordSize {
		return 0, wrongWidth(len(word))
	}
	return binary.BigEndian.Uint32(word[WordSize-4:]), nil
}

// U8 decodes the low byte of a word, same padding contract as U32.
func U8(word []byte) (uint8, error) {
	if len(word) != WordSize {
		return 0, wrongWidth(len(word))
	}
	return word[WordSize-1], nil
}

// AddressOf returns the right-most 20 bytes of a word. The left 12
// padding bytes are not validated; non-zero padding has been observed in
// the wild and is tolerated.
func AddressOf(word []byte) (common.Address, error) {
	if len(word) != WordSize {
		return common.Address{}, wrongWidth(len(word))
	}
	return common.BytesToAddress(word[WordSize-common.AddressLength:]), nil
}

// BoolOf reports whether the word's integer value is nonzero.
func BoolOf(word []byte) (bool, error) {
	if len(word) != WordSize {
		return false, wrongWidth(len(word))
	}
	for _, b := range word {
		if b != 0 {
			return true, nil
		}
	}
	return false, nil
}

// Bytes32Of copies a word out as a fixed 32-byte value.
func Bytes32Of(word []byte) (common.Hash, error) {
	if len(word) != WordSize {
		return common.Hash{}, wrongWidth(len(word))
	}
	return common.BytesToHash(word), nil
}

func wrongWidth(got int) error {
	return fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedWord, got, WordSize)
}
