// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"
	"math/big"

	"github.com/pkg/errors"
)

var endian = binary.LittleEndian

var (
	// ErrVarIntNegative is returned when a VarInt is constructed from a negative value.
	ErrVarIntNegative = errors.New("VarInt cannot be less than 0.")

	// ErrVarIntTooLarge is returned when a VarInt is constructed from a value that does not
	// fit in 64 bits.
	ErrVarIntTooLarge = errors.New("VarInt cannot be greater than (2 ** 64) - 1.")
)

// VarInt is the bitcoin "compact size" integer: a non-negative value in [0, 2**64-1] encoded
// with the smallest of four prefix widths that can hold it.
type VarInt uint64

// NewVarInt constructs a VarInt from a signed integer, rejecting negative values. Use
// NewVarIntFromBigInt for values that do not fit in an int64.
func NewVarInt(n int64) (VarInt, error) {
	if n < 0 {
		return 0, ErrVarIntNegative
	}

	return VarInt(n), nil
}

// NewVarIntFromBigInt constructs a VarInt from an arbitrary precision integer, rejecting
// negative values and values that overflow 64 bits.
func NewVarIntFromBigInt(n *big.Int) (VarInt, error) {
	if n.Sign() < 0 {
		return 0, ErrVarIntNegative
	}
	if n.BitLen() > 64 {
		return 0, ErrVarIntTooLarge
	}

	return VarInt(n.Uint64()), nil
}

// Uint64 returns the value as a uint64.
func (v VarInt) Uint64() uint64 {
	return uint64(v)
}

// SerializeSize returns the number of bytes it would take to serialize v.
func (v VarInt) SerializeSize() int {
	return VarIntSerializeSize(uint64(v))
}

// Bytes returns the compact-size encoding of v.
func (v VarInt) Bytes() []byte {
	buf := &bytes.Buffer{}
	buf.Grow(v.SerializeSize())
	_ = v.Serialize(buf) // a bytes.Buffer write never fails
	return buf.Bytes()
}

// Serialize writes the compact-size encoding of v to w.
func (v VarInt) Serialize(w io.Writer) error {
	return WriteVarInt(w, uint64(v))
}

// ReadVarInt reads a compact-size integer from r. If the prefix byte declares a width that r
// cannot supply, it fails with "Malformed VarInt. Got: <hex>" naming the bytes it did manage to
// read.
func ReadVarInt(r io.Reader) (VarInt, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	switch prefix[0] {
	case 0xff:
		buf := make([]byte, 8)
		n, _ := io.ReadFull(r, buf)
		if n < 8 {
			return 0, malformedVarIntErr(prefix[0], buf[:n])
		}
		return VarInt(endian.Uint64(buf)), nil

	case 0xfe:
		buf := make([]byte, 4)
		n, _ := io.ReadFull(r, buf)
		if n < 4 {
			return 0, malformedVarIntErr(prefix[0], buf[:n])
		}
		return VarInt(endian.Uint32(buf)), nil

	case 0xfd:
		buf := make([]byte, 2)
		n, _ := io.ReadFull(r, buf)
		if n < 2 {
			return 0, malformedVarIntErr(prefix[0], buf[:n])
		}
		return VarInt(endian.Uint16(buf)), nil

	default:
		return VarInt(prefix[0]), nil
	}
}

func malformedVarIntErr(prefix byte, got []byte) error {
	b := append([]byte{prefix}, got...)
	return errors.New("Malformed VarInt. Got: " + hex.EncodeToString(b))
}

// WriteVarInt serializes val to w using the smallest of the four compact-size widths that can
// represent it.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		return binary.Write(w, endian, uint8(val))
	}

	if val <= math.MaxUint16 {
		if err := binary.Write(w, endian, uint8(0xfd)); err != nil {
			return err
		}
		return binary.Write(w, endian, uint16(val))
	}

	if val <= math.MaxUint32 {
		if err := binary.Write(w, endian, uint8(0xfe)); err != nil {
			return err
		}
		return binary.Write(w, endian, uint32(val))
	}

	if err := binary.Write(w, endian, uint8(0xff)); err != nil {
		return err
	}
	return binary.Write(w, endian, val)
}

// VarIntSerializeSize returns the number of bytes it would take to serialize val as a compact
// size integer.
func VarIntSerializeSize(val uint64) int {
	if val < 0xfd {
		return 1
	}
	if val <= math.MaxUint16 {
		return 3
	}
	if val <= math.MaxUint32 {
		return 5
	}
	return 9
}

// ReadVarBytes reads a variable length byte array: a VarInt byte count followed by that many
// bytes. fieldName only decorates the error message when maxAllowed is exceeded.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	if uint64(count) > maxAllowed {
		return nil, errors.Errorf("%s is larger than the max allowed size [count %d, max %d]",
			fieldName, count, maxAllowed)
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteVarBytes serializes bytes to w as a VarInt byte count followed by the bytes themselves.
func WriteVarBytes(w io.Writer, data []byte) error {
	if err := WriteVarInt(w, uint64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
