package wire

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/nondejus/txcore/threads"
)

// ByteData is the immutable byte-sequence base embedded by every entity in this package.
// Concrete types call Freeze at the end of their constructor, once validation has passed; any
// later attempt to replace the underlying fields of a frozen instance is rejected with
// CheckMutable. Equality against a raw byte sequence is implemented per-type via equalBytes,
// since canonical bytes differ per entity (an Outpoint's Bytes() is not the same shape as a
// TxIn's).
type ByteData struct {
	name   string
	frozen *threads.AtomicFlag
}

// newByteData returns an unfrozen ByteData tagged with the entity name used in the
// "<name> cannot be written to." error.
func newByteData(name string) ByteData {
	return ByteData{name: name, frozen: threads.NewAtomicFlag()}
}

// Freeze marks the entity immutable. Idempotent.
func (b *ByteData) Freeze() {
	b.frozen.Set()
}

// Frozen returns true once Freeze has been called.
func (b ByteData) Frozen() bool {
	return b.frozen.IsSet()
}

// CheckMutable returns an error naming the entity if it has already been frozen.
func (b ByteData) CheckMutable() error {
	if b.frozen.IsSet() {
		return errors.New(b.name + " cannot be written to.")
	}
	return nil
}

// equalBytes implements the polymorphic ByteData<->raw-bytes equality described in the package:
// self is compared against other when other is a raw []byte, a *[]byte, or anything exposing
// Bytes() []byte. Anything else compares unequal rather than failing.
func equalBytes(self []byte, other interface{}) bool {
	switch v := other.(type) {
	case []byte:
		return bytes.Equal(self, v)
	case *[]byte:
		if v == nil {
			return false
		}
		return bytes.Equal(self, *v)
	case interface{ Bytes() []byte }:
		return bytes.Equal(self, v.Bytes())
	default:
		return false
	}
}

// findBytes returns the first byte-offset of needle within self, or -1 if absent.
func findBytes(self, needle []byte) int {
	return bytes.Index(self, needle)
}
