package wire

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/nondejus/txcore/bitcoin"
)

// Outpoint is a fixed 36 byte reference to a previous transaction output: a 32 byte tx_id in
// wire (little endian) order followed by a 4 byte little endian output index.
type Outpoint struct {
	ByteData

	txID  bitcoin.Hash32
	index uint32
}

// NewOutpoint validates txID and index and returns a frozen Outpoint. txID must be exactly 32
// bytes and is stored in the byte order given (the wire order, the reverse of display order).
func NewOutpoint(txID []byte, index []byte) (*Outpoint, error) {
	if len(txID) != bitcoin.Hash32Size {
		return nil, errors.Errorf("Expected byte-like object with length %d.", bitcoin.Hash32Size)
	}
	if len(index) != 4 {
		return nil, errors.New("Expected byte-like object with length 4.")
	}

	o := &Outpoint{ByteData: newByteData("Outpoint")}
	copy(o.txID[:], txID)
	o.index = endian.Uint32(index)
	o.Freeze()
	return o, nil
}

// NewOutpointFromIndex is the idiomatic constructor for callers that already have index as a
// uint32 rather than its 4 byte encoding.
func NewOutpointFromIndex(txID []byte, index uint32) (*Outpoint, error) {
	if len(txID) != bitcoin.Hash32Size {
		return nil, errors.Errorf("Expected byte-like object with length %d.", bitcoin.Hash32Size)
	}

	o := &Outpoint{ByteData: newByteData("Outpoint"), index: index}
	copy(o.txID[:], txID)
	o.Freeze()
	return o, nil
}

// TxID returns the referenced transaction's id in wire (little endian) order.
func (o Outpoint) TxID() bitcoin.Hash32 {
	return o.txID
}

// Index returns the referenced output index.
func (o Outpoint) Index() uint32 {
	return o.index
}

// Bytes returns the canonical 36 byte encoding: tx_id || index.
func (o Outpoint) Bytes() []byte {
	b := make([]byte, 36)
	copy(b[:32], o.txID[:])
	endian.PutUint32(b[32:], o.index)
	return b
}

// Equal compares o's canonical bytes against another Outpoint or a raw 36 byte sequence.
func (o Outpoint) Equal(other interface{}) bool {
	return equalBytes(o.Bytes(), other)
}

// Find returns the first byte-offset of needle within o's canonical bytes, or -1.
func (o Outpoint) Find(needle []byte) int {
	return findBytes(o.Bytes(), needle)
}

// Copy returns a distinct Outpoint with the same value, optionally overriding txID and/or
// index.
func (o Outpoint) Copy(overrides ...OutpointOption) (*Outpoint, error) {
	txID := append([]byte(nil), o.txID[:]...)
	index := o.index

	for _, opt := range overrides {
		opt(&txID, &index)
	}

	return NewOutpointFromIndex(txID, index)
}

// OutpointOption overrides a field during Copy.
type OutpointOption func(txID *[]byte, index *uint32)

// WithTxID overrides the tx_id on a Copy.
func WithTxID(txID []byte) OutpointOption {
	return func(t *[]byte, _ *uint32) { *t = txID }
}

// WithIndex overrides the index on a Copy.
func WithIndex(index uint32) OutpointOption {
	return func(_ *[]byte, i *uint32) { *i = index }
}

// Serialize writes the canonical 36 byte encoding to w.
func (o Outpoint) Serialize(w io.Writer) error {
	_, err := w.Write(o.Bytes())
	return err
}

// DeserializeOutpoint reads a 36 byte Outpoint from r.
func DeserializeOutpoint(r io.Reader) (*Outpoint, error) {
	b := make([]byte, 36)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return NewOutpoint(b[:32], b[32:])
}

// String returns the outpoint in the human-readable "tx_id:index" form, with tx_id in display
// (big endian) order.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.txID.String(), o.index)
}
