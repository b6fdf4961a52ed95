package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// WitnessStackItem is a single length-prefixed entry in a transaction input's witness stack.
type WitnessStackItem struct {
	ByteData

	data []byte
}

// NewWitnessStackItem validates and freezes a witness stack item. data must not be nil.
func NewWitnessStackItem(data []byte) (*WitnessStackItem, error) {
	if data == nil {
		return nil, errors.New("Invalid witness stack item. Expected bytes. Got <nil>")
	}

	item := &WitnessStackItem{
		ByteData: newByteData("WitnessStackItem"),
		data:     append([]byte(nil), data...),
	}
	item.Freeze()
	return item, nil
}

// Data returns the item's raw bytes.
func (i WitnessStackItem) Data() []byte {
	return i.data
}

// Bytes returns the canonical encoding: VarInt(len(data)) || data.
func (i WitnessStackItem) Bytes() []byte {
	buf := &bytes.Buffer{}
	_ = i.Serialize(buf)
	return buf.Bytes()
}

// Equal compares i's canonical bytes against another WitnessStackItem or raw bytes.
func (i WitnessStackItem) Equal(other interface{}) bool {
	return equalBytes(i.Bytes(), other)
}

// Find returns the first byte-offset of needle within i's canonical bytes, or -1.
func (i WitnessStackItem) Find(needle []byte) int {
	return findBytes(i.Bytes(), needle)
}

// Serialize writes VarInt(len(data)) || data to w.
func (i WitnessStackItem) Serialize(w io.Writer) error {
	if err := WriteVarInt(w, uint64(len(i.data))); err != nil {
		return err
	}
	_, err := w.Write(i.data)
	return err
}

// DeserializeWitnessStackItem reads a length-prefixed witness stack item from r.
func DeserializeWitnessStackItem(r io.Reader) (*WitnessStackItem, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	data := make([]byte, count)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	return NewWitnessStackItem(data)
}

// InputWitness is the witness stack carried by a single SegWit transaction input.
type InputWitness struct {
	ByteData

	items []*WitnessStackItem
}

// NewInputWitness validates every item and returns a frozen InputWitness. Any nil entry in
// items is rejected.
func NewInputWitness(items [][]byte) (*InputWitness, error) {
	stack := make([]*WitnessStackItem, 0, len(items))
	for _, raw := range items {
		item, err := NewWitnessStackItem(raw)
		if err != nil {
			return nil, err
		}
		stack = append(stack, item)
	}

	w := &InputWitness{ByteData: newByteData("InputWitness"), items: stack}
	w.Freeze()
	return w, nil
}

// Items returns the witness stack items in order.
func (w InputWitness) Items() []*WitnessStackItem {
	return w.items
}

// Bytes returns the canonical encoding: VarInt(len(items)) || items...
func (w InputWitness) Bytes() []byte {
	buf := &bytes.Buffer{}
	_ = w.Serialize(buf)
	return buf.Bytes()
}

// Equal compares w's canonical bytes against another InputWitness or raw bytes.
func (w InputWitness) Equal(other interface{}) bool {
	return equalBytes(w.Bytes(), other)
}

// Find returns the first byte-offset of needle within w's canonical bytes, or -1.
func (w InputWitness) Find(needle []byte) int {
	return findBytes(w.Bytes(), needle)
}

// Serialize writes VarInt(len(items)) followed by each item's own serialization to w.
func (w InputWitness) Serialize(o io.Writer) error {
	if err := WriteVarInt(o, uint64(len(w.items))); err != nil {
		return err
	}
	for _, item := range w.items {
		if err := item.Serialize(o); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeInputWitness reads a witness count followed by that many witness stack items.
func DeserializeInputWitness(r io.Reader) (*InputWitness, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	items := make([][]byte, 0, count)
	for i := uint64(0); i < uint64(count); i++ {
		item, err := DeserializeWitnessStackItem(r)
		if err != nil {
			return nil, errors.Wrapf(err, "witness item %d", i)
		}
		items = append(items, item.Data())
	}

	return NewInputWitness(items)
}

func (i WitnessStackItem) String() string {
	return fmt.Sprintf("%x", i.data)
}
