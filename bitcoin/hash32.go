package bitcoin

import (
	"bytes"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const (
	Hash32Size = 32
)

// Hash32 is a 32 byte integer in little endian (wire) format. It is used for both transaction
// ids and double-SHA256 digests.
type Hash32 [Hash32Size]byte

func NewHash32(b []byte) (*Hash32, error) {
	if len(b) != Hash32Size {
		return nil, errors.Wrapf(ErrWrongSize, "got %d, want %d", len(b), Hash32Size)
	}
	result := Hash32{}
	copy(result[:], b)
	return &result, nil
}

// NewHash32FromStr creates a little endian hash from a big endian (display order) hex string.
func NewHash32FromStr(s string) (*Hash32, error) {
	result := &Hash32{}
	if err := result.SetString(s); err != nil {
		return nil, err
	}
	return result, nil
}

// Sha256 sets the value of this hash to the SHA256 of itself.
func (h *Hash32) Sha256() {
	copy(h[:], Sha256(h[:]))
}

// Bytes returns the data for the hash.
func (h Hash32) Bytes() []byte {
	return h[:]
}

// Value returns a value that can be handled by a database driver to put values in the database.
func (h Hash32) Value() (driver.Value, error) {
	return h.Bytes(), nil
}

// ReverseBytes returns the bytes in reverse order (display/big endian).
func (h Hash32) ReverseBytes() []byte {
	b := make([]byte, Hash32Size)
	reverse32(b, h[:])
	return b
}

// SetBytes sets the value of the hash.
func (h *Hash32) SetBytes(b []byte) error {
	if len(b) != Hash32Size {
		return errors.Wrapf(ErrWrongSize, "got %d, want %d", len(b), Hash32Size)
	}
	copy(h[:], b)
	return nil
}

// SetString sets the value of the hash from a big endian (display order) hex string.
func (h *Hash32) SetString(s string) error {
	if len(s) != 2*Hash32Size {
		return errors.Wrapf(ErrWrongSize, "hex: got %d, want %d", len(s), Hash32Size*2)
	}

	b := make([]byte, Hash32Size)
	if _, err := hex.Decode(b, []byte(s)); err != nil {
		return errors.Wrap(err, "hex")
	}

	reverse32(h[:], b)
	return nil
}

// String returns the big endian (display order) hex for the hash.
func (h Hash32) String() string {
	return hex.EncodeToString(h.ReverseBytes())
}

// Equal returns true if the parameter has the same value.
func (h *Hash32) Equal(o *Hash32) bool {
	if h == nil {
		return o == nil
	}
	if o == nil {
		return false
	}
	return bytes.Equal(h[:], o[:])
}

func (h Hash32) Copy() Hash32 {
	var c Hash32
	copy(c[:], h[:])
	return c
}

func (h Hash32) IsZero() bool {
	var zero Hash32
	return h.Equal(&zero)
}

// Serialize writes the hash into a writer in wire (little endian) order.
func (h Hash32) Serialize(w io.Writer) error {
	_, err := w.Write(h[:])
	return err
}

func (h *Hash32) Deserialize(r io.Reader) error {
	_, err := io.ReadFull(r, h[:])
	return err
}

// DeserializeHash32 reads a hash from a reader.
func DeserializeHash32(r io.Reader) (*Hash32, error) {
	result := Hash32{}
	if _, err := io.ReadFull(r, result[:]); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarshalJSON converts to json.
func (h Hash32) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", h)), nil
}

// UnmarshalJSON converts from json.
func (h *Hash32) UnmarshalJSON(data []byte) error {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return ErrMissingQuotes
	}
	if l == 2 {
		return nil
	}

	return h.SetString(string(data[1 : l-1]))
}

// MarshalText returns the text encoding of the hash. Implements encoding.TextMarshaler.
func (h Hash32) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses a text encoded hash. Implements encoding.TextUnmarshaler.
func (h *Hash32) UnmarshalText(text []byte) error {
	return h.SetString(string(text))
}

// MarshalBinary returns the binary encoding of the hash. Implements encoding.BinaryMarshaler.
func (h Hash32) MarshalBinary() ([]byte, error) {
	return h.Bytes(), nil
}

// UnmarshalBinary parses a binary encoded hash. Implements encoding.BinaryUnmarshaler.
func (h *Hash32) UnmarshalBinary(data []byte) error {
	return h.SetBytes(data)
}

// Scan converts from a database column.
func (h *Hash32) Scan(data interface{}) error {
	b, ok := data.([]byte)
	if !ok {
		return errors.New("Hash32 db column not bytes")
	}

	return h.SetBytes(b)
}

func reverse32(h, rh []byte) {
	i := Hash32Size - 1
	for _, b := range rh[:] {
		h[i] = b
		i--
	}
}
