package wire

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/nondejus/txcore/bitcoin"
)

// TxOut is a single transaction output: a satoshi value and a locking script. Output value
// policy (the dust limit) is controlled by the active bitcoin.Params.
type TxOut struct {
	ByteData

	value         uint64
	outputScript  []byte
}

// NewTxOut validates value against bitcoin.DustLimit and returns a frozen TxOut.
func NewTxOut(value uint64, outputScript []byte) (*TxOut, error) {
	return NewTxOutForParams(value, outputScript, bitcoin.LegacyParams)
}

// NewTxOutForParams validates value against params.DustLimit and returns a frozen TxOut.
func NewTxOutForParams(value uint64, outputScript []byte, params bitcoin.Params) (*TxOut, error) {
	if value <= params.DustLimit {
		return nil, errors.Errorf(
			"Transaction value below dust limit. Expected more than %d sat. Got: %d sat.",
			params.DustLimit, value)
	}

	out := &TxOut{
		ByteData:     newByteData("TxOut"),
		value:        value,
		outputScript: append([]byte(nil), outputScript...),
	}
	out.Freeze()
	return out, nil
}

// Value returns the output's satoshi value.
func (out TxOut) Value() uint64 {
	return out.value
}

// OutputScript returns the output's locking script (script_pubkey).
func (out TxOut) OutputScript() []byte {
	return append([]byte(nil), out.outputScript...)
}

// SerializeSize returns the number of bytes the output occupies on the wire.
func (out TxOut) SerializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(out.outputScript))) + len(out.outputScript)
}

// Bytes returns the canonical encoding: value || VarInt(len(output_script)) || output_script.
func (out TxOut) Bytes() []byte {
	buf := &bytes.Buffer{}
	buf.Grow(out.SerializeSize())
	_ = out.Serialize(buf)
	return buf.Bytes()
}

// Equal compares out's canonical bytes against another TxOut or raw bytes.
func (out TxOut) Equal(other interface{}) bool {
	return equalBytes(out.Bytes(), other)
}

// Find returns the first byte-offset of needle within out's canonical bytes, or -1.
func (out TxOut) Find(needle []byte) int {
	return findBytes(out.Bytes(), needle)
}

// Serialize writes the canonical encoding of out to w.
func (out TxOut) Serialize(w io.Writer) error {
	buf := make([]byte, 8)
	endian.PutUint64(buf, out.value)
	if _, err := w.Write(buf); err != nil {
		return err
	}
	return WriteVarBytes(w, out.outputScript)
}

// Copy returns a distinct TxOut with the same value, optionally overriding fields.
func (out TxOut) Copy(overrides ...TxOutOption) (*TxOut, error) {
	o := txOutOverrides{value: out.value, outputScript: out.outputScript, params: bitcoin.LegacyParams}
	for _, opt := range overrides {
		opt(&o)
	}

	return NewTxOutForParams(o.value, o.outputScript, o.params)
}

type txOutOverrides struct {
	value        uint64
	outputScript []byte
	params       bitcoin.Params
}

// TxOutOption overrides a field during Copy.
type TxOutOption func(*txOutOverrides)

func WithValue(value uint64) TxOutOption {
	return func(t *txOutOverrides) { t.value = value }
}

func WithOutputScript(script []byte) TxOutOption {
	return func(t *txOutOverrides) { t.outputScript = script }
}

func WithParams(params bitcoin.Params) TxOutOption {
	return func(t *txOutOverrides) { t.params = params }
}

// readTxOut reads the next sequence of bytes from r as a TxOut.
func readTxOut(r io.Reader, maxScript uint64, params bitcoin.Params) (*TxOut, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "value")
	}
	value := endian.Uint64(buf)

	outputScript, err := ReadVarBytes(r, maxScript, "transaction output script")
	if err != nil {
		return nil, errors.Wrap(err, "output_script")
	}

	return NewTxOutForParams(value, outputScript, params)
}
