package wire

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/nondejus/txcore/bitcoin"
)

// MaxScriptSigSize is the largest a legacy script_sig may be. It bounds the push-data and
// redeem_script combination a TxIn can carry.
const MaxScriptSigSize = 1650

// TxIn is a single transaction input: a reference to a previous output, the data that unlocks
// it, and a sequence number.
//
// script_sig is derived, not stored directly: when redeem_script is non-empty the input is a
// P2SH spend and script_sig is stack_script followed by a push of redeem_script; otherwise
// script_sig is stack_script verbatim (a witness input's placeholder stack_script is the single
// byte 0x00).
type TxIn struct {
	ByteData

	outpoint     Outpoint
	stackScript  []byte
	redeemScript []byte
	scriptSig    []byte
	sequence     uint32
}

// NewTxIn validates and freezes a TxIn.
func NewTxIn(outpoint Outpoint, stackScript, redeemScript []byte, sequence uint32) (*TxIn, error) {
	scriptSig, err := buildScriptSig(stackScript, redeemScript)
	if err != nil {
		return nil, err
	}
	if len(scriptSig) > MaxScriptSigSize {
		return nil, errors.Errorf("Input script_sig is too long. Expected <= %d bytes. Got %d bytes.",
			MaxScriptSigSize, len(scriptSig))
	}

	in := &TxIn{
		ByteData:     newByteData("TxIn"),
		outpoint:     outpoint,
		stackScript:  append([]byte(nil), stackScript...),
		redeemScript: append([]byte(nil), redeemScript...),
		scriptSig:    scriptSig,
		sequence:     sequence,
	}
	in.Freeze()
	return in, nil
}

func buildScriptSig(stackScript, redeemScript []byte) ([]byte, error) {
	if len(redeemScript) == 0 {
		return append([]byte(nil), stackScript...), nil
	}

	buf := &bytes.Buffer{}
	buf.Write(stackScript)
	if err := bitcoin.WritePushDataScript(buf, redeemScript); err != nil {
		return nil, errors.Wrap(err, "push redeem script")
	}
	return buf.Bytes(), nil
}

// Outpoint returns the referenced previous output.
func (in TxIn) Outpoint() Outpoint {
	return in.outpoint
}

// StackScript returns the raw data pushed to seed the script-execution stack.
func (in TxIn) StackScript() []byte {
	return append([]byte(nil), in.stackScript...)
}

// RedeemScript returns the P2SH redeem script, or nil when this is not a P2SH spend.
func (in TxIn) RedeemScript() []byte {
	return append([]byte(nil), in.redeemScript...)
}

// ScriptSig returns the assembled, wire-ready unlocking script.
func (in TxIn) ScriptSig() []byte {
	return append([]byte(nil), in.scriptSig...)
}

// Sequence returns the input's sequence number.
func (in TxIn) Sequence() uint32 {
	return in.sequence
}

// SerializeSize returns the number of bytes the input occupies on the wire.
func (in TxIn) SerializeSize() int {
	return 36 + VarIntSerializeSize(uint64(len(in.scriptSig))) + len(in.scriptSig) + 4
}

// Bytes returns the canonical encoding: outpoint || VarInt(len(script_sig)) || script_sig ||
// sequence.
func (in TxIn) Bytes() []byte {
	buf := &bytes.Buffer{}
	buf.Grow(in.SerializeSize())
	_ = in.Serialize(buf)
	return buf.Bytes()
}

// Equal compares in's canonical bytes against another TxIn or raw bytes.
func (in TxIn) Equal(other interface{}) bool {
	return equalBytes(in.Bytes(), other)
}

// Find returns the first byte-offset of needle within in's canonical bytes, or -1.
func (in TxIn) Find(needle []byte) int {
	return findBytes(in.Bytes(), needle)
}

// Serialize writes the canonical encoding of in to w.
func (in TxIn) Serialize(w io.Writer) error {
	if err := in.outpoint.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarBytes(w, in.scriptSig); err != nil {
		return err
	}
	return writeUint32(w, in.sequence)
}

// Copy returns a distinct TxIn with the same value, optionally overriding fields.
func (in TxIn) Copy(overrides ...TxInOption) (*TxIn, error) {
	o := txInOverrides{
		outpoint:     in.outpoint,
		stackScript:  in.stackScript,
		redeemScript: in.redeemScript,
		sequence:     in.sequence,
	}
	for _, opt := range overrides {
		opt(&o)
	}

	return NewTxIn(o.outpoint, o.stackScript, o.redeemScript, o.sequence)
}

type txInOverrides struct {
	outpoint     Outpoint
	stackScript  []byte
	redeemScript []byte
	sequence     uint32
}

// TxInOption overrides a field during Copy.
type TxInOption func(*txInOverrides)

func WithOutpoint(o Outpoint) TxInOption {
	return func(t *txInOverrides) { t.outpoint = o }
}

func WithStackScript(b []byte) TxInOption {
	return func(t *txInOverrides) { t.stackScript = b }
}

func WithRedeemScript(b []byte) TxInOption {
	return func(t *txInOverrides) { t.redeemScript = b }
}

func WithSequence(seq uint32) TxInOption {
	return func(t *txInOverrides) { t.sequence = seq }
}

// readTxIn reads the next sequence of bytes from r as a TxIn. Because the wire form only
// carries the assembled script_sig, not the stack_script/redeem_script split, a deserialized
// input has its whole script_sig stored as stack_script with an empty redeem_script.
func readTxIn(r io.Reader, maxScript uint64) (*TxIn, error) {
	outpoint, err := DeserializeOutpoint(r)
	if err != nil {
		return nil, errors.Wrap(err, "outpoint")
	}

	scriptSig, err := ReadVarBytes(r, maxScript, "transaction input script_sig")
	if err != nil {
		return nil, errors.Wrap(err, "script_sig")
	}

	var sequence uint32
	if err := readUint32(r, &sequence); err != nil {
		return nil, errors.Wrap(err, "sequence")
	}

	return NewTxIn(*outpoint, scriptSig, nil, sequence)
}

func readUint32(r io.Reader, v *uint32) error {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	*v = endian.Uint32(buf)
	return nil
}

func writeUint32(w io.Writer, v uint32) error {
	buf := make([]byte, 4)
	endian.PutUint32(buf, v)
	_, err := w.Write(buf)
	return err
}
