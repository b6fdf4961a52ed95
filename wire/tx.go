package wire

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"

	"github.com/nondejus/txcore/bitcoin"
)

const (
	// MaxTxInOut is the maximum number of inputs, or outputs, a Tx may carry.
	MaxTxInOut = 255

	// MaxTxSize is the largest a serialized transaction may be.
	MaxTxSize = 100000

	// sighashAll, sighashSingle, and the anyoneCanPay modifier are the legacy sighash type
	// bytes appended (as a 4 byte little endian word) to the digest preimage.
	sighashAll      = 0x01
	sighashSingle   = 0x03
	sighashAnyoneCanPay = 0x80
)

// ErrSighashNone is returned by SighashNone: SIGHASH_NONE is unimplemented by policy, not by
// omission.
var ErrSighashNone = errors.New("SIGHASH_NONE is a bad idea.")

// segwitFlag is the 2 byte marker inserted between version and the input count of a
// witness-bearing transaction.
var segwitFlag = bitcoin.SegwitTxFlag[:]

// Tx is the whole, immutable, byte-exact transaction model: a version, an optional SegWit flag,
// inputs, outputs, optional per-input witnesses, and a lock time.
type Tx struct {
	ByteData

	version     int32
	flag        []byte
	txIns       []*TxIn
	txOuts      []*TxOut
	txWitnesses []*InputWitness
	lockTime    uint32
}

// NewTx validates every invariant in the data model and returns a frozen Tx. flag must be nil
// or exactly segwitFlag; txWitnesses must be nil/empty for a legacy (non-SegWit) transaction and
// otherwise exactly len(txIns) long.
func NewTx(version int32, flag []byte, txIns []*TxIn, txOuts []*TxOut,
	txWitnesses []*InputWitness, lockTime uint32) (*Tx, error) {

	if flag != nil && !bytes.Equal(flag, segwitFlag) {
		return nil, errors.New("Invald segwit flag. Expected None or 0x0001.")
	}

	hasWitnesses := len(txWitnesses) > 0
	if flag != nil && !hasWitnesses {
		return nil, errors.New("Got segwit flag but no witnesses.")
	}
	if flag == nil && hasWitnesses {
		return nil, errors.New("Got witnesses but no segwit flag.")
	}
	if hasWitnesses && len(txWitnesses) != len(txIns) {
		return nil, errors.New("Witness and TxIn lists must be same length.")
	}

	if len(txIns) == 0 || len(txOuts) == 0 {
		return nil, errors.New("Too few inputs or outputs. Stop that.")
	}
	if len(txIns) > MaxTxInOut || len(txOuts) > MaxTxInOut {
		return nil, errors.New("Too many inputs or outputs. Stop that.")
	}

	for i, in := range txIns {
		if in == nil {
			return nil, errors.Errorf("Invalid TxIn. Expected instance of TxIn. Got nil (index %d)", i)
		}
	}
	for i, out := range txOuts {
		if out == nil {
			return nil, errors.Errorf("Invalid TxOut. Expected instance of TxOut. Got nil (index %d)", i)
		}
	}

	tx := &Tx{
		ByteData:    newByteData("Tx"),
		version:     version,
		flag:        flag,
		txIns:       txIns,
		txOuts:      txOuts,
		txWitnesses: txWitnesses,
		lockTime:    lockTime,
	}

	if size := tx.SerializeSize(); size > MaxTxSize {
		return nil, errors.Errorf("Tx is too large. Expect less than %dkB. Got: %d bytes",
			MaxTxSize/1000, size)
	}

	tx.Freeze()
	return tx, nil
}

func (tx Tx) Version() int32                  { return tx.version }
func (tx Tx) Flag() []byte                    { return append([]byte(nil), tx.flag...) }
func (tx Tx) IsSegWit() bool                  { return tx.flag != nil }
func (tx Tx) TxIns() []*TxIn                  { return tx.txIns }
func (tx Tx) TxOuts() []*TxOut                { return tx.txOuts }
func (tx Tx) TxWitnesses() []*InputWitness    { return tx.txWitnesses }
func (tx Tx) LockTime() uint32                { return tx.lockTime }

// SerializeSize returns the number of bytes it would take to serialize tx.
func (tx Tx) SerializeSize() int {
	n := 4 // version
	if tx.flag != nil {
		n += len(tx.flag)
	}
	n += VarIntSerializeSize(uint64(len(tx.txIns)))
	for _, in := range tx.txIns {
		n += in.SerializeSize()
	}
	n += VarIntSerializeSize(uint64(len(tx.txOuts)))
	for _, out := range tx.txOuts {
		n += out.SerializeSize()
	}
	for _, w := range tx.txWitnesses {
		n += len(w.Bytes())
	}
	n += 4 // lock_time
	return n
}

// Bytes returns the canonical wire encoding of tx.
func (tx Tx) Bytes() []byte {
	buf := &bytes.Buffer{}
	buf.Grow(tx.SerializeSize())
	_ = tx.Serialize(buf)
	return buf.Bytes()
}

// Hex returns the canonical wire encoding of tx as a hex string.
func (tx Tx) Hex() string {
	return hex.EncodeToString(tx.Bytes())
}

// Equal compares tx's canonical bytes against another Tx or raw bytes.
func (tx Tx) Equal(other interface{}) bool {
	return equalBytes(tx.Bytes(), other)
}

// Find returns the first byte-offset of needle within tx's canonical bytes, or -1.
func (tx Tx) Find(needle []byte) int {
	return findBytes(tx.Bytes(), needle)
}

// Serialize writes the canonical wire encoding of tx to w: legacy form when tx carries no
// SegWit flag, SegWit form otherwise.
func (tx Tx) Serialize(w io.Writer) error {
	if err := writeInt32(w, tx.version); err != nil {
		return err
	}

	if tx.flag != nil {
		if _, err := w.Write(tx.flag); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(tx.txIns))); err != nil {
		return err
	}
	for _, in := range tx.txIns {
		if err := in.Serialize(w); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(tx.txOuts))); err != nil {
		return err
	}
	for _, out := range tx.txOuts {
		if err := out.Serialize(w); err != nil {
			return err
		}
	}

	for _, witness := range tx.txWitnesses {
		if err := witness.Serialize(w); err != nil {
			return err
		}
	}

	return writeUint32(w, tx.lockTime)
}

// SerializeLegacy writes tx's non-witness form to w, even if tx itself carries a SegWit flag.
// This is the form signed and hashed by the legacy sighash algorithms.
func (tx Tx) SerializeLegacy(w io.Writer) error {
	if err := writeInt32(w, tx.version); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(tx.txIns))); err != nil {
		return err
	}
	for _, in := range tx.txIns {
		if err := in.Serialize(w); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(tx.txOuts))); err != nil {
		return err
	}
	for _, out := range tx.txOuts {
		if err := out.Serialize(w); err != nil {
			return err
		}
	}

	return writeUint32(w, tx.lockTime)
}

// DeserializeTx reads a transaction from r, detecting the SegWit flag automatically.
func DeserializeTx(r io.Reader) (*Tx, error) {
	return deserializeTxForParams(r, bitcoin.LegacyParams)
}

// DeserializeTxForParams reads a transaction from r using params for dust-limit enforcement on
// its outputs.
func DeserializeTxForParams(r io.Reader, params bitcoin.Params) (*Tx, error) {
	return deserializeTxForParams(r, params)
}

func deserializeTxForParams(r io.Reader, params bitcoin.Params) (*Tx, error) {
	var version int32
	if err := readInt32(r, &version); err != nil {
		return nil, errors.Wrap(err, "version")
	}

	peeked := make([]byte, 1)
	var flag []byte
	countByte, err := readVarIntOrFlag(r, &peeked)
	if err != nil {
		return nil, err
	}
	var count VarInt
	if peeked[0] == 0x00 {
		// Possible SegWit marker: the next byte must be the 0x01 flag byte.
		second := make([]byte, 1)
		if _, err := io.ReadFull(r, second); err != nil {
			return nil, errors.Wrap(err, "segwit flag")
		}
		if second[0] != 0x01 {
			return nil, errors.New("Invald segwit flag. Expected None or 0x0001.")
		}
		flag = append([]byte(nil), segwitFlag...)

		count, err = ReadVarInt(r)
		if err != nil {
			return nil, errors.Wrap(err, "tx_in count")
		}
	} else {
		count = countByte
	}

	txIns := make([]*TxIn, 0, count)
	for i := uint64(0); i < uint64(count); i++ {
		in, err := readTxIn(r, MaxTxSize)
		if err != nil {
			return nil, errors.Wrapf(err, "tx_in %d", i)
		}
		txIns = append(txIns, in)
	}

	outCount, err := ReadVarInt(r)
	if err != nil {
		return nil, errors.Wrap(err, "tx_out count")
	}

	txOuts := make([]*TxOut, 0, outCount)
	for i := uint64(0); i < uint64(outCount); i++ {
		out, err := readTxOut(r, MaxTxSize, params)
		if err != nil {
			return nil, errors.Wrapf(err, "tx_out %d", i)
		}
		txOuts = append(txOuts, out)
	}

	var txWitnesses []*InputWitness
	if flag != nil {
		txWitnesses = make([]*InputWitness, 0, len(txIns))
		for i := range txIns {
			witness, err := DeserializeInputWitness(r)
			if err != nil {
				return nil, errors.Wrapf(err, "witness %d", i)
			}
			txWitnesses = append(txWitnesses, witness)
		}
	}

	var lockTime uint32
	if err := readUint32(r, &lockTime); err != nil {
		return nil, errors.Wrap(err, "lock_time")
	}

	return NewTx(version, flag, txIns, txOuts, txWitnesses, lockTime)
}

// readVarIntOrFlag reads the byte that is either a VarInt prefix or the first byte (0x00) of a
// SegWit marker, returning it decoded as a VarInt and also echoing the raw first byte in peeked
// so the caller can detect the marker.
func readVarIntOrFlag(r io.Reader, peeked *[]byte) (VarInt, error) {
	b := make([]byte, 1)
	if _, err := io.ReadFull(r, b); err != nil {
		return 0, err
	}
	*peeked = b

	if b[0] == 0x00 {
		return 0, nil
	}

	switch b[0] {
	case 0xff:
		buf := make([]byte, 8)
		n, _ := io.ReadFull(r, buf)
		if n < 8 {
			return 0, malformedVarIntErr(b[0], buf[:n])
		}
		return VarInt(endian.Uint64(buf)), nil
	case 0xfe:
		buf := make([]byte, 4)
		n, _ := io.ReadFull(r, buf)
		if n < 4 {
			return 0, malformedVarIntErr(b[0], buf[:n])
		}
		return VarInt(endian.Uint32(buf)), nil
	case 0xfd:
		buf := make([]byte, 2)
		n, _ := io.ReadFull(r, buf)
		if n < 2 {
			return 0, malformedVarIntErr(b[0], buf[:n])
		}
		return VarInt(endian.Uint16(buf)), nil
	default:
		return VarInt(b[0]), nil
	}
}

func readInt32(r io.Reader, v *int32) error {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	*v = int32(endian.Uint32(buf))
	return nil
}

func writeInt32(w io.Writer, v int32) error {
	buf := make([]byte, 4)
	endian.PutUint32(buf, uint32(v))
	_, err := w.Write(buf)
	return err
}

// CalcFee returns sum(prevValues) - sum(txOut.Value()). The caller supplies the previous
// output values, in tx_in order; the core does not fetch them.
func (tx Tx) CalcFee(prevValues []uint64) int64 {
	var in, out int64
	for _, v := range prevValues {
		in += int64(v)
	}
	for _, o := range tx.txOuts {
		out += int64(o.Value())
	}
	return in - out
}

// Copy returns a distinct Tx with the same value, optionally overriding fields. Overrides
// re-run full construction validation.
func (tx Tx) Copy(overrides ...TxOption) (*Tx, error) {
	o := txOverrides{
		version:     tx.version,
		flag:        tx.flag,
		txIns:       tx.txIns,
		txOuts:      tx.txOuts,
		txWitnesses: tx.txWitnesses,
		lockTime:    tx.lockTime,
	}
	for _, opt := range overrides {
		opt(&o)
	}

	return NewTx(o.version, o.flag, o.txIns, o.txOuts, o.txWitnesses, o.lockTime)
}

type txOverrides struct {
	version     int32
	flag        []byte
	txIns       []*TxIn
	txOuts      []*TxOut
	txWitnesses []*InputWitness
	lockTime    uint32
}

// TxOption overrides a field during Copy.
type TxOption func(*txOverrides)

func WithVersion(v int32) TxOption { return func(t *txOverrides) { t.version = v } }
func WithFlag(flag []byte) TxOption { return func(t *txOverrides) { t.flag = flag } }
func WithTxIns(ins []*TxIn) TxOption { return func(t *txOverrides) { t.txIns = ins } }
func WithTxOuts(outs []*TxOut) TxOption { return func(t *txOverrides) { t.txOuts = outs } }
func WithTxWitnesses(w []*InputWitness) TxOption {
	return func(t *txOverrides) { t.txWitnesses = w }
}
func WithLockTime(lt uint32) TxOption { return func(t *txOverrides) { t.lockTime = lt } }

// WithNewInputs returns a copy of tx whose tx_ins is tx.TxIns() ++ newIns.
func (tx Tx) WithNewInputs(newIns []*TxIn) (*Tx, error) {
	combined := append(append([]*TxIn(nil), tx.txIns...), newIns...)
	return tx.Copy(WithTxIns(combined))
}

// WithNewOutputs returns a copy of tx whose tx_outs is tx.TxOuts() ++ newOuts.
func (tx Tx) WithNewOutputs(newOuts []*TxOut) (*Tx, error) {
	combined := append(append([]*TxOut(nil), tx.txOuts...), newOuts...)
	return tx.Copy(WithTxOuts(combined))
}

// InputWithWitness pairs a new TxIn with the InputWitness that matches it in lockstep.
type InputWithWitness struct {
	Input   *TxIn
	Witness *InputWitness
}

// WithNewInputsAndWitnesses returns a copy of tx with each pair's input and witness appended in
// lockstep. tx must already carry a SegWit flag. When tx has no flag, the copy is given
// segwitFlag but only the new inputs have witnesses, so the witness list is shorter than the
// input list and the call fails with "Witness and TxIn lists must be same length.".
func (tx Tx) WithNewInputsAndWitnesses(pairs []InputWithWitness) (*Tx, error) {
	newIns := make([]*TxIn, len(pairs))
	newWitnesses := make([]*InputWitness, len(pairs))
	for i, p := range pairs {
		newIns[i] = p.Input
		newWitnesses[i] = p.Witness
	}

	combinedIns := append(append([]*TxIn(nil), tx.txIns...), newIns...)

	var combinedWitnesses []*InputWitness
	flag := tx.flag
	if tx.txWitnesses != nil || flag != nil {
		combinedWitnesses = append(append([]*InputWitness(nil), tx.txWitnesses...), newWitnesses...)
	} else {
		combinedWitnesses = newWitnesses
	}
	if flag == nil {
		flag = append([]byte(nil), segwitFlag...)
	}

	return tx.Copy(WithTxIns(combinedIns), WithTxWitnesses(combinedWitnesses), WithFlag(flag))
}

// SetLockTime attempts to mutate lock_time in place rather than through Copy. Every Tx is
// frozen immediately after construction, so this always fails with the package's freeze
// violation error; it exists to exercise that guarantee directly instead of only through Copy.
func (tx *Tx) SetLockTime(lockTime uint32) error {
	if err := tx.CheckMutable(); err != nil {
		return err
	}
	tx.lockTime = lockTime
	return nil
}
