package wire

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/nondejus/txcore/bitcoin"
)

// SighashAll computes the legacy SIGHASH_ALL digest for the input at index, using prevoutScript
// as that input's previous output script_pubkey (OP_CODESEPARATORs already stripped by the
// caller; this core does not strip them). When anyoneCanPay is true the digest additionally
// restricts coverage to only the input being signed (SIGHASH_ALL | ANYONECANPAY).
func (tx Tx) SighashAll(index int, prevoutScript []byte, anyoneCanPay bool) (*bitcoin.Hash32, error) {
	if index < 0 || index >= len(tx.txIns) {
		return nil, errors.Errorf("Input index out of range. Got: %d", index)
	}

	ins, err := tx.blankedInputs(index, prevoutScript, anyoneCanPay, false)
	if err != nil {
		return nil, err
	}

	c, err := NewTx(tx.version, nil, ins, tx.txOuts, nil, tx.lockTime)
	if err != nil {
		return nil, errors.Wrap(err, "sighash copy")
	}

	sighashType := uint32(sighashAll)
	if anyoneCanPay {
		sighashType |= sighashAnyoneCanPay
	}

	return digestWithSighashType(c, sighashType)
}

// SighashSingle computes the legacy SIGHASH_SINGLE digest for the input at index, pairing it
// with its same-index output: every earlier output is replaced by a null output and every later
// output is dropped. index must address an existing output.
func (tx Tx) SighashSingle(index int, prevoutScript []byte, anyoneCanPay bool) (*bitcoin.Hash32, error) {
	if index < 0 || index >= len(tx.txOuts) {
		return nil, errors.Errorf("Input index out of range for SIGHASH_SINGLE. Got: %d", index)
	}
	if index >= len(tx.txIns) {
		return nil, errors.Errorf("Input index out of range. Got: %d", index)
	}

	ins, err := tx.blankedInputs(index, prevoutScript, anyoneCanPay, true)
	if err != nil {
		return nil, err
	}

	outs := make([]*TxOut, index+1)
	for i := 0; i < index; i++ {
		nullOut, err := NewTxOut(0xffffffffffffffff, nil)
		if err != nil {
			return nil, errors.Wrap(err, "null output")
		}
		outs[i] = nullOut
	}
	outs[index] = tx.txOuts[index]

	c, err := NewTx(tx.version, nil, ins, outs, nil, tx.lockTime)
	if err != nil {
		return nil, errors.Wrap(err, "sighash copy")
	}

	sighashType := uint32(sighashSingle)
	if anyoneCanPay {
		sighashType |= sighashAnyoneCanPay
	}

	return digestWithSighashType(c, sighashType)
}

// SighashNone is intentionally unimplemented: SIGHASH_NONE lets a signer authorize changing a
// transaction's outputs after the fact, which this core refuses to produce a digest for.
func (tx Tx) SighashNone(index int, prevoutScript []byte, anyoneCanPay bool) (*bitcoin.Hash32, error) {
	return nil, ErrSighashNone
}

// blankedInputs builds the tx_ins used by the legacy sighash algorithms: every script_sig
// cleared except the input at index, which carries prevoutScript as its stack_script. When
// zeroOtherSequences is true (SIGHASH_SINGLE), every input but index has its sequence zeroed.
// When anyoneCanPay is true, the result is truncated to only the input at index.
func (tx Tx) blankedInputs(index int, prevoutScript []byte, anyoneCanPay,
	zeroOtherSequences bool) ([]*TxIn, error) {

	if anyoneCanPay {
		signed := tx.txIns[index]
		in, err := NewTxIn(signed.Outpoint(), prevoutScript, nil, signed.Sequence())
		if err != nil {
			return nil, errors.Wrap(err, "signed input")
		}
		return []*TxIn{in}, nil
	}

	ins := make([]*TxIn, len(tx.txIns))
	for i, original := range tx.txIns {
		sequence := original.Sequence()
		stackScript := []byte{}
		if i == index {
			stackScript = prevoutScript
		} else if zeroOtherSequences {
			sequence = 0
		}

		in, err := NewTxIn(original.Outpoint(), stackScript, nil, sequence)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		ins[i] = in
	}

	return ins, nil
}

// digestWithSighashType serializes c in legacy form, appends the 4 byte little endian sighash
// type, and returns the double-SHA256 of the result.
func digestWithSighashType(c *Tx, sighashType uint32) (*bitcoin.Hash32, error) {
	buf := &bytes.Buffer{}
	if err := c.SerializeLegacy(buf); err != nil {
		return nil, errors.Wrap(err, "serialize")
	}
	if err := writeUint32(buf, sighashType); err != nil {
		return nil, errors.Wrap(err, "sighash type")
	}

	return bitcoin.NewHash32(bitcoin.DoubleSha256(buf.Bytes()))
}
