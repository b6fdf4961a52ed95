// Package txbuilder assembles the core transaction entities into the common script and
// input/output shapes a wallet actually needs: P2PKH and P2SH locking
// scripts, their SegWit counterparts, and the legacy/witness input pairs that spend them. Every
// helper here is a thin wrapper over bitcoin's hashing and script-push primitives and wire's
// entity constructors; none of it interprets or validates scripts beyond what those packages
// already enforce.
package txbuilder

import (
	"github.com/pkg/errors"

	"github.com/nondejus/txcore/bitcoin"
	"github.com/nondejus/txcore/wire"
)

// PubKeyHash returns hash160(pubkey), the form every P2PKH/P2WPKH output script embeds.
func PubKeyHash(pubkey []byte) (*bitcoin.Hash20, error) {
	return bitcoin.NewHash20FromData(pubkey)
}

// ScriptHash returns hash160(serialize(scriptText)), the form a P2SH output script embeds.
func ScriptHash(scriptText string) (*bitcoin.Hash20, error) {
	serialized, err := bitcoin.SerializeFromString(scriptText)
	if err != nil {
		return nil, newError(ErrorCodeWrongScriptTemplate, err.Error())
	}
	return bitcoin.NewHash20FromData(serialized)
}

// MakeP2PKHOutputScript returns the standard pay-to-pubkey-hash locking script for pubkey:
// OP_DUP OP_HASH160 <hash160(pubkey)> OP_EQUALVERIFY OP_CHECKSIG.
func MakeP2PKHOutputScript(pubkey []byte) ([]byte, error) {
	hash, err := PubKeyHash(pubkey)
	if err != nil {
		return nil, errors.Wrap(err, "pubkey hash")
	}

	script := make([]byte, 0, 25)
	script = append(script, bitcoin.OP_DUP, bitcoin.OP_HASH160, bitcoin.OP_PUSH_DATA_20)
	script = append(script, hash.Bytes()...)
	script = append(script, bitcoin.OP_EQUALVERIFY, bitcoin.OP_CHECKSIG)
	return script, nil
}

// MakeP2SHOutputScript returns the standard pay-to-script-hash locking script for the textual
// redeem script scriptText: OP_HASH160 <hash160(serialize(scriptText))> OP_EQUAL.
func MakeP2SHOutputScript(scriptText string) ([]byte, error) {
	hash, err := ScriptHash(scriptText)
	if err != nil {
		return nil, err
	}

	script := make([]byte, 0, 23)
	script = append(script, bitcoin.OP_HASH160, bitcoin.OP_PUSH_DATA_20)
	script = append(script, hash.Bytes()...)
	script = append(script, bitcoin.OP_EQUAL)
	return script, nil
}

// MakeP2WPKHOutputScript returns the SegWit v0 pay-to-witness-pubkey-hash locking script:
// params.P2WPKHPrefix || hash160(pubkey). Fails on a network that has not opted into SegWit.
func MakeP2WPKHOutputScript(pubkey []byte, params bitcoin.Params) ([]byte, error) {
	if err := params.RequireSegwit(); err != nil {
		return nil, err
	}

	hash, err := PubKeyHash(pubkey)
	if err != nil {
		return nil, errors.Wrap(err, "pubkey hash")
	}

	script := append([]byte(nil), params.P2WPKHPrefix...)
	return append(script, hash.Bytes()...), nil
}

// MakeP2WSHOutputScript returns the SegWit v0 pay-to-witness-script-hash locking script:
// params.P2WSHPrefix || sha256(serialize(scriptText)). Fails on a network that has not opted
// into SegWit.
func MakeP2WSHOutputScript(scriptText string, params bitcoin.Params) ([]byte, error) {
	if err := params.RequireSegwit(); err != nil {
		return nil, err
	}

	serialized, err := bitcoin.SerializeFromString(scriptText)
	if err != nil {
		return nil, newError(ErrorCodeWrongScriptTemplate, err.Error())
	}

	script := append([]byte(nil), params.P2WSHPrefix...)
	return append(script, bitcoin.Sha256(serialized)...), nil
}

// MakeOutput builds a TxOut for params, translating a dust-limit rejection into
// ErrorCodeBelowDustValue so a caller assembling outputs from user-supplied values can branch on
// it without string-matching wire's message.
func MakeOutput(value uint64, outputScript []byte, params bitcoin.Params) (*wire.TxOut, error) {
	out, err := wire.NewTxOutForParams(value, outputScript, params)
	if err != nil {
		return nil, newError(ErrorCodeBelowDustValue, err.Error())
	}
	return out, nil
}

// MakeOutpoint constructs an Outpoint from a little-endian tx_id and an output index.
func MakeOutpoint(txIDLE []byte, index uint32) (*wire.Outpoint, error) {
	return wire.NewOutpointFromIndex(txIDLE, index)
}

// MakeWitness constructs an InputWitness from an ordered list of stack items.
func MakeWitness(items [][]byte) (*wire.InputWitness, error) {
	return wire.NewInputWitness(items)
}

// MakeScriptSig returns the push-assembled script_sig bytes for a stack_script/redeem_script
// pair, without constructing a full TxIn: stack_script with a push of redeem_script appended
// when redeem_script is non-empty, else stack_script verbatim. Useful for sizing a fee estimate
// before an input exists.
func MakeScriptSig(stackScript, redeemScript []byte) []byte {
	result := append([]byte(nil), stackScript...)
	if len(redeemScript) == 0 {
		return result
	}
	return append(result, []byte(bitcoin.PushData(redeemScript))...)
}

// MakeLegacyInput builds a non-SegWit TxIn spending outpoint, with an optional P2SH
// redeemScriptText appended to stackScript as a push.
func MakeLegacyInput(outpoint wire.Outpoint, stackScript []byte, redeemScriptText string,
	sequence uint32) (*wire.TxIn, error) {

	var redeemScript []byte
	if redeemScriptText != "" {
		serialized, err := bitcoin.SerializeFromString(redeemScriptText)
		if err != nil {
			return nil, newError(ErrorCodeWrongScriptTemplate, err.Error())
		}
		redeemScript = serialized
	}

	return wire.NewTxIn(outpoint, stackScript, redeemScript, sequence)
}

// MakeWitnessInput builds a SegWit TxIn spending outpoint. Per convention, the stack_script
// carried on the wire for a pure witness input is the single placeholder byte 0x00; witness is
// returned separately for the caller to thread into Tx.WithNewInputsAndWitnesses.
func MakeWitnessInput(outpoint wire.Outpoint, witnessItems [][]byte,
	sequence uint32) (*wire.TxIn, *wire.InputWitness, error) {

	in, err := wire.NewTxIn(outpoint, []byte{0x00}, nil, sequence)
	if err != nil {
		return nil, nil, err
	}

	witness, err := wire.NewInputWitness(witnessItems)
	if err != nil {
		return nil, nil, err
	}

	return in, witness, nil
}

// MakeTx assembles a whole Tx from already-built inputs and outputs. witnesses is optional; when
// supplied, it must be exactly len(txIns) long and the resulting Tx carries the SegWit flag.
func MakeTx(version int32, txIns []*wire.TxIn, txOuts []*wire.TxOut,
	witnesses []*wire.InputWitness, lockTime uint32) (*wire.Tx, error) {

	var flag []byte
	if len(witnesses) > 0 {
		flag = append([]byte(nil), bitcoin.SegwitTxFlag[:]...)
	}

	tx, err := wire.NewTx(version, flag, txIns, txOuts, witnesses, lockTime)
	if err != nil {
		return nil, errors.Wrap(err, "make tx")
	}
	return tx, nil
}
