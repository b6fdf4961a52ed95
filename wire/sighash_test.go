package wire

import (
	"encoding/hex"
	"testing"

	"github.com/nondejus/txcore/bitcoin"
)

func twoInputTx(t *testing.T) *Tx {
	t.Helper()
	in0 := mustTxIn(t, mustOutpoint(t, 0), []byte{}, 0xffffffff)
	in1 := mustTxIn(t, mustOutpoint(t, 1), []byte{}, 0xffffffff)
	out0 := mustTxOut(t, 2000)
	out1 := mustTxOut(t, 3000)

	tx, err := NewTx(1, nil, []*TxIn{in0, in1}, []*TxOut{out0, out1}, nil, 0)
	if err != nil {
		t.Fatalf("NewTx: %s", err)
	}
	return tx
}

func TestSighashAllIsDeterministic(t *testing.T) {
	tx := twoInputTx(t)
	prevoutScript := []byte{0x76, 0xa9, 0x14}

	h1, err := tx.SighashAll(0, prevoutScript, false)
	if err != nil {
		t.Fatalf("SighashAll: %s", err)
	}
	h2, err := tx.SighashAll(0, prevoutScript, false)
	if err != nil {
		t.Fatalf("SighashAll: %s", err)
	}
	if !h1.Equal(h2) {
		t.Fatal("SighashAll must be deterministic")
	}
}

func TestSighashAllAnyoneCanPayDiffersFromPlain(t *testing.T) {
	tx := twoInputTx(t)
	prevoutScript := []byte{0x76, 0xa9, 0x14}

	plain, err := tx.SighashAll(0, prevoutScript, false)
	if err != nil {
		t.Fatalf("SighashAll: %s", err)
	}
	anyoneCanPay, err := tx.SighashAll(0, prevoutScript, true)
	if err != nil {
		t.Fatalf("SighashAll anyone_can_pay: %s", err)
	}
	if plain.Equal(anyoneCanPay) {
		t.Fatal("SIGHASH_ALL and SIGHASH_ALL|ANYONECANPAY must digest differently")
	}
}

func TestSighashSingleOutOfRange(t *testing.T) {
	tx := twoInputTx(t)
	if _, err := tx.SighashSingle(5, []byte{0x01}, false); err == nil {
		t.Fatal("expected error for out of range index")
	}
}

func TestSighashSingleDiffersByAnyoneCanPay(t *testing.T) {
	tx := twoInputTx(t)
	prevoutScript := []byte{0x76, 0xa9, 0x14}

	plain, err := tx.SighashSingle(0, prevoutScript, false)
	if err != nil {
		t.Fatalf("SighashSingle: %s", err)
	}
	anyoneCanPay, err := tx.SighashSingle(0, prevoutScript, true)
	if err != nil {
		t.Fatalf("SighashSingle anyone_can_pay: %s", err)
	}
	if plain.Equal(anyoneCanPay) {
		t.Fatal("SIGHASH_SINGLE and SIGHASH_SINGLE|ANYONECANPAY must digest differently")
	}
}

// TestSighashAllExactDigest pins sighash_all against a literal digest computed independently
// (by hand-assembling the legacy sighash preimage and double-SHA256'ing it) from the same
// twoInputTx fixture, rather than against an upstream test vector: the original source's own
// fixture values for this scenario live in a helpers module that was not available to carry
// forward, so this is the closest exact-literal equivalent obtainable without fabricating data.
func TestSighashAllExactDigest(t *testing.T) {
	tx := twoInputTx(t)
	prevoutScript := []byte{0x76, 0xa9, 0x14}

	got, err := tx.SighashAll(0, prevoutScript, false)
	if err != nil {
		t.Fatalf("SighashAll: %s", err)
	}
	want := mustHash32(t, "ce21644906c5725451b7250f02c9e7f62fd9993ccd962ac9f1db94d95371f1bf")
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestSighashAllAnyoneCanPayExactDigest(t *testing.T) {
	tx := twoInputTx(t)
	prevoutScript := []byte{0x76, 0xa9, 0x14}

	got, err := tx.SighashAll(0, prevoutScript, true)
	if err != nil {
		t.Fatalf("SighashAll anyone_can_pay: %s", err)
	}
	want := mustHash32(t, "5275c8d463fbb3e3313d2803ee4a792051fb8ecebe1baa29c63d251528627b98")
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestSighashSingleExactDigest(t *testing.T) {
	tx := twoInputTx(t)
	prevoutScript := []byte{0x76, 0xa9, 0x14}

	got, err := tx.SighashSingle(0, prevoutScript, false)
	if err != nil {
		t.Fatalf("SighashSingle: %s", err)
	}
	want := mustHash32(t, "7d58753ff80d205f366facd679a18d22d3300cc4cda02c615a5f934326c38805")
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestSighashSingleAnyoneCanPayExactDigest(t *testing.T) {
	tx := twoInputTx(t)
	prevoutScript := []byte{0x76, 0xa9, 0x14}

	got, err := tx.SighashSingle(0, prevoutScript, true)
	if err != nil {
		t.Fatalf("SighashSingle anyone_can_pay: %s", err)
	}
	want := mustHash32(t, "03ebcda037890113a55ff61204469085ee9410c0215a355e0620d977717497a2")
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

// mustHash32 builds a Hash32 directly from raw digest bytes (the order double-SHA256 produces
// them in), not NewHash32FromStr's big-endian display order, since that is what SighashAll and
// SighashSingle return.
func mustHash32(t *testing.T, hexStr string) *bitcoin.Hash32 {
	t.Helper()
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		t.Fatalf("hex.DecodeString: %s", err)
	}
	h, err := bitcoin.NewHash32(b)
	if err != nil {
		t.Fatalf("NewHash32: %s", err)
	}
	return h
}

func TestSighashNoneRejected(t *testing.T) {
	tx := twoInputTx(t)
	_, err := tx.SighashNone(0, []byte{0x01}, false)
	if err != ErrSighashNone {
		t.Fatalf("got %v, want ErrSighashNone", err)
	}
	if err.Error() != "SIGHASH_NONE is a bad idea." {
		t.Fatalf("wrong message: %s", err)
	}
}
