package wire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nondejus/txcore/bitcoin"
)

func TestNewTxOutDustLimit(t *testing.T) {
	script := []byte{bitcoin.OP_DUP, bitcoin.OP_HASH160}

	if _, err := NewTxOut(5, script); err == nil {
		t.Fatal("expected dust limit error for value 5")
	} else if !strings.Contains(err.Error(), "Transaction value below dust limit") {
		t.Fatalf("wrong error: %s", err)
	}

	out, err := NewTxOut(547, script)
	if err != nil {
		t.Fatalf("value 547 should succeed: %s", err)
	}
	if out.Value() != 547 {
		t.Fatalf("got value %d, want 547", out.Value())
	}
}

func TestTxOutSerializeRoundTrip(t *testing.T) {
	script := []byte{bitcoin.OP_DUP, bitcoin.OP_HASH160, 0x01, 0x02, bitcoin.OP_EQUALVERIFY, bitcoin.OP_CHECKSIG}
	out, err := NewTxOut(2000, script)
	if err != nil {
		t.Fatalf("NewTxOut: %s", err)
	}

	parsed, err := readTxOut(bytes.NewReader(out.Bytes()), MaxTxSize, bitcoin.LegacyParams)
	if err != nil {
		t.Fatalf("readTxOut: %s", err)
	}
	if !parsed.Equal(out) {
		t.Fatalf("round trip mismatch: got %x, want %x", parsed.Bytes(), out.Bytes())
	}
}

func TestTxOutCopy(t *testing.T) {
	out, err := NewTxOut(2000, []byte{bitcoin.OP_RETURN})
	if err != nil {
		t.Fatalf("NewTxOut: %s", err)
	}

	overridden, err := out.Copy(WithValue(1000))
	if err != nil {
		t.Fatalf("Copy: %s", err)
	}
	if overridden.Value() != 1000 {
		t.Fatalf("got value %d, want 1000", overridden.Value())
	}
	if !bytes.Equal(overridden.OutputScript(), out.OutputScript()) {
		t.Fatal("overriding value must not change output_script")
	}

	if _, err := out.Copy(WithValue(1)); err == nil {
		t.Fatal("expected dust limit error on overridden copy")
	}
}
