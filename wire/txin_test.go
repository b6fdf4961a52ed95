package wire

import (
	"bytes"
	"strings"
	"testing"
)

func TestTxInScriptSigPlainStackScript(t *testing.T) {
	outp := mustOutpoint(t, 0)
	in, err := NewTxIn(outp, []byte{0x01, 0x02}, nil, 0xffffffff)
	if err != nil {
		t.Fatalf("NewTxIn: %s", err)
	}
	if !bytes.Equal(in.ScriptSig(), []byte{0x01, 0x02}) {
		t.Fatalf("got script_sig %x, want %x", in.ScriptSig(), []byte{0x01, 0x02})
	}
}

func TestTxInScriptSigP2SH(t *testing.T) {
	outp := mustOutpoint(t, 0)
	stackScript := []byte{0x01, 0x02}
	redeemScript := []byte{0x76, 0xa9, 0x14}

	in, err := NewTxIn(outp, stackScript, redeemScript, 0xffffffff)
	if err != nil {
		t.Fatalf("NewTxIn: %s", err)
	}

	want := append(append([]byte(nil), stackScript...), byte(len(redeemScript)))
	want = append(want, redeemScript...)
	if !bytes.Equal(in.ScriptSig(), want) {
		t.Fatalf("got script_sig %x, want %x", in.ScriptSig(), want)
	}
}

func TestTxInRejectsOversizedScriptSig(t *testing.T) {
	outp := mustOutpoint(t, 0)
	stackScript := make([]byte, MaxScriptSigSize+1)

	_, err := NewTxIn(outp, stackScript, nil, 0)
	if err == nil {
		t.Fatal("expected error for oversized script_sig")
	}
	if !strings.Contains(err.Error(), "Input script_sig is too long") {
		t.Fatalf("wrong error: %s", err)
	}
}

func TestTxInSerializeRoundTrip(t *testing.T) {
	outp := mustOutpoint(t, 2)
	in, err := NewTxIn(outp, []byte{0x01, 0x02, 0x03}, nil, 0xfffffffe)
	if err != nil {
		t.Fatalf("NewTxIn: %s", err)
	}

	parsed, err := readTxIn(bytes.NewReader(in.Bytes()), MaxTxSize)
	if err != nil {
		t.Fatalf("readTxIn: %s", err)
	}
	if !parsed.Equal(in) {
		t.Fatalf("round trip mismatch: got %x, want %x", parsed.Bytes(), in.Bytes())
	}
	if parsed.Sequence() != 0xfffffffe {
		t.Fatalf("got sequence %#x, want %#x", parsed.Sequence(), 0xfffffffe)
	}
}

func TestTxInCopy(t *testing.T) {
	outp := mustOutpoint(t, 0)
	in, err := NewTxIn(outp, []byte{0x01}, nil, 0)
	if err != nil {
		t.Fatalf("NewTxIn: %s", err)
	}

	changed, err := in.Copy(WithSequence(5))
	if err != nil {
		t.Fatalf("Copy: %s", err)
	}
	if changed.Sequence() != 5 {
		t.Fatalf("got sequence %d, want 5", changed.Sequence())
	}
	if in.Sequence() != 0 {
		t.Fatal("original input must be unaffected by Copy")
	}
}
