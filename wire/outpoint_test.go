package wire

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestOutpointBytes(t *testing.T) {
	txID, err := hex.DecodeString("10399b3f20cbdd4b5ac3f823afdba28b9f70e21437a59b312a1b62c42c5cd101")
	if err != nil {
		t.Fatalf("decode tx_id: %s", err)
	}
	reversed := make([]byte, len(txID))
	for i, b := range txID {
		reversed[len(txID)-1-i] = b
	}

	index := []byte{0x00, 0x00, 0x00, 0x00}

	outp, err := NewOutpoint(reversed, index)
	if err != nil {
		t.Fatalf("NewOutpoint: %s", err)
	}

	want := append(append([]byte(nil), reversed...), index...)
	if !bytes.Equal(outp.Bytes(), want) {
		t.Fatalf("got %x, want %x", outp.Bytes(), want)
	}
}

func TestOutpointRejectsWrongLengths(t *testing.T) {
	if _, err := NewOutpoint(make([]byte, 31), make([]byte, 4)); err == nil {
		t.Fatal("expected error for short tx_id")
	}
	if _, err := NewOutpoint(make([]byte, 32), make([]byte, 3)); err == nil {
		t.Fatal("expected error for short index")
	}
}

func TestOutpointRoundTrip(t *testing.T) {
	outp, err := NewOutpointFromIndex(make([]byte, 32), 7)
	if err != nil {
		t.Fatalf("NewOutpointFromIndex: %s", err)
	}

	parsed, err := DeserializeOutpoint(bytes.NewReader(outp.Bytes()))
	if err != nil {
		t.Fatalf("DeserializeOutpoint: %s", err)
	}
	if !parsed.Equal(outp) {
		t.Fatalf("round trip mismatch: got %x, want %x", parsed.Bytes(), outp.Bytes())
	}
}

func TestOutpointCopy(t *testing.T) {
	txID := make([]byte, 32)
	txID[0] = 0x01
	outp, err := NewOutpointFromIndex(txID, 3)
	if err != nil {
		t.Fatalf("NewOutpointFromIndex: %s", err)
	}

	same, err := outp.Copy()
	if err != nil {
		t.Fatalf("Copy: %s", err)
	}
	if !same.Equal(outp) {
		t.Fatal("copy without overrides must equal the original")
	}

	overridden, err := outp.Copy(WithIndex(9))
	if err != nil {
		t.Fatalf("Copy with override: %s", err)
	}
	if overridden.Index() != 9 {
		t.Fatalf("got index %d, want 9", overridden.Index())
	}
	if overridden.TxID() != outp.TxID() {
		t.Fatal("overriding index must not change tx_id")
	}
}

func TestOutpointEqualAgainstRawBytes(t *testing.T) {
	outp, err := NewOutpointFromIndex(make([]byte, 32), 1)
	if err != nil {
		t.Fatalf("NewOutpointFromIndex: %s", err)
	}
	if !outp.Equal(outp.Bytes()) {
		t.Fatal("expected Equal to match identical raw bytes")
	}
	if outp.Equal("not bytes") {
		t.Fatal("expected Equal to reject an unrecognized type")
	}
}
