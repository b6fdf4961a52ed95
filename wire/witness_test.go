package wire

import (
	"bytes"
	"testing"
)

func TestNewWitnessStackItemRejectsNil(t *testing.T) {
	if _, err := NewWitnessStackItem(nil); err == nil {
		t.Fatal("expected error for nil witness stack item")
	}
}

func TestWitnessStackItemSerializeRoundTrip(t *testing.T) {
	item, err := NewWitnessStackItem([]byte{0x30, 0x44, 0x02})
	if err != nil {
		t.Fatalf("NewWitnessStackItem: %s", err)
	}

	parsed, err := DeserializeWitnessStackItem(bytes.NewReader(item.Bytes()))
	if err != nil {
		t.Fatalf("DeserializeWitnessStackItem: %s", err)
	}
	if !parsed.Equal(item) {
		t.Fatalf("round trip mismatch: got %x, want %x", parsed.Bytes(), item.Bytes())
	}
}

func TestInputWitnessSerializeRoundTrip(t *testing.T) {
	witness, err := NewInputWitness([][]byte{{0x30, 0x44}, {0x02, 0x01}, {}})
	if err != nil {
		t.Fatalf("NewInputWitness: %s", err)
	}

	parsed, err := DeserializeInputWitness(bytes.NewReader(witness.Bytes()))
	if err != nil {
		t.Fatalf("DeserializeInputWitness: %s", err)
	}
	if !parsed.Equal(witness) {
		t.Fatalf("round trip mismatch: got %x, want %x", parsed.Bytes(), witness.Bytes())
	}
	if len(parsed.Items()) != 3 {
		t.Fatalf("got %d items, want 3", len(parsed.Items()))
	}
}

func TestNewInputWitnessRejectsNilItem(t *testing.T) {
	if _, err := NewInputWitness([][]byte{{0x01}, nil}); err == nil {
		t.Fatal("expected error for nil item in witness stack")
	}
}
