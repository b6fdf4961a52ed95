package wire

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestWriteVarIntBoundaries(t *testing.T) {
	tests := []struct {
		value uint64
		want  string
	}{
		{0xfb, "fb"},
		{0xff, "fdff00"},
		{0xffff, "fdffff"},
		{0xffffffff, "feffffffff"},
		{0x0123456789abcdef, "ffefcdab8967452301"},
	}

	for i, tt := range tests {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, tt.value); err != nil {
			t.Fatalf("test %d: %s", i, err)
		}
		got := hex.EncodeToString(buf.Bytes())
		if got != tt.want {
			t.Fatalf("test %d: WriteVarInt(%#x) = %s, want %s", i, tt.value, got, tt.want)
		}

		parsed, err := ReadVarInt(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("test %d: read back: %s", i, err)
		}
		if parsed.Uint64() != tt.value {
			t.Fatalf("test %d: read back %#x, want %#x", i, parsed.Uint64(), tt.value)
		}
	}
}

func TestReadVarIntMalformed(t *testing.T) {
	// Prefix 0xff declares an 8 byte value but only 2 bytes follow.
	buf := bytes.NewReader([]byte{0xff, 0x01, 0x02})
	if _, err := ReadVarInt(buf); err == nil {
		t.Fatal("expected error for truncated VarInt")
	}
}

func TestNewVarIntRejectsNegative(t *testing.T) {
	if _, err := NewVarInt(-1); err != ErrVarIntNegative {
		t.Fatalf("got %v, want ErrVarIntNegative", err)
	}
}

func TestVarBytesRoundTrip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}

	var buf bytes.Buffer
	if err := WriteVarBytes(&buf, data); err != nil {
		t.Fatalf("write: %s", err)
	}

	got, err := ReadVarBytes(bytes.NewReader(buf.Bytes()), 100, "test field")
	if err != nil {
		t.Fatalf("read: %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %x, want %x", got, data)
	}
}

func TestReadVarBytesTooLarge(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVarBytes(&buf, make([]byte, 10)); err != nil {
		t.Fatalf("write: %s", err)
	}

	if _, err := ReadVarBytes(bytes.NewReader(buf.Bytes()), 5, "test field"); err == nil {
		t.Fatal("expected error for oversized field")
	}
}
