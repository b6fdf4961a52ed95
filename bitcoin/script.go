package bitcoin

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// This file provides the script module's external interface: textual mnemonic scripts convert
// to and from their canonical byte encoding. Bytecode is only split into opcode and push items;
// executing it (OP_IF branching, signature checking, stack evaluation) is outside the core's
// scope; this is the opaque serializer consumers hand scripts through.

const (
	ScriptItemTypeOpCode   = ScriptItemType(0x01)
	ScriptItemTypePushData = ScriptItemType(0x02)

	OP_FALSE = byte(0x00)
	OP_TRUE  = byte(0x51)

	OP_1NEGATE = byte(0x4f)

	OP_0  = byte(0x00)
	OP_1  = byte(0x51)
	OP_2  = byte(0x52)
	OP_3  = byte(0x53)
	OP_16 = byte(0x60)

	OP_NOP    = byte(0x61)
	OP_IF     = byte(0x63)
	OP_NOTIF  = byte(0x64)
	OP_ELSE   = byte(0x67)
	OP_ENDIF  = byte(0x68)
	OP_VERIFY = byte(0x69)
	OP_RETURN = byte(0x6a)

	OP_DUP = byte(0x76)

	OP_EQUAL       = byte(0x87)
	OP_EQUALVERIFY = byte(0x88)

	OP_RIPEMD160           = byte(0xa6)
	OP_SHA256              = byte(0xa8)
	OP_HASH160             = byte(0xa9)
	OP_HASH256             = byte(0xaa)
	OP_CODESEPARATOR       = byte(0xab)
	OP_CHECKSIG            = byte(0xac)
	OP_CHECKSIGVERIFY      = byte(0xad)
	OP_CHECKMULTISIG       = byte(0xae)
	OP_CHECKMULTISIGVERIFY = byte(0xaf)

	OP_PUSH_DATA_20 = byte(0x14)
	OP_PUSH_DATA_32 = byte(0x20)
	OP_PUSH_DATA_33 = byte(0x21)

	// OP_MAX_SINGLE_BYTE_PUSH_DATA represents the max length for a single byte push.
	OP_MAX_SINGLE_BYTE_PUSH_DATA = byte(0x4b)

	// OP_PUSH_DATA_1 represents the OP_PUSHDATA1 opcode.
	OP_PUSH_DATA_1 = byte(0x4c)

	// OP_PUSH_DATA_2 represents the OP_PUSHDATA2 opcode.
	OP_PUSH_DATA_2 = byte(0x4d)

	// OP_PUSH_DATA_4 represents the OP_PUSHDATA4 opcode.
	OP_PUSH_DATA_4 = byte(0x4e)

	// OP_PUSH_DATA_1_MAX is the maximum number of bytes usable with OP_PUSHDATA1.
	OP_PUSH_DATA_1_MAX = uint64(255)

	// OP_PUSH_DATA_2_MAX is the maximum number of bytes usable with OP_PUSHDATA2.
	OP_PUSH_DATA_2_MAX = uint64(65535)
)

var (
	endian = binary.LittleEndian

	ErrInvalidScript         = errors.New("Invalid Script")
	ErrInvalidScriptItemType = errors.New("Invalid Script Item Type")

	byteToNames = map[byte]string{
		OP_0:                   "OP_0",
		OP_1NEGATE:             "OP_1NEGATE",
		OP_16:                  "OP_16",
		OP_RETURN:              "OP_RETURN",
		OP_DUP:                 "OP_DUP",
		OP_RIPEMD160:           "OP_RIPEMD160",
		OP_SHA256:              "OP_SHA256",
		OP_HASH160:             "OP_HASH160",
		OP_HASH256:             "OP_HASH256",
		OP_EQUAL:               "OP_EQUAL",
		OP_EQUALVERIFY:         "OP_EQUALVERIFY",
		OP_CODESEPARATOR:       "OP_CODESEPARATOR",
		OP_CHECKSIG:            "OP_CHECKSIG",
		OP_CHECKSIGVERIFY:      "OP_CHECKSIGVERIFY",
		OP_CHECKMULTISIG:       "OP_CHECKMULTISIG",
		OP_CHECKMULTISIGVERIFY: "OP_CHECKMULTISIGVERIFY",
		OP_NOP:                 "OP_NOP",
		OP_IF:                  "OP_IF",
		OP_NOTIF:               "OP_NOTIF",
		OP_ELSE:                "OP_ELSE",
		OP_ENDIF:               "OP_ENDIF",
		OP_VERIFY:              "OP_VERIFY",
	}

	byteFromNames = map[string]byte{
		"OP_FALSE":               OP_FALSE,
		"OP_TRUE":                OP_TRUE,
		"OP_1NEGATE":             OP_1NEGATE,
		"OP_0":                   OP_0,
		"OP_16":                  OP_16,
		"OP_RETURN":              OP_RETURN,
		"OP_DUP":                 OP_DUP,
		"OP_RIPEMD160":           OP_RIPEMD160,
		"OP_SHA256":              OP_SHA256,
		"OP_HASH160":             OP_HASH160,
		"OP_HASH256":             OP_HASH256,
		"OP_EQUAL":               OP_EQUAL,
		"OP_EQUALVERIFY":         OP_EQUALVERIFY,
		"OP_CODESEPARATOR":       OP_CODESEPARATOR,
		"OP_CHECKSIG":            OP_CHECKSIG,
		"OP_CHECKSIGVERIFY":      OP_CHECKSIGVERIFY,
		"OP_CHECKMULTISIG":       OP_CHECKMULTISIG,
		"OP_CHECKMULTISIGVERIFY": OP_CHECKMULTISIGVERIFY,
		"OP_NOP":                 OP_NOP,
		"OP_IF":                  OP_IF,
		"OP_NOTIF":               OP_NOTIF,
		"OP_ELSE":                OP_ELSE,
		"OP_ENDIF":               OP_ENDIF,
		"OP_VERIFY":              OP_VERIFY,
	}
)

type ScriptItemType uint8

// ScriptItem is a single element of a parsed script: either an opcode or a length-prefixed push.
type ScriptItem struct {
	Type   ScriptItemType
	OpCode byte
	Data   Hex
}

type ScriptItems []*ScriptItem

// Script is a raw, already assembled bitcoin script. The core treats it as opaque bytes; it
// never interprets the opcodes it carries.
type Script []byte

func (item ScriptItem) String() string {
	if item.Type == ScriptItemTypePushData {
		return fmt.Sprintf("0x%s", hex.EncodeToString(item.Data))
	}

	if name, exists := byteToNames[item.OpCode]; exists {
		return name
	}

	return fmt.Sprintf("{0x%s}", hex.EncodeToString([]byte{item.OpCode}))
}

func (i ScriptItem) Equal(item ScriptItem) bool {
	return i.Type == item.Type && i.OpCode == item.OpCode && bytes.Equal(i.Data, item.Data)
}

func NewOpCodeScriptItem(opCode byte) *ScriptItem {
	return &ScriptItem{Type: ScriptItemTypeOpCode, OpCode: opCode}
}

func NewPushDataScriptItem(b []byte) *ScriptItem {
	return &ScriptItem{Type: ScriptItemTypePushData, Data: b}
}

func (item ScriptItem) Script() (Script, error) {
	buf := &bytes.Buffer{}
	if err := item.Write(buf); err != nil {
		return nil, err
	}
	return Script(buf.Bytes()), nil
}

func (item ScriptItem) Write(w io.Writer) error {
	switch item.Type {
	case ScriptItemTypeOpCode:
		if _, err := w.Write([]byte{item.OpCode}); err != nil {
			return errors.Wrap(err, "op code")
		}

	case ScriptItemTypePushData:
		if err := WritePushDataScript(w, item.Data); err != nil {
			return errors.Wrap(err, "data")
		}

	default:
		return errors.Wrapf(ErrInvalidScriptItemType, "%d", item.Type)
	}

	return nil
}

// PushDataSize returns the size of the script item needed to push data of a specified size.
func PushDataSize(size int) int {
	if size <= int(OP_MAX_SINGLE_BYTE_PUSH_DATA) {
		return 1 + size
	} else if uint64(size) <= OP_PUSH_DATA_1_MAX {
		return 2 + size
	} else if uint64(size) <= OP_PUSH_DATA_2_MAX {
		return 3 + size
	}

	return 4 + size
}

// WritePushDataScript writes a push data bitcoin script including the encoded size preceding it.
func WritePushDataScript(w io.Writer, data []byte) error {
	size := len(data)
	var err error
	if size <= int(OP_MAX_SINGLE_BYTE_PUSH_DATA) {
		_, err = w.Write([]byte{byte(size)})
	} else if size <= int(OP_PUSH_DATA_1_MAX) {
		_, err = w.Write([]byte{OP_PUSH_DATA_1, byte(size)})
	} else if size <= int(OP_PUSH_DATA_2_MAX) {
		if _, err = w.Write([]byte{OP_PUSH_DATA_2}); err != nil {
			return err
		}
		err = binary.Write(w, endian, uint16(size))
	} else {
		if _, err = w.Write([]byte{OP_PUSH_DATA_4}); err != nil {
			return err
		}
		err = binary.Write(w, endian, uint32(size))
	}
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// ParseScript parses the next item (opcode or push) of a bitcoin script.
func ParseScript(buf *bytes.Reader) (*ScriptItem, error) {
	var opCode byte
	if err := binary.Read(buf, endian, &opCode); err != nil {
		return nil, err
	}

	isPushOp := false
	dataSize := 0
	if opCode == OP_FALSE {
		return &ScriptItem{Type: ScriptItemTypeOpCode, OpCode: opCode}, nil
	} else if opCode <= OP_MAX_SINGLE_BYTE_PUSH_DATA {
		isPushOp = true
		dataSize = int(opCode)
	} else {
		switch opCode {
		case OP_PUSH_DATA_1:
			var size uint8
			if err := binary.Read(buf, endian, &size); err != nil {
				return nil, err
			}
			isPushOp = true
			dataSize = int(size)
		case OP_PUSH_DATA_2:
			var size uint16
			if err := binary.Read(buf, endian, &size); err != nil {
				return nil, err
			}
			isPushOp = true
			dataSize = int(size)
		case OP_PUSH_DATA_4:
			var size uint32
			if err := binary.Read(buf, endian, &size); err != nil {
				return nil, err
			}
			isPushOp = true
			dataSize = int(size)
		}
	}

	if !isPushOp {
		return &ScriptItem{Type: ScriptItemTypeOpCode, OpCode: opCode}, nil
	}
	if dataSize == 0 {
		return &ScriptItem{Type: ScriptItemTypePushData, OpCode: opCode}, nil
	}

	if dataSize > buf.Len() {
		return nil, errors.Wrap(ErrInvalidScript,
			fmt.Sprintf("Push data size past end of script : %d/%d", dataSize, buf.Len()))
	}

	data := make([]byte, dataSize)
	if _, err := buf.Read(data); err != nil {
		return nil, err
	}

	return &ScriptItem{Type: ScriptItemTypePushData, OpCode: opCode, Data: data}, nil
}

// ScriptToString converts a bitcoin script into its text representation.
func ScriptToString(script Script) string {
	var result []string
	buf := bytes.NewReader(script)

	for {
		item, err := ParseScript(buf)
		if err != nil {
			break
		}

		result = append(result, item.String())
	}

	return strings.Join(result, " ")
}

// StringToScript converts a text representation of a bitcoin script into its byte encoding.
// Mnemonic tokens ("OP_DUP"), hex literals ("0x1234"), and undefined opcode literals ("{0xAB}")
// are supported; it does not evaluate or validate the resulting script.
func StringToScript(text string) (Script, error) {
	buf := &bytes.Buffer{}

	for _, part := range strings.Fields(text) {
		if len(part) > 3 && part[:3] == "OP_" {
			if opCode, exists := byteFromNames[part]; exists {
				buf.WriteByte(opCode)
				continue
			}
		}

		if len(part) >= 2 && part[:2] == "0x" {
			b, err := hex.DecodeString(part[2:])
			if err != nil {
				return nil, errors.Wrapf(err, "decode push data hex: %s", part[2:])
			}

			if err := WritePushDataScript(buf, b); err != nil {
				return nil, errors.Wrap(err, "write push data")
			}
			continue
		}

		if len(part) > 2 && part[0] == '{' && part[len(part)-1] == '}' {
			b, err := hex.DecodeString(strings.TrimPrefix(part[1:len(part)-1], "0x"))
			if err != nil {
				return nil, errors.Wrapf(err, "decode undefined op code hex: %s", part)
			}

			buf.Write(b)
			continue
		}

		return nil, errors.Wrap(errors.New("Unknown Script Item"), part)
	}

	return Script(buf.Bytes()), nil
}

// SerializeFromString is the external script serializer: textual script to canonical bytes.
func SerializeFromString(s string) ([]byte, error) {
	script, err := StringToScript(s)
	if err != nil {
		return nil, err
	}
	return []byte(script), nil
}

// HexSerializeFromString produces a hex literal push ("0x...") of the serialized form of s, used
// to embed a P2SH redeem script inside a stack_script.
func HexSerializeFromString(s string) (string, error) {
	b, err := SerializeFromString(s)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}

// BytePushData returns the push op to push a single byte value to the stack.
func BytePushData(b byte) Script {
	if b == 0 {
		return Script{OP_0}
	}

	if b <= 16 {
		return Script{OP_1 + b - 1}
	}

	return Script{0x01, b}
}

// PushData returns the push-data script that pushes b onto the stack.
func PushData(b []byte) Script {
	script, err := NewPushDataScriptItem(b).Script()
	if err != nil {
		panic(fmt.Sprintf("Failed to create push data script : %s", err))
	}

	return script
}
