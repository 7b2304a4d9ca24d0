// Package ctype describes the native scalar types an argument or return slot can take.
package ctype

import "fmt"

// Tag is a native argument or return type.
type Tag uint8

const (
	Void Tag = iota
	SInt8
	SInt16
	SInt32
	SInt64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	Pointer
)

var tagNames = [...]string{
	Void:    "void",
	SInt8:   "sint8",
	SInt16:  "sint16",
	SInt32:  "sint32",
	SInt64:  "sint64",
	UInt8:   "uint8",
	UInt16:  "uint16",
	UInt32:  "uint32",
	UInt64:  "uint64",
	Float32: "float",
	Float64: "double",
	Pointer: "pointer",
}

// Size returns the storage width in bytes; Void has none.
// Pointer assumes a 64-bit target.
func (t Tag) Size() int {
	switch t {
	case SInt8, UInt8:
		return 1
	case SInt16, UInt16:
		return 2
	case SInt32, UInt32, Float32:
		return 4
	case SInt64, UInt64, Float64, Pointer:
		return 8
	default:
		return 0
	}
}

func (t Tag) Signed() bool {
	return t >= SInt8 && t <= SInt64
}

func (t Tag) Unsigned() bool {
	return t >= UInt8 && t <= UInt64
}

func (t Tag) Integer() bool { return t.Signed() || t.Unsigned() }

func (t Tag) Float() bool { return t == Float32 || t == Float64 }

func (t Tag) Valid() bool { return int(t) < len(tagNames) }

func (t Tag) String() string {
	if t.Valid() {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// Sig renders a signature as "double(double, pointer)".
func Sig(ret Tag, args []Tag) string {
	buf := make([]byte, 0, 16+8*len(args))
	buf = append(buf, ret.String()...)
	buf = append(buf, '(')
	for i, a := range args {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, a.String()...)
	}
	buf = append(buf, ')')
	return string(buf)
}
