// Package output selects how the return slot of a call is read back and
// formats it for display.
package output

import (
	"fmt"
	"strings"

	"crepl/internal/ctype"
	"crepl/internal/token"
)

// Mode is the session-wide interpretation of call results.
type Mode uint8

const (
	Int Mode = iota
	Float
	Char
	Void
	String
	Address
)

var modeNames = [...]string{
	Int:     "int",
	Float:   "float",
	Char:    "char",
	Void:    "void",
	String:  "string",
	Address: "pointer",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ReturnTag is the return type the signature is built with.
func (m Mode) ReturnTag() ctype.Tag {
	switch m {
	case Int:
		return ctype.SInt64
	case Float:
		return ctype.Float64
	case Char:
		return ctype.SInt8
	case String, Address:
		return ctype.Pointer
	default:
		return ctype.Void
	}
}

// Parse accepts a mode name as used by --mode and the config file.
func Parse(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "integer", "d":
		return Int, nil
	case "float", "double", "f":
		return Float, nil
	case "char", "c":
		return Char, nil
	case "void", "v":
		return Void, nil
	case "string", "str", "s":
		return String, nil
	case "pointer", "address", "ptr", "p":
		return Address, nil
	}
	return Int, fmt.Errorf("unknown output mode %q (want int, float, char, void, string or pointer)", name)
}

// FromDirective maps :d/:f/:c/:v/:s/:p to a mode.
func FromDirective(d token.Directive) (Mode, bool) {
	switch d {
	case token.DirModeInt:
		return Int, true
	case token.DirModeFloat:
		return Float, true
	case token.DirModeChar:
		return Char, true
	case token.DirModeVoid:
		return Void, true
	case token.DirModeString:
		return String, true
	case token.DirModeAddress:
		return Address, true
	}
	return Int, false
}
