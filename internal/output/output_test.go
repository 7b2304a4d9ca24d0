package output

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"crepl/internal/callconv"
	"crepl/internal/ctype"
	"crepl/internal/diag"
	"crepl/internal/token"
)

func slotOf(bits uint64) *[callconv.ResultSize]byte {
	var s [callconv.ResultSize]byte
	*(*uint64)(unsafe.Pointer(&s[0])) = bits
	return &s
}

func TestReturnTags(t *testing.T) {
	want := map[Mode]ctype.Tag{
		Int: ctype.SInt64, Float: ctype.Float64, Char: ctype.SInt8,
		Void: ctype.Void, String: ctype.Pointer, Address: ctype.Pointer,
	}
	for m, tag := range want {
		if got := m.ReturnTag(); got != tag {
			t.Fatalf("%v.ReturnTag() = %v, want %v", m, got, tag)
		}
	}
}

func TestParseAndDirectives(t *testing.T) {
	for name, want := range map[string]Mode{"int": Int, "Double": Float, "c": Char, "void": Void, "s": String, "pointer": Address} {
		got, err := Parse(name)
		if err != nil || got != want {
			t.Fatalf("Parse(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := Parse("struct"); err == nil {
		t.Fatalf("Parse(struct) should fail")
	}
	if m, ok := FromDirective(token.DirModeFloat); !ok || m != Float {
		t.Fatalf("FromDirective(:f) = %v, %v", m, ok)
	}
	if _, ok := FromDirective(token.DirList); ok {
		t.Fatalf(":ls is not a mode")
	}
}

func TestDecodeNumbers(t *testing.T) {
	cases := []struct {
		mode Mode
		bits uint64
		want string
	}{
		{Int, 42, "42"},
		{Int, uint64(math.MaxUint64), "-1"},
		{Float, math.Float64bits(0), "0"},
		{Float, math.Float64bits(-2), "-2"},
		{Float, math.Float64bits(0.5), "0.5"},
		{Float, math.Float64bits(1e300), "1e+300"},
		{Char, 0xFF, "-1"},
		{Char, 'A', "65"},
		{Address, 0xdeadbeef, "0xdeadbeef"},
	}
	for _, tc := range cases {
		res, err := Decode(tc.mode, slotOf(tc.bits), nil)
		if err != nil {
			t.Fatalf("%v %#x: %v", tc.mode, tc.bits, err)
		}
		if res.Text != tc.want {
			t.Fatalf("%v %#x = %q, want %q", tc.mode, tc.bits, res.Text, tc.want)
		}
	}
}

type fakeMemory struct {
	data []byte
	err  error
}

func (m fakeMemory) CString(unsafe.Pointer, int) ([]byte, error) { return m.data, m.err }

func TestDecodeString(t *testing.T) {
	var x byte
	addr := uint64(uintptr(unsafe.Pointer(&x)))

	res, err := Decode(String, slotOf(addr), fakeMemory{data: []byte("hello")})
	if err != nil || res.Text != "hello" {
		t.Fatalf("string = %q, %v", res.Text, err)
	}

	res, err = Decode(String, slotOf(0), fakeMemory{})
	if err != nil || res.Text != NullString {
		t.Fatalf("null = %q, %v", res.Text, err)
	}

	// e + combining acute composes to a single rune
	res, _ = Decode(String, slotOf(addr), fakeMemory{data: []byte("e\u0301")})
	if res.Text != "\u00e9" {
		t.Fatalf("NFC = %q", res.Text)
	}

	cases := map[string]struct {
		mem  fakeMemory
		code diag.Code
	}{
		"unreadable":   {fakeMemory{err: ErrUnreadable}, diag.DecUnreadable},
		"unterminated": {fakeMemory{err: ErrUnterminated}, diag.DecInvalidText},
		"invalid utf8": {fakeMemory{data: []byte{0xff, 0xfe}}, diag.DecInvalidText},
	}
	for name, tc := range cases {
		_, err := Decode(String, slotOf(addr), tc.mem)
		var de *Error
		if !errors.As(err, &de) || de.Code() != tc.code {
			t.Fatalf("%s: err = %v", name, err)
		}
		if len(de.Notes()) == 0 {
			t.Fatalf("%s: expected a hint", name)
		}
	}
}

func TestProcessMemory(t *testing.T) {
	buf := []byte("native\x00rest")
	got, err := ProcessMemory{}.CString(unsafe.Pointer(&buf[0]), 64)
	if err != nil || string(got) != "native" {
		t.Fatalf("CString = %q, %v", got, err)
	}
	if _, err := (ProcessMemory{}).CString(unsafe.Pointer(&buf[0]), 3); !errors.Is(err, ErrUnterminated) {
		t.Fatalf("limit: err = %v", err)
	}
}
