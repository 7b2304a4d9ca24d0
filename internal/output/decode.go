package output

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/unicode/norm"

	"crepl/internal/callconv"
	"crepl/internal/diag"
)

// NullString is shown for a NULL char* result.
const NullString = "(NullString)"

// MaxString caps how far a returned char* is scanned for its terminator.
const MaxString = 1 << 20

// Result is a formatted call result.
type Result struct {
	Mode Mode
	Text string
	Raw  uint64 // первые 8 байт слота
}

// Error is a result that cannot be read back in the active mode.
type Error struct {
	code diag.Code
	Msg  string
	Hint string
}

func (e *Error) Error() string   { return e.Msg }
func (e *Error) Code() diag.Code { return e.code }

func (e *Error) Notes() []diag.Note {
	if e.Hint == "" {
		return nil
	}
	return []diag.Note{{Msg: e.Hint}}
}

// Memory reads NUL-terminated strings out of native memory.
type Memory interface {
	CString(p unsafe.Pointer, limit int) ([]byte, error)
}

// ErrUnreadable is returned by Memory for addresses that are not mapped.
var ErrUnreadable = errors.New("address is not readable")

// ErrUnterminated is returned when no NUL appears within the limit.
var ErrUnterminated = errors.New("no terminating NUL")

// Decode reinterprets the return slot per mode. Void never reaches Decode.
func Decode(mode Mode, slot *[callconv.ResultSize]byte, mem Memory) (Result, error) {
	raw := *(*uint64)(unsafe.Pointer(&slot[0]))
	res := Result{Mode: mode, Raw: raw}
	switch mode {
	case Int:
		res.Text = strconv.FormatInt(int64(raw), 10) //nolint:gosec // reinterpretation
	case Float:
		res.Text = FormatFloat(math.Float64frombits(raw))
	case Char:
		res.Text = strconv.Itoa(int(int8(slot[0]))) //nolint:gosec // signed char
	case Address:
		res.Text = FormatAddress(uintptr(raw))
	case String:
		text, err := decodeString(unsafe.Pointer(uintptr(raw)), mem) //nolint:govet // address from native code
		if err != nil {
			return res, err
		}
		res.Text = text
	default:
		return res, &Error{code: diag.DecNoResult, Msg: fmt.Sprintf("mode %s produces no result", mode)}
	}
	return res, nil
}

func decodeString(p unsafe.Pointer, mem Memory) (string, error) {
	if p == nil {
		return NullString, nil
	}
	b, err := mem.CString(p, MaxString)
	switch {
	case errors.Is(err, ErrUnreadable):
		return "", &Error{
			code: diag.DecUnreadable,
			Msg:  fmt.Sprintf("result %s does not point to readable memory", FormatAddress(uintptr(p))),
			Hint: "the function probably does not return char*; try :d or :p",
		}
	case errors.Is(err, ErrUnterminated):
		return "", &Error{
			code: diag.DecInvalidText,
			Msg:  fmt.Sprintf("no NUL terminator within %d bytes of %s", MaxString, FormatAddress(uintptr(p))),
			Hint: "try :p to see the raw address",
		}
	case err != nil:
		return "", &Error{code: diag.DecUnreadable, Msg: err.Error()}
	}
	if !utf8.Valid(b) {
		return "", &Error{
			code: diag.DecInvalidText,
			Msg:  "result is not valid UTF-8 text",
			Hint: "try :p to see the raw address",
		}
	}
	return norm.NFC.String(string(b)), nil
}

// FormatFloat prints integral values without a fraction ("0", "-2") and
// switches to exponent form for very large or small magnitudes.
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func FormatAddress(p uintptr) string {
	return "0x" + strconv.FormatUint(uint64(p), 16)
}
