package expr

import (
	"strings"

	"crepl/internal/diag"
	"crepl/internal/token"
)

// Eval computes n against env.
func Eval(n Node, env *Env) (Value, error) {
	switch n := n.(type) {
	case *Lit:
		return n.Val, nil
	case *Ref:
		b, ok := env.Lookup(n.Name)
		if !ok {
			return Value{}, errorf(diag.EvlUndefined, n.Sp, "undefined name %q", n.Name)
		}
		return b.Value, nil
	case *Unary:
		x, err := Eval(n.X, env)
		if err != nil {
			return Value{}, err
		}
		return evalUnary(n, x)
	case *Binary:
		l, err := Eval(n.L, env)
		if err != nil {
			return Value{}, err
		}
		r, err := Eval(n.R, env)
		if err != nil {
			return Value{}, err
		}
		return evalBinary(n, l, r)
	default:
		return Value{}, errorf(diag.EvlSyntax, n.Span(), "unsupported expression")
	}
}

func evalUnary(n *Unary, x Value) (Value, error) {
	switch n.Op {
	case token.Minus:
		switch x.Kind {
		case Integer:
			return Int(-x.I), nil
		case Number:
			return Num(-x.F), nil
		}
		return Value{}, errorf(diag.EvlType, n.Sp, "cannot negate %s", x.Kind)
	case token.Bang:
		b, ok := x.truthy()
		if !ok {
			return Value{}, errorf(diag.EvlType, n.Sp, "cannot apply ! to %s", x.Kind)
		}
		return Boolean(!b), nil
	}
	return Value{}, errorf(diag.EvlSyntax, n.Sp, "unknown unary operator %s", n.Op)
}

func evalBinary(n *Binary, l, r Value) (Value, error) {
	switch n.Op {
	case token.Plus:
		return add(n, l, r)
	case token.Minus, token.Star:
		if n.Op == token.Star {
			if v, ok, err := repeat(n, l, r); ok || err != nil {
				return v, err
			}
		}
		return arith(n, l, r)
	case token.Slash:
		return divide(n, l, r)
	case token.EqEq:
		return Boolean(equal(l, r)), nil
	case token.BangEq:
		return Boolean(!equal(l, r)), nil
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return compare(n, l, r)
	}
	return Value{}, errorf(diag.EvlSyntax, n.OpSp, "unknown operator %s", n.Op)
}

func add(n *Binary, l, r Value) (Value, error) {
	if l.numeric() && r.numeric() {
		return arith(n, l, r)
	}
	ls, lok := textOf(l)
	rs, rok := textOf(r)
	if lok && rok {
		return Str(ls + rs), nil
	}
	return Value{}, typeErr(n, "add", l, r)
}

func textOf(v Value) (string, bool) {
	switch v.Kind {
	case CString:
		return v.S, true
	case CChar:
		return string(v.C), true
	}
	return "", false
}

// arith handles + - * on numbers. Integer op Integer stays Integer
// (wrapping like int64); anything touching a Number becomes Number.
func arith(n *Binary, l, r Value) (Value, error) {
	if !l.numeric() || !r.numeric() {
		verb := map[token.Kind]string{token.Plus: "add", token.Minus: "subtract", token.Star: "multiply"}[n.Op]
		return Value{}, typeErr(n, verb, l, r)
	}
	if l.Kind == Integer && r.Kind == Integer {
		switch n.Op {
		case token.Plus:
			return Int(l.I + r.I), nil
		case token.Minus:
			return Int(l.I - r.I), nil
		default:
			return Int(l.I * r.I), nil
		}
	}
	a, b := l.float(), r.float()
	switch n.Op {
	case token.Plus:
		return Num(a + b), nil
	case token.Minus:
		return Num(a - b), nil
	default:
		return Num(a * b), nil
	}
}

// "ab" * 3, 'x' * 4
func repeat(n *Binary, l, r Value) (Value, bool, error) {
	s, ok := textOf(l)
	if !ok || r.Kind != Integer {
		return Value{}, false, nil
	}
	if r.I < 0 {
		return Value{}, true, errorf(diag.EvlType, n.R.Span(), "negative repeat count %d", r.I)
	}
	if r.I > 1<<16 {
		return Value{}, true, errorf(diag.EvlType, n.R.Span(), "repeat count %d is too large", r.I)
	}
	return Str(strings.Repeat(s, int(r.I))), true, nil
}

// Integer / Integer yields a Number, matching C's promotion when printed with %f.
func divide(n *Binary, l, r Value) (Value, error) {
	if !l.numeric() || !r.numeric() {
		return Value{}, typeErr(n, "divide", l, r)
	}
	b := r.float()
	if b == 0 {
		return Value{}, errorf(diag.EvlDivByZero, n.R.Span(), "division by zero")
	}
	return Num(l.float() / b), nil
}

func equal(l, r Value) bool {
	switch {
	case l.Kind == Integer && r.Kind == Integer:
		return l.I == r.I
	case l.numeric() && r.numeric():
		return l.float() == r.float()
	case l.Kind != r.Kind:
		return false
	case l.Kind == Bool:
		return l.B == r.B
	case l.Kind == CString:
		return l.S == r.S
	case l.Kind == CChar:
		return l.C == r.C
	}
	return false
}

func compare(n *Binary, l, r Value) (Value, error) {
	var c int
	switch {
	case l.Kind == Integer && r.Kind == Integer:
		c = cmp3(l.I < r.I, l.I > r.I)
	case l.numeric() && r.numeric():
		a, b := l.float(), r.float()
		c = cmp3(a < b, a > b)
	case l.Kind == CString && r.Kind == CString:
		c = strings.Compare(l.S, r.S)
	case l.Kind == CChar && r.Kind == CChar:
		c = cmp3(l.C < r.C, l.C > r.C)
	default:
		return Value{}, typeErr(n, "compare", l, r)
	}
	switch n.Op {
	case token.Lt:
		return Boolean(c < 0), nil
	case token.LtEq:
		return Boolean(c <= 0), nil
	case token.Gt:
		return Boolean(c > 0), nil
	default:
		return Boolean(c >= 0), nil
	}
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

func typeErr(n *Binary, verb string, l, r Value) error {
	return errorf(diag.EvlType, n.OpSp, "cannot %s %s and %s", verb, l.Kind, r.Kind)
}
