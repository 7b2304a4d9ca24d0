package expr

import (
	"crepl/internal/diag"
	"crepl/internal/source"
	"crepl/internal/token"
)

// Assign handles the operands of ":const NAME EXPR" and ":var NAME EXPR".
// end marks the end of the line for error reporting.
func Assign(env *Env, operands []token.Token, constant bool, end source.Span) (Binding, error) {
	usage := "usage: :var <name> <expression>"
	if constant {
		usage = "usage: :const <name> <expression>"
	}
	if len(operands) == 0 {
		return Binding{}, errorf(diag.CmdUsage, end, "%s", usage)
	}
	name := operands[0]
	if name.Kind != token.Ident {
		return Binding{}, errorf(diag.CmdExpected, name.Span, "expected a name, found %s %q", name.Kind, name.Text)
	}
	if len(operands) == 1 {
		return Binding{}, errorf(diag.CmdUsage, end, "%s", usage)
	}

	tree, err := Parse(operands[1:], end)
	if err != nil {
		return Binding{}, err
	}
	v, err := Eval(tree, env)
	if err != nil {
		return Binding{}, err
	}
	if constant {
		err = env.DefineConst(name.Text, v, name.Span)
	} else {
		err = env.SetVar(name.Text, v, name.Span)
	}
	if err != nil {
		return Binding{}, err
	}
	return Binding{Name: name.Text, Value: v, Const: constant}, nil
}
