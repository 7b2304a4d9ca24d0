package expr

import (
	"math"
	"slices"
	"strings"
	"sync"

	"crepl/internal/diag"
	"crepl/internal/source"
)

// Binding is a named value with its mutability.
type Binding struct {
	Name  string
	Value Value
	Const bool
}

// Env holds session variables and constants. Names live in one namespace:
// a constant can never be shadowed or reassigned.
type Env struct {
	mu     sync.RWMutex
	vars   map[string]Value
	consts map[string]Value
}

// NewEnv returns an environment with PI, E, TRUE and FALSE defined.
func NewEnv() *Env {
	return &Env{
		vars: make(map[string]Value),
		consts: map[string]Value{
			"PI":    Num(math.Pi),
			"E":     Num(math.E),
			"TRUE":  Boolean(true),
			"FALSE": Boolean(false),
		},
	}
}

// Lookup finds name among constants first, then variables.
func (e *Env) Lookup(name string) (Binding, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if v, ok := e.consts[name]; ok {
		return Binding{Name: name, Value: v, Const: true}, true
	}
	if v, ok := e.vars[name]; ok {
		return Binding{Name: name, Value: v}, true
	}
	return Binding{}, false
}

// DefineConst fails if name is already bound in either namespace.
func (e *Env) DefineConst(name string, v Value, sp source.Span) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.consts[name]; ok {
		return errorf(diag.EvlRedefined, sp, "%q is already defined", name)
	}
	if _, ok := e.vars[name]; ok {
		return errorf(diag.EvlRedefined, sp, "%q is already defined as a variable", name)
	}
	e.consts[name] = v
	return nil
}

// SetVar creates or reassigns a variable.
func (e *Env) SetVar(name string, v Value, sp source.Span) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.consts[name]; ok {
		return errorf(diag.EvlConstAssign, sp, "%q is a constant and cannot be reassigned", name)
	}
	e.vars[name] = v
	return nil
}

// All returns variables then constants, each sorted by name.
func (e *Env) All() (vars, consts []Binding) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for name, v := range e.vars {
		vars = append(vars, Binding{Name: name, Value: v})
	}
	for name, v := range e.consts {
		consts = append(consts, Binding{Name: name, Value: v, Const: true})
	}
	byName := func(a, b Binding) int { return strings.Compare(a.Name, b.Name) }
	slices.SortFunc(vars, byName)
	slices.SortFunc(consts, byName)
	return vars, consts
}
