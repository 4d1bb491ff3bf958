package model

import (
	"fmt"
	"strings"
)

// Object is a named constant of a user type. Objects are owned by their
// Problem's object table and referenced by name everywhere else.
type Object struct {
	Name string
	Type *UserType
}

func (o *Object) String() string { return fmt.Sprintf("%s: %s", o.Name, o.Type) }

// Parameter is a named, typed action parameter. It is owned by its action and
// looked up by name during atom resolution.
type Parameter struct {
	Name string
	Type Type
}

func (p *Parameter) String() string { return fmt.Sprintf("%s: %s", p.Name, p.Type) }

// Fluent is a typed state variable with a positional parameter signature.
// The wire schema carries parameter names too; they are deliberately
// discarded here because only the positional types matter for typing.
type Fluent struct {
	Name      string
	ValueType Type
	Signature []Type
}

// Arity returns the number of fluent parameters.
func (f *Fluent) Arity() int { return len(f.Signature) }

func (f *Fluent) String() string {
	if len(f.Signature) == 0 {
		return fmt.Sprintf("%s: %s", f.Name, f.ValueType)
	}
	sig := make([]string, len(f.Signature))
	for i, t := range f.Signature {
		sig[i] = t.String()
	}
	return fmt.Sprintf("%s(%s): %s", f.Name, strings.Join(sig, ", "), f.ValueType)
}
