package model

import (
	"fmt"
	"math/big"
	"strings"
)

// ExprKind discriminates the expression node variants.
type ExprKind int

const (
	KindBoolConstant ExprKind = iota
	KindIntConstant
	KindRealConstant
	KindParameter
	KindFluent
	KindObject
)

func (k ExprKind) String() string {
	switch k {
	case KindBoolConstant:
		return "bool_constant"
	case KindIntConstant:
		return "int_constant"
	case KindRealConstant:
		return "real_constant"
	case KindParameter:
		return "parameter"
	case KindFluent:
		return "fluent"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("expr_kind(%d)", int(k))
	}
}

// Expression is a node of the reconstructed expression tree. Nodes are
// immutable after construction. Function applications have no variant: the
// upstream schema flags them as unsupported and the converter surfaces that
// to callers instead of building a node.
type Expression interface {
	Kind() ExprKind
	Type() Type
	String() string
	exprNode()
}

// BoolConstant is a boolean literal.
type BoolConstant struct {
	Value bool
}

func (BoolConstant) exprNode()      {}
func (BoolConstant) Kind() ExprKind { return KindBoolConstant }
func (BoolConstant) Type() Type     { return BoolType{} }
func (c BoolConstant) String() string {
	if c.Value {
		return "true"
	}
	return "false"
}

// IntConstant is an integer literal.
type IntConstant struct {
	Value int64
}

func (IntConstant) exprNode()        {}
func (IntConstant) Kind() ExprKind   { return KindIntConstant }
func (IntConstant) Type() Type       { return IntType{} }
func (c IntConstant) String() string { return fmt.Sprintf("%d", c.Value) }

// RealConstant is an exact rational literal.
type RealConstant struct {
	Value *big.Rat
}

func (RealConstant) exprNode()        {}
func (RealConstant) Kind() ExprKind   { return KindRealConstant }
func (RealConstant) Type() Type       { return RealType{} }
func (c RealConstant) String() string { return c.Value.RatString() }

// ParameterExp references an action parameter by the parameter value itself.
type ParameterExp struct {
	Parameter *Parameter
}

func (ParameterExp) exprNode()        {}
func (ParameterExp) Kind() ExprKind   { return KindParameter }
func (e ParameterExp) Type() Type     { return e.Parameter.Type }
func (e ParameterExp) String() string { return e.Parameter.Name }

// FluentExp applies a fluent to zero or more argument expressions.
type FluentExp struct {
	Fluent *Fluent
	Args   []Expression
}

func (FluentExp) exprNode()      {}
func (FluentExp) Kind() ExprKind { return KindFluent }
func (e FluentExp) Type() Type   { return e.Fluent.ValueType }

func (e FluentExp) String() string {
	if len(e.Args) == 0 {
		return e.Fluent.Name
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Fluent.Name, strings.Join(args, ", "))
}

// ObjectExp references a problem object.
type ObjectExp struct {
	Object *Object
}

func (ObjectExp) exprNode()        {}
func (ObjectExp) Kind() ExprKind   { return KindObject }
func (e ObjectExp) Type() Type     { return e.Object.Type }
func (e ObjectExp) String() string { return e.Object.Name }

// Bool builds a boolean constant expression.
func Bool(v bool) Expression { return BoolConstant{Value: v} }

// Int builds an integer constant expression.
func Int(v int64) Expression { return IntConstant{Value: v} }

// Real builds an exact rational constant expression.
func Real(v *big.Rat) Expression { return RealConstant{Value: v} }

// ParamExp builds a parameter reference.
func ParamExp(p *Parameter) Expression { return ParameterExp{Parameter: p} }

// FluentRef builds a fluent application.
func FluentRef(f *Fluent, args ...Expression) Expression {
	return FluentExp{Fluent: f, Args: args}
}

// ObjectRef builds an object reference.
func ObjectRef(o *Object) Expression { return ObjectExp{Object: o} }
