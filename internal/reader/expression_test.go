package reader

import (
	"errors"
	"testing"

	"planwire/internal/model"
	"planwire/internal/wire"
)

func TestExpressionConstant(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	tests := []struct {
		name     string
		node     *wire.Expression
		wantKind model.ExprKind
		wantErr  error
	}{
		{
			name:     "bool constant",
			node:     &wire.Expression{Kind: wire.ExprConstant, Type: "bool", Atom: wire.BoolAtom(true)},
			wantKind: model.KindBoolConstant,
		},
		{
			name:     "int constant",
			node:     &wire.Expression{Kind: wire.ExprConstant, Type: "integer", Atom: wire.IntAtom(3)},
			wantKind: model.KindIntConstant,
		},
		{
			name:     "real constant",
			node:     &wire.Expression{Kind: wire.ExprConstant, Type: "real", Atom: wire.RealAtom(3, 4)},
			wantKind: model.KindRealConstant,
		},
		{
			name:    "bool declared, int payload",
			node:    &wire.Expression{Kind: wire.ExprConstant, Type: "bool", Atom: wire.IntAtom(1)},
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "int declared, bool payload",
			node:    &wire.Expression{Kind: wire.ExprConstant, Type: "integer", Atom: wire.BoolAtom(false)},
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "constant without atom",
			node:    &wire.Expression{Kind: wire.ExprConstant, Type: "bool"},
			wantErr: ErrMalformedAtom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Expression(tt.node, sc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expression() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expression() error = %v", err)
			}
			if got.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got.Kind(), tt.wantKind)
			}
		})
	}
}

// PARAMETER nodes are self-describing: the parameter's type is read from the
// node, never looked up in the active action.
func TestExpressionParameterNode(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	node := &wire.Expression{
		Kind: wire.ExprParameter,
		Type: "room",
		Atom: wire.Symbol("target"),
	}
	got, err := r.Expression(node, sc)
	if err != nil {
		t.Fatalf("Expression() error = %v", err)
	}
	pe, ok := got.(model.ParameterExp)
	if !ok {
		t.Fatalf("Expression() = %T, want ParameterExp", got)
	}
	if pe.Parameter.Name != "target" {
		t.Errorf("parameter name = %q, want target", pe.Parameter.Name)
	}
	if pe.Parameter.Type.String() != "room" {
		t.Errorf("parameter type = %q, want room", pe.Parameter.Type)
	}
}

func TestExpressionFluentSymbol(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	node := &wire.Expression{
		Kind: wire.ExprFluentSymbol,
		Atom: wire.Symbol("loc"),
		List: []*wire.Expression{
			{Kind: wire.ExprStateVariable, Atom: wire.Symbol("r1")},
		},
	}
	got, err := r.Expression(node, sc)
	if err != nil {
		t.Fatalf("Expression() error = %v", err)
	}
	fe, ok := got.(model.FluentExp)
	if !ok {
		t.Fatalf("Expression() = %T, want FluentExp", got)
	}
	if fe.Fluent.Name != "loc" {
		t.Errorf("fluent = %q, want loc", fe.Fluent.Name)
	}
	if len(fe.Args) != 1 || fe.Args[0].Kind() != model.KindObject {
		t.Errorf("args = %v, want one object reference", fe.Args)
	}

	// FLUENT_SYMBOL requires the fluent to exist, unlike STATE_VARIABLE.
	missing := &wire.Expression{Kind: wire.ExprFluentSymbol, Atom: wire.Symbol("ghost")}
	if _, err := r.Expression(missing, sc); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Expression(ghost) error = %v, want ErrUnknownSymbol", err)
	}
}

func TestExpressionUnsupportedAndUnknownKinds(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	for _, kind := range []wire.ExpressionKind{wire.ExprFunctionSymbol, wire.ExprFunctionApplication} {
		node := &wire.Expression{Kind: kind, Atom: wire.Symbol("f")}
		_, err := r.Expression(node, sc)
		if !errors.Is(err, ErrUnsupportedExpression) {
			t.Errorf("Expression(%s) error = %v, want ErrUnsupportedExpression", kind, err)
		}
	}

	_, err := r.Expression(&wire.Expression{Kind: "LAMBDA"}, sc)
	if !errors.Is(err, ErrUnknownExpressionKind) {
		t.Errorf("Expression(LAMBDA) error = %v, want ErrUnknownExpressionKind", err)
	}
	_, err = r.Expression(&wire.Expression{}, sc)
	if !errors.Is(err, ErrUnknownExpressionKind) {
		t.Errorf("Expression(empty kind) error = %v, want ErrUnknownExpressionKind", err)
	}
}

// A failing child aborts the whole node before its kind is considered.
func TestExpressionChildErrorPropagates(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	node := &wire.Expression{
		Kind: wire.ExprFluentSymbol,
		Atom: wire.Symbol("loc"),
		List: []*wire.Expression{
			{Kind: wire.ExprStateVariable, Atom: wire.Symbol("ghost")},
		},
	}
	_, err := r.Expression(node, sc)
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Expression() error = %v, want ErrUnknownSymbol from child", err)
	}
}
