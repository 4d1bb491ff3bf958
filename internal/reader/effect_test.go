package reader

import (
	"errors"
	"testing"

	"planwire/internal/model"
	"planwire/internal/wire"
)

func fluentNode(name string, args ...*wire.Expression) *wire.Expression {
	return &wire.Expression{Kind: wire.ExprFluentSymbol, Atom: wire.Symbol(name), List: args}
}

func intNode(v int64) *wire.Expression {
	return &wire.Expression{Kind: wire.ExprConstant, Type: "integer", Atom: wire.IntAtom(v)}
}

func boolNode(v bool) *wire.Expression {
	return &wire.Expression{Kind: wire.ExprConstant, Type: "bool", Atom: wire.BoolAtom(v)}
}

func TestEffectKinds(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	tests := []struct {
		name string
		kind wire.EffectKind
		want model.EffectKind
	}{
		{"empty kind defaults to assign", "", model.Assign},
		{"explicit assign", wire.EffectAssign, model.Assign},
		{"increase", wire.EffectIncrease, model.Increase},
		{"decrease", wire.EffectDecrease, model.Decrease},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Effect(&wire.EffectExpression{
				Kind:   tt.kind,
				Fluent: fluentNode("count"),
				Value:  intNode(1),
			}, sc)
			if err != nil {
				t.Fatalf("Effect() error = %v", err)
			}
			if got.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.want)
			}
			if got.Conditional() {
				t.Error("effect without guard should be unconditional")
			}
		})
	}
}

func TestEffectUnknownKind(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	_, err := r.Effect(&wire.EffectExpression{
		Kind:   "MULTIPLY",
		Fluent: fluentNode("count"),
		Value:  intNode(2),
	}, sc)
	if !errors.Is(err, ErrUnknownEffectKind) {
		t.Errorf("Effect(MULTIPLY) error = %v, want ErrUnknownEffectKind (never defaulted)", err)
	}
}

func TestEffectGuard(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	got, err := r.Effect(&wire.EffectExpression{
		Kind:      wire.EffectIncrease,
		Fluent:    fluentNode("count"),
		Value:     intNode(1),
		Condition: boolNode(true),
	}, sc)
	if err != nil {
		t.Fatalf("Effect() error = %v", err)
	}
	if !got.Conditional() {
		t.Fatal("effect with guard should be conditional")
	}
	if got.Condition.Kind() != model.KindBoolConstant {
		t.Errorf("guard kind = %v, want bool constant", got.Condition.Kind())
	}
}

func TestEffectUnresolvedTargetSurfaces(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	_, err := r.Effect(&wire.EffectExpression{
		Fluent: fluentNode("ghost"),
		Value:  intNode(1),
	}, sc)
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Effect(ghost target) error = %v, want ErrUnknownSymbol", err)
	}

	_, err = r.Effect(&wire.EffectExpression{
		Fluent: fluentNode("count"),
		Value:  &wire.Expression{Kind: wire.ExprFunctionApplication},
	}, sc)
	if !errors.Is(err, ErrUnsupportedExpression) {
		t.Errorf("Effect(unsupported value) error = %v, want ErrUnsupportedExpression", err)
	}
}
