package reader

import (
	"errors"
	"math/big"
	"testing"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// newTestProblem builds a problem with one user type "room", objects r1/r2,
// and fluents loc (room-valued) and count (integer).
func newTestProblem(t *testing.T) *model.Problem {
	t.Helper()

	env := model.NewEnvironment()
	room := env.UserType("room")
	p := model.NewProblem("test", env)

	for _, name := range []string{"r1", "r2"} {
		if err := p.AddObject(&model.Object{Name: name, Type: room}); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.AddFluent(&model.Fluent{Name: "loc", ValueType: room}); err != nil {
		t.Fatal(err)
	}
	if err := p.AddFluent(&model.Fluent{Name: "count", ValueType: model.IntType{}}); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAtomLiterals(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	tests := []struct {
		name string
		atom *wire.Atom
		want model.Expression
	}{
		{"int", wire.IntAtom(7), model.Int(7)},
		{"bool", wire.BoolAtom(true), model.Bool(true)},
		{"real", wire.RealAtom(1, 2), model.Real(big.NewRat(1, 2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Atom(tt.atom, sc)
			if err != nil {
				t.Fatalf("Atom() error = %v", err)
			}
			if got.Kind() != tt.want.Kind() || got.String() != tt.want.String() {
				t.Errorf("Atom() = %v (%v), want %v (%v)", got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestAtomSymbolResolution(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	obj, err := r.Atom(wire.Symbol("r1"), sc)
	if err != nil {
		t.Fatalf("Atom(r1) error = %v", err)
	}
	if obj.Kind() != model.KindObject {
		t.Errorf("Atom(r1) kind = %v, want object", obj.Kind())
	}

	fl, err := r.Atom(wire.Symbol("loc"), sc)
	if err != nil {
		t.Fatalf("Atom(loc) error = %v", err)
	}
	if fl.Kind() != model.KindFluent {
		t.Errorf("Atom(loc) kind = %v, want fluent", fl.Kind())
	}

	_, err = r.Atom(wire.Symbol("nowhere"), sc)
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Atom(nowhere) error = %v, want ErrUnknownSymbol", err)
	}
}

func TestAtomParameterResolution(t *testing.T) {
	r := NewReader(nil)
	problem := newTestProblem(t)
	room := problem.Environment().UserType("room")

	act := model.NewInstantaneousAction("move")
	if err := act.AddParameter(&model.Parameter{Name: "from", Type: room}); err != nil {
		t.Fatal(err)
	}
	sc := NewScope(problem).WithAction(act)

	got, err := r.Atom(wire.Symbol("from"), sc)
	if err != nil {
		t.Fatalf("Atom(from) error = %v", err)
	}
	if got.Kind() != model.KindParameter {
		t.Errorf("Atom(from) kind = %v, want parameter", got.Kind())
	}

	// Without the action in scope the same symbol is unknown.
	_, err = r.Atom(wire.Symbol("from"), NewScope(problem))
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Atom(from) without action = %v, want ErrUnknownSymbol", err)
	}
}

// Object resolution must win over parameter resolution when the names
// collide: objects are scope-independent.
func TestAtomObjectWinsOverParameter(t *testing.T) {
	r := NewReader(nil)
	problem := newTestProblem(t)
	room := problem.Environment().UserType("room")

	act := model.NewInstantaneousAction("move")
	if err := act.AddParameter(&model.Parameter{Name: "r1", Type: room}); err != nil {
		t.Fatal(err)
	}
	sc := NewScope(problem).WithAction(act)

	got, err := r.Atom(wire.Symbol("r1"), sc)
	if err != nil {
		t.Fatalf("Atom(r1) error = %v", err)
	}
	if got.Kind() != model.KindObject {
		t.Errorf("Atom(r1) kind = %v, want object (object wins over parameter)", got.Kind())
	}
}

func TestAtomMalformed(t *testing.T) {
	r := NewReader(nil)
	sc := NewScope(newTestProblem(t))

	_, err := r.Atom(&wire.Atom{}, sc)
	if !errors.Is(err, ErrMalformedAtom) {
		t.Errorf("Atom(empty) error = %v, want ErrMalformedAtom", err)
	}

	two := &wire.Atom{Symbol: wire.Symbol("x").Symbol, Int: wire.IntAtom(1).Int}
	_, err = r.Atom(two, sc)
	if !errors.Is(err, ErrMalformedAtom) {
		t.Errorf("Atom(two fields) error = %v, want ErrMalformedAtom", err)
	}
}
