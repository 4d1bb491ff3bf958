package reader

import (
	"fmt"
	"math/big"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// Atom resolves a scalar wire atom against the scope. Literals stand for
// themselves. A symbol resolves in a fixed order, first match wins:
//
//  1. an object of the scope's problem,
//  2. a parameter of the scope's active action,
//  3. a fluent of the scope's problem.
//
// The order is load-bearing: object and parameter names may coincide, and
// objects win because they are scope-independent. A symbol matching none of
// the three is a fatal ErrUnknownSymbol.
func (r *Reader) Atom(atom *wire.Atom, sc *Scope) (model.Expression, error) {
	content, err := atom.Content()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAtom, err)
	}

	switch content {
	case wire.ContentInt:
		return model.Int(*atom.Int), nil
	case wire.ContentReal:
		return model.Real(big.NewRat(atom.Real.Numerator, atom.Real.Denominator)), nil
	case wire.ContentBoolean:
		return model.Bool(*atom.Boolean), nil
	case wire.ContentSymbol:
		return r.resolveSymbol(*atom.Symbol, sc)
	default:
		return nil, fmt.Errorf("%w: unhandled atom content %v", ErrMalformedAtom, content)
	}
}

func (r *Reader) resolveSymbol(symbol string, sc *Scope) (model.Expression, error) {
	if obj, ok := sc.Problem.Object(symbol); ok {
		return model.ObjectRef(obj), nil
	}
	if sc.Action != nil {
		if param, ok := sc.Action.Parameter(symbol); ok {
			return model.ParamExp(param), nil
		}
	}
	if fl, ok := sc.Problem.Fluent(symbol); ok {
		return model.FluentRef(fl), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
}

// objectArg resolves an atom that must be a symbol naming a known object,
// as plan action-instance arguments are.
func (r *Reader) objectArg(atom *wire.Atom, sc *Scope) (model.Expression, error) {
	content, err := atom.Content()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAtom, err)
	}
	if content != wire.ContentSymbol {
		return nil, fmt.Errorf("%w: action instance argument must be a symbol", ErrMalformedAtom)
	}
	obj, ok := sc.Problem.Object(*atom.Symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a known object", ErrUnknownSymbol, *atom.Symbol)
	}
	return model.ObjectRef(obj), nil
}
