package reader

import (
	"fmt"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// Expression recursively rebuilds a wire expression tree into a domain
// expression. Children convert first; the node's declared kind then decides
// how the atom and children combine. Function symbols and applications are
// defined by the schema but unsupported here: they surface the recoverable
// ErrUnsupportedExpression, which the action rebuilder turns into skipped
// conditions or dropped effects.
func (r *Reader) Expression(node *wire.Expression, sc *Scope) (model.Expression, error) {
	args := make([]model.Expression, 0, len(node.List))
	for i, child := range node.List {
		arg, err := r.Expression(child, sc)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		args = append(args, arg)
	}

	switch node.Kind {
	case wire.ExprConstant:
		return r.constant(node, sc)

	case wire.ExprParameter:
		// The one place a parameter's type comes from the expression node
		// itself rather than an enclosing declaration: PARAMETER nodes are
		// self-describing and are never looked up in the active action.
		if node.Atom == nil || node.Atom.Symbol == nil {
			return nil, fmt.Errorf("%w: parameter node needs a symbol atom", ErrMalformedAtom)
		}
		typ, err := DecodeType(sc.Problem.Environment(), node.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", *node.Atom.Symbol, err)
		}
		return model.ParamExp(&model.Parameter{Name: *node.Atom.Symbol, Type: typ}), nil

	case wire.ExprFluentSymbol:
		if node.Atom == nil || node.Atom.Symbol == nil {
			return nil, fmt.Errorf("%w: fluent node needs a symbol atom", ErrMalformedAtom)
		}
		fl, ok := sc.Problem.Fluent(*node.Atom.Symbol)
		if !ok {
			return nil, fmt.Errorf("%w: fluent %q", ErrUnknownSymbol, *node.Atom.Symbol)
		}
		return model.FluentRef(fl, args...), nil

	case wire.ExprStateVariable:
		// State variables skip the fluent existence check and pass the
		// resolved atom through as-is. Looser than FLUENT_SYMBOL, kept to
		// match the upstream service's behavior.
		if node.Atom == nil {
			return nil, fmt.Errorf("%w: state variable node needs an atom", ErrMalformedAtom)
		}
		return r.Atom(node.Atom, sc)

	case wire.ExprFunctionSymbol, wire.ExprFunctionApplication:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExpression, node.Kind)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExpressionKind, node.Kind)
	}
}

// constant builds a typed constant, requiring the atom payload to agree with
// the node's declared scalar type.
func (r *Reader) constant(node *wire.Expression, sc *Scope) (model.Expression, error) {
	if node.Atom == nil {
		return nil, fmt.Errorf("%w: constant node needs an atom", ErrMalformedAtom)
	}
	value, err := r.Atom(node.Atom, sc)
	if err != nil {
		return nil, err
	}

	typ, err := DecodeType(sc.Problem.Environment(), node.Type)
	if err != nil {
		return nil, err
	}

	switch typ.(type) {
	case model.BoolType:
		if value.Kind() != model.KindBoolConstant {
			return nil, fmt.Errorf("%w: declared bool, atom is %s", ErrTypeMismatch, value.Kind())
		}
	case model.IntType:
		if value.Kind() != model.KindIntConstant {
			return nil, fmt.Errorf("%w: declared integer, atom is %s", ErrTypeMismatch, value.Kind())
		}
	case model.RealType:
		if value.Kind() != model.KindRealConstant {
			return nil, fmt.Errorf("%w: declared real, atom is %s", ErrTypeMismatch, value.Kind())
		}
	default:
		return nil, fmt.Errorf("%w: constant of non-scalar type %s", ErrTypeMismatch, typ)
	}
	return value, nil
}
