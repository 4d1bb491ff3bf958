package reader

import (
	"fmt"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// Parameter decodes a named, typed parameter declaration.
func (r *Reader) Parameter(p *wire.Parameter, sc *Scope) (*model.Parameter, error) {
	typ, err := DecodeType(sc.Problem.Environment(), p.Type)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
	}
	return &model.Parameter{Name: p.Name, Type: typ}, nil
}

// Fluent decodes a fluent declaration. Wire parameter names are discarded;
// only the positional signature types survive.
func (r *Reader) Fluent(f *wire.Fluent, sc *Scope) (*model.Fluent, error) {
	env := sc.Problem.Environment()

	valueType, err := DecodeType(env, f.ValueType)
	if err != nil {
		return nil, fmt.Errorf("fluent %q value type: %w", f.Name, err)
	}

	signature := make([]model.Type, 0, len(f.Parameters))
	for i, p := range f.Parameters {
		t, err := DecodeType(env, p.Type)
		if err != nil {
			return nil, fmt.Errorf("fluent %q parameter %d: %w", f.Name, i, err)
		}
		signature = append(signature, t)
	}
	return &model.Fluent{Name: f.Name, ValueType: valueType, Signature: signature}, nil
}

// Object decodes an object declaration. Object types are always user types.
func (r *Reader) Object(o *wire.ObjectDeclaration, sc *Scope) (*model.Object, error) {
	typ, err := DecodeType(sc.Problem.Environment(), o.Type)
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", o.Name, err)
	}
	userType, ok := typ.(*model.UserType)
	if !ok {
		return nil, fmt.Errorf("object %q: type %q is not a user type", o.Name, o.Type)
	}
	return &model.Object{Name: o.Name, Type: userType}, nil
}
