package reader

import (
	"fmt"
	"math/big"
	"strings"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// DecodeType parses a type descriptor into a domain type. Recognized forms,
// checked in order: "bool"; "int"/"integer" (unbounded); "real"/"float"
// (unbounded); "integer[lo, hi]" with integer bounds; "real[lo, hi]" with
// exact rational bounds; anything else interns a user type in env. The
// tokens "-inf" and "inf" stand for an absent bound on either side and never
// produce a sentinel numeric value.
func DecodeType(env *model.Environment, descriptor string) (model.Type, error) {
	switch descriptor {
	case "bool":
		return model.BoolType{}, nil
	case "int", "integer":
		return model.IntType{}, nil
	case "real", "float":
		return model.RealType{}, nil
	}

	if body, ok := bracketBody(descriptor, "integer"); ok {
		lo, hi, err := splitBounds(descriptor, body)
		if err != nil {
			return nil, err
		}
		t := model.IntType{}
		if lo != "" {
			b, parsed := new(big.Int).SetString(lo, 10)
			if !parsed {
				return nil, fmt.Errorf("%w: %q: bad integer lower bound %q", ErrBadTypeDescriptor, descriptor, lo)
			}
			t.Lower = b
		}
		if hi != "" {
			b, parsed := new(big.Int).SetString(hi, 10)
			if !parsed {
				return nil, fmt.Errorf("%w: %q: bad integer upper bound %q", ErrBadTypeDescriptor, descriptor, hi)
			}
			t.Upper = b
		}
		return t, nil
	}

	if body, ok := bracketBody(descriptor, "real"); ok {
		lo, hi, err := splitBounds(descriptor, body)
		if err != nil {
			return nil, err
		}
		t := model.RealType{}
		if lo != "" {
			b, parsed := parseRat(lo)
			if !parsed {
				return nil, fmt.Errorf("%w: %q: bad real lower bound %q", ErrBadTypeDescriptor, descriptor, lo)
			}
			t.Lower = b
		}
		if hi != "" {
			b, parsed := parseRat(hi)
			if !parsed {
				return nil, fmt.Errorf("%w: %q: bad real upper bound %q", ErrBadTypeDescriptor, descriptor, hi)
			}
			t.Upper = b
		}
		return t, nil
	}

	return env.UserType(descriptor), nil
}

// TypeDeclaration interns a user type from a wire declaration, attaching the
// declared parent when present.
func (r *Reader) TypeDeclaration(decl *wire.TypeDeclaration, sc *Scope) (*model.UserType, error) {
	env := sc.Problem.Environment()
	if decl.ParentType == "" {
		return env.UserType(decl.TypeName), nil
	}
	parent := env.UserType(decl.ParentType)
	t, err := env.DeclareUserType(decl.TypeName, parent)
	if err != nil {
		return nil, fmt.Errorf("declare type %q: %w", decl.TypeName, err)
	}
	return t, nil
}

// bracketBody extracts the "lo, hi" body of a "prefix[lo, hi]" descriptor.
func bracketBody(descriptor, prefix string) (string, bool) {
	if !strings.HasPrefix(descriptor, prefix+"[") || !strings.HasSuffix(descriptor, "]") {
		return "", false
	}
	return descriptor[len(prefix)+1 : len(descriptor)-1], true
}

// splitBounds splits a bracket body into lower and upper bound tokens.
// Infinity tokens come back as empty strings meaning absent.
func splitBounds(descriptor, body string) (string, string, error) {
	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q: want two comma-separated bounds", ErrBadTypeDescriptor, descriptor)
	}
	lo := strings.TrimSpace(parts[0])
	hi := strings.TrimSpace(parts[1])
	if lo == "-inf" {
		lo = ""
	}
	if hi == "inf" {
		hi = ""
	}
	return lo, hi, nil
}

// parseRat parses a decimal or fractional bound as an exact rational.
// big.Rat accepts both "3/4" and "0.75" forms.
func parseRat(s string) (*big.Rat, bool) {
	return new(big.Rat).SetString(s)
}
