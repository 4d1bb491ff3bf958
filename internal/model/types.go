// Package model defines the planning domain model that planwire reconstructs
// from wire messages: domain types, expression trees, fluents, objects,
// actions with temporal structure, problems, and plans. Entities are built
// once by the converter and are immutable after being attached to their
// parent; only the Problem and Action builders accumulate children during
// assembly.
package model

import (
	"fmt"
	"math/big"
	"sync"
)

// Type is a domain type: boolean, bounded integer, bounded real, or a user
// type with an optional parent.
type Type interface {
	String() string
	isType()
}

// BoolType is the boolean domain type.
type BoolType struct{}

func (BoolType) isType()        {}
func (BoolType) String() string { return "bool" }

// IntType is an integer type with optional inclusive bounds. A nil bound is
// absent, never a sentinel value.
type IntType struct {
	Lower *big.Int
	Upper *big.Int
}

func (IntType) isType() {}

func (t IntType) String() string {
	if t.Lower == nil && t.Upper == nil {
		return "integer"
	}
	return fmt.Sprintf("integer[%s, %s]", boundString(t.Lower, "-inf"), boundString(t.Upper, "inf"))
}

// RealType is a real type with optional inclusive rational bounds. Bounds are
// exact rationals so descriptor round-trips lose no precision.
type RealType struct {
	Lower *big.Rat
	Upper *big.Rat
}

func (RealType) isType() {}

func (t RealType) String() string {
	if t.Lower == nil && t.Upper == nil {
		return "real"
	}
	return fmt.Sprintf("real[%s, %s]", boundString(t.Lower, "-inf"), boundString(t.Upper, "inf"))
}

func boundString(bound fmt.Stringer, absent string) string {
	switch v := bound.(type) {
	case *big.Int:
		if v == nil {
			return absent
		}
		return v.String()
	case *big.Rat:
		if v == nil {
			return absent
		}
		return v.RatString()
	default:
		return absent
	}
}

// UserType is a named domain type, optionally derived from a parent user
// type. Instances are interned by an Environment so identity comparisons work
// across problems sharing that environment.
type UserType struct {
	Name   string
	Parent *UserType
}

func (*UserType) isType()          {}
func (t *UserType) String() string { return t.Name }

// Environment owns the user-type table shared between a template problem and
// every problem reconstructed against it.
type Environment struct {
	mu    sync.RWMutex
	users map[string]*UserType
}

// NewEnvironment creates an empty type environment.
func NewEnvironment() *Environment {
	return &Environment{users: make(map[string]*UserType)}
}

// UserType returns the interned user type with the given name, creating a
// parentless one on first use.
func (e *Environment) UserType(name string) *UserType {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.users[name]; ok {
		return t
	}
	t := &UserType{Name: name}
	e.users[name] = t
	return t
}

// DeclareUserType interns a user type with an explicit parent. Redeclaring a
// name with a different parent is an error.
func (e *Environment) DeclareUserType(name string, parent *UserType) (*UserType, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.users[name]; ok {
		if existing.Parent != parent {
			return nil, fmt.Errorf("user type %q already declared with a different parent", name)
		}
		return existing, nil
	}
	t := &UserType{Name: name, Parent: parent}
	e.users[name] = t
	return t, nil
}

// HasUserType reports whether a user type with the given name is interned.
func (e *Environment) HasUserType(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.users[name]
	return ok
}
