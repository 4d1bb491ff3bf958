// Package wire defines the tagged message schema exchanged with remote
// planning clients. The schema is owned by the planning service; the structs
// here mirror its protobuf messages field-for-field and are populated from the
// service's canonical JSON encoding. planwire only consumes these messages —
// the writer direction lives on the service side.
package wire

import (
	"encoding/json"
	"fmt"
)

// Kind identifies a wire message type for dispatch.
type Kind string

const (
	KindAtom            Kind = "atom"
	KindExpression      Kind = "expression"
	KindParameter       Kind = "parameter"
	KindFluent          Kind = "fluent"
	KindObject          Kind = "object_declaration"
	KindTypeDeclaration Kind = "type_declaration"
	KindCondition       Kind = "condition"
	KindEffect          Kind = "effect_expression"
	KindTimedEffect     Kind = "timed_effect"
	KindInterval        Kind = "interval"
	KindTimepoint       Kind = "timepoint"
	KindTiming          Kind = "timing"
	KindTimeInterval    Kind = "time_interval"
	KindAction          Kind = "action"
	KindAssignment      Kind = "assignment"
	KindGoal            Kind = "goal"
	KindProblem         Kind = "problem"
	KindPlan            Kind = "plan"
	KindActionInstance  Kind = "action_instance"
)

// Message is implemented by every wire message so conversion handlers can be
// dispatched on the concrete kind without reflection.
type Message interface {
	MessageKind() Kind
}

// ExpressionKind tags an Expression node with the role its payload plays.
// Values follow the service schema's enum names.
type ExpressionKind string

const (
	ExprConstant            ExpressionKind = "CONSTANT"
	ExprParameter           ExpressionKind = "PARAMETER"
	ExprFluentSymbol        ExpressionKind = "FLUENT_SYMBOL"
	ExprFunctionSymbol      ExpressionKind = "FUNCTION_SYMBOL"
	ExprStateVariable       ExpressionKind = "STATE_VARIABLE"
	ExprFunctionApplication ExpressionKind = "FUNCTION_APPLICATION"
)

// EffectKind selects how an effect changes its target fluent. The empty
// string is the schema's zero value and means ASSIGN.
type EffectKind string

const (
	EffectAssign   EffectKind = "ASSIGN"
	EffectIncrease EffectKind = "INCREASE"
	EffectDecrease EffectKind = "DECREASE"
)

// TimepointKind anchors a timing to an action or plan boundary.
type TimepointKind string

const (
	TimepointGlobalStart TimepointKind = "GLOBAL_START"
	TimepointGlobalEnd   TimepointKind = "GLOBAL_END"
	TimepointStart       TimepointKind = "START"
	TimepointEnd         TimepointKind = "END"
)

// Real carries an exact rational so literals survive the wire without
// floating-point loss.
type Real struct {
	Numerator   int64 `json:"numerator"`
	Denominator int64 `json:"denominator"`
}

// Atom is a scalar leaf: exactly one field is populated. Literals stand for
// themselves; a symbol needs contextual resolution against the surrounding
// problem and action scope.
type Atom struct {
	Symbol  *string `json:"symbol,omitempty"`
	Int     *int64  `json:"int,omitempty"`
	Real    *Real   `json:"real,omitempty"`
	Boolean *bool   `json:"boolean,omitempty"`
}

// AtomContent names which Atom field is populated.
type AtomContent int

const (
	ContentNone AtomContent = iota
	ContentSymbol
	ContentInt
	ContentReal
	ContentBoolean
)

// Content reports which field of the atom is set. An atom with zero or more
// than one populated field violates the wire invariant and yields an error.
func (a *Atom) Content() (AtomContent, error) {
	content := ContentNone
	set := 0
	if a.Symbol != nil {
		content = ContentSymbol
		set++
	}
	if a.Int != nil {
		content = ContentInt
		set++
	}
	if a.Real != nil {
		content = ContentReal
		set++
	}
	if a.Boolean != nil {
		content = ContentBoolean
		set++
	}
	switch set {
	case 0:
		return ContentNone, fmt.Errorf("atom has no content")
	case 1:
		return content, nil
	default:
		return ContentNone, fmt.Errorf("atom has %d populated fields, want exactly 1", set)
	}
}

// Expression is a tagged tree node. Kind decides how Atom and List are
// interpreted; Type is the declared scalar or user type descriptor.
type Expression struct {
	Atom *Atom          `json:"atom,omitempty"`
	List []*Expression  `json:"list,omitempty"`
	Type string         `json:"type,omitempty"`
	Kind ExpressionKind `json:"kind,omitempty"`
}

// Parameter declares a named, typed action or fluent parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Fluent declares a typed state variable with a positional parameter
// signature.
type Fluent struct {
	Name       string       `json:"name"`
	ValueType  string       `json:"value_type"`
	Parameters []*Parameter `json:"parameters,omitempty"`
}

// ObjectDeclaration introduces a named object of a user type.
type ObjectDeclaration struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypeDeclaration introduces a domain type by descriptor, optionally with a
// parent user type.
type TypeDeclaration struct {
	TypeName   string `json:"type_name"`
	ParentType string `json:"parent_type,omitempty"`
}

// Condition pairs an action condition with an optional temporal span. A nil
// span marks a plain precondition.
type Condition struct {
	Cond *Expression   `json:"cond"`
	Span *TimeInterval `json:"span,omitempty"`
}

// EffectExpression describes one effect: the target fluent expression, the
// value expression, an optional guard condition, and the effect kind.
type EffectExpression struct {
	Kind      EffectKind  `json:"kind,omitempty"`
	Fluent    *Expression `json:"fluent"`
	Value     *Expression `json:"value"`
	Condition *Expression `json:"condition,omitempty"`
}

// TimedEffect wraps an effect with an optional occurrence time. Without one
// the effect applies at the owning action's instant; Problem-level timed
// effects always carry one.
type TimedEffect struct {
	Effect         *EffectExpression `json:"effect"`
	OccurrenceTime *Timing           `json:"occurrence_time,omitempty"`
}

// Interval bounds a quantity with expressions, used for duration constraints.
type Interval struct {
	IsLeftOpen  bool        `json:"is_left_open,omitempty"`
	Lower       *Expression `json:"lower"`
	IsRightOpen bool        `json:"is_right_open,omitempty"`
	Upper       *Expression `json:"upper"`
}

// Timepoint is a temporal anchor.
type Timepoint struct {
	Kind TimepointKind `json:"kind"`
}

// Timing offsets a timepoint by a delay. The schema transmits the delay as a
// double; the converter truncates it to an integer.
type Timing struct {
	Timepoint *Timepoint `json:"timepoint"`
	Delay     float64    `json:"delay,omitempty"`
}

// TimeInterval bounds a span with two timings.
type TimeInterval struct {
	IsLeftOpen  bool    `json:"is_left_open,omitempty"`
	Lower       *Timing `json:"lower"`
	IsRightOpen bool    `json:"is_right_open,omitempty"`
	Upper       *Timing `json:"upper"`
}

// Action declares a parametrized operation. A populated Duration marks the
// action as durative.
type Action struct {
	Name       string         `json:"name"`
	Parameters []*Parameter   `json:"parameters,omitempty"`
	Duration   *Interval      `json:"duration,omitempty"`
	Conditions []*Condition   `json:"conditions,omitempty"`
	Effects    []*TimedEffect `json:"effects,omitempty"`
	Cost       *Expression    `json:"cost,omitempty"`
}

// Assignment sets a fluent expression to a value in the initial state.
type Assignment struct {
	Fluent *Expression `json:"fluent"`
	Value  *Expression `json:"value"`
}

// Goal is a goal expression, optionally restricted to a temporal interval.
type Goal struct {
	Goal   *Expression   `json:"goal"`
	Timing *TimeInterval `json:"timing,omitempty"`
}

// Problem is the top-level problem message.
type Problem struct {
	DomainName   string               `json:"domain_name,omitempty"`
	ProblemName  string               `json:"problem_name"`
	Types        []*TypeDeclaration   `json:"types,omitempty"`
	Fluents      []*Fluent            `json:"fluents,omitempty"`
	Objects      []*ObjectDeclaration `json:"objects,omitempty"`
	Actions      []*Action            `json:"actions,omitempty"`
	InitialState []*Assignment        `json:"initial_state,omitempty"`
	TimedEffects []*TimedEffect       `json:"timed_effects,omitempty"`
	Goals        []*Goal              `json:"goals,omitempty"`
}

// ActionInstance applies a declared action to concrete arguments. Parameters
// are atoms that must be symbols naming known objects.
type ActionInstance struct {
	ActionName string  `json:"action_name"`
	Parameters []*Atom `json:"parameters,omitempty"`
}

// Plan is an ordered sequence of action instances.
type Plan struct {
	Actions []*ActionInstance `json:"actions,omitempty"`
}

func (*Atom) MessageKind() Kind              { return KindAtom }
func (*Expression) MessageKind() Kind        { return KindExpression }
func (*Parameter) MessageKind() Kind         { return KindParameter }
func (*Fluent) MessageKind() Kind            { return KindFluent }
func (*ObjectDeclaration) MessageKind() Kind { return KindObject }
func (*TypeDeclaration) MessageKind() Kind   { return KindTypeDeclaration }
func (*Condition) MessageKind() Kind         { return KindCondition }
func (*EffectExpression) MessageKind() Kind  { return KindEffect }
func (*TimedEffect) MessageKind() Kind       { return KindTimedEffect }
func (*Interval) MessageKind() Kind          { return KindInterval }
func (*Timepoint) MessageKind() Kind         { return KindTimepoint }
func (*Timing) MessageKind() Kind            { return KindTiming }
func (*TimeInterval) MessageKind() Kind      { return KindTimeInterval }
func (*Action) MessageKind() Kind            { return KindAction }
func (*Assignment) MessageKind() Kind        { return KindAssignment }
func (*Goal) MessageKind() Kind              { return KindGoal }
func (*Problem) MessageKind() Kind           { return KindProblem }
func (*Plan) MessageKind() Kind              { return KindPlan }
func (*ActionInstance) MessageKind() Kind    { return KindActionInstance }

// UnmarshalProblem decodes a JSON-encoded Problem message.
func UnmarshalProblem(data []byte) (*Problem, error) {
	var p Problem
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode problem message: %w", err)
	}
	return &p, nil
}

// UnmarshalPlan decodes a JSON-encoded Plan message.
func UnmarshalPlan(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode plan message: %w", err)
	}
	return &p, nil
}

// Symbol builds a symbol atom.
func Symbol(s string) *Atom { return &Atom{Symbol: &s} }

// IntAtom builds an integer literal atom.
func IntAtom(v int64) *Atom { return &Atom{Int: &v} }

// RealAtom builds an exact rational literal atom.
func RealAtom(num, den int64) *Atom { return &Atom{Real: &Real{Numerator: num, Denominator: den}} }

// BoolAtom builds a boolean literal atom.
func BoolAtom(v bool) *Atom { return &Atom{Boolean: &v} }
