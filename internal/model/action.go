package model

import "fmt"

// EffectKind selects how an effect changes its target fluent.
type EffectKind int

const (
	Assign EffectKind = iota
	Increase
	Decrease
)

func (k EffectKind) String() string {
	switch k {
	case Assign:
		return "assign"
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return fmt.Sprintf("effect_kind(%d)", int(k))
	}
}

// Effect changes a fluent's value when its owning action executes. A nil
// Condition makes the effect unconditional.
type Effect struct {
	Fluent    Expression
	Value     Expression
	Condition Expression
	Kind      EffectKind
}

// Conditional reports whether the effect carries a guard condition.
func (e *Effect) Conditional() bool { return e.Condition != nil }

// TimedEffect wraps an effect with an optional occurrence time. A nil Time
// marks a plain effect applied at the owning action's instant.
type TimedEffect struct {
	Time   *Timing
	Effect *Effect
}

// Condition pairs a condition expression with an optional temporal span. A
// nil Span marks a plain precondition.
type Condition struct {
	Span *TimeInterval
	Expr Expression
}

// Action is a parametrized operation: instantaneous or durative. The mutators
// are only used while the converter assembles the action; afterwards the
// action is treated as immutable.
type Action interface {
	Name() string
	Parameters() []*Parameter
	Parameter(name string) (*Parameter, bool)
	Conditions() []Condition
	Effects() []TimedEffect
	Cost() Expression

	AddParameter(p *Parameter) error
	AddCondition(c Condition)
	AddEffect(e TimedEffect)
	SetCost(cost Expression)
}

// baseAction carries the state shared by both action variants. Parameters
// keep declaration order and are indexed by name for atom resolution.
type baseAction struct {
	name       string
	params     []*Parameter
	paramIndex map[string]*Parameter
	conditions []Condition
	effects    []TimedEffect
	cost       Expression
}

func newBaseAction(name string) baseAction {
	return baseAction{name: name, paramIndex: make(map[string]*Parameter)}
}

func (a *baseAction) Name() string { return a.name }

func (a *baseAction) Parameters() []*Parameter { return a.params }

func (a *baseAction) Parameter(name string) (*Parameter, bool) {
	p, ok := a.paramIndex[name]
	return p, ok
}

func (a *baseAction) Conditions() []Condition { return a.conditions }

func (a *baseAction) Effects() []TimedEffect { return a.effects }

func (a *baseAction) Cost() Expression { return a.cost }

func (a *baseAction) AddParameter(p *Parameter) error {
	if _, exists := a.paramIndex[p.Name]; exists {
		return fmt.Errorf("action %q: duplicate parameter %q", a.name, p.Name)
	}
	a.params = append(a.params, p)
	a.paramIndex[p.Name] = p
	return nil
}

func (a *baseAction) AddCondition(c Condition) { a.conditions = append(a.conditions, c) }

func (a *baseAction) AddEffect(e TimedEffect) { a.effects = append(a.effects, e) }

func (a *baseAction) SetCost(cost Expression) { a.cost = cost }

// InstantaneousAction executes at a single point in time.
type InstantaneousAction struct {
	baseAction
}

// NewInstantaneousAction creates an empty instantaneous action.
func NewInstantaneousAction(name string) *InstantaneousAction {
	return &InstantaneousAction{baseAction: newBaseAction(name)}
}

// DurativeAction spans an interval constrained by a duration.
type DurativeAction struct {
	baseAction
	duration ExpressionInterval
}

// NewDurativeAction creates an empty durative action.
func NewDurativeAction(name string) *DurativeAction {
	return &DurativeAction{baseAction: newBaseAction(name)}
}

// Duration returns the action's duration constraint.
func (a *DurativeAction) Duration() ExpressionInterval { return a.duration }

// SetDuration sets the duration constraint during assembly.
func (a *DurativeAction) SetDuration(d ExpressionInterval) { a.duration = d }
