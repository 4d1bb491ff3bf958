package model

import "fmt"

// Assignment gives a fluent its value in the problem's initial state.
type Assignment struct {
	Fluent FluentExp
	Value  Expression
}

// Problem owns the object, fluent, and action tables plus the initial state,
// goals, and timed effects of one planning problem. Tables key by name and
// keep insertion order; duplicate names are caller errors.
type Problem struct {
	name string
	env  *Environment

	objects     []*Object
	objectIndex map[string]*Object

	fluents     []*Fluent
	fluentIndex map[string]*Fluent

	actions     []Action
	actionIndex map[string]Action

	initialValues []Assignment
	goals         []Expression
	timedEffects  []TimedEffect
}

// NewProblem creates an empty problem bound to a type environment. Problems
// reconstructed against a template share that template's environment so user
// types keep pointer identity across both.
func NewProblem(name string, env *Environment) *Problem {
	if env == nil {
		env = NewEnvironment()
	}
	return &Problem{
		name:        name,
		env:         env,
		objectIndex: make(map[string]*Object),
		fluentIndex: make(map[string]*Fluent),
		actionIndex: make(map[string]Action),
	}
}

// Name returns the problem name.
func (p *Problem) Name() string { return p.name }

// Environment returns the shared type environment.
func (p *Problem) Environment() *Environment { return p.env }

// AddObject adds an object to the object table.
func (p *Problem) AddObject(o *Object) error {
	if _, exists := p.objectIndex[o.Name]; exists {
		return fmt.Errorf("problem %q: duplicate object %q", p.name, o.Name)
	}
	p.objects = append(p.objects, o)
	p.objectIndex[o.Name] = o
	return nil
}

// Object looks up an object by name.
func (p *Problem) Object(name string) (*Object, bool) {
	o, ok := p.objectIndex[name]
	return o, ok
}

// HasObject reports whether an object with the given name exists.
func (p *Problem) HasObject(name string) bool {
	_, ok := p.objectIndex[name]
	return ok
}

// Objects returns all objects in declaration order.
func (p *Problem) Objects() []*Object { return p.objects }

// AddFluent adds a fluent to the fluent table.
func (p *Problem) AddFluent(f *Fluent) error {
	if _, exists := p.fluentIndex[f.Name]; exists {
		return fmt.Errorf("problem %q: duplicate fluent %q", p.name, f.Name)
	}
	p.fluents = append(p.fluents, f)
	p.fluentIndex[f.Name] = f
	return nil
}

// Fluent looks up a fluent by name.
func (p *Problem) Fluent(name string) (*Fluent, bool) {
	f, ok := p.fluentIndex[name]
	return f, ok
}

// HasFluent reports whether a fluent with the given name exists.
func (p *Problem) HasFluent(name string) bool {
	_, ok := p.fluentIndex[name]
	return ok
}

// Fluents returns all fluents in declaration order.
func (p *Problem) Fluents() []*Fluent { return p.fluents }

// AddAction adds an action to the action table.
func (p *Problem) AddAction(a Action) error {
	if _, exists := p.actionIndex[a.Name()]; exists {
		return fmt.Errorf("problem %q: duplicate action %q", p.name, a.Name())
	}
	p.actions = append(p.actions, a)
	p.actionIndex[a.Name()] = a
	return nil
}

// Action looks up an action by name.
func (p *Problem) Action(name string) (Action, bool) {
	a, ok := p.actionIndex[name]
	return a, ok
}

// Actions returns all actions in declaration order.
func (p *Problem) Actions() []Action { return p.actions }

// AddInitialValue records an initial-state assignment.
func (p *Problem) AddInitialValue(fluent FluentExp, value Expression) {
	p.initialValues = append(p.initialValues, Assignment{Fluent: fluent, Value: value})
}

// InitialValues returns the initial-state assignments in insertion order.
func (p *Problem) InitialValues() []Assignment { return p.initialValues }

// AddGoal appends a goal expression.
func (p *Problem) AddGoal(goal Expression) { p.goals = append(p.goals, goal) }

// Goals returns the goal list in insertion order.
func (p *Problem) Goals() []Expression { return p.goals }

// AddTimedEffect appends a problem-level timed effect.
func (p *Problem) AddTimedEffect(e TimedEffect) { p.timedEffects = append(p.timedEffects, e) }

// TimedEffects returns the problem-level timed effects.
func (p *Problem) TimedEffects() []TimedEffect { return p.timedEffects }
