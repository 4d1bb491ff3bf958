package reader

import (
	"fmt"

	"go.uber.org/zap"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// Problem rebuilds a full problem from a wire message. The result is a fresh
// problem sharing the template's type environment, so user types resolve to
// the same interned instances on both sides. Sections convert in a fixed
// order — types, objects, fluents, actions, timed effects, initial state,
// goals — because actions and assignments look fluents up by name. Any fatal
// error aborts the whole conversion; no partial problem is returned.
func (r *Reader) Problem(node *wire.Problem, template *model.Problem) (*model.Problem, error) {
	problem, sc, err := r.problemWithScope(node, template)
	if err != nil {
		return nil, err
	}
	r.logStats("problem", problem.Name(), sc)
	return problem, nil
}

// ProblemWithStats is Problem plus the conversion stats, for callers that
// audit dropped effects, skipped conditions, and truncated delays.
func (r *Reader) ProblemWithStats(node *wire.Problem, template *model.Problem) (*model.Problem, Stats, error) {
	problem, sc, err := r.problemWithScope(node, template)
	if err != nil {
		return nil, Stats{}, err
	}
	return problem, sc.Stats(), nil
}

func (r *Reader) problemWithScope(node *wire.Problem, template *model.Problem) (*model.Problem, *Scope, error) {
	name := node.ProblemName
	if name == "" {
		name = node.DomainName
	}
	problem := model.NewProblem(name, template.Environment())
	sc := NewScope(problem)

	for _, decl := range node.Types {
		if _, err := r.TypeDeclaration(decl, sc); err != nil {
			return nil, nil, err
		}
	}

	for _, o := range node.Objects {
		obj, err := r.Object(o, sc)
		if err != nil {
			return nil, nil, err
		}
		if err := problem.AddObject(obj); err != nil {
			return nil, nil, err
		}
	}

	for _, f := range node.Fluents {
		fl, err := r.Fluent(f, sc)
		if err != nil {
			return nil, nil, err
		}
		if err := problem.AddFluent(fl); err != nil {
			return nil, nil, err
		}
	}

	for _, a := range node.Actions {
		action, err := r.Action(a, sc)
		if err != nil {
			return nil, nil, err
		}
		if err := problem.AddAction(action); err != nil {
			return nil, nil, err
		}
	}

	for i, te := range node.TimedEffects {
		if te.Effect == nil || te.OccurrenceTime == nil {
			return nil, nil, fmt.Errorf("problem timed effect %d needs an effect and an occurrence time", i)
		}
		effect, err := r.Effect(te.Effect, sc)
		if err != nil {
			return nil, nil, fmt.Errorf("problem timed effect %d: %w", i, err)
		}
		occ, err := r.Timing(te.OccurrenceTime, sc)
		if err != nil {
			return nil, nil, fmt.Errorf("problem timed effect %d occurrence time: %w", i, err)
		}
		problem.AddTimedEffect(model.TimedEffect{Time: &occ, Effect: effect})
	}

	for i, a := range node.InitialState {
		if err := r.assignment(a, i, sc); err != nil {
			return nil, nil, err
		}
	}

	for i, g := range node.Goals {
		if g.Goal == nil {
			return nil, nil, fmt.Errorf("goal %d has no expression", i)
		}
		goal, err := r.Expression(g.Goal, sc)
		if err != nil {
			return nil, nil, fmt.Errorf("goal %d: %w", i, err)
		}
		if g.Timing != nil {
			// Goal timing exists on the wire but the model keeps goals
			// untimed, matching the upstream service.
			r.log.Debug("ignoring goal timing", zap.String("problem", name), zap.Int("goal", i))
		}
		problem.AddGoal(goal)
	}

	return problem, sc, nil
}

// assignment converts one initial-state assignment into a (fluent, value)
// pair on the problem.
func (r *Reader) assignment(a *wire.Assignment, index int, sc *Scope) error {
	if a.Fluent == nil || a.Value == nil {
		return fmt.Errorf("assignment %d needs a fluent and a value", index)
	}
	fluent, err := r.Expression(a.Fluent, sc)
	if err != nil {
		return fmt.Errorf("assignment %d fluent: %w", index, err)
	}
	fluentExp, ok := fluent.(model.FluentExp)
	if !ok {
		return fmt.Errorf("assignment %d: target is %s, want a fluent", index, fluent.Kind())
	}
	value, err := r.Expression(a.Value, sc)
	if err != nil {
		return fmt.Errorf("assignment %d value: %w", index, err)
	}
	sc.Problem.AddInitialValue(fluentExp, value)
	return nil
}

// Plan rebuilds a sequential plan against an already-reconstructed problem.
func (r *Reader) Plan(node *wire.Plan, problem *model.Problem) (*model.Plan, error) {
	sc := NewScope(problem)
	plan := &model.Plan{Steps: make([]*model.ActionInstance, 0, len(node.Actions))}
	for i, inst := range node.Actions {
		step, err := r.ActionInstance(inst, sc)
		if err != nil {
			return nil, fmt.Errorf("plan step %d: %w", i, err)
		}
		plan.Steps = append(plan.Steps, step)
	}
	return plan, nil
}

// ActionInstance pairs a named action with its resolved object arguments, in
// argument order. Arguments must be symbol atoms naming known objects.
func (r *Reader) ActionInstance(node *wire.ActionInstance, sc *Scope) (*model.ActionInstance, error) {
	action, ok := sc.Problem.Action(node.ActionName)
	if !ok {
		return nil, fmt.Errorf("%w: action %q", ErrUnknownSymbol, node.ActionName)
	}
	params := make([]model.Expression, 0, len(node.Parameters))
	for i, atom := range node.Parameters {
		arg, err := r.objectArg(atom, sc)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %q: %w", i, node.ActionName, err)
		}
		params = append(params, arg)
	}
	return &model.ActionInstance{Action: action, Params: params}, nil
}

// problem and plan adapt the typed entry points to the registry's handler
// shape: the scope's problem is the template for Problem conversion and the
// lookup problem for Plan conversion.
func (r *Reader) problem(node *wire.Problem, sc *Scope) (*model.Problem, error) {
	return r.Problem(node, sc.Problem)
}

func (r *Reader) plan(node *wire.Plan, sc *Scope) (*model.Plan, error) {
	return r.Plan(node, sc.Problem)
}
