// Package reader reconstructs strongly-typed planning problems and plans
// from trees of tagged wire messages. The same wire atom shape resolves
// differently depending on surrounding scope (object constant, action
// parameter, or fluent name), so every conversion that can see an atom takes
// an explicit Scope instead of mutating shared converter state: one Reader is
// safe for concurrent use across independent conversions.
package reader

import (
	"fmt"

	"go.uber.org/zap"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// Stats counts the lenient outcomes of one conversion: effects dropped
// because their target or value did not resolve, conditions skipped because
// their expression is unsupported, and timing delays truncated from
// fractional wire values.
type Stats struct {
	DroppedEffects    int
	SkippedConditions int
	TruncatedDelays   int
}

// Scope is the ambient context of one conversion: the problem being filled
// in, the action whose parameters are visible to atom resolution (nil
// outside action conversion), and the running stats. Scopes are cheap values
// derived per call; they never outlive the conversion that created them.
type Scope struct {
	Problem *model.Problem
	Action  model.Action
	stats   *Stats
}

// NewScope creates a conversion scope rooted at a problem.
func NewScope(p *model.Problem) *Scope {
	return &Scope{Problem: p, stats: &Stats{}}
}

// WithAction derives a scope whose atom resolution also sees the given
// action's parameters. The parent scope is not modified, so sibling
// conversions never observe each other's action.
func (sc *Scope) WithAction(a model.Action) *Scope {
	return &Scope{Problem: sc.Problem, Action: a, stats: sc.stats}
}

// Stats returns a copy of the scope's accumulated stats.
func (sc *Scope) Stats() Stats { return *sc.stats }

// Reader converts wire messages into domain model values. The typed methods
// (Atom, Expression, Effect, Action, Problem, Plan, ...) do the recursive
// work; the registry exposes the same rules behind generic kind dispatch for
// callers that hold a wire.Message of unknown concrete type.
type Reader struct {
	registry *Registry
	log      *zap.Logger
}

// NewReader creates a Reader with one handler registered per message kind.
// A nil logger disables logging.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reader{registry: NewRegistry(), log: logger}

	r.registry.MustRegister(wire.KindAtom, func(msg wire.Message, sc *Scope) (any, error) {
		return r.Atom(msg.(*wire.Atom), sc)
	})
	r.registry.MustRegister(wire.KindExpression, func(msg wire.Message, sc *Scope) (any, error) {
		return r.Expression(msg.(*wire.Expression), sc)
	})
	r.registry.MustRegister(wire.KindParameter, func(msg wire.Message, sc *Scope) (any, error) {
		return r.Parameter(msg.(*wire.Parameter), sc)
	})
	r.registry.MustRegister(wire.KindFluent, func(msg wire.Message, sc *Scope) (any, error) {
		return r.Fluent(msg.(*wire.Fluent), sc)
	})
	r.registry.MustRegister(wire.KindObject, func(msg wire.Message, sc *Scope) (any, error) {
		return r.Object(msg.(*wire.ObjectDeclaration), sc)
	})
	r.registry.MustRegister(wire.KindTypeDeclaration, func(msg wire.Message, sc *Scope) (any, error) {
		return r.TypeDeclaration(msg.(*wire.TypeDeclaration), sc)
	})
	r.registry.MustRegister(wire.KindTimepoint, func(msg wire.Message, _ *Scope) (any, error) {
		return r.Timepoint(msg.(*wire.Timepoint))
	})
	r.registry.MustRegister(wire.KindTiming, func(msg wire.Message, sc *Scope) (any, error) {
		return r.Timing(msg.(*wire.Timing), sc)
	})
	r.registry.MustRegister(wire.KindTimeInterval, func(msg wire.Message, sc *Scope) (any, error) {
		return r.TimeInterval(msg.(*wire.TimeInterval), sc)
	})
	r.registry.MustRegister(wire.KindInterval, func(msg wire.Message, sc *Scope) (any, error) {
		return r.ExpressionInterval(msg.(*wire.Interval), sc)
	})
	r.registry.MustRegister(wire.KindEffect, func(msg wire.Message, sc *Scope) (any, error) {
		return r.Effect(msg.(*wire.EffectExpression), sc)
	})
	r.registry.MustRegister(wire.KindAction, func(msg wire.Message, sc *Scope) (any, error) {
		return r.Action(msg.(*wire.Action), sc)
	})
	r.registry.MustRegister(wire.KindProblem, func(msg wire.Message, sc *Scope) (any, error) {
		return r.problem(msg.(*wire.Problem), sc)
	})
	r.registry.MustRegister(wire.KindPlan, func(msg wire.Message, sc *Scope) (any, error) {
		return r.plan(msg.(*wire.Plan), sc)
	})
	r.registry.MustRegister(wire.KindActionInstance, func(msg wire.Message, sc *Scope) (any, error) {
		return r.ActionInstance(msg.(*wire.ActionInstance), sc)
	})

	return r
}

// Convert dispatches a wire message of unknown concrete type to its
// registered handler. Typed callers should prefer the typed methods.
func (r *Reader) Convert(msg wire.Message, sc *Scope) (any, error) {
	return r.registry.Convert(msg, sc)
}

// Registry exposes the reader's handler registry, mainly for tests and for
// callers extending dispatch with custom message kinds.
func (r *Reader) Registry() *Registry { return r.registry }

func (r *Reader) logStats(what, name string, sc *Scope) {
	st := sc.Stats()
	if st.DroppedEffects == 0 && st.SkippedConditions == 0 && st.TruncatedDelays == 0 {
		return
	}
	r.log.Warn(fmt.Sprintf("%s converted with lenient outcomes", what),
		zap.String("name", name),
		zap.Int("dropped_effects", st.DroppedEffects),
		zap.Int("skipped_conditions", st.SkippedConditions),
		zap.Int("truncated_delays", st.TruncatedDelays),
	)
}
