package reader

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// Action rebuilds a full action. A populated duration sub-message makes the
// action durative, otherwise instantaneous. Parameters decode first so the
// per-action scope can resolve symbol atoms against them for the rest of the
// call. Conditions attach timed when they carry a span; conditions whose
// expression is unsupported are skipped and counted. Effects attach timed
// when they carry an occurrence time; effects whose target or value is built
// on an unsupported expression kind are dropped and counted rather than
// aborting the action — a deliberate lenient policy, made observable through
// Stats and warn logs. Unknown symbols stay fatal everywhere.
func (r *Reader) Action(node *wire.Action, sc *Scope) (model.Action, error) {
	var action model.Action
	var durative *model.DurativeAction
	if node.Duration != nil {
		durative = model.NewDurativeAction(node.Name)
		action = durative
	} else {
		action = model.NewInstantaneousAction(node.Name)
	}

	for i, p := range node.Parameters {
		param, err := r.Parameter(p, sc)
		if err != nil {
			return nil, fmt.Errorf("action %q parameter %d: %w", node.Name, i, err)
		}
		if err := action.AddParameter(param); err != nil {
			return nil, err
		}
	}

	// Everything below may mention this action's parameters by name.
	asc := sc.WithAction(action)

	if durative != nil {
		duration, err := r.ExpressionInterval(node.Duration, asc)
		if err != nil {
			return nil, fmt.Errorf("action %q duration: %w", node.Name, err)
		}
		durative.SetDuration(duration)
	}

	for i, c := range node.Conditions {
		if c.Cond == nil {
			return nil, fmt.Errorf("action %q condition %d has no expression", node.Name, i)
		}
		expr, err := r.Expression(c.Cond, asc)
		if errors.Is(err, ErrUnsupportedExpression) {
			asc.stats.SkippedConditions++
			r.log.Warn("skipping condition with unsupported expression",
				zap.String("action", node.Name), zap.Int("condition", i), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("action %q condition %d: %w", node.Name, i, err)
		}

		cond := model.Condition{Expr: expr}
		if c.Span != nil {
			span, err := r.TimeInterval(c.Span, asc)
			if err != nil {
				return nil, fmt.Errorf("action %q condition %d span: %w", node.Name, i, err)
			}
			cond.Span = &span
		}
		action.AddCondition(cond)
	}

	for i, te := range node.Effects {
		if te.Effect == nil {
			return nil, fmt.Errorf("action %q effect %d has no effect expression", node.Name, i)
		}
		effect, err := r.Effect(te.Effect, asc)
		if errors.Is(err, ErrUnsupportedExpression) {
			// Target or value built on an unsupported expression kind: drop
			// the effect, keep the action. Counted so callers can audit the
			// data loss.
			asc.stats.DroppedEffects++
			r.log.Warn("dropping effect with unsupported target or value",
				zap.String("action", node.Name), zap.Int("effect", i), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("action %q effect %d: %w", node.Name, i, err)
		}

		timed := model.TimedEffect{Effect: effect}
		if te.OccurrenceTime != nil {
			occ, err := r.Timing(te.OccurrenceTime, asc)
			if err != nil {
				return nil, fmt.Errorf("action %q effect %d occurrence time: %w", node.Name, i, err)
			}
			timed.Time = &occ
		}
		action.AddEffect(timed)
	}

	if node.Cost != nil {
		cost, err := r.Expression(node.Cost, asc)
		if err != nil {
			return nil, fmt.Errorf("action %q cost: %w", node.Name, err)
		}
		action.SetCost(cost)
	}

	return action, nil
}
