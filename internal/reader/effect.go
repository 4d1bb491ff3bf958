package reader

import (
	"fmt"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// Effect rebuilds one effect. The empty effect kind is the schema's zero
// value and means assign; INCREASE and DECREASE map to their kinds; anything
// else is ErrUnknownEffectKind, surfaced rather than defaulted. Unresolved
// target or value expressions propagate to the caller as errors so the
// action rebuilder can apply its drop policy.
func (r *Reader) Effect(node *wire.EffectExpression, sc *Scope) (*model.Effect, error) {
	kind, err := effectKind(node.Kind)
	if err != nil {
		return nil, err
	}

	if node.Fluent == nil {
		return nil, fmt.Errorf("effect has no target fluent expression")
	}
	fluent, err := r.Expression(node.Fluent, sc)
	if err != nil {
		return nil, fmt.Errorf("effect fluent: %w", err)
	}

	if node.Value == nil {
		return nil, fmt.Errorf("effect has no value expression")
	}
	value, err := r.Expression(node.Value, sc)
	if err != nil {
		return nil, fmt.Errorf("effect value: %w", err)
	}

	effect := &model.Effect{Fluent: fluent, Value: value, Kind: kind}
	if node.Condition != nil {
		guard, err := r.Expression(node.Condition, sc)
		if err != nil {
			return nil, fmt.Errorf("effect condition: %w", err)
		}
		effect.Condition = guard
	}
	return effect, nil
}

func effectKind(kind wire.EffectKind) (model.EffectKind, error) {
	switch kind {
	case "", wire.EffectAssign:
		return model.Assign, nil
	case wire.EffectIncrease:
		return model.Increase, nil
	case wire.EffectDecrease:
		return model.Decrease, nil
	default:
		return model.Assign, fmt.Errorf("%w: %q", ErrUnknownEffectKind, kind)
	}
}
