package reader

import (
	"fmt"
	"math"

	"planwire/internal/model"
	"planwire/internal/wire"
)

// Timepoint decodes a temporal anchor.
func (r *Reader) Timepoint(tp *wire.Timepoint) (model.Timepoint, error) {
	switch tp.Kind {
	case wire.TimepointGlobalStart:
		return model.Timepoint{Kind: model.GlobalStart}, nil
	case wire.TimepointGlobalEnd:
		return model.Timepoint{Kind: model.GlobalEnd}, nil
	case wire.TimepointStart:
		return model.Timepoint{Kind: model.Start}, nil
	case wire.TimepointEnd:
		return model.Timepoint{Kind: model.End}, nil
	default:
		return model.Timepoint{}, fmt.Errorf("%w: %q", ErrUnknownTimepoint, tp.Kind)
	}
}

// Timing decodes a delayed timepoint. The wire carries the delay as a
// double; it is truncated toward zero to an integer, and every lossy
// truncation is counted in the scope's stats.
func (r *Reader) Timing(t *wire.Timing, sc *Scope) (model.Timing, error) {
	if t.Timepoint == nil {
		return model.Timing{}, fmt.Errorf("timing has no timepoint")
	}
	tp, err := r.Timepoint(t.Timepoint)
	if err != nil {
		return model.Timing{}, err
	}

	// Converting a float64 outside int64 range is implementation-defined,
	// so reject before truncating. math.MaxInt64 converts to exactly 2^63.
	if math.IsNaN(t.Delay) || t.Delay < math.MinInt64 || t.Delay >= math.MaxInt64 {
		return model.Timing{}, fmt.Errorf("timing delay %v is out of range", t.Delay)
	}

	delay := int64(t.Delay)
	if float64(delay) != t.Delay {
		sc.stats.TruncatedDelays++
	}
	return model.Timing{Delay: delay, Timepoint: tp}, nil
}

// TimeInterval decodes a timing-bounded span.
func (r *Reader) TimeInterval(iv *wire.TimeInterval, sc *Scope) (model.TimeInterval, error) {
	if iv.Lower == nil || iv.Upper == nil {
		return model.TimeInterval{}, fmt.Errorf("time interval needs both bounds")
	}
	lower, err := r.Timing(iv.Lower, sc)
	if err != nil {
		return model.TimeInterval{}, fmt.Errorf("lower bound: %w", err)
	}
	upper, err := r.Timing(iv.Upper, sc)
	if err != nil {
		return model.TimeInterval{}, fmt.Errorf("upper bound: %w", err)
	}
	return model.TimeInterval{
		Lower:     lower,
		Upper:     upper,
		LeftOpen:  iv.IsLeftOpen,
		RightOpen: iv.IsRightOpen,
	}, nil
}

// ExpressionInterval decodes an expression-bounded interval, the shape of a
// durative action's duration constraint.
func (r *Reader) ExpressionInterval(iv *wire.Interval, sc *Scope) (model.ExpressionInterval, error) {
	if iv.Lower == nil || iv.Upper == nil {
		return model.ExpressionInterval{}, fmt.Errorf("interval needs both bounds")
	}
	lower, err := r.Expression(iv.Lower, sc)
	if err != nil {
		return model.ExpressionInterval{}, fmt.Errorf("lower bound: %w", err)
	}
	upper, err := r.Expression(iv.Upper, sc)
	if err != nil {
		return model.ExpressionInterval{}, fmt.Errorf("upper bound: %w", err)
	}
	return model.ExpressionInterval{
		Lower:     lower,
		Upper:     upper,
		LeftOpen:  iv.IsLeftOpen,
		RightOpen: iv.IsRightOpen,
	}, nil
}
