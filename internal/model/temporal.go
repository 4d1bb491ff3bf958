package model

import "fmt"

// TimepointKind anchors a timing to a plan or action boundary.
type TimepointKind int

const (
	GlobalStart TimepointKind = iota
	GlobalEnd
	Start
	End
)

func (k TimepointKind) String() string {
	switch k {
	case GlobalStart:
		return "global start"
	case GlobalEnd:
		return "global end"
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return fmt.Sprintf("timepoint(%d)", int(k))
	}
}

// Timepoint is a temporal anchor.
type Timepoint struct {
	Kind TimepointKind
}

func (t Timepoint) String() string { return t.Kind.String() }

// Timing offsets a timepoint by an integer delay.
type Timing struct {
	Delay     int64
	Timepoint Timepoint
}

func (t Timing) String() string {
	if t.Delay == 0 {
		return t.Timepoint.String()
	}
	return fmt.Sprintf("%s + %d", t.Timepoint, t.Delay)
}

// TimeInterval is a span bounded by two timings, with independently open or
// closed endpoints.
type TimeInterval struct {
	Lower     Timing
	Upper     Timing
	LeftOpen  bool
	RightOpen bool
}

func (i TimeInterval) String() string {
	left, right := "[", "]"
	if i.LeftOpen {
		left = "("
	}
	if i.RightOpen {
		right = ")"
	}
	return fmt.Sprintf("%s%s, %s%s", left, i.Lower, i.Upper, right)
}

// ExpressionInterval bounds a quantity with expressions. Durative actions use
// it as their duration constraint.
type ExpressionInterval struct {
	Lower     Expression
	Upper     Expression
	LeftOpen  bool
	RightOpen bool
}

func (i ExpressionInterval) String() string {
	left, right := "[", "]"
	if i.LeftOpen {
		left = "("
	}
	if i.RightOpen {
		right = ")"
	}
	return fmt.Sprintf("%s%s, %s%s", left, i.Lower, i.Upper, right)
}
