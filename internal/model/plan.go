package model

import (
	"fmt"
	"strings"
)

// ActionInstance applies a declared action to concrete, object-valued
// arguments in declaration order.
type ActionInstance struct {
	Action Action
	Params []Expression
}

func (ai *ActionInstance) String() string {
	if len(ai.Params) == 0 {
		return ai.Action.Name()
	}
	args := make([]string, len(ai.Params))
	for i, p := range ai.Params {
		args[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", ai.Action.Name(), strings.Join(args, ", "))
}

// Plan is a sequential plan: an ordered list of action instances.
type Plan struct {
	Steps []*ActionInstance
}

func (p *Plan) String() string {
	steps := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = s.String()
	}
	return strings.Join(steps, "; ")
}
