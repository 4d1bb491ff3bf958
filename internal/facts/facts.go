// Package facts flattens a reconstructed planning problem into Datalog facts
// and runs fixed analysis rules over them with the Mangle engine. The report
// answers the questions a model owner asks after a lossy decode: which
// fluents does no effect ever touch, and which objects does nothing
// reference.
package facts

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"planwire/internal/model"
)

// Fact is one exported Datalog fact.
type Fact struct {
	Predicate string
	Args      []any
}

// String renders the fact as a Datalog clause. Strings quote; integers print
// bare.
func (f Fact) String() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		switch v := arg.(type) {
		case string:
			args[i] = fmt.Sprintf("%q", v)
		case int:
			args[i] = fmt.Sprintf("%d", v)
		case int64:
			args[i] = fmt.Sprintf("%d", v)
		default:
			args[i] = fmt.Sprintf("%v", v)
		}
	}
	return fmt.Sprintf("%s(%s).", f.Predicate, strings.Join(args, ", "))
}

// Export flattens a problem into facts. Predicates:
//
//	pw_object(Name, Type)
//	pw_object_ref(Name)                  object referenced by init/goal/effect
//	pw_fluent(Name, ValueType, Arity)
//	pw_fluent_param(Fluent, Index, Type)
//	pw_action(Name, Kind)
//	pw_action_param(Action, Index, Name, Type)
//	pw_effect(Action, Fluent, Kind)
//	pw_init(Fluent)
//	pw_goal_fluent(Fluent)
func Export(p *model.Problem) []Fact {
	var facts []Fact
	refs := make(map[string]bool)

	var walk func(e model.Expression)
	walk = func(e model.Expression) {
		switch v := e.(type) {
		case model.ObjectExp:
			refs[v.Object.Name] = true
		case model.FluentExp:
			for _, arg := range v.Args {
				walk(arg)
			}
		}
	}

	for _, o := range p.Objects() {
		facts = append(facts, Fact{"pw_object", []any{o.Name, o.Type.String()}})
	}
	for _, f := range p.Fluents() {
		facts = append(facts, Fact{"pw_fluent", []any{f.Name, f.ValueType.String(), f.Arity()}})
		for i, t := range f.Signature {
			facts = append(facts, Fact{"pw_fluent_param", []any{f.Name, i, t.String()}})
		}
	}
	for _, a := range p.Actions() {
		kind := "instantaneous"
		if _, ok := a.(*model.DurativeAction); ok {
			kind = "durative"
		}
		facts = append(facts, Fact{"pw_action", []any{a.Name(), kind}})
		for i, param := range a.Parameters() {
			facts = append(facts, Fact{"pw_action_param", []any{a.Name(), i, param.Name, param.Type.String()}})
		}
		for _, te := range a.Effects() {
			if fe, ok := te.Effect.Fluent.(model.FluentExp); ok {
				facts = append(facts, Fact{"pw_effect", []any{a.Name(), fe.Fluent.Name, te.Effect.Kind.String()}})
			}
			walk(te.Effect.Fluent)
			walk(te.Effect.Value)
		}
	}
	for _, iv := range p.InitialValues() {
		facts = append(facts, Fact{"pw_init", []any{iv.Fluent.Fluent.Name}})
		walk(iv.Fluent)
		walk(iv.Value)
	}
	for _, g := range p.Goals() {
		if fe, ok := g.(model.FluentExp); ok {
			facts = append(facts, Fact{"pw_goal_fluent", []any{fe.Fluent.Name}})
		}
		walk(g)
	}

	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		facts = append(facts, Fact{"pw_object_ref", []any{name}})
	}
	return facts
}

// rules derive the report predicates. pw_static holds fluents no effect
// touches; pw_unused_object holds objects nothing references.
const rules = `
pw_affected(F) :- pw_effect(_, F, _).
pw_static(F) :- pw_fluent(F, _, _), !pw_affected(F).
pw_unused_object(O) :- pw_object(O, _), !pw_object_ref(O).
`

// sentinel keeps every body predicate defined even when the corresponding
// problem section is empty; Mangle rejects rules over predicates with no
// clauses. Seeds are self-consistent (the sentinel fluent is affected, the
// sentinel object referenced) and filtered from collected results.
const sentinel = "__planwire_none__"

var seeds = []Fact{
	{"pw_object", []any{sentinel, sentinel}},
	{"pw_object_ref", []any{sentinel}},
	{"pw_fluent", []any{sentinel, sentinel, 0}},
	{"pw_effect", []any{sentinel, sentinel, sentinel}},
}

// Report summarizes the analysis results.
type Report struct {
	StaticFluents []string
	UnusedObjects []string
}

// Analyze exports the problem, evaluates the analysis rules, and collects
// the derived predicates.
func Analyze(p *model.Problem) (*Report, error) {
	var program bytes.Buffer
	for _, f := range Export(p) {
		program.WriteString(f.String())
		program.WriteByte('\n')
	}
	for _, f := range seeds {
		program.WriteString(f.String())
		program.WriteByte('\n')
	}
	program.WriteString(rules)

	unit, err := parse.Unit(bytes.NewReader(program.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("parse analysis program: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze analysis program: %w", err)
	}

	store := factstore.NewSimpleInMemoryStore()
	if err := engine.EvalProgram(info, store); err != nil {
		return nil, fmt.Errorf("evaluate analysis program: %w", err)
	}

	report := &Report{}
	report.StaticFluents, err = collect(store, "pw_static")
	if err != nil {
		return nil, err
	}
	report.UnusedObjects, err = collect(store, "pw_unused_object")
	if err != nil {
		return nil, err
	}
	return report, nil
}

// collect gathers the single string argument of every fact of a unary
// predicate, sorted.
func collect(store factstore.FactStore, predicate string) ([]string, error) {
	var out []string
	sym := ast.PredicateSym{Symbol: predicate, Arity: 1}
	err := store.GetFacts(ast.NewQuery(sym), func(a ast.Atom) error {
		if len(a.Args) != 1 {
			return fmt.Errorf("%s: want 1 argument, got %d", predicate, len(a.Args))
		}
		c, ok := a.Args[0].(ast.Constant)
		if !ok {
			return fmt.Errorf("%s: non-constant argument %v", predicate, a.Args[0])
		}
		if c.Type != ast.StringType {
			return fmt.Errorf("%s: argument %v is not a string", predicate, c)
		}
		if c.Symbol != sentinel {
			out = append(out, c.Symbol)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
