package nav

import (
	"context"
	"fmt"
	"sort"
)

// SideEffect is a one-shot write attached to a matching rule. The
// dispatcher guarantees at most one attempt per (rule, state
// fingerprint) pair; the underlying store must still tolerate repeats
// after a failed attempt.
type SideEffect func(ctx context.Context) error

// Target is a tagged route destination: either a concrete route or a
// route group whose default is resolved through the RouteTable.
type Target struct {
	route   Route
	group   RouteGroup
	isGroup bool
}

// To targets a concrete route.
func To(r Route) Target {
	return Target{route: r}
}

// ToGroup targets a route group's default.
func ToGroup(g RouteGroup) Target {
	return Target{group: g, isGroup: true}
}

// Rule is a named, prioritized predicate → target mapping.
// A nil When matches every state (catch-all).
type Rule struct {
	Name     string
	Priority int
	When     func(ResolvedState) bool
	Target   Target
	OnMatch  func(ResolvedState) SideEffect
}

func (r Rule) matches(s ResolvedState) bool {
	return r.When == nil || r.When(s)
}

// Decision is the output of rule evaluation: a concrete route plus an
// optional unevaluated side effect. Produced fresh each cycle.
type Decision struct {
	Route      Route
	SourceRule string
	Effect     SideEffect
}

// Engine evaluates an ordered rule set against resolved state.
// Ordering is fixed at construction: priority descending, declaration
// order ascending, so evaluation is reproducible from the rule list
// alone.
type Engine struct {
	table RouteTable
	rules []Rule
}

// NewEngine validates the rule set and freezes its evaluation order.
// Validation failures are construction-time errors; a built engine
// never fails at evaluation time.
func NewEngine(table RouteTable, rules []Rule) (*Engine, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("rule engine: empty rule set")
	}
	names := make(map[string]struct{}, len(rules))
	priorities := make(map[int]string, len(rules))
	catchAll := -1
	lowest := 0
	for i, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("rule engine: rule %d has no name", i)
		}
		if _, dup := names[rule.Name]; dup {
			return nil, fmt.Errorf("rule engine: duplicate rule name %q", rule.Name)
		}
		names[rule.Name] = struct{}{}
		if prev, dup := priorities[rule.Priority]; dup {
			return nil, fmt.Errorf("rule engine: rules %q and %q share priority %d", prev, rule.Name, rule.Priority)
		}
		priorities[rule.Priority] = rule.Name
		if rule.Target.isGroup {
			if !rule.Target.group.Valid() {
				return nil, fmt.Errorf("rule engine: rule %q targets unknown group %q", rule.Name, rule.Target.group)
			}
		} else if !rule.Target.route.Valid() {
			return nil, fmt.Errorf("rule engine: rule %q targets unknown route %q", rule.Name, rule.Target.route)
		}
		if rule.When == nil {
			catchAll = i
		}
		if i == 0 || rule.Priority < lowest {
			lowest = rule.Priority
		}
	}
	if catchAll < 0 {
		return nil, fmt.Errorf("rule engine: rule set has no catch-all rule")
	}
	if rules[catchAll].Priority != lowest {
		return nil, fmt.Errorf("rule engine: catch-all rule %q must carry the lowest priority", rules[catchAll].Name)
	}

	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})
	return &Engine{table: table, rules: ordered}, nil
}

// Evaluate scans rules in order and returns the first match's decision.
// The mandatory catch-all guarantees a decision is always produced.
// Evaluation is pure: side effects are attached unevaluated and run by
// the dispatcher, never here.
func (e *Engine) Evaluate(state ResolvedState) Decision {
	for _, rule := range e.rules {
		if !rule.matches(state) {
			continue
		}
		route := rule.Target.route
		if rule.Target.isGroup {
			route = e.table.DefaultFor(rule.Target.group)
		}
		if state.ExplicitRedirect != nil {
			route = *state.ExplicitRedirect
		}
		decision := Decision{Route: route, SourceRule: rule.Name}
		if rule.OnMatch != nil {
			decision.Effect = rule.OnMatch(state)
		}
		return decision
	}
	// unreachable: construction requires a catch-all
	panic("nav: rule set evaluated without a match")
}

// Rules returns the evaluation-ordered rule names, mostly for logs and
// tests.
func (e *Engine) Rules() []string {
	out := make([]string, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.Name
	}
	return out
}
