// Package cql parses the component query language into filters.
//
//	CONTAINS(Collide, MoveTo) & !EXACT(Wall) | ALL()
//
// Operators are evaluated left to right with no precedence; use parentheses to group.
package cql

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/filter"
	"pkg.world.dev/world-engine/ecs/types"
)

// ComponentResolver maps a component name from the query text to a registered component.
type ComponentResolver func(name string) (types.Component, error)

type operator int

const (
	opAnd operator = iota
	opOr
)

var operators = map[string]operator{"&": opAnd, "|": opOr}

// Capture tells the parser how to turn the matched token into an operator.
func (o *operator) Capture(s []string) error {
	if len(s) == 0 {
		return eris.New("invalid operator")
	}
	op, ok := operators[s[0]]
	if !ok {
		return eris.Errorf("invalid operator %q", s[0])
	}
	*o = op
	return nil
}

func (o operator) String() string {
	if o == opOr {
		return "|"
	}
	return "&"
}

type component struct {
	Name string `@Ident`
}

type all struct{}

func (a *all) Capture(_ []string) error {
	*a = all{}
	return nil
}

type negation struct {
	Value *value `"!" @@`
}

type exact struct {
	Components []*component `"EXACT" "(" (@@ ",")* @@ ")"`
}

type contains struct {
	Components []*component `"CONTAINS" "(" (@@ ",")* @@ ")"`
}

type value struct {
	All      *all      `@("ALL" "(" ")")`
	Exact    *exact    `| @@`
	Contains *contains `| @@`
	Not      *negation `| @@`
	Group    *term     `| "(" @@ ")"`
}

type opValue struct {
	Operator operator `@("&" | "|")`
	Value    *value   `@@`
}

type term struct {
	Left  *value     `@@`
	Right []*opValue `@@*`
}

var parser = participle.MustBuild[term]()

func names(components []*component) string {
	out := make([]string, len(components))
	for i, c := range components {
		out[i] = c.Name
	}
	return strings.Join(out, ", ")
}

func (v *value) String() string {
	switch {
	case v.All != nil:
		return "ALL()"
	case v.Exact != nil:
		return "EXACT(" + names(v.Exact.Components) + ")"
	case v.Contains != nil:
		return "CONTAINS(" + names(v.Contains.Components) + ")"
	case v.Not != nil:
		return "!(" + v.Not.Value.String() + ")"
	case v.Group != nil:
		return "(" + v.Group.String() + ")"
	}
	return ""
}

func (t *term) String() string {
	out := []string{t.Left.String()}
	for _, r := range t.Right {
		out = append(out, r.Operator.String(), r.Value.String())
	}
	return strings.Join(out, " ")
}

func resolveAll(components []*component, resolve ComponentResolver) ([]types.Component, error) {
	out := make([]types.Component, 0, len(components))
	for _, c := range components {
		comp, err := resolve(c.Name)
		if err != nil {
			return nil, eris.Wrapf(err, "resolving %q", c.Name)
		}
		out = append(out, comp)
	}
	return out, nil
}

func (v *value) toFilter(resolve ComponentResolver) (filter.ComponentFilter, error) {
	switch {
	case v.All != nil:
		return filter.All(), nil
	case v.Exact != nil:
		comps, err := resolveAll(v.Exact.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Exact(comps...), nil
	case v.Contains != nil:
		comps, err := resolveAll(v.Contains.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Contains(comps...), nil
	case v.Not != nil:
		inner, err := v.Not.Value.toFilter(resolve)
		if err != nil {
			return nil, err
		}
		return filter.Not(inner), nil
	case v.Group != nil:
		return v.Group.toFilter(resolve)
	}
	return nil, eris.New("empty CQL value")
}

func (t *term) toFilter(resolve ComponentResolver) (filter.ComponentFilter, error) {
	if t.Left == nil {
		return nil, eris.New("not enough values in expression")
	}
	acc, err := t.Left.toFilter(resolve)
	if err != nil {
		return nil, err
	}
	for _, r := range t.Right {
		next, err := r.Value.toFilter(resolve)
		if err != nil {
			return nil, err
		}
		switch r.Operator {
		case opAnd:
			acc = filter.And(acc, next)
		case opOr:
			acc = filter.Or(acc, next)
		default:
			return nil, eris.New("invalid operator")
		}
	}
	return acc, nil
}

// Parse turns cqlText into a filter, resolving every component name through resolve.
func Parse(cqlText string, resolve ComponentResolver) (filter.ComponentFilter, error) {
	t, err := parser.ParseString("", cqlText)
	if err != nil {
		return nil, eris.Wrap(err, "invalid CQL")
	}
	return t.toFilter(resolve)
}

// Normalize parses cqlText and prints it back in canonical form. It does not resolve component names.
func Normalize(cqlText string) (string, error) {
	t, err := parser.ParseString("", cqlText)
	if err != nil {
		return "", eris.Wrap(err, "invalid CQL")
	}
	return t.String(), nil
}
