// Package cql implements the component query language, a small textual front
// end over the search filters. Editors and debugging tools use it to ask for
// entities without compiling against component types:
//
//	CONTAINS(position, velocity) & !EXACT(position)
package cql

import (
	"github.com/alecthomas/participle/v2"
	"github.com/rotisserie/eris"

	"github.com/tesseraworks/tessera/search/filter"
	"github.com/tesseraworks/tessera/types"
)

type Operator int

const (
	OpAnd Operator = iota
	OpOr
)

var operatorMap = map[string]Operator{"&": OpAnd, "|": OpOr}

func (o *Operator) Capture(s []string) error {
	*o = operatorMap[s[0]]
	return nil
}

type Component struct {
	Name string `parser:"@Ident"`
}

type Not struct {
	SubExpression *Value `parser:"'!' @@"`
}

type Exact struct {
	Components []*Component `parser:"'EXACT' '(' (@@ ',')* @@ ')'"`
}

type Contains struct {
	Components []*Component `parser:"'CONTAINS' '(' (@@ ',')* @@ ')'"`
}

type Value struct {
	Exact         *Exact    `parser:"@@"`
	Contains      *Contains `parser:"| @@"`
	Not           *Not      `parser:"| @@"`
	Subexpression *Expr     `parser:"| '(' @@ ')'"`
}

type Factor struct {
	Base *Value `parser:"@@"`
}

type OpFactor struct {
	Operator Operator `parser:"@('&' | '|')"`
	Factor   *Factor  `parser:"@@"`
}

type Expr struct {
	Left  *Factor     `parser:"@@"`
	Right []*OpFactor `parser:"@@*"`
}

var parser = participle.MustBuild[Expr]()

// Parse parses a query string into its expression tree.
func Parse(query string) (*Expr, error) {
	expr, err := parser.ParseString("", query)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse query %q", query)
	}
	return expr, nil
}

// ComponentLookup resolves a component name from a query into registered
// metadata.
type ComponentLookup func(name string) (types.ComponentMetadata, error)

// ToComponentFilter compiles a parsed expression into a search filter.
// Operators are left-associative with equal precedence, matching how the
// expression reads.
func ToComponentFilter(expr *Expr, lookup ComponentLookup) (filter.ComponentFilter, error) {
	if expr.Left == nil {
		return nil, eris.New("empty query")
	}
	acc, err := factorToFilter(expr.Left, lookup)
	if err != nil {
		return nil, err
	}
	for _, opFactor := range expr.Right {
		right, err := factorToFilter(opFactor.Factor, lookup)
		if err != nil {
			return nil, err
		}
		switch opFactor.Operator {
		case OpAnd:
			acc = filter.And(acc, right)
		case OpOr:
			acc = filter.Or(acc, right)
		default:
			return nil, eris.Errorf("unknown operator %v", opFactor.Operator)
		}
	}
	return acc, nil
}

func factorToFilter(f *Factor, lookup ComponentLookup) (filter.ComponentFilter, error) {
	return valueToFilter(f.Base, lookup)
}

func valueToFilter(v *Value, lookup ComponentLookup) (filter.ComponentFilter, error) {
	switch {
	case v.Exact != nil:
		comps, err := resolveComponents(v.Exact.Components, lookup)
		if err != nil {
			return nil, err
		}
		return filter.Exact(comps...), nil
	case v.Contains != nil:
		comps, err := resolveComponents(v.Contains.Components, lookup)
		if err != nil {
			return nil, err
		}
		return filter.Contains(comps...), nil
	case v.Not != nil:
		inner, err := valueToFilter(v.Not.SubExpression, lookup)
		if err != nil {
			return nil, err
		}
		return filter.Not(inner), nil
	case v.Subexpression != nil:
		return ToComponentFilter(v.Subexpression, lookup)
	default:
		return nil, eris.New("invalid query value")
	}
}

func resolveComponents(comps []*Component, lookup ComponentLookup) ([]types.ComponentMetadata, error) {
	acc := make([]types.ComponentMetadata, 0, len(comps))
	for _, comp := range comps {
		meta, err := lookup(comp.Name)
		if err != nil {
			return nil, err
		}
		acc = append(acc, meta)
	}
	return acc, nil
}
