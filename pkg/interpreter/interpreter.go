package interpreter

import (
	"github.com/aditya-wp/wayfinder/pkg/datastructure"
	"github.com/aditya-wp/wayfinder/pkg/routing"
)

// TurnRestriction forbids traversing the (from, via, to) vertex triple
// consecutively. Built from OSM restriction relations by the parser.
type TurnRestriction struct {
	From int32
	Via  int32
	To   int32
}

// Interpreter standard routing interpreter: a turn-restriction table plus
// optional access-label constraints. Read-only after build, safe for
// concurrent queries.
type Interpreter struct {
	restrictions map[TurnRestriction]struct{}
	constraints  routing.Constraints
}

func NewInterpreter() *Interpreter {
	return &Interpreter{
		restrictions: make(map[TurnRestriction]struct{}),
	}
}

func (it *Interpreter) AddRestriction(from, via, to int32) {
	it.restrictions[TurnRestriction{From: from, Via: via, To: to}] = struct{}{}
}

func (it *Interpreter) NumRestrictions() int {
	return len(it.restrictions)
}

// SetConstraints activates label-sequence checking for every query run with
// this interpreter.
func (it *Interpreter) SetConstraints(constraints routing.Constraints) {
	it.constraints = constraints
}

func (it *Interpreter) Constraints() routing.Constraints {
	return it.constraints
}

func (it *Interpreter) CanBeTraversed(prev, cur int32, edge datastructure.Edge) bool {
	_, forbidden := it.restrictions[TurnRestriction{From: prev, Via: cur, To: edge.To}]
	return !forbidden
}
