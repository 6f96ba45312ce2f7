// Package ggrammar holds the grammar's production model (spec section 3):
// immutable production records plus the Grammar aggregate that owns the
// symbol table and the production list. Grounded on the teacher's
// grammar.Grammar/Production types (dekarrin-tunaq/internal/ictiobus/
// grammar) and on the Rust original's production.rs (original_source/
// alap_gen/src/production.rs), which carries exactly this id/lhs/rhs/
// predicate/action/precedence shape.
package ggrammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/lalrgen/internal/symbol"
)

// StartProductionID is reserved for the synthetic start production
// Start -> UserStart (spec section 3).
const StartProductionID = 0

// Production is an immutable record: identifier, LHS non-terminal,
// ordered RHS symbol sequence (possibly empty), optional predicate and
// action text, and a resolved (associativity, precedence) pair.
type Production struct {
	ID        int
	LHS       string
	RHS       []string
	Predicate string // empty if none
	Action    string // empty if none
	PrecTag   string // the %prec TAG name, if any; empty otherwise

	Precedence symbol.Precedence
}

// String renders the production as "LHS -> s1 s2 s3" (or "LHS -> ε" for an
// empty RHS), matching the teacher's LR0Item.String convention closely
// enough to be used directly in diagnostics and the states report.
func (p Production) String() string {
	if len(p.RHS) == 0 {
		return fmt.Sprintf("%s -> ε", p.LHS)
	}
	return fmt.Sprintf("%s -> %s", p.LHS, strings.Join(p.RHS, " "))
}

// IsEmpty reports whether the production has an empty RHS.
func (p Production) IsEmpty() bool {
	return len(p.RHS) == 0
}

// HasErrorTail reports whether the production's RHS ends in the reserved
// Error non-terminal — used throughout conflict resolution and error-
// recovery synthesis (spec sections 4.5, 4.7).
func (p Production) HasErrorTail() bool {
	return len(p.RHS) > 0 && p.RHS[len(p.RHS)-1] == symbol.ErrorName
}
