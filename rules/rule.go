package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MinCount and MaxCount bound every element of a Rule.
	MinCount = 0
	MaxCount = 8
)

var (
	ErrRuleOutOfRange = errors.New("rule element out of range [0,8]")
	ErrRuleSyntax     = errors.New("rule must be three comma separated integers")
)

// Rule is the (maxSurvivors, minSurvivors, birthCount) triple driving a step.
//
// Every element must lie in [0,8]. The evaluator does not check this; use
// Validate at the edges where a Rule is read from user input.
type Rule struct {
	MaxSurvivors int
	MinSurvivors int
	BirthCount   int
}

// Neighborhood is a 3x3 block of 0/1 cells. [1][1] is the cell being evaluated.
type Neighborhood [3][3]uint8

// CellSurvives reports whether the centre cell of n is alive in the next
// generation under r. The neighborhood must already be wrapped by the caller.
func CellSurvives(n Neighborhood, r Rule) bool {
	neighbors := 0
	for i := range n {
		for j := range n[i] {
			neighbors += int(n[i][j])
		}
	}

	alive := n[1][1] == 1
	if alive {
		neighbors-- // the centre is not its own neighbor
	}
	return Apply(neighbors, alive, r)
}

// Validate returns ErrRuleOutOfRange if any element is outside [0,8].
func (r Rule) Validate() error {
	for _, v := range [...]int{r.MaxSurvivors, r.MinSurvivors, r.BirthCount} {
		if v < MinCount || v > MaxCount {
			return errors.Wrapf(ErrRuleOutOfRange, "[Rule.Validate] %s", r)
		}
	}
	return nil
}

// String renders the rule in the form accepted by ParseRule.
func (r Rule) String() string {
	return fmt.Sprintf("%d,%d,%d", r.MaxSurvivors, r.MinSurvivors, r.BirthCount)
}

// ParseRule parses "max,min,birth", e.g. "3,2,3", and validates the result.
func ParseRule(s string) (Rule, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Rule{}, errors.Wrapf(ErrRuleSyntax, "[ParseRule] %q", s)
	}

	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rule{}, errors.Wrapf(ErrRuleSyntax, "[ParseRule] %q: %v", s, err)
		}
		vals[i] = v
	}

	r := Rule{MaxSurvivors: vals[0], MinSurvivors: vals[1], BirthCount: vals[2]}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}
