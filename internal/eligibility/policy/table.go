package policy

import "fmt"

// Bracket maps every input at or above Min (up to the next bracket) to Score.
type Bracket struct {
	Min   float64 `yaml:"min" json:"min"`
	Score int     `yaml:"score" json:"score"`
	Label string  `yaml:"label,omitempty" json:"label,omitempty"`
}

// Table is an ordered list of lower-bound brackets. Inputs below the first
// bracket score zero.
type Table []Bracket

// Lookup returns the score of the highest bracket whose lower bound is <= v.
func (t Table) Lookup(v float64) int {
	score := 0
	for _, b := range t {
		if v < b.Min {
			break
		}
		score = b.Score
	}
	return score
}

// Next returns the first bracket above v that scores more than current.
// Callers pass the dimension score, which may exceed t.Lookup(v) when an
// alternate table scored higher.
func (t Table) Next(v float64, current int) (Bracket, bool) {
	for _, b := range t {
		if b.Min > v && b.Score > current {
			return b, true
		}
	}
	return Bracket{}, false
}

// Max returns the highest score reachable in the table.
func (t Table) Max() int {
	max := 0
	for _, b := range t {
		if b.Score > max {
			max = b.Score
		}
	}
	return max
}

func (t Table) validate(monotonic bool) error {
	for i := 1; i < len(t); i++ {
		if t[i].Min <= t[i-1].Min {
			return fmt.Errorf("bracket %d: lower bound %g is not above %g", i, t[i].Min, t[i-1].Min)
		}
		if monotonic && t[i].Score < t[i-1].Score {
			return fmt.Errorf("bracket %d: score %d decreases from %d", i, t[i].Score, t[i-1].Score)
		}
	}
	for i, b := range t {
		if b.Score < 0 {
			return fmt.Errorf("bracket %d: negative score %d", i, b.Score)
		}
	}
	return nil
}
