package universe

import "fmt"

//RuleSet is the birth/survival rule of the automaton
//a dead cell is born when its live neighbours count is in [BornMin, BornMax]
//a live cell survives when the count is in [SurviveMin, SurviveMax]
type RuleSet struct {
	BornMin    int
	BornMax    int
	SurviveMin int
	SurviveMax int
}

//ClassicRules is Conway's rule B3/S23
var ClassicRules = RuleSet{BornMin: 3, BornMax: 3, SurviveMin: 2, SurviveMax: 3}

//Validate checks the thresholds are non-negative and ordered
func (r RuleSet) Validate() error {
	if r.BornMin < 0 || r.BornMax < 0 || r.SurviveMin < 0 || r.SurviveMax < 0 {
		return fmt.Errorf("%w: negative threshold in %v", ErrInvalidRules, r)
	}
	if r.BornMin > r.BornMax {
		return fmt.Errorf("%w: born min %d > born max %d", ErrInvalidRules, r.BornMin, r.BornMax)
	}
	if r.SurviveMin > r.SurviveMax {
		return fmt.Errorf("%w: survive min %d > survive max %d", ErrInvalidRules, r.SurviveMin, r.SurviveMax)
	}
	return nil
}

//Next returns the next state of a cell with the given live neighbours count
func (r RuleSet) Next(c Cell, neighbours int) Cell {
	if c == Alive && neighbours >= r.SurviveMin && neighbours <= r.SurviveMax {
		return Alive
	}
	if c == Dead && neighbours >= r.BornMin && neighbours <= r.BornMax {
		return Alive
	}
	return Dead
}

func (r RuleSet) String() string {
	return fmt.Sprintf("B%d-%d/S%d-%d", r.BornMin, r.BornMax, r.SurviveMin, r.SurviveMax)
}
