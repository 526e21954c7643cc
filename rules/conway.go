package rules

// Conway is the standard Game of Life parameterization: a live cell survives
// with 2 or 3 live neighbors, a dead cell is born with exactly 3.
var Conway = Rule{MaxSurvivors: 3, MinSurvivors: 2, BirthCount: 3}

/*
Apply decides the next state of a cell given its live neighbor count.

A live cell stays alive unless neighbors > r.MaxSurvivors or neighbors < r.MinSurvivors.
A dead cell comes alive only when neighbors == r.BirthCount.
*/
func Apply(neighbors int, alive bool, r Rule) bool {
	if alive {
		return neighbors <= r.MaxSurvivors && neighbors >= r.MinSurvivors
	}
	return neighbors == r.BirthCount
}
