package utils

import "time"

// populationSmoothing weights the newest generation in AveragePopulation.
const populationSmoothing = 0.1

// Stats tracks an animation run: population over time and stepping speed.
type Stats struct {
	Generations       int
	Population        int
	PeakPopulation    int
	AveragePopulation float64
	LastStep          time.Duration
	StartTime         time.Time
}

// NewStats starts a run whose initial generation has the given population.
func NewStats(population int) *Stats {
	return &Stats{
		Population:        population,
		PeakPopulation:    population,
		AveragePopulation: float64(population),
		StartTime:         time.Now(),
	}
}

// Record accounts for one more generation with the given population and step time.
func (s *Stats) Record(population int, step time.Duration) {
	s.Generations++
	s.Population = population
	s.PeakPopulation = max(s.PeakPopulation, population)
	s.LastStep = step
	s.AveragePopulation = s.AveragePopulation*(1-populationSmoothing) + float64(population)*populationSmoothing
}

// Extinct reports whether the latest generation has no living cells.
func (s *Stats) Extinct() bool {
	return s.Population == 0
}

// Elapsed returns the time since the run started.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Rate returns the overall generations per second, frame delays included.
func (s *Stats) Rate() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.Generations) / elapsed
}
