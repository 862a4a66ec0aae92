package models

// ParticleSnapshot holds the red (reactant) and blue (product) particle counts at one simulated timepoint.
type ParticleSnapshot struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

// Total is the number of particles in the closed system.
func (s ParticleSnapshot) Total() int {
	return s.Red + s.Blue
}

// SimulationState is the observation at t = 0 s, 10 s and 20 s of one simulation run.
type SimulationState struct {
	T0  ParticleSnapshot `json:"t0"`
	T10 ParticleSnapshot `json:"t10"`
	T20 ParticleSnapshot `json:"t20"`
}

// Snapshots returns the three snapshots in chronological order.
func (s SimulationState) Snapshots() []ParticleSnapshot {
	return []ParticleSnapshot{s.T0, s.T10, s.T20}
}
