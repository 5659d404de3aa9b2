package population

import "time"

// Summary is the per-generation statistics record.
type Summary struct {
	RunID        string    `json:"run_id"`
	Generation   int       `json:"generation"`
	Agents       int       `json:"agents"`
	BestAgentID  string    `json:"best_agent_id"`
	BestAvgScore float64   `json:"best_avg_score"`
	MeanScore    float64   `json:"mean_score"`
	HighestTile  uint32    `json:"highest_tile"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Summary reports the current standing of the population.
func (p *Population) Summary() Summary {
	s := Summary{
		RunID:      p.runID,
		Generation: p.EvolutionStep,
		Agents:     len(p.Agents),
		RecordedAt: time.Now().UTC(),
	}
	if best, ok := p.BestAgent(); ok {
		s.BestAgentID = best.ID
		s.BestAvgScore = best.AvgScore()
	}
	if len(p.Agents) == 0 {
		return s
	}

	var total float64
	for _, a := range p.Agents {
		total += a.AvgScore()
		if tile, ok := a.HighestTile(); ok && tile > s.HighestTile {
			s.HighestTile = tile
		}
	}
	s.MeanScore = total / float64(len(p.Agents))
	return s
}
