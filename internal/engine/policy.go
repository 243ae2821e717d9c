package engine

import "sort"

// Heuristic ceiling: travel beyond this contributes nothing to the weighted
// time score.
const timeScoreCeilingMinutes = 180.0

// SelectionPolicy ranks the candidates that survived all pipeline stages.
// Rank assigns each candidate's Score and returns the candidates in ranked
// order without mutating the input slice. Implementations must be
// deterministic: stable sorts only, ties preserve input order.
type SelectionPolicy interface {
	Name() string
	Rank(candidates []*Candidate) []*Candidate
}

// ClosestEligible ranks ascending by travel time. The algorithm is fully
// deterministic, so every candidate scores a flat 100.
type ClosestEligible struct{}

func (ClosestEligible) Name() string { return "closest_eligible" }

func (ClosestEligible) Rank(candidates []*Candidate) []*Candidate {
	ranked := make([]*Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Transport.TravelMinutes < ranked[j].Transport.TravelMinutes
	})
	for _, c := range ranked {
		c.Score = 100
	}
	return ranked
}

// WeightedScore ranks descending by a composite of bed availability and
// travel time: score = 0.5*bed_score + 0.5*time_score, where bed_score is
// 100 when any bed is open and time_score decays linearly to zero at the
// 180-minute ceiling. Confidence equals the score.
type WeightedScore struct{}

func (WeightedScore) Name() string { return "weighted_score" }

func (WeightedScore) Rank(candidates []*Candidate) []*Candidate {
	ranked := make([]*Candidate, len(candidates))
	copy(ranked, candidates)
	for _, c := range ranked {
		c.Score = weightedScore(c)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func weightedScore(c *Candidate) float64 {
	bedScore := 0.0
	if c.Availability.Available > 0 {
		bedScore = 100.0
	}
	timeScore := (timeScoreCeilingMinutes - c.Transport.TravelMinutes) / timeScoreCeilingMinutes * 100.0
	if timeScore < 0 {
		timeScore = 0
	}
	return 0.5*bedScore + 0.5*timeScore
}

// PolicyFor maps a configured policy name to its implementation. Unknown
// names fall back to the closest-eligible default.
func PolicyFor(name string) SelectionPolicy {
	if name == "weighted" {
		return WeightedScore{}
	}
	return ClosestEligible{}
}
