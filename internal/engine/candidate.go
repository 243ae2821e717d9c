// Package engine runs the transfer recommendation pipeline: exclusion
// filtering, capacity matching, transport evaluation, and policy ranking,
// producing an explainable recommendation.
package engine

import "github.com/couchcryptid/transfer-center/internal/domain"

// CandidateState tracks a campus through the decision pipeline. A candidate
// either reaches Scored or terminates in Rejected with a reason.
type CandidateState string

const (
	StatePending         CandidateState = "Pending"
	StatePassedExclusion CandidateState = "PassedExclusion"
	StateHasCapacity     CandidateState = "HasCapacity"
	StateReachable       CandidateState = "Reachable"
	StateScored          CandidateState = "Scored"
	StateRejected        CandidateState = "Rejected"
)

// Candidate is one campus moving through the pipeline for a single request.
type Candidate struct {
	Campus       domain.HospitalCampus
	State        CandidateState
	RejectStage  string // exclusion, capacity, or transport
	RejectReason string
	Availability domain.BedAvailability
	Transport    domain.TransportOption
	Score        float64
}

// Eligible reports whether the candidate survived all pipeline stages.
func (c *Candidate) Eligible() bool {
	return c.State == StateReachable || c.State == StateScored
}

func (c *Candidate) reject(stage, reason string) {
	c.State = StateRejected
	c.RejectStage = stage
	c.RejectReason = reason
}
