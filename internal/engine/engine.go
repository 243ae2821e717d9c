package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/transfer-center/internal/domain"
	"github.com/couchcryptid/transfer-center/internal/observability"
)

// RuleSource resolves campus exclusion rules by identifier or name. A miss
// (false) is non-fatal: the campus is evaluated with only its embedded rules.
type RuleSource interface {
	RulesFor(campusID, campusName string) ([]domain.CampusExclusion, bool)
}

// Engine evaluates transfer requests against candidate campuses. It is
// stateless across calls and safe for concurrent use; all inputs are treated
// as immutable snapshots.
type Engine struct {
	rules     RuleSource
	matcher   domain.ConditionMatcher
	transport *domain.TransportEvaluator
	policy    SelectionPolicy
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an Engine. rules may be nil when no external rule store is
// configured; campus-embedded exclusions still apply.
func New(rules RuleSource, transport *domain.TransportEvaluator, policy SelectionPolicy, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		rules:     rules,
		matcher:   domain.SubstringMatcher{},
		transport: transport,
		policy:    policy,
		logger:    logger,
		metrics:   metrics,
	}
}

// Evaluation is the complete outcome of one engine run: every candidate with
// its terminal state, the ranked survivors, the ordered decision trail, and
// the recommendation (nil when no campus qualifies).
type Evaluation struct {
	RequestID      string
	CareLevel      domain.CareLevel
	Candidates     []*Candidate
	Ranked         []*Candidate
	Notes          []string
	Recommendation *domain.Recommendation
}

// Recommend evaluates the request and returns the recommendation. A nil
// recommendation with a nil error means no campus qualified; that is an
// expected outcome, not a failure.
func (e *Engine) Recommend(ctx context.Context, req domain.TransferRequest, campuses []domain.HospitalCampus, weather domain.WeatherData, modes []domain.TransportMode) (*domain.Recommendation, error) {
	eval, err := e.Evaluate(ctx, req, campuses, weather, modes)
	if err != nil {
		return nil, err
	}
	return eval.Recommendation, nil
}

// Evaluate runs the full pipeline and returns the complete decision trail.
// Each campus advances Pending -> PassedExclusion -> HasCapacity -> Reachable
// or terminates Rejected at the failing stage; survivors are ranked by the
// configured policy.
func (e *Engine) Evaluate(ctx context.Context, req domain.TransferRequest, campuses []domain.HospitalCampus, weather domain.WeatherData, modes []domain.TransportMode) (*Evaluation, error) {
	if err := req.Validate(); err != nil {
		e.metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("invalid transfer request: %w", err)
	}

	e.metrics.EvaluationsTotal.Inc()
	start := time.Now()
	defer func() {
		e.metrics.DecisionDuration.Observe(time.Since(start).Seconds())
	}()

	if len(modes) == 0 {
		modes = []domain.TransportMode{domain.ModeGroundAmbulance, domain.ModeHelicopter}
	}

	careLevel := domain.ResolveCareLevel(req.Patient)

	eval := &Evaluation{
		RequestID:  req.RequestID,
		CareLevel:  careLevel,
		Candidates: make([]*Candidate, 0, len(campuses)),
	}
	eval.note("required care level: %s (%s beds)", careLevel, careLevel.BedCategory())
	if req.PreferredMode != nil {
		eval.note("sender prefers %s transport", *req.PreferredMode)
	}

	for _, campus := range campuses {
		cand := &Candidate{Campus: campus, State: StatePending}
		eval.Candidates = append(eval.Candidates, cand)
		e.evaluateCandidate(ctx, eval, cand, req, careLevel, weather, modes)
	}

	survivors := make([]*Candidate, 0, len(eval.Candidates))
	for _, cand := range eval.Candidates {
		if cand.Eligible() {
			survivors = append(survivors, cand)
		}
	}

	if len(survivors) == 0 {
		eval.note("no eligible campus for request %s", req.RequestID)
		e.metrics.RecommendationsTotal.WithLabelValues("none_eligible").Inc()
		e.logger.Info("no eligible campus",
			"request_id", req.RequestID,
			"care_level", careLevel,
			"campuses_considered", len(campuses),
		)
		return eval, nil
	}

	eval.Ranked = e.policy.Rank(survivors)
	for _, cand := range eval.Ranked {
		cand.State = StateScored
	}

	best := eval.Ranked[0]
	eval.note("%s ranked first by %s policy (score %.1f)", best.Campus.Name, e.policy.Name(), best.Score)

	eval.Recommendation = e.assemble(req, careLevel, best, eval.Notes)
	e.metrics.RecommendationsTotal.WithLabelValues("recommended").Inc()
	e.logger.Info("campus recommended",
		"request_id", req.RequestID,
		"campus_id", best.Campus.CampusID,
		"policy", e.policy.Name(),
		"transport_mode", best.Transport.Mode,
		"travel_minutes", best.Transport.TravelMinutes,
	)
	return eval, nil
}

// evaluateCandidate advances one campus through the pipeline stages, noting
// every transition on the trail.
func (e *Engine) evaluateCandidate(ctx context.Context, eval *Evaluation, cand *Candidate, req domain.TransferRequest, careLevel domain.CareLevel, weather domain.WeatherData, modes []domain.TransportMode) {
	campus := cand.Campus

	exclusions := e.exclusionsFor(eval, campus)
	if triggered := domain.CheckExclusions(req.Patient, careLevel, exclusions, e.matcher); len(triggered) > 0 {
		for _, trig := range triggered {
			eval.note("%s: excluded by %s: %s", campus.Name, trig.Exclusion.CriteriaID, trig.Reason)
		}
		cand.reject("exclusion", triggered[0].Reason)
		e.metrics.CandidateRejections.WithLabelValues("exclusion").Inc()
		return
	}
	cand.State = StatePassedExclusion
	eval.note("%s: passed exclusion checks", campus.Name)

	avail, ok := domain.MatchCapacity(campus, careLevel)
	if !ok {
		eval.note("%s: no %s beds available", campus.Name, avail.BedType)
		cand.reject("capacity", fmt.Sprintf("no %s beds available", avail.BedType))
		e.metrics.CandidateRejections.WithLabelValues("capacity").Inc()
		return
	}
	cand.State = StateHasCapacity
	cand.Availability = avail
	eval.note("%s: %d %s beds available", campus.Name, avail.Available, avail.BedType)

	opt, ok := e.transport.Evaluate(ctx, req.SendingLocation, campus, modes, weather)
	if !ok {
		eval.note("%s: no viable transport mode", campus.Name)
		cand.reject("transport", "no viable transport mode")
		e.metrics.CandidateRejections.WithLabelValues("transport").Inc()
		return
	}
	cand.State = StateReachable
	cand.Transport = opt
	eval.note("%s: reachable by %s in %.0f min (%.1f km, %s estimate)",
		campus.Name, opt.Mode, opt.TravelMinutes, opt.DistanceKM, opt.Source)
}

// exclusionsFor combines campus-embedded rules with the external rule store.
// A store miss is fail-open: the campus keeps only its embedded rules, with a
// warning on the log and the trail.
func (e *Engine) exclusionsFor(eval *Evaluation, campus domain.HospitalCampus) []domain.CampusExclusion {
	if e.rules == nil {
		return campus.Exclusions
	}

	stored, ok := e.rules.RulesFor(campus.CampusID, campus.Name)
	if !ok {
		e.metrics.RuleLookupMissesTotal.Inc()
		e.logger.Warn("no exclusion rules found for campus, proceeding without",
			"campus_id", campus.CampusID,
			"campus_name", campus.Name,
		)
		eval.note("%s: no exclusion rules on file, none applied", campus.Name)
		return campus.Exclusions
	}

	combined := make([]domain.CampusExclusion, 0, len(campus.Exclusions)+len(stored))
	combined = append(combined, campus.Exclusions...)
	combined = append(combined, stored...)
	return combined
}

// assemble builds the final recommendation from the winning candidate.
func (e *Engine) assemble(req domain.TransferRequest, careLevel domain.CareLevel, best *Candidate, notes []string) *domain.Recommendation {
	reason := fmt.Sprintf("%s: %d %s beds available, %s travel %.0f min",
		best.Campus.Name,
		best.Availability.Available, best.Availability.BedType,
		best.Transport.Mode, best.Transport.TravelMinutes,
	)

	trail := make([]string, len(notes))
	copy(trail, notes)

	return &domain.Recommendation{
		TransferRequestID:   req.RequestID,
		RecommendedCampusID: best.Campus.CampusID,
		Reason:              reason,
		ConfidenceScore:     best.Score,
		Notes:               trail,
		Details: domain.ExplainabilityDetails{
			CampusName:           best.Campus.Name,
			CareLevel:            careLevel,
			BedType:              best.Availability.BedType,
			BedsAvailable:        best.Availability.Available,
			TransportMode:        best.Transport.Mode,
			TravelTimeMinutes:    best.Transport.TravelMinutes,
			TotalTimeMinutes:     best.Transport.TotalMinutes,
			DistanceKM:           best.Transport.DistanceKM,
			TransportSource:      best.Transport.Source,
			Score:                best.Score,
			Policy:               e.policy.Name(),
			IdentifiedConditions: req.Patient.Conditions,
			GeneratedAt:          domain.Now(),
		},
	}
}

func (e *Evaluation) note(format string, args ...any) {
	e.Notes = append(e.Notes, fmt.Sprintf(format, args...))
}
