// Command evaluate runs one transfer request through the recommendation
// engine offline and prints the full decision trail. It exits 1 when no
// campus qualifies, making it usable as a scriptable check.
//
// Usage:
//
//	go run ./cmd/evaluate \
//	  -campuses data/campuses.json \
//	  -rules data/exclusion_rules.yaml \
//	  -request data/sample_request.json \
//	  -at 2026-03-14T07:30:00Z
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/transfer-center/internal/census"
	"github.com/couchcryptid/transfer-center/internal/domain"
	"github.com/couchcryptid/transfer-center/internal/engine"
	"github.com/couchcryptid/transfer-center/internal/observability"
	"github.com/couchcryptid/transfer-center/internal/rules"
)

// requestFile is the -request JSON payload.
type requestFile struct {
	Request        domain.TransferRequest `json:"transfer_request"`
	Weather        domain.WeatherData     `json:"weather"`
	AvailableModes []domain.TransportMode `json:"available_modes,omitempty"`
}

func main() {
	campusesPath := flag.String("campuses", "", "path to campus roster JSON")
	rulesPath := flag.String("rules", "", "path to exclusion rules YAML")
	requestPath := flag.String("request", "", "path to transfer request JSON")
	policyName := flag.String("policy", "closest", "selection policy: closest or weighted")
	at := flag.String("at", "", "freeze the clock at this RFC3339 time (traffic factors, timestamps)")
	flag.Parse()

	if *campusesPath == "" || *rulesPath == "" || *requestPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if code := run(*campusesPath, *rulesPath, *requestPath, *policyName, *at); code != 0 {
		os.Exit(code)
	}
}

func run(campusesPath, rulesPath, requestPath, policyName, at string) int {
	if at != "" {
		frozen, err := time.Parse(time.RFC3339, at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -at time: %v\n", err)
			return 2
		}
		domain.SetClock(clockwork.NewFakeClockAt(frozen))
		defer domain.SetClock(nil)
	}

	campuses, err := census.LoadCampuses(campusesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load campuses: %v\n", err)
		return 2
	}

	ruleRepo, err := rules.LoadFile(rulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load rules: %v\n", err)
		return 2
	}

	data, err := os.ReadFile(requestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read request: %v\n", err)
		return 2
	}
	var req requestFile
	if err := json.Unmarshal(data, &req); err != nil {
		fmt.Fprintf(os.Stderr, "parse request: %v\n", err)
		return 2
	}

	// Offline run: no road-routing service, deterministic fallback only.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	transport := domain.NewTransportEvaluator(nil, logger)
	transport.Traffic = domain.NewTrafficModel()

	eng := engine.New(ruleRepo, transport, engine.PolicyFor(policyName), logger, observability.NewMetricsForTesting())

	eval, err := eng.Evaluate(context.Background(), req.Request, campuses, req.Weather, req.AvailableModes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evaluate: %v\n", err)
		return 2
	}

	fmt.Printf("request %s (%d campuses considered)\n", eval.RequestID, len(eval.Candidates))
	fmt.Println("decision trail:")
	for i, note := range eval.Notes {
		fmt.Printf("  %2d. %s\n", i+1, note)
	}

	if eval.Recommendation == nil {
		fmt.Println("\nresult: no eligible campus")
		return 1
	}

	rec := eval.Recommendation
	fmt.Printf("\nresult: %s (%s)\n", rec.Details.CampusName, rec.RecommendedCampusID)
	fmt.Printf("  reason:     %s\n", rec.Reason)
	fmt.Printf("  confidence: %.1f\n", rec.ConfidenceScore)
	fmt.Printf("  transport:  %s, %.0f min travel (%.0f min total, %.1f km, %s estimate)\n",
		rec.Details.TransportMode, rec.Details.TravelTimeMinutes,
		rec.Details.TotalTimeMinutes, rec.Details.DistanceKM, rec.Details.TransportSource)
	return 0
}
