package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
)

// Default transport parameters. Callers can override them on the evaluator.
const (
	DefaultGroundSpeedKMH   = 60.0
	DefaultAirSpeedKMH      = 240.0
	DefaultManeuverMinutes  = 20.0
	DefaultGroundPrepMin    = 15.0
	HelicopterExtraPrepMin  = 15.0
	FixedWingExtraPrepMin   = 30.0
	MinVisibilityKM         = 1.5
	MaxAirWindSpeedKPH      = 70.0
)

// airBlocklist names the adverse-condition tags that ground all air transport.
// Matching is case-insensitive and tolerant of spaces versus underscores.
var airBlocklist = map[string]struct{}{
	"FOG":               {},
	"THUNDERSTORM":      {},
	"HIGH_WINDS":        {},
	"BLIZZARD":          {},
	"FREEZING_RAIN":     {},
	"HURRICANE":         {},
	"SEVERE_TURBULENCE": {},
}

// RoadRoute is a road-routing result: driving distance and duration.
type RoadRoute struct {
	DistanceKM      float64
	DurationMinutes float64
}

// RoadRouter looks up driving routes from an external service. Implementations
// must honor the context deadline; the evaluator falls back to a local
// estimate on any error.
type RoadRouter interface {
	Route(ctx context.Context, origin, destination Location) (RoadRoute, error)
}

// TransportOption is one evaluated way of reaching a campus.
type TransportOption struct {
	Mode          TransportMode
	DistanceKM    float64
	TravelMinutes float64
	// TotalMinutes adds mode-specific preparation overhead. Ranking uses
	// TravelMinutes; TotalMinutes is reported for coordinators.
	TotalMinutes float64
	// Source records how the estimate was produced ("osrm", "haversine",
	// "air"), so the decision trail shows when the fallback engaged.
	Source string
}

// airViability is the outcome of the weather gate for air transport.
type airViability struct {
	viable bool
	reason string
}

// checkAirViability applies the weather gate. Any blocklisted adverse
// condition, visibility below the VFR minimum, or wind above the ceiling
// makes air non-viable regardless of distance.
func checkAirViability(w WeatherData) airViability {
	for _, cond := range w.AdverseConditions {
		if _, blocked := airBlocklist[normalizeCondition(cond)]; blocked {
			return airViability{viable: false, reason: fmt.Sprintf("adverse weather: %s", cond)}
		}
	}
	if w.VisibilityKM < MinVisibilityKM {
		return airViability{viable: false, reason: fmt.Sprintf("visibility %.1f km below %.1f km VFR minimum", w.VisibilityKM, MinVisibilityKM)}
	}
	if w.WindSpeedKPH > MaxAirWindSpeedKPH {
		return airViability{viable: false, reason: fmt.Sprintf("wind %.0f kph above %.0f kph ceiling", w.WindSpeedKPH, MaxAirWindSpeedKPH)}
	}
	return airViability{viable: true, reason: "weather suitable for air transport"}
}

func normalizeCondition(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_")
}

// TransportEvaluator estimates travel options between a sending facility and
// candidate campuses. A nil Router disables the external lookup and every
// ground estimate uses the local fallback.
type TransportEvaluator struct {
	Router         RoadRouter
	GroundSpeedKMH float64
	AirSpeedKMH    float64
	ManeuverMin    float64
	Traffic        *TrafficModel
	Logger         *slog.Logger

	// jitter, when non-nil, applies a seeded ±10% variation to travel times.
	// Retained for parity with a legacy estimator; never enabled by default.
	jitter *rand.Rand
}

// NewTransportEvaluator creates an evaluator with default speeds. router may
// be nil.
func NewTransportEvaluator(router RoadRouter, logger *slog.Logger) *TransportEvaluator {
	return &TransportEvaluator{
		Router:         router,
		GroundSpeedKMH: DefaultGroundSpeedKMH,
		AirSpeedKMH:    DefaultAirSpeedKMH,
		ManeuverMin:    DefaultManeuverMinutes,
		Logger:         logger,
	}
}

// EnableJitter turns on the legacy ±10% travel-time variation with an
// explicit seed. Only for experiments; production and tests that need
// reproducibility must either leave it off or fix the seed.
func (e *TransportEvaluator) EnableJitter(seed int64) {
	e.jitter = rand.New(rand.NewSource(seed))
}

// GroundTravel estimates road travel from origin to destination. It prefers
// the external router and falls back to Haversine distance at the configured
// average speed on timeout, error, or empty route. The fallback applies the
// hour-of-day traffic factor when a traffic model is configured.
func (e *TransportEvaluator) GroundTravel(ctx context.Context, origin, destination Location, metroArea string) TransportOption {
	if e.Router != nil {
		route, err := e.Router.Route(ctx, origin, destination)
		if err == nil {
			minutes := e.applyJitter(route.DurationMinutes)
			return TransportOption{
				Mode:          ModeGroundAmbulance,
				DistanceKM:    route.DistanceKM,
				TravelMinutes: minutes,
				TotalMinutes:  minutes + DefaultGroundPrepMin,
				Source:        "osrm",
			}
		}
		e.Logger.Warn("road routing failed, using haversine fallback",
			"error", err,
			"origin_lat", origin.Latitude,
			"origin_lon", origin.Longitude,
		)
	}

	dist := Distance(origin, destination)
	minutes := TravelMinutes(dist, e.GroundSpeedKMH)
	if e.Traffic != nil {
		minutes *= e.Traffic.Factor(metroArea, Now())
	}
	minutes = e.applyJitter(minutes)
	return TransportOption{
		Mode:          ModeGroundAmbulance,
		DistanceKM:    dist,
		TravelMinutes: minutes,
		TotalMinutes:  minutes + DefaultGroundPrepMin,
		Source:        "haversine",
	}
}

// AirTravel estimates air travel to a campus helipad (or the campus itself
// when it has none), gated by the weather. The second return value is false
// when weather blocks air transport; reason carries the explanation.
func (e *TransportEvaluator) AirTravel(origin Location, campus HospitalCampus, mode TransportMode, weather WeatherData) (TransportOption, string, bool) {
	v := checkAirViability(weather)
	if !v.viable {
		return TransportOption{}, v.reason, false
	}

	dest := campus.AirDestination(origin)
	dist := Distance(origin, dest)
	minutes := TravelMinutes(dist, e.AirSpeedKMH) + e.ManeuverMin
	minutes = e.applyJitter(minutes)

	prep := DefaultGroundPrepMin + HelicopterExtraPrepMin
	if mode == ModeFixedWing {
		prep = DefaultGroundPrepMin + FixedWingExtraPrepMin
	}

	return TransportOption{
		Mode:          mode,
		DistanceKM:    dist,
		TravelMinutes: minutes,
		TotalMinutes:  minutes + prep,
		Source:        "air",
	}, v.reason, true
}

// Evaluate picks the best transport option to a campus among the allowed
// modes: the minimum viable travel time, with exact ties favoring ground as
// the deterministic, lower-variance mode. Returns false when no mode is
// viable.
func (e *TransportEvaluator) Evaluate(ctx context.Context, origin Location, campus HospitalCampus, modes []TransportMode, weather WeatherData) (TransportOption, bool) {
	var best TransportOption
	found := false

	for _, mode := range modes {
		var opt TransportOption
		if mode.IsAir() {
			airOpt, reason, ok := e.AirTravel(origin, campus, mode, weather)
			if !ok {
				e.Logger.Debug("air transport not viable", "campus", campus.CampusID, "mode", mode, "reason", reason)
				continue
			}
			opt = airOpt
		} else {
			opt = e.GroundTravel(ctx, origin, campus.Location, campus.MetroArea)
		}

		if !found || better(opt, best) {
			best = opt
			found = true
		}
	}

	return best, found
}

// better reports whether a should replace b: strictly faster, or equally fast
// but ground where b is air.
func better(a, b TransportOption) bool {
	if a.TravelMinutes != b.TravelMinutes {
		return a.TravelMinutes < b.TravelMinutes
	}
	return !a.Mode.IsAir() && b.Mode.IsAir()
}

func (e *TransportEvaluator) applyJitter(minutes float64) float64 {
	if e.jitter == nil {
		return minutes
	}
	return minutes * (1.0 + (e.jitter.Float64()*0.2 - 0.1))
}
