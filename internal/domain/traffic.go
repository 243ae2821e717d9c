package domain

import (
	"strings"
	"time"
)

// TrafficModel scales ground fallback estimates by hour-of-day congestion
// multipliers per metro area. Road-router responses already embed real
// traffic, so the model only applies to locally computed times.
type TrafficModel struct {
	patterns map[string][24]float64
}

// hourlyFactors index 0 is midnight local time.
var hourlyFactors = map[string][24]float64{
	"houston": {
		0.8, 0.7, 0.6, 0.6, 0.7, 0.9, 1.4, 1.8, 1.7, 1.4, 1.2, 1.3,
		1.4, 1.3, 1.2, 1.3, 1.5, 1.8, 1.7, 1.4, 1.2, 1.0, 0.9, 0.8,
	},
	"austin": {
		0.7, 0.6, 0.6, 0.6, 0.7, 1.0, 1.5, 1.9, 1.8, 1.3, 1.1, 1.2,
		1.3, 1.2, 1.1, 1.2, 1.4, 1.9, 1.8, 1.4, 1.2, 1.0, 0.9, 0.8,
	},
}

// NewTrafficModel returns the built-in hour-of-day model.
func NewTrafficModel() *TrafficModel {
	return &TrafficModel{patterns: hourlyFactors}
}

// Factor returns the congestion multiplier for a metro area at time t.
// Unknown metro areas get a neutral 1.0.
func (m *TrafficModel) Factor(metroArea string, t time.Time) float64 {
	key := strings.ToUpper(strings.TrimSpace(metroArea))
	key = strings.TrimSuffix(key, "_METRO")
	pattern, ok := m.patterns[strings.ToLower(key)]
	if !ok {
		return 1.0
	}
	return pattern[t.Hour()]
}
