// Package census keeps the latest bed census per campus. Updates arrive from
// the Kafka census feed (or tests); evaluations overlay the live counts onto
// the static campus roster at read time.
package census

import (
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/transfer-center/internal/domain"
)

// Update is one census message for a single campus.
type Update struct {
	CampusID   string           `json:"campus_id"`
	Census     domain.BedCensus `json:"bed_census"`
	ReportedAt time.Time        `json:"reported_at,omitzero"`
}

// Registry is a concurrency-safe store of the most recent census per campus.
// The zero value is not usable; construct with NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	latest map[string]domain.BedCensus
}

func NewRegistry() *Registry {
	return &Registry{latest: make(map[string]domain.BedCensus)}
}

// Apply validates and stores an update, replacing any prior census for the
// campus. Invalid updates are rejected without touching the stored state.
func (r *Registry) Apply(u Update) error {
	if u.CampusID == "" {
		return fmt.Errorf("census update missing campus_id")
	}
	if err := u.Census.Validate(); err != nil {
		return fmt.Errorf("census update for %s: %w", u.CampusID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest[u.CampusID] = u.Census
	return nil
}

// Snapshot returns the stored census for a campus, if any.
func (r *Registry) Snapshot(campusID string) (domain.BedCensus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.latest[campusID]
	return c, ok
}

// Len reports how many campuses have a live census.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.latest)
}

// Overlay returns copies of the given campuses with live census counts
// substituted where the registry has them. Campuses without a live census
// keep their static counts; the input slice is never mutated.
func (r *Registry) Overlay(campuses []domain.HospitalCampus) []domain.HospitalCampus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.HospitalCampus, len(campuses))
	for i, c := range campuses {
		if live, ok := r.latest[c.CampusID]; ok {
			c.BedCensus = live
		}
		out[i] = c
	}
	return out
}
