package census

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/transfer-center/internal/domain"
)

// LoadCampuses reads the static campus roster from a JSON file and validates
// each entry.
func LoadCampuses(path string) ([]domain.HospitalCampus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campuses file: %w", err)
	}

	var campuses []domain.HospitalCampus
	if err := json.Unmarshal(data, &campuses); err != nil {
		return nil, fmt.Errorf("parse campuses json: %w", err)
	}
	if len(campuses) == 0 {
		return nil, fmt.Errorf("campuses file %s is empty", path)
	}

	for _, c := range campuses {
		if c.CampusID == "" {
			return nil, fmt.Errorf("campus %q missing campus_id", c.Name)
		}
		if err := c.Location.Validate(); err != nil {
			return nil, fmt.Errorf("campus %s: %w", c.CampusID, err)
		}
		if err := c.BedCensus.Validate(); err != nil {
			return nil, fmt.Errorf("campus %s: %w", c.CampusID, err)
		}
	}
	return campuses, nil
}

// Roster pairs the static campus list with the live census registry. Each
// read returns fresh copies with the latest counts overlaid, so concurrent
// evaluations never observe a half-applied update.
type Roster struct {
	static   []domain.HospitalCampus
	registry *Registry
}

func NewRoster(campuses []domain.HospitalCampus, registry *Registry) *Roster {
	return &Roster{static: campuses, registry: registry}
}

// Campuses returns the roster with live census counts applied.
func (r *Roster) Campuses() []domain.HospitalCampus {
	return r.registry.Overlay(r.static)
}
