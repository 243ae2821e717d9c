package census

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/transfer-center/internal/domain"
)

const campusJSON = `[
	{
		"campus_id": "west",
		"name": "West Campus",
		"location": {"latitude": 29.76, "longitude": -95.37},
		"bed_census": {"total_beds": 30, "available_beds": 10, "icu_beds_total": 6, "icu_beds_available": 2}
	}
]`

func writeCampusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "campuses.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCampuses(t *testing.T) {
	campuses, err := LoadCampuses(writeCampusFile(t, campusJSON))
	require.NoError(t, err)
	require.Len(t, campuses, 1)
	assert.Equal(t, "west", campuses[0].CampusID)
	assert.Equal(t, 10, campuses[0].BedCensus.AvailableBeds)
}

func TestLoadCampuses_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty list", `[]`},
		{"missing id", `[{"name":"X","location":{"latitude":0,"longitude":0},"bed_census":{}}]`},
		{"bad latitude", `[{"campus_id":"x","location":{"latitude":123,"longitude":0},"bed_census":{}}]`},
		{"census invariant", `[{"campus_id":"x","location":{"latitude":0,"longitude":0},"bed_census":{"total_beds":1,"available_beds":5}}]`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCampuses(writeCampusFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadCampuses_MissingFile(t *testing.T) {
	_, err := LoadCampuses(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestRoster_CampusesAppliesOverlay(t *testing.T) {
	registry := NewRegistry()
	static := []domain.HospitalCampus{
		{CampusID: "west", BedCensus: domain.BedCensus{TotalBeds: 30, AvailableBeds: 0}},
	}
	roster := NewRoster(static, registry)

	assert.Equal(t, 0, roster.Campuses()[0].BedCensus.AvailableBeds)

	require.NoError(t, registry.Apply(Update{CampusID: "west", Census: domain.BedCensus{TotalBeds: 30, AvailableBeds: 9}}))
	assert.Equal(t, 9, roster.Campuses()[0].BedCensus.AvailableBeds)
	assert.Equal(t, 0, static[0].BedCensus.AvailableBeds, "static roster untouched")
}
