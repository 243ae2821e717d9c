package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
campuses:
  west_campus:
    name: West Campus
    exclusions:
      - id: WC-AGE-01
        description: No patients under 2 years
        min_age_years: 2.0
      - id: WC-COND-01
        description: No ECMO candidates
        excluded_conditions:
          - ecmo
  north_campus:
    name: North Campus
    exclusions:
      - id: NC-WT-01
        description: No patients over 100kg
        max_weight_kg: 100.0
`

func TestParse(t *testing.T) {
	repo, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, repo.CampusCount())

	excl, ok := repo.RulesFor("west_campus", "")
	require.True(t, ok)
	require.Len(t, excl, 2)
	assert.Equal(t, "WC-AGE-01", excl[0].CriteriaID)
	require.NotNil(t, excl[0].MinAgeYears)
	assert.Equal(t, 2.0, *excl[0].MinAgeYears)
	assert.Equal(t, []string{"ecmo"}, excl[1].ExcludedConditions)
}

func TestParse_MissingID(t *testing.T) {
	_, err := Parse([]byte(`
campuses:
  west_campus:
    exclusions:
      - description: anonymous rule
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("campuses: [not a map"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	repo, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.CampusCount())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestRulesFor(t *testing.T) {
	repo, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	tests := []struct {
		name     string
		id       string
		campus   string
		wantOK   bool
		wantRule string
	}{
		{"exact key", "west_campus", "", true, "WC-AGE-01"},
		{"case insensitive", "WEST_CAMPUS", "", true, "WC-AGE-01"},
		{"punctuation ignored", "West-Campus", "", true, "WC-AGE-01"},
		{"resolved by name", "", "North Campus", true, "NC-WT-01"},
		{"fuzzy containment", "", "TCH West Campus", true, "WC-AGE-01"},
		{"miss", "south_campus", "South Campus", false, ""},
		{"empty probes", "", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			excl, ok := repo.RulesFor(tt.id, tt.campus)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotEmpty(t, excl)
				assert.Equal(t, tt.wantRule, excl[0].CriteriaID)
			}
		})
	}
}
