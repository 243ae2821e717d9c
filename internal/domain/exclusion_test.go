package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestCheckExclusions_AgeBelowMinimum(t *testing.T) {
	patient := PatientData{PatientID: "p1", AgeYears: ptr(2)}
	rules := []CampusExclusion{{CriteriaID: "age-min", Name: "No patients under 5", MinAgeYears: ptr(5)}}

	triggered := CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{})

	require.Len(t, triggered, 1)
	assert.Equal(t, "age-min", triggered[0].Exclusion.CriteriaID)
	assert.Contains(t, triggered[0].Reason, "below minimum")
}

func TestCheckExclusions_AgeAboveMaximum(t *testing.T) {
	patient := PatientData{PatientID: "p1", AgeYears: ptr(19)}
	rules := []CampusExclusion{{CriteriaID: "age-max", MaxAgeYears: ptr(18)}}

	triggered := CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{})
	require.Len(t, triggered, 1)
	assert.Contains(t, triggered[0].Reason, "above maximum")
}

func TestCheckExclusions_UnknownAgeSkipsRule(t *testing.T) {
	// "Cannot evaluate" is not "excluded".
	patient := PatientData{PatientID: "p1"}
	rules := []CampusExclusion{{CriteriaID: "age-min", MinAgeYears: ptr(5), MaxAgeYears: ptr(18)}}

	assert.Empty(t, CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{}))
}

func TestCheckExclusions_WeightRules(t *testing.T) {
	rules := []CampusExclusion{{CriteriaID: "wt", MinWeightKg: ptr(3), MaxWeightKg: ptr(120)}}

	t.Run("below minimum", func(t *testing.T) {
		patient := PatientData{PatientID: "p1", WeightKg: ptr(2.5)}
		triggered := CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{})
		require.Len(t, triggered, 1)
		assert.Contains(t, triggered[0].Reason, "below minimum")
	})

	t.Run("within range", func(t *testing.T) {
		patient := PatientData{PatientID: "p1", WeightKg: ptr(40)}
		assert.Empty(t, CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{}))
	})

	t.Run("unknown weight skipped", func(t *testing.T) {
		patient := PatientData{PatientID: "p1"}
		assert.Empty(t, CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{}))
	})
}

func TestCheckExclusions_CareLevel(t *testing.T) {
	rules := []CampusExclusion{{CriteriaID: "no-nicu", ExcludedCareLevels: []CareLevel{CareNICU}}}

	t.Run("resolved level matches", func(t *testing.T) {
		patient := PatientData{PatientID: "p1"}
		triggered := CheckExclusions(patient, CareNICU, rules, SubstringMatcher{})
		require.Len(t, triggered, 1)
		assert.Contains(t, triggered[0].Reason, "care level NICU")
	})

	t.Run("resolved level does not match", func(t *testing.T) {
		patient := PatientData{PatientID: "p1"}
		assert.Empty(t, CheckExclusions(patient, CareICU, rules, SubstringMatcher{}))
	})

	t.Run("empty level defaults to General", func(t *testing.T) {
		generalRules := []CampusExclusion{{CriteriaID: "no-general", ExcludedCareLevels: []CareLevel{CareGeneral}}}
		patient := PatientData{PatientID: "p1"}
		triggered := CheckExclusions(patient, "", generalRules, SubstringMatcher{})
		require.Len(t, triggered, 1)
		assert.Contains(t, triggered[0].Reason, "care level General")
	})
}

func TestCheckExclusions_ComplaintAndHistoryKeywords(t *testing.T) {
	rules := []CampusExclusion{{
		CriteriaID:        "no-burns",
		ComplaintKeywords: []string{"burn"},
		HistoryKeywords:   []string{"thermal injury"},
	}}

	t.Run("complaint keyword", func(t *testing.T) {
		patient := PatientData{PatientID: "p1", ChiefComplaint: "Severe BURN to left arm"}
		triggered := CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{})
		require.Len(t, triggered, 1)
		assert.Contains(t, triggered[0].Reason, "chief complaint")
	})

	t.Run("history keyword", func(t *testing.T) {
		patient := PatientData{PatientID: "p1", ClinicalHistory: "prior thermal injury in 2024"}
		triggered := CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{})
		require.Len(t, triggered, 1)
		assert.Contains(t, triggered[0].Reason, "clinical history")
	})
}

func TestCheckExclusions_AllRulesCheckedIndependently(t *testing.T) {
	// Not first-match-wins across categories: both rules should fire.
	patient := PatientData{PatientID: "p1", AgeYears: ptr(1), ChiefComplaint: "traumatic amputation"}
	rules := []CampusExclusion{
		{CriteriaID: "age-min", MinAgeYears: ptr(3)},
		{CriteriaID: "no-trauma", ComplaintKeywords: []string{"traumatic"}},
	}

	triggered := CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{})
	assert.Len(t, triggered, 2)
}

func TestCheckExclusions_NoMatchYieldsEmpty(t *testing.T) {
	patient := PatientData{
		PatientID:      "p1",
		AgeYears:       ptr(10),
		WeightKg:       ptr(35),
		ChiefComplaint: "fever and cough",
	}
	rules := []CampusExclusion{
		{CriteriaID: "age-min", MinAgeYears: ptr(1)},
		{CriteriaID: "no-burns", ComplaintKeywords: []string{"burn"}},
	}

	assert.Empty(t, CheckExclusions(patient, CareGeneral, rules, SubstringMatcher{}))
}

func TestSubstringMatcher_PhraseSplittingAndLength(t *testing.T) {
	patient := PatientData{
		PatientID:      "p1",
		ChiefComplaint: "suspected cardiac arrest en route",
	}

	t.Run("fragment after split matches", func(t *testing.T) {
		phrase, ok := SubstringMatcher{}.Match(patient, []string{"stroke; cardiac arrest. sepsis"})
		require.True(t, ok)
		assert.Equal(t, "cardiac arrest", phrase)
	})

	t.Run("short fragments ignored", func(t *testing.T) {
		// "route" is exactly 5 chars and must not match.
		_, ok := SubstringMatcher{}.Match(patient, []string{"route"})
		assert.False(t, ok)
	})

	t.Run("matches identified conditions", func(t *testing.T) {
		p := PatientData{PatientID: "p2", Conditions: []string{"status epilepticus"}}
		_, ok := SubstringMatcher{}.Match(p, []string{"status epilepticus"})
		assert.True(t, ok)
	})

	t.Run("empty patient text", func(t *testing.T) {
		_, ok := SubstringMatcher{}.Match(PatientData{PatientID: "p3"}, []string{"anything at all"})
		assert.False(t, ok)
	})
}
