package domain

import (
	"fmt"
	"strings"
)

// minPhraseLen guards substring matching against short fragments that would
// match almost any clinical text.
const minPhraseLen = 5

// ConditionMatcher decides whether any of a rule's condition phrases applies
// to a patient. It is an explicit capability so the substring heuristic can
// later be swapped for a classifier without touching the decision flow.
type ConditionMatcher interface {
	// Match returns the matching phrase and true when the patient text
	// triggers any of the given phrases.
	Match(patient PatientData, phrases []string) (string, bool)
}

// SubstringMatcher matches condition phrases as lowercase substrings of the
// concatenated chief complaint, clinical history, and identified conditions.
// Each phrase entry is split on commas, semicolons, and periods; fragments of
// five characters or fewer are ignored. Scanning stops at the first hit.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(patient PatientData, phrases []string) (string, bool) {
	corpus := patientCorpus(patient)
	if corpus == "" {
		return "", false
	}
	for _, phrase := range phrases {
		for _, fragment := range splitPhrases(phrase) {
			if strings.Contains(corpus, fragment) {
				return fragment, true
			}
		}
	}
	return "", false
}

func patientCorpus(patient PatientData) string {
	parts := []string{patient.ChiefComplaint, patient.ClinicalHistory}
	parts = append(parts, patient.Conditions...)
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

// splitPhrases breaks a raw excluded-condition entry into matchable fragments.
func splitPhrases(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '.'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if len(f) > minPhraseLen {
			out = append(out, f)
		}
	}
	return out
}

// TriggeredExclusion pairs a matched rule with the human-readable reason it
// fired, so the decision trail can be reconstructed without re-running the
// checks.
type TriggeredExclusion struct {
	Exclusion CampusExclusion
	Reason    string
}

// CheckExclusions evaluates a patient against a campus rule set. careLevel
// is the level the caller resolved for this patient (explicit or inferred);
// when empty it defaults to General, so the care-level clause always
// evaluates. All rules are checked independently; the result lists every rule
// that fired. Rules whose inputs are unknown (missing age or weight) are
// skipped: "cannot evaluate" is not "excluded".
func CheckExclusions(patient PatientData, careLevel CareLevel, exclusions []CampusExclusion, matcher ConditionMatcher) []TriggeredExclusion {
	var triggered []TriggeredExclusion

	if careLevel == "" {
		careLevel = CareGeneral
	}
	complaint := strings.ToLower(patient.ChiefComplaint)
	history := strings.ToLower(patient.ClinicalHistory)

	for _, excl := range exclusions {
		if reason, ok := evaluateExclusion(patient, careLevel, excl, complaint, history, matcher); ok {
			triggered = append(triggered, TriggeredExclusion{Exclusion: excl, Reason: reason})
		}
	}
	return triggered
}

// evaluateExclusion checks one rule against the patient. The first matching
// clause wins; a rule fires at most once.
func evaluateExclusion(patient PatientData, careLevel CareLevel, excl CampusExclusion, complaint, history string, matcher ConditionMatcher) (string, bool) {
	if patient.AgeYears != nil {
		age := *patient.AgeYears
		if excl.MinAgeYears != nil && age < *excl.MinAgeYears {
			return fmt.Sprintf("patient age %.1fy below minimum %.1fy", age, *excl.MinAgeYears), true
		}
		if excl.MaxAgeYears != nil && age > *excl.MaxAgeYears {
			return fmt.Sprintf("patient age %.1fy above maximum %.1fy", age, *excl.MaxAgeYears), true
		}
	}

	if patient.WeightKg != nil {
		weight := *patient.WeightKg
		if excl.MinWeightKg != nil && weight < *excl.MinWeightKg {
			return fmt.Sprintf("patient weight %.1fkg below minimum %.1fkg", weight, *excl.MinWeightKg), true
		}
		if excl.MaxWeightKg != nil && weight > *excl.MaxWeightKg {
			return fmt.Sprintf("patient weight %.1fkg above maximum %.1fkg", weight, *excl.MaxWeightKg), true
		}
	}

	for _, level := range excl.ExcludedCareLevels {
		if level == careLevel {
			return fmt.Sprintf("care level %s not accepted", careLevel), true
		}
	}

	for _, kw := range excl.ComplaintKeywords {
		if kw != "" && strings.Contains(complaint, strings.ToLower(kw)) {
			return fmt.Sprintf("chief complaint matches keyword %q", kw), true
		}
	}
	for _, kw := range excl.HistoryKeywords {
		if kw != "" && strings.Contains(history, strings.ToLower(kw)) {
			return fmt.Sprintf("clinical history matches keyword %q", kw), true
		}
	}

	if len(excl.ExcludedConditions) > 0 && matcher != nil {
		if phrase, ok := matcher.Match(patient, excl.ExcludedConditions); ok {
			return fmt.Sprintf("condition matches excluded phrase %q", phrase), true
		}
	}

	return "", false
}
