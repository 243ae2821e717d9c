package domain

import "strings"

// BedAvailability is the capacity-match result for one campus.
type BedAvailability struct {
	BedType   string
	Available int
}

// ResolveCareLevel determines the required care category. An explicit
// human-entered care level always wins; otherwise the category is inferred
// from upstream condition signals with precedence ICU/PICU > NICU > General,
// because higher-acuity needs dominate. A pediatric-ICU signal resolves to
// the ICU category even when the patient is also flagged neonatal; NICU is
// only chosen when no ICU indicator is present.
func ResolveCareLevel(patient PatientData) CareLevel {
	if patient.CareLevel != "" {
		return patient.CareLevel
	}

	hasICU := false
	hasNICU := false
	for _, cond := range patient.Conditions {
		c := strings.ToUpper(cond)
		if strings.Contains(c, "PICU") || (strings.Contains(c, "ICU") && !strings.Contains(c, "NICU")) {
			hasICU = true
		}
		if strings.Contains(c, "NICU") || strings.Contains(c, "NEONAT") {
			hasNICU = true
		}
	}

	switch {
	case hasICU:
		return CareICU
	case hasNICU:
		return CareNICU
	default:
		return CareGeneral
	}
}

// MatchCapacity reports whether a campus has at least one available bed in
// the category required by the care level.
func MatchCapacity(campus HospitalCampus, level CareLevel) (BedAvailability, bool) {
	category := level.BedCategory()
	avail := campus.BedCensus.Available(category)

	bedType := "General"
	switch category {
	case CareICU:
		bedType = "ICU/PICU"
	case CareNICU:
		bedType = "NICU"
	}

	return BedAvailability{BedType: bedType, Available: avail}, avail > 0
}
