package domain

import (
	"errors"
	"fmt"
	"time"
)

// CareLevel is the required category of care for a patient.
type CareLevel string

const (
	CareGeneral CareLevel = "General"
	CareICU     CareLevel = "ICU"
	CarePICU    CareLevel = "PICU"
	CareNICU    CareLevel = "NICU"
)

// BedCategory returns the bed-census category a care level draws from.
// PICU patients occupy ICU beds.
func (c CareLevel) BedCategory() CareLevel {
	if c == CarePICU {
		return CareICU
	}
	return c
}

// TransportMode identifies a way of moving a patient between facilities.
type TransportMode string

const (
	ModeGroundAmbulance TransportMode = "GROUND_AMBULANCE"
	ModeAirAmbulance    TransportMode = "AIR_AMBULANCE"
	ModeHelicopter      TransportMode = "HELICOPTER"
	ModeFixedWing       TransportMode = "FIXED_WING"
)

// IsAir reports whether the mode flies.
func (m TransportMode) IsAir() bool {
	switch m {
	case ModeAirAmbulance, ModeHelicopter, ModeFixedWing:
		return true
	default:
		return false
	}
}

// Location is a WGS-84 latitude/longitude coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks coordinate ranges.
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %g out of range [-90, 90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %g out of range [-180, 180]", l.Longitude)
	}
	return nil
}

// PatientData holds the clinical snapshot for one transfer candidate patient.
// Age and weight are optional; a nil pointer means unknown, which is distinct
// from zero for exclusion-rule purposes.
type PatientData struct {
	PatientID       string            `json:"patient_id"`
	ChiefComplaint  string            `json:"chief_complaint,omitempty"`
	ClinicalHistory string            `json:"clinical_history,omitempty"`
	VitalSigns      map[string]string `json:"vital_signs,omitempty"`
	Labs            map[string]string `json:"labs,omitempty"`
	CurrentLocation *Location         `json:"current_location,omitempty"`
	AgeYears        *float64          `json:"age_years,omitempty"`
	WeightKg        *float64          `json:"weight_kg,omitempty"`

	// CareLevel is a human-entered care requirement. When empty the engine
	// infers the category from Conditions.
	CareLevel CareLevel `json:"care_level,omitempty"`

	// Conditions are upstream-identified candidate conditions (parser or
	// clinician supplied). The engine consumes them as opaque strings.
	Conditions []string `json:"conditions,omitempty"`
}

// CampusExclusion is one campus-specific rule that disqualifies a patient.
type CampusExclusion struct {
	CriteriaID         string      `json:"criteria_id" yaml:"id"`
	Name               string      `json:"name" yaml:"name"`
	Description        string      `json:"description,omitempty" yaml:"description,omitempty"`
	ComplaintKeywords  []string    `json:"complaint_keywords,omitempty" yaml:"complaint_keywords,omitempty"`
	HistoryKeywords    []string    `json:"history_keywords,omitempty" yaml:"history_keywords,omitempty"`
	MinAgeYears        *float64    `json:"min_age_years,omitempty" yaml:"min_age_years,omitempty"`
	MaxAgeYears        *float64    `json:"max_age_years,omitempty" yaml:"max_age_years,omitempty"`
	MinWeightKg        *float64    `json:"min_weight_kg,omitempty" yaml:"min_weight_kg,omitempty"`
	MaxWeightKg        *float64    `json:"max_weight_kg,omitempty" yaml:"max_weight_kg,omitempty"`
	ExcludedCareLevels []CareLevel `json:"excluded_care_levels,omitempty" yaml:"excluded_care_levels,omitempty"`
	ExcludedConditions []string    `json:"excluded_conditions,omitempty" yaml:"excluded_conditions,omitempty"`
}

// BedCensus is a point-in-time snapshot of bed availability per category.
// ICU counts include PICU beds.
type BedCensus struct {
	TotalBeds         int `json:"total_beds"`
	AvailableBeds     int `json:"available_beds"`
	ICUBedsTotal      int `json:"icu_beds_total"`
	ICUBedsAvailable  int `json:"icu_beds_available"`
	NICUBedsTotal     int `json:"nicu_beds_total"`
	NICUBedsAvailable int `json:"nicu_beds_available"`
}

// Validate enforces non-negative counts and available <= total per category.
func (b BedCensus) Validate() error {
	categories := []struct {
		name             string
		total, available int
	}{
		{"general", b.TotalBeds, b.AvailableBeds},
		{"icu", b.ICUBedsTotal, b.ICUBedsAvailable},
		{"nicu", b.NICUBedsTotal, b.NICUBedsAvailable},
	}
	for _, c := range categories {
		if c.total < 0 || c.available < 0 {
			return fmt.Errorf("%s bed counts must be non-negative", c.name)
		}
		if c.available > c.total {
			return fmt.Errorf("%s available beds (%d) exceed total (%d)", c.name, c.available, c.total)
		}
	}
	return nil
}

// Available returns the open bed count for a bed category.
func (b BedCensus) Available(category CareLevel) int {
	switch category.BedCategory() {
	case CareICU:
		return b.ICUBedsAvailable
	case CareNICU:
		return b.NICUBedsAvailable
	default:
		return b.AvailableBeds
	}
}

// Helipad is a landing site at a hospital campus.
type Helipad struct {
	HelipadID string   `json:"helipad_id"`
	Name      string   `json:"name,omitempty"`
	Location  Location `json:"location"`
}

// HospitalCampus is one candidate receiving facility.
type HospitalCampus struct {
	CampusID   string            `json:"campus_id"`
	Name       string            `json:"name"`
	MetroArea  string            `json:"metro_area,omitempty"`
	Address    string            `json:"address,omitempty"`
	Location   Location          `json:"location"`
	Exclusions []CampusExclusion `json:"exclusions,omitempty"`
	BedCensus  BedCensus         `json:"bed_census"`
	Helipads   []Helipad         `json:"helipads,omitempty"`
}

// AirDestination returns the location an air transport would target: the
// nearest helipad when the campus has one, else the campus itself.
func (c HospitalCampus) AirDestination(origin Location) Location {
	if len(c.Helipads) == 0 {
		return c.Location
	}
	best := c.Helipads[0].Location
	bestDist := Distance(origin, best)
	for _, h := range c.Helipads[1:] {
		if d := Distance(origin, h.Location); d < bestDist {
			best, bestDist = h.Location, d
		}
	}
	return best
}

// WeatherData is the current weather relevant to transport decisions.
type WeatherData struct {
	TemperatureC      float64  `json:"temperature_c"`
	WindSpeedKPH      float64  `json:"wind_speed_kph"`
	PrecipitationMMHr float64  `json:"precipitation_mm_hr"`
	VisibilityKM      float64  `json:"visibility_km"`
	AdverseConditions []string `json:"adverse_conditions,omitempty"`
}

// TransferRequest is one patient transfer to place. It is treated as
// immutable for the duration of an evaluation.
type TransferRequest struct {
	RequestID           string         `json:"request_id"`
	Patient             PatientData    `json:"patient_data"`
	SendingFacilityName string         `json:"sending_facility_name,omitempty"`
	SendingLocation     Location       `json:"sending_location"`
	RequestedAt         time.Time      `json:"requested_at,omitzero"`
	PreferredMode       *TransportMode `json:"preferred_transport_mode,omitempty"`
}

// Validate fails fast on malformed requests so the engine never produces a
// partial result from bad input.
func (r TransferRequest) Validate() error {
	if r.RequestID == "" {
		return errors.New("request_id is required")
	}
	if r.Patient.PatientID == "" {
		return errors.New("patient_id is required")
	}
	if err := r.SendingLocation.Validate(); err != nil {
		return fmt.Errorf("sending_location: %w", err)
	}
	if r.Patient.CurrentLocation != nil {
		if err := r.Patient.CurrentLocation.Validate(); err != nil {
			return fmt.Errorf("patient current_location: %w", err)
		}
	}
	return nil
}

// ExplainabilityDetails packages the facts behind a recommendation in
// structured form so callers can render or audit them without re-running the
// decision.
type ExplainabilityDetails struct {
	CampusName           string        `json:"campus_name"`
	CareLevel            CareLevel     `json:"care_level"`
	BedType              string        `json:"bed_type"`
	BedsAvailable        int           `json:"beds_available"`
	TransportMode        TransportMode `json:"chosen_transport_mode"`
	TravelTimeMinutes    float64       `json:"travel_time_minutes"`
	TotalTimeMinutes     float64       `json:"total_time_minutes"`
	DistanceKM           float64       `json:"distance_km"`
	TransportSource      string        `json:"transport_source,omitempty"`
	Score                float64       `json:"score"`
	Policy               string        `json:"policy"`
	IdentifiedConditions []string      `json:"identified_conditions,omitempty"`
	GeneratedAt          time.Time     `json:"generated_at"`
}

// Recommendation is the engine's final decision for one transfer request.
type Recommendation struct {
	TransferRequestID   string                `json:"transfer_request_id"`
	RecommendedCampusID string                `json:"recommended_campus_id"`
	Reason              string                `json:"reason"`
	ConfidenceScore     float64               `json:"confidence_score"`
	Details             ExplainabilityDetails `json:"explainability_details"`
	Notes               []string              `json:"notes"`
}
