// Command genfixtures writes sample campus, exclusion-rule, and transfer
// request fixtures usable by the evaluate tool and for local service runs.
//
// Usage:
//
//	go run ./cmd/genfixtures -out data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/transfer-center/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "data", "output directory for fixture files")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeJSONFile(filepath.Join(*outDir, "campuses.json"), sampleCampuses()); err != nil {
		return fmt.Errorf("writing campuses fixture: %w", err)
	}
	log.Printf("wrote %s", filepath.Join(*outDir, "campuses.json"))

	if err := writeYAMLFile(filepath.Join(*outDir, "exclusion_rules.yaml"), sampleRules()); err != nil {
		return fmt.Errorf("writing rules fixture: %w", err)
	}
	log.Printf("wrote %s", filepath.Join(*outDir, "exclusion_rules.yaml"))

	if err := writeJSONFile(filepath.Join(*outDir, "sample_request.json"), sampleRequest()); err != nil {
		return fmt.Errorf("writing request fixture: %w", err)
	}
	log.Printf("wrote %s", filepath.Join(*outDir, "sample_request.json"))

	return nil
}

func sampleCampuses() []domain.HospitalCampus {
	return []domain.HospitalCampus{
		{
			CampusID:  "main_campus",
			Name:      "Main Campus",
			MetroArea: "HOUSTON_METRO",
			Address:   "6621 Fannin St, Houston, TX 77030",
			Location:  domain.Location{Latitude: 29.7070, Longitude: -95.4017},
			BedCensus: domain.BedCensus{
				TotalBeds: 973, AvailableBeds: 112,
				ICUBedsTotal: 140, ICUBedsAvailable: 9,
				NICUBedsTotal: 80, NICUBedsAvailable: 6,
			},
			Helipads: []domain.Helipad{
				{HelipadID: "main-hp-1", Name: "Main Rooftop", Location: domain.Location{Latitude: 29.7072, Longitude: -95.4015}},
			},
		},
		{
			CampusID:  "west_campus",
			Name:      "West Campus",
			MetroArea: "HOUSTON_METRO",
			Address:   "18200 Katy Fwy, Houston, TX 77094",
			Location:  domain.Location{Latitude: 29.7850, Longitude: -95.7410},
			BedCensus: domain.BedCensus{
				TotalBeds: 200, AvailableBeds: 31,
				ICUBedsTotal: 24, ICUBedsAvailable: 4,
			},
			Helipads: []domain.Helipad{
				{HelipadID: "west-hp-1", Name: "West Pad", Location: domain.Location{Latitude: 29.7848, Longitude: -95.7408}},
			},
		},
		{
			CampusID:  "north_campus",
			Name:      "North Campus",
			MetroArea: "HOUSTON_METRO",
			Address:   "17600 I-45 S, The Woodlands, TX 77384",
			Location:  domain.Location{Latitude: 30.1880, Longitude: -95.4560},
			BedCensus: domain.BedCensus{
				TotalBeds: 150, AvailableBeds: 18,
				ICUBedsTotal: 12, ICUBedsAvailable: 0,
				NICUBedsTotal: 20, NICUBedsAvailable: 3,
			},
		},
		{
			CampusID:  "austin_campus",
			Name:      "Austin Campus",
			MetroArea: "AUSTIN_METRO",
			Address:   "9835 N Lake Creek Pkwy, Austin, TX 78717",
			Location:  domain.Location{Latitude: 30.4680, Longitude: -97.7950},
			BedCensus: domain.BedCensus{
				TotalBeds: 52, AvailableBeds: 8,
				ICUBedsTotal: 12, ICUBedsAvailable: 2,
			},
			Helipads: []domain.Helipad{
				{HelipadID: "austin-hp-1", Name: "Austin Pad", Location: domain.Location{Latitude: 30.4682, Longitude: -97.7948}},
			},
		},
	}
}

// Rule fixture mirrors the YAML schema the rules package loads.
type ruleFixture struct {
	Campuses map[string]campusRules `yaml:"campuses"`
}

type campusRules struct {
	Name       string                   `yaml:"name"`
	Exclusions []domain.CampusExclusion `yaml:"exclusions"`
}

func sampleRules() ruleFixture {
	minAgeWest := 2.0
	maxWeightAustin := 90.0
	return ruleFixture{
		Campuses: map[string]campusRules{
			"west_campus": {
				Name: "West Campus",
				Exclusions: []domain.CampusExclusion{
					{
						CriteriaID:  "WC-AGE-01",
						Name:        "Minimum age",
						Description: "West Campus does not admit transfers under 2 years",
						MinAgeYears: &minAgeWest,
					},
					{
						CriteriaID:         "WC-ECMO-01",
						Name:               "No ECMO",
						Description:        "No ECMO capability at West Campus",
						ExcludedConditions: []string{"ecmo candidate, extracorporeal membrane oxygenation"},
					},
				},
			},
			"north_campus": {
				Name: "North Campus",
				Exclusions: []domain.CampusExclusion{
					{
						CriteriaID:        "NC-TRAUMA-01",
						Name:              "No level-1 trauma",
						Description:       "Major trauma diverts to Main Campus",
						ComplaintKeywords: []string{"major trauma", "gunshot", "penetrating injury"},
					},
				},
			},
			"austin_campus": {
				Name: "Austin Campus",
				Exclusions: []domain.CampusExclusion{
					{
						CriteriaID:  "AC-WT-01",
						Name:        "Maximum weight",
						Description: "Equipment weight limit",
						MaxWeightKg: &maxWeightAustin,
					},
					{
						CriteriaID:         "AC-CARE-01",
						Name:               "No NICU",
						Description:        "Austin Campus has no NICU coverage",
						ExcludedCareLevels: []domain.CareLevel{domain.CareNICU},
					},
				},
			},
		},
	}
}

func sampleRequest() map[string]any {
	age := 3.0
	weight := 14.5
	return map[string]any{
		"transfer_request": domain.TransferRequest{
			RequestID: "req-sample-001",
			Patient: domain.PatientData{
				PatientID:       "pat-sample-001",
				ChiefComplaint:  "respiratory distress, increased work of breathing",
				ClinicalHistory: "former 32-week preemie, two prior PICU admissions for bronchiolitis",
				AgeYears:        &age,
				WeightKg:        &weight,
				CareLevel:       domain.CareICU,
				Conditions:      []string{"bronchiolitis", "hypoxemia"},
			},
			SendingFacilityName: "Bayshore Community Hospital",
			SendingLocation:     domain.Location{Latitude: 29.6320, Longitude: -95.0190},
		},
		"weather": domain.WeatherData{
			TemperatureC: 24,
			WindSpeedKPH: 18,
			VisibilityKM: 9.5,
		},
		"available_modes": []domain.TransportMode{
			domain.ModeGroundAmbulance,
			domain.ModeHelicopter,
		},
	}
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func writeYAMLFile(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
