package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		wantErr bool
	}{
		{"valid", Location{Latitude: 29.76, Longitude: -95.37}, false},
		{"lat too high", Location{Latitude: 90.1, Longitude: 0}, true},
		{"lat too low", Location{Latitude: -90.1, Longitude: 0}, true},
		{"lon too high", Location{Latitude: 0, Longitude: 180.1}, true},
		{"lon too low", Location{Latitude: 0, Longitude: -180.1}, true},
		{"boundary values", Location{Latitude: 90, Longitude: -180}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBedCensus_Validate(t *testing.T) {
	valid := BedCensus{
		TotalBeds: 100, AvailableBeds: 10,
		ICUBedsTotal: 20, ICUBedsAvailable: 2,
		NICUBedsTotal: 10, NICUBedsAvailable: 10,
	}
	assert.NoError(t, valid.Validate())

	t.Run("available exceeds total", func(t *testing.T) {
		c := valid
		c.ICUBedsAvailable = 21
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "icu")
	})

	t.Run("negative count", func(t *testing.T) {
		c := valid
		c.AvailableBeds = -1
		assert.Error(t, c.Validate())
	})
}

func TestBedCensus_Available(t *testing.T) {
	c := BedCensus{AvailableBeds: 5, ICUBedsAvailable: 2, NICUBedsAvailable: 1,
		TotalBeds: 5, ICUBedsTotal: 2, NICUBedsTotal: 1}

	assert.Equal(t, 5, c.Available(CareGeneral))
	assert.Equal(t, 2, c.Available(CareICU))
	assert.Equal(t, 2, c.Available(CarePICU), "PICU shares the ICU pool")
	assert.Equal(t, 1, c.Available(CareNICU))
}

func TestTransferRequest_Validate(t *testing.T) {
	valid := TransferRequest{
		RequestID:       "req-1",
		Patient:         PatientData{PatientID: "p-1"},
		SendingLocation: Location{Latitude: 29.76, Longitude: -95.37},
	}
	assert.NoError(t, valid.Validate())

	t.Run("missing request id", func(t *testing.T) {
		r := valid
		r.RequestID = ""
		assert.Error(t, r.Validate())
	})

	t.Run("missing patient id", func(t *testing.T) {
		r := valid
		r.Patient.PatientID = ""
		assert.Error(t, r.Validate())
	})

	t.Run("bad sending location", func(t *testing.T) {
		r := valid
		r.SendingLocation.Latitude = 123
		assert.Error(t, r.Validate())
	})

	t.Run("bad patient location", func(t *testing.T) {
		r := valid
		r.Patient.CurrentLocation = &Location{Latitude: 0, Longitude: 200}
		assert.Error(t, r.Validate())
	})
}

func TestTransportMode_IsAir(t *testing.T) {
	assert.False(t, ModeGroundAmbulance.IsAir())
	assert.True(t, ModeAirAmbulance.IsAir())
	assert.True(t, ModeHelicopter.IsAir())
	assert.True(t, ModeFixedWing.IsAir())
}

func TestHospitalCampus_AirDestination(t *testing.T) {
	campus := HospitalCampus{Location: austin}
	assert.Equal(t, austin, campus.AirDestination(houston), "no helipads targets the campus")

	pad := Location{Latitude: 30.27, Longitude: -97.74}
	campus.Helipads = []Helipad{{HelipadID: "H1", Location: pad}}
	assert.Equal(t, pad, campus.AirDestination(houston))
}
