package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpdate(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	msg := kafkago.Message{
		Key:       []byte("west"),
		Value:     []byte(`{"campus_id":"west","bed_census":{"total_beds":30,"available_beds":7,"icu_beds_total":6,"icu_beds_available":2}}`),
		Topic:     "bed-census-updates",
		Partition: 1,
		Offset:    99,
		Time:      now,
	}

	update, err := parseUpdate(msg)
	require.NoError(t, err)

	assert.Equal(t, "west", update.CampusID)
	assert.Equal(t, 30, update.Census.TotalBeds)
	assert.Equal(t, 7, update.Census.AvailableBeds)
	assert.Equal(t, 2, update.Census.ICUBedsAvailable)
	assert.Equal(t, now, update.ReportedAt, "message time fills a missing reported_at")
}

func TestParseUpdate_ExplicitReportedAt(t *testing.T) {
	reported := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	msg := kafkago.Message{
		Value: []byte(`{"campus_id":"west","bed_census":{"total_beds":10,"available_beds":1},"reported_at":"2026-03-14T09:00:00Z"}`),
		Time:  reported.Add(time.Minute),
	}

	update, err := parseUpdate(msg)
	require.NoError(t, err)
	assert.Equal(t, reported, update.ReportedAt)
}

func TestParseUpdate_KeyMismatch(t *testing.T) {
	msg := kafkago.Message{
		Key:   []byte("north"),
		Value: []byte(`{"campus_id":"west","bed_census":{"total_beds":10,"available_beds":1}}`),
	}

	_, err := parseUpdate(msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestParseUpdate_MalformedJSON(t *testing.T) {
	_, err := parseUpdate(kafkago.Message{Value: []byte("not json")})
	require.Error(t, err)
}
