package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStart(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", "2023-06-02T00:30:00.000Z", time.Date(2023, 6, 2, 0, 30, 0, 0, time.UTC)},
		{"rfc3339 with offset", "2023-06-01T20:30:00-04:00", time.Date(2023, 6, 2, 0, 30, 0, 0, time.UTC)},
		{"canonical form", "2023-06-02 00:30:00", time.Date(2023, 6, 2, 0, 30, 0, 0, time.UTC)},
		{"date only", "2023-06-02", time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseStart(tc.raw)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %v, want %v", got, tc.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseStartErrors(t *testing.T) {
	_, err := ParseStart("")
	require.Error(t, err)

	_, err = ParseStart("next tuesday")
	require.Error(t, err)
}

func TestParseStartDropsSubsecond(t *testing.T) {
	got, err := ParseStart("2023-06-02T00:30:00.999Z")
	require.NoError(t, err)
	assert.Zero(t, got.Nanosecond())
}

func TestSanitizeDate(t *testing.T) {
	assert.Equal(t, "2023-06-02", SanitizeDate("2023-06-02T00:30:00.000Z"))
	assert.Equal(t, "2023-06-02", SanitizeDate("2023-06-02"))
	assert.Equal(t, "", SanitizeDate("garbage"))
	assert.Equal(t, "", SanitizeDate(""))
}

func TestGameSummaryMarshalDateStart(t *testing.T) {
	s := GameSummary{
		ID:        1,
		GameID:    8133,
		DateStart: time.Date(2023, 6, 2, 0, 30, 0, 0, time.UTC),
	}

	body, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "2023-06-02 00:30:00", decoded["date_start"])
}
