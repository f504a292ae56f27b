package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationDueFrom(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		duration Duration
		want     time.Time
	}{
		{DurationThreeDays, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)},
		{DurationOneWeek, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{DurationTwoWeeks, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{DurationOneMonth, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.duration), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.duration.DueFrom(start))
		})
	}
}

func TestDurationValid(t *testing.T) {
	assert.True(t, DurationOneWeek.Valid())
	assert.False(t, Duration("fortnight").Valid())
	assert.False(t, Duration("").Valid())
}

func TestBookSnapshotScanRoundtrip(t *testing.T) {
	snap := BookSnapshot{Title: "Dune", ISBN: []string{"9780441013593"}, Subject: []string{"science fiction"}}
	value, err := snap.Value()
	require.NoError(t, err)

	var scanned BookSnapshot
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, snap.Title, scanned.Title)
	assert.Equal(t, snap.ISBN, scanned.ISBN)
}
