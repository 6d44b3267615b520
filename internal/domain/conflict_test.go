package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConflict(t *testing.T) {
	morning := mustInterval(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	afternoon := mustInterval(t, "2024-01-01T14:00:00Z", "2024-01-01T15:00:00Z")
	existing := []Slot{
		{ID: "slot-1", Owner: "a@x.com", Interval: morning, DurationMinutes: 60},
		{ID: "slot-2", Owner: "a@x.com", Interval: afternoon, DurationMinutes: 60},
	}

	tests := []struct {
		name      string
		candidate TimeInterval
		excludeID string
		wantID    string
	}{
		{
			name:      "overlapping candidate reports the conflicting slot",
			candidate: mustInterval(t, "2024-01-01T09:30:00Z", "2024-01-01T10:30:00Z"),
			wantID:    "slot-1",
		},
		{
			name:      "adjacent candidate is allowed",
			candidate: mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			wantID:    "",
		},
		{
			name:      "rescheduling onto own interval excludes self",
			candidate: morning,
			excludeID: "slot-1",
			wantID:    "",
		},
		{
			name:      "exclusion does not hide other slots",
			candidate: mustInterval(t, "2024-01-01T13:30:00Z", "2024-01-01T14:30:00Z"),
			excludeID: "slot-1",
			wantID:    "slot-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflict(tt.candidate, existing, tt.excludeID)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestFindConflict_EmptySet(t *testing.T) {
	candidate := mustInterval(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	assert.Nil(t, FindConflict(candidate, nil, ""))
}

func TestHasConflict(t *testing.T) {
	morning := mustInterval(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	assert.False(t, HasConflict(morning, nil))
	assert.True(t, HasConflict(morning, []TimeInterval{mustInterval(t, "2024-01-01T09:30:00Z", "2024-01-01T10:30:00Z")}))
	assert.False(t, HasConflict(morning, []TimeInterval{mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z")}))
}
