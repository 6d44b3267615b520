package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlot(t *testing.T) {
	iv := mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:30:00Z")

	slot, err := NewSlot("a@x.com", iv)
	require.NoError(t, err)
	assert.Empty(t, slot.ID, "id is provisional until the store assigns one")
	assert.Equal(t, "a@x.com", slot.Owner)
	assert.Equal(t, 90, slot.DurationMinutes)

	_, err = NewSlot("a@x.com", TimeInterval{Start: iv.End, End: iv.Start})
	require.ErrorIs(t, err, ErrInvalidInterval)
}

func TestSlot_Reschedule(t *testing.T) {
	slot, err := NewSlot("a@x.com", mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"))
	require.NoError(t, err)
	slot.ID = "slot-1"

	moved, err := slot.Reschedule(mustInterval(t, "2024-01-01T13:00:00Z", "2024-01-01T13:45:00Z"))
	require.NoError(t, err)
	assert.Equal(t, "slot-1", moved.ID)
	assert.Equal(t, "a@x.com", moved.Owner)
	assert.Equal(t, 45, moved.DurationMinutes)
	// The original value is untouched.
	assert.Equal(t, 60, slot.DurationMinutes)

	_, err = slot.Reschedule(TimeInterval{})
	require.ErrorIs(t, err, ErrInvalidInterval)
}
