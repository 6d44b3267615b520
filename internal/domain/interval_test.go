package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start, end string) TimeInterval {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	iv, err := NewTimeInterval(s, e)
	require.NoError(t, err)
	return iv
}

func TestNewTimeInterval(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{name: "valid", start: base, end: base.Add(time.Hour)},
		{name: "zero length", start: base, end: base, wantErr: ErrInvalidInterval},
		{name: "end before start", start: base.Add(time.Hour), end: base, wantErr: ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := NewTimeInterval(tt.start, tt.end)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, iv.Valid())
		})
	}
}

func TestTimeInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    TimeInterval
		b    TimeInterval
		want bool
	}{
		{
			name: "adjacent intervals never overlap",
			a:    mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			b:    mustInterval(t, "2024-01-01T11:00:00Z", "2024-01-01T12:00:00Z"),
			want: false,
		},
		{
			name: "partial overlap",
			a:    mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			b:    mustInterval(t, "2024-01-01T10:30:00Z", "2024-01-01T11:30:00Z"),
			want: true,
		},
		{
			name: "nested interval",
			a:    mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T12:00:00Z"),
			b:    mustInterval(t, "2024-01-01T10:30:00Z", "2024-01-01T11:00:00Z"),
			want: true,
		},
		{
			name: "identical intervals",
			a:    mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			b:    mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			want: true,
		},
		{
			name: "disjoint intervals",
			a:    mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			b:    mustInterval(t, "2024-01-01T14:00:00Z", "2024-01-01T15:00:00Z"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeInterval_OverlapsSelf(t *testing.T) {
	iv := mustInterval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z")
	assert.True(t, iv.Overlaps(iv))
}

func TestTimeInterval_DurationMinutes(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{name: "ninety minutes", start: "2024-01-01T10:00:00Z", end: "2024-01-01T11:30:00Z", want: 90},
		{name: "one hour", start: "2024-01-01T10:00:00Z", end: "2024-01-01T11:00:00Z", want: 60},
		{name: "sub-minute remainder truncated", start: "2024-01-01T10:00:00Z", end: "2024-01-01T10:30:45Z", want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustInterval(t, tt.start, tt.end).DurationMinutes())
		})
	}
}
