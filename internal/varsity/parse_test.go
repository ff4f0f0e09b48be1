package varsity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTo24Hour(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2:30 PM", "14:30", true},
		{"2:30PM", "14:30", true},
		{"2:30 pm", "14:30", true},
		{"12:00 PM", "12:00", true},
		{"12:00 AM", "00:00", true},
		{"9:05 AM", "09:05", true},
		{"  11:45 AM - 12:45 PM ", "11:45", true},
		{"14:30", "", false},
		{"2:75 PM", "", false},
		{"sold out", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := convertTo24Hour(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestExtractDay(t *testing.T) {
	day, ok := extractDay("Mon, January 5, 2026")
	require.True(t, ok)
	assert.Equal(t, "Mon", day)

	day, ok = extractDay("Thursday January 8, 2026")
	require.True(t, ok)
	assert.Equal(t, "Thu", day)

	_, ok = extractDay("January 5, 2026")
	assert.False(t, ok)
}

func TestExtractDate(t *testing.T) {
	d, ok := extractDate("Mon, January 5, 2026", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), d)

	d, ok = extractDate("Thu Jan 8 2026", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC), d)

	_, ok = extractDate("next Thursday", time.UTC)
	assert.False(t, ok)
}

func TestCombine(t *testing.T) {
	date := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	got, ok := combine(date, "14:30")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 5, 14, 30, 0, 0, time.UTC), got)

	_, ok = combine(date, "2pm")
	assert.False(t, ok)
}
