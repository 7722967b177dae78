package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	assert.Equal(t, int64(85), ToInt64(85))
	assert.Equal(t, int64(85), ToInt64(float64(85)))
	assert.Equal(t, int64(85), ToInt64("85"))
	assert.Equal(t, int64(0), ToInt64(nil))
	assert.Equal(t, int64(0), ToInt64("liverpool"))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool(1))
	assert.True(t, ToBool("true"))
	assert.True(t, ToBool("1"))
	assert.False(t, ToBool("no"))
	assert.False(t, ToBool(nil))
}

func TestToTime(t *testing.T) {
	ts := ToTime("2024-08-17T14:00:00+00:00")
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 14, ts.Hour())

	day := ToTime("2024-08-17")
	assert.Equal(t, time.August, day.Month())

	assert.True(t, ToTime("not a date").IsZero())
}

func TestSameValue(t *testing.T) {
	tests := []struct {
		name string
		a    any
		b    any
		same bool
	}{
		{"ints equal", 3, int64(3), true},
		{"int vs float", 3, 3.0, true},
		{"json number vs stored int", float64(85), 85, true},
		{"different numbers", 3, 4, false},
		{"strings", "Liverpool", "Liverpool", true},
		{"string case differs", "Liverpool", "liverpool", false},
		{"bools", true, true, true},
		{"bool vs int", true, 1, true},
		{"nil both", nil, nil, true},
		{"nil one side", nil, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, SameValue(tt.a, tt.b))
		})
	}

	// Same instant in different locations compares equal
	utc := time.Date(2024, 8, 17, 14, 0, 0, 0, time.UTC)
	shifted := utc.In(time.FixedZone("X", 3600))
	assert.True(t, SameValue(utc, shifted))
	assert.False(t, SameValue(utc, utc.Add(time.Minute)))
}
