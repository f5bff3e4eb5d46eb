package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMilitaryTime(t *testing.T) {
	tests := []struct {
		name string
		code string
		want time.Duration
		ok   bool
	}{
		{"afternoon", "1430", 14*time.Hour + 30*time.Minute, true},
		{"midnight", "0000", 0, true},
		{"last_minute", "2359", 23*time.Hour + 59*time.Minute, true},
		{"short_code_padded", "45", 45 * time.Minute, true},
		{"three_digits", "930", 9*time.Hour + 30*time.Minute, true},
		{"hour_out_of_range", "2400", 0, false},
		{"minute_out_of_range", "1260", 0, false},
		{"non_numeric", "12a0", 0, false},
		{"signed", "-130", 0, false},
		{"too_long", "12345", 0, false},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMilitaryTime(tt.code)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestNewVictimProfile(t *testing.T) {
	p := NewVictimProfile(34, "M", "H")
	require.NotNil(t, p.Age)
	assert.Equal(t, 34, *p.Age)
	require.NotNil(t, p.Sex)
	assert.Equal(t, "M", *p.Sex)
	require.NotNil(t, p.Ancestry)
	assert.Equal(t, "H", *p.Ancestry)
}

func TestNewVictimProfile_AgeZeroIsAbsent(t *testing.T) {
	p := NewVictimProfile(0, "", "  ")
	assert.Nil(t, p.Age)
	assert.Nil(t, p.Sex)
	assert.Nil(t, p.Ancestry)
}

func TestNormalizeBehaviorCodes(t *testing.T) {
	const noOp = "0344"

	assert.Equal(t, []string{"0416", "1822"},
		NormalizeBehaviorCodes("0416 0344 1822", noOp))
	assert.Equal(t, []string{"0416"},
		NormalizeBehaviorCodes(" 0416  0416 ", noOp))
	assert.Nil(t, NormalizeBehaviorCodes("", noOp))
	// An event carrying only the no-op code has an empty behavior set.
	assert.Empty(t, NormalizeBehaviorCodes("0344", noOp))
}

func TestPeriodOf(t *testing.T) {
	tests := []struct {
		at   time.Duration
		want DayPeriod
	}{
		{0, PeriodNight},
		{5*time.Hour + 59*time.Minute, PeriodNight},
		{6 * time.Hour, PeriodMorning},
		{11*time.Hour + 59*time.Minute, PeriodMorning},
		{12 * time.Hour, PeriodAfternoon},
		{17*time.Hour + 59*time.Minute, PeriodAfternoon},
		{18 * time.Hour, PeriodEvening},
		{23*time.Hour + 59*time.Minute, PeriodEvening},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PeriodOf(tt.at), "at %v", tt.at)
	}
}
