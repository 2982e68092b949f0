package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/cadence/internal/model"
)

func TestParseFrequency(t *testing.T) {
	tests := map[string]struct {
		every   string
		on      []string
		weekly  int
		expFreq model.FrequencyKind
		expErr  bool
	}{
		"No flags should default to daily": {
			expFreq: model.FrequencyKindDaily,
		},
		"Every weekdays should parse": {
			every:   "weekdays",
			expFreq: model.FrequencyKindWeekdays,
		},
		"Every weekends should parse": {
			every:   "weekends",
			expFreq: model.FrequencyKindWeekends,
		},
		"Weekday list should parse": {
			on:      []string{"mon,wed", "Friday"},
			expFreq: model.FrequencyKindSpecificWeekdays,
		},
		"Weekly target should parse": {
			weekly:  3,
			expFreq: model.FrequencyKindWeeklyTarget,
		},
		"Unknown weekday should fail": {
			on:     []string{"someday"},
			expErr: true,
		},
		"Mixing flag groups should fail": {
			every:  "daily",
			weekly: 3,
			expErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			freq, err := parseFrequency(tc.every, tc.on, tc.weekly)

			if tc.expErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expFreq, freq.Kind)
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := parseWeekdays([]string{"mon, wed", "FRI"})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, days)
}
