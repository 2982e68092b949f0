package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/cadence/internal/model"
)

func TestNewSpecificWeekdays(t *testing.T) {
	tests := map[string]struct {
		days    []time.Weekday
		expDays []time.Weekday
		expErr  bool
	}{
		"A valid weekday list should not fail": {
			days:    []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			expDays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		},

		"Duplicated weekdays should be deduplicated": {
			days:    []time.Weekday{time.Friday, time.Monday, time.Friday},
			expDays: []time.Weekday{time.Monday, time.Friday},
		},

		"An empty weekday list should fail": {
			days:   []time.Weekday{},
			expErr: true,
		},

		"An out-of-range weekday should fail": {
			days:   []time.Weekday{time.Weekday(9)},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			freq, err := model.NewSpecificWeekdays(test.days...)

			if test.expErr {
				assert.True(errors.Is(err, model.ErrNotValid))
				return
			}

			require.NoError(t, err)
			assert.Equal(model.FrequencyKindSpecificWeekdays, freq.Kind)
			assert.Equal(test.expDays, freq.Weekdays)
		})
	}
}

func TestNewWeeklyTarget(t *testing.T) {
	tests := map[string]struct {
		target int
		expErr bool
	}{
		"A valid target should not fail":  {target: 3},
		"A target of one should not fail": {target: 1},
		"A zero target should fail":       {target: 0, expErr: true},
		"A negative target should fail":   {target: -1, expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			freq, err := model.NewWeeklyTarget(test.target)

			if test.expErr {
				assert.True(errors.Is(err, model.ErrNotValid))
				return
			}

			require.NoError(t, err)
			assert.Equal(model.FrequencyKindWeeklyTarget, freq.Kind)
			assert.Equal(test.target, freq.TargetPerWeek)
		})
	}
}

func TestFrequencyString(t *testing.T) {
	onMonWed, err := model.NewSpecificWeekdays(time.Monday, time.Wednesday)
	require.NoError(t, err)
	weekly3, err := model.NewWeeklyTarget(3)
	require.NoError(t, err)

	assert.Equal(t, "daily", model.NewDaily().String())
	assert.Equal(t, "weekdays", model.NewWeekdays().String())
	assert.Equal(t, "Mon,Wed", onMonWed.String())
	assert.Equal(t, "3x/week", weekly3.String())
}

func TestTaskValidate(t *testing.T) {
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		task   model.Task
		expErr bool
	}{
		"A valid task should not fail": {
			task: model.Task{ID: "t1", SystemID: "s1", Name: "run", Frequency: model.NewDaily(), CreatedAt: now},
		},

		"Missing name should fail": {
			task:   model.Task{ID: "t1", SystemID: "s1", Frequency: model.NewDaily(), CreatedAt: now},
			expErr: true,
		},

		"Missing system should fail": {
			task:   model.Task{ID: "t1", Name: "run", Frequency: model.NewDaily(), CreatedAt: now},
			expErr: true,
		},

		"A zero frequency should fail": {
			task:   model.Task{ID: "t1", SystemID: "s1", Name: "run", CreatedAt: now},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.task.Validate()

			if test.expErr {
				assert.True(t, errors.Is(err, model.ErrNotValid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
