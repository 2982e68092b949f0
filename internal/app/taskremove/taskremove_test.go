package taskremove_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/cadence/internal/app/taskremove"
	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/storage/storagemock"
)

func TestServiceRun(t *testing.T) {
	t0 := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	system := &model.System{ID: "sys1", Name: "health", CreatedAt: t0}
	task := &model.Task{ID: "task1", SystemID: "sys1", Name: "run", Frequency: model.NewDaily(), CreatedAt: t0}

	tests := map[string]struct {
		req    taskremove.Request
		mock   func(m *storagemock.MockRepository)
		expErr bool
	}{
		"Removing a task from a missing system should fail.": {
			req: taskremove.Request{SystemNameOrID: "nope", TaskName: "run"},
			mock: func(m *storagemock.MockRepository) {
				m.On("GetSystemByName", mock.Anything, "nope").Once().Return(nil, model.ErrNotFound)
				m.On("GetSystem", mock.Anything, "nope").Once().Return(nil, model.ErrNotFound)
			},
			expErr: true,
		},

		"Removing a missing task should fail.": {
			req: taskremove.Request{SystemNameOrID: "health", TaskName: "nope"},
			mock: func(m *storagemock.MockRepository) {
				m.On("GetSystemByName", mock.Anything, "health").Once().Return(system, nil)
				m.On("GetTaskByName", mock.Anything, "sys1", "nope").Once().Return(nil, model.ErrNotFound)
			},
			expErr: true,
		},

		"Removing a task should delete it.": {
			req: taskremove.Request{SystemNameOrID: "health", TaskName: "run"},
			mock: func(m *storagemock.MockRepository) {
				m.On("GetSystemByName", mock.Anything, "health").Once().Return(system, nil)
				m.On("GetTaskByName", mock.Anything, "sys1", "run").Once().Return(task, nil)
				m.On("DeleteTask", mock.Anything, "task1").Once().Return(nil)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mr := &storagemock.MockRepository{}
			test.mock(mr)

			agg, err := consistency.NewAggregator(consistency.AggregatorConfig{Tasks: mr, Events: mr})
			require.NoError(err)

			svc, err := taskremove.NewService(taskremove.ServiceConfig{Repository: mr, Consistency: agg})
			require.NoError(err)

			err = svc.Run(context.TODO(), test.req)

			if test.expErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
			mr.AssertExpectations(t)
		})
	}
}
