// Package consistency computes the lifetime completed/expected ratio of tasks
// and systems. The raw walk is O(days since creation), so results are served
// through a time-boxed cache with explicit invalidation hooks and the uncached
// path runs off the calling goroutine.
package consistency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/slok/cadence/internal/calendar"
	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/recurrence"
	"github.com/slok/cadence/internal/storage"
)

// Tally is the due-day bookkeeping of one or more tasks: how many days
// required action and how many of those were completed. Keeping the raw
// counts (instead of per-task ratios) lets system rollups weight by actual
// due-day volume, so a task created yesterday does not distort a system that
// has run for a year.
type Tally struct {
	Expected  int
	Completed int
}

// Add accumulates another tally.
func (t Tally) Add(other Tally) Tally {
	return Tally{
		Expected:  t.Expected + other.Expected,
		Completed: t.Completed + other.Completed,
	}
}

// Ratio returns completed/expected clamped to [0, 1], and 0 when nothing was
// expected.
func (t Tally) Ratio() float64 {
	if t.Expected == 0 {
		return 0.0
	}

	r := float64(t.Completed) / float64(t.Expected)
	if r > 1.0 {
		r = 1.0
	}
	if r < 0.0 {
		r = 0.0
	}
	return r
}

// TaskTally counts the task's due days from its creation day through now
// inclusive, and how many of them carry a completion event.
func TaskTally(task model.Task, events []model.CompletionEvent, now time.Time) Tally {
	from := calendar.DayOf(task.CreatedAt)
	to := calendar.DayOf(now)

	tally := Tally{Expected: recurrence.DueDaysBetween(task.Frequency, from, to)}
	for _, e := range events {
		day := calendar.DayOf(e.Day)
		if day.Before(from) || day.After(to) {
			continue
		}
		if recurrence.IsDue(task.Frequency, day) {
			tally.Completed++
		}
	}

	return tally
}

// AggregatorConfig is the configuration for the consistency aggregator.
type AggregatorConfig struct {
	Tasks  storage.TaskRepository
	Events storage.CompletionLogStore
	// Window is the cache validity window.
	Window time.Duration
	Logger log.Logger
}

func (c *AggregatorConfig) defaults() error {
	if c.Tasks == nil {
		return fmt.Errorf("task repository is required")
	}
	if c.Events == nil {
		return fmt.Errorf("completion log store is required")
	}
	if c.Window <= 0 {
		c.Window = DefaultCacheWindow
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "consistency.Aggregator"})
	return nil
}

// Aggregator serves task and system consistency ratios behind the time-boxed
// cache. Mutating app services must call the Invalidate hooks whenever a
// completion event or task changes under a system.
type Aggregator struct {
	tasks  storage.TaskRepository
	events storage.CompletionLogStore
	window time.Duration
	logger log.Logger

	mu          sync.Mutex
	taskCache   map[string]Cache
	systemCache map[string]Cache
}

// NewAggregator creates a new consistency aggregator.
func NewAggregator(cfg AggregatorConfig) (*Aggregator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Aggregator{
		tasks:       cfg.Tasks,
		events:      cfg.Events,
		window:      cfg.Window,
		logger:      cfg.Logger,
		taskCache:   map[string]Cache{},
		systemCache: map[string]Cache{},
	}, nil
}

// TaskConsistency returns the lifetime consistency ratio of a task at the
// given time. The cached read path is synchronous and cheap, a stale or empty
// cache triggers a background recomputation this call waits on.
func (a *Aggregator) TaskConsistency(ctx context.Context, task model.Task, now time.Time) (float64, error) {
	a.mu.Lock()
	cache := a.taskCache[task.ID]
	a.mu.Unlock()

	if cache.Fresh(now, a.window) {
		return cache.Ratio, nil
	}

	tally, err := a.compute(ctx, func(ctx context.Context) (Tally, error) {
		events, err := a.events.GetEvents(ctx, task.ID)
		if err != nil {
			return Tally{}, fmt.Errorf("could not get completion events: %w", err)
		}
		return TaskTally(task, events, now), nil
	})
	if err != nil {
		return 0, err
	}

	newCache, ratio := GetOrRecompute(cache, now, a.window, tally.Ratio)

	a.mu.Lock()
	a.taskCache[task.ID] = newCache
	a.mu.Unlock()

	a.logger.Debugf("Recomputed task consistency: %s -> %.3f", task.ID, ratio)
	return ratio, nil
}

// SystemConsistency returns the consistency ratio of a whole system: the same
// ratio computed over the union of all owned tasks' due and completed days,
// not an average of per-task ratios.
func (a *Aggregator) SystemConsistency(ctx context.Context, systemID string, now time.Time) (float64, error) {
	a.mu.Lock()
	cache := a.systemCache[systemID]
	a.mu.Unlock()

	if cache.Fresh(now, a.window) {
		return cache.Ratio, nil
	}

	tally, err := a.compute(ctx, func(ctx context.Context) (Tally, error) {
		tasks, err := a.tasks.ListTasks(ctx, systemID)
		if err != nil {
			return Tally{}, fmt.Errorf("could not list tasks: %w", err)
		}

		total := Tally{}
		for _, task := range tasks {
			events, err := a.events.GetEvents(ctx, task.ID)
			if err != nil {
				return Tally{}, fmt.Errorf("could not get completion events: %w", err)
			}
			total = total.Add(TaskTally(task, events, now))
		}
		return total, nil
	})
	if err != nil {
		return 0, err
	}

	newCache, ratio := GetOrRecompute(cache, now, a.window, tally.Ratio)

	a.mu.Lock()
	a.systemCache[systemID] = newCache
	a.mu.Unlock()

	a.logger.Debugf("Recomputed system consistency: %s -> %.3f", systemID, ratio)
	return ratio, nil
}

// InvalidateTask drops the cached ratio of a task. Must be called when a
// completion event is created or deleted for the task, or when the task's
// frequency changes.
func (a *Aggregator) InvalidateTask(taskID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.taskCache, taskID)
}

// InvalidateSystem drops the cached ratio of a system. Must be called when a
// task is created or deleted under the system, or when any owned task's log
// changes.
func (a *Aggregator) InvalidateSystem(systemID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.systemCache, systemID)
}

type tallyResult struct {
	tally Tally
	err   error
}

// compute runs the full date-range walk on its own goroutine. The walk is
// O(days since creation) and must not block a caller that gets cancelled:
// abandoning it is safe since the computation is read-only.
func (a *Aggregator) compute(ctx context.Context, fn func(ctx context.Context) (Tally, error)) (Tally, error) {
	resC := make(chan tallyResult, 1)
	go func() {
		tally, err := fn(ctx)
		resC <- tallyResult{tally: tally, err: err}
	}()

	select {
	case <-ctx.Done():
		return Tally{}, ctx.Err()
	case res := <-resC:
		return res.tally, res.err
	}
}
