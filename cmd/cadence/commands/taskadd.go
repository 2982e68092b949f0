package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/cadence/internal/app/taskcreate"
	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/model"
)

type TaskAddCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	system string
	name   string

	// Frequency flags, mutually exclusive.
	every  string
	on     []string
	weekly int
}

// NewTaskAddCommand returns the task add command.
func NewTaskAddCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskAddCommand {
	c := &TaskAddCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("add", "Create a new task under a system.")
	c.Cmd.Arg("system", "System name or ID.").Required().StringVar(&c.system)
	c.Cmd.Arg("name", "Name for the task.").Required().StringVar(&c.name)

	c.Cmd.Flag("every", "Recurrence preset (daily, weekdays, weekends).").EnumVar(&c.every, "daily", "weekdays", "weekends")
	c.Cmd.Flag("on", "Specific weekdays the task is due (e.g. mon,wed,fri). Repeatable.").StringsVar(&c.on)
	c.Cmd.Flag("weekly", "Weekly completion target, any days count.").IntVar(&c.weekly)

	return c
}

func (c TaskAddCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskAddCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	frequency, err := parseFrequency(c.every, c.on, c.weekly)
	if err != nil {
		return fmt.Errorf("invalid frequency: %w", err)
	}

	repo, err := newRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}

	agg, err := consistency.NewAggregator(consistency.AggregatorConfig{
		Tasks:  repo,
		Events: repo,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create consistency aggregator: %w", err)
	}

	svc, err := taskcreate.NewService(taskcreate.ServiceConfig{
		Repository:  repo,
		Consistency: agg,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	result, err := svc.Run(ctx, taskcreate.Request{
		SystemNameOrID: c.system,
		Name:           c.name,
		Frequency:      frequency,
		Now:            time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("could not create task: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Task created!\n")
	fmt.Fprintf(c.rootCmd.Stdout, "  ID:        %s\n", result.Task.ID)
	fmt.Fprintf(c.rootCmd.Stdout, "  Name:      %s\n", result.Task.Name)
	fmt.Fprintf(c.rootCmd.Stdout, "  Frequency: %s\n", result.Task.Frequency.String())
	for _, a := range result.Unlocked {
		fmt.Fprintf(c.rootCmd.Stdout, "Achievement unlocked: %s (+%d XP)\n", a.Name, a.XPReward)
	}

	return nil
}

// parseFrequency builds a recurrence from the mutually exclusive flag
// groups: --every preset, --on weekday list or --weekly target. No flag at
// all means daily.
func parseFrequency(every string, on []string, weekly int) (model.Frequency, error) {
	set := 0
	if every != "" {
		set++
	}
	if len(on) > 0 {
		set++
	}
	if weekly > 0 {
		set++
	}
	if set == 0 {
		return model.NewDaily(), nil
	}
	if set > 1 {
		return model.Frequency{}, fmt.Errorf("--every, --on and --weekly are mutually exclusive")
	}

	switch {
	case every == "daily":
		return model.NewDaily(), nil
	case every == "weekdays":
		return model.NewWeekdays(), nil
	case every == "weekends":
		return model.NewWeekends(), nil
	case len(on) > 0:
		days, err := parseWeekdays(on)
		if err != nil {
			return model.Frequency{}, err
		}
		return model.NewSpecificWeekdays(days...)
	default:
		return model.NewWeeklyTarget(weekly)
	}
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// parseWeekdays parses weekday names from repeatable and comma-separated
// flag values.
func parseWeekdays(specs []string) ([]time.Weekday, error) {
	days := []time.Weekday{}
	for _, spec := range specs {
		for _, name := range strings.Split(spec, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			day, ok := weekdayNames[name]
			if !ok {
				return nil, fmt.Errorf("unknown weekday %q", name)
			}
			days = append(days, day)
		}
	}

	return days, nil
}
