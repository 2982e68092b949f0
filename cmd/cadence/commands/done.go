package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/cadence/internal/app/complete"
	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/printer"
)

type DoneCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	system   string
	task     string
	date     string
	duration time.Duration
	imported bool
	format   string
}

// NewDoneCommand returns the done command.
func NewDoneCommand(rootCmd *RootCommand, app *kingpin.Application) *DoneCommand {
	c := &DoneCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("done", "Mark a task as completed.")
	c.Cmd.Arg("system", "System name or ID.").Required().StringVar(&c.system)
	c.Cmd.Arg("task", "Task name.").Required().StringVar(&c.task)
	c.Cmd.Flag("date", "Day to complete (YYYY-MM-DD), defaults to today.").StringVar(&c.date)
	c.Cmd.Flag("duration", "Time spent on the task (e.g. 25m).").DurationVar(&c.duration)
	c.Cmd.Flag("imported", "Mark the completion as imported from an external source.").BoolVar(&c.imported)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c DoneCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoneCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	req := complete.Request{
		SystemNameOrID: c.system,
		TaskName:       c.task,
		Source:         model.EventSourceManual,
		Now:            time.Now().UTC(),
	}

	if c.date != "" {
		day, err := time.Parse(time.DateOnly, c.date)
		if err != nil {
			return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
		}
		req.Day = day
	}
	if c.duration > 0 {
		req.Duration = &c.duration
	}
	if c.imported {
		req.Source = model.EventSourceImported
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

	svc, err := complete.NewService(complete.ServiceConfig{
		Repository:  repo,
		Consistency: agg,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	result, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("could not complete task: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintCompletion(*result); err != nil {
		return fmt.Errorf("could not print completion: %w", err)
	}

	return nil
}
