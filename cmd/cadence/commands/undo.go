package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/cadence/internal/app/uncomplete"
	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/printer"
)

type UndoCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	system string
	task   string
	date   string
}

// NewUndoCommand returns the undo command.
func NewUndoCommand(rootCmd *RootCommand, app *kingpin.Application) *UndoCommand {
	c := &UndoCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("undo", "Remove a task completion. XP already earned is kept.")
	c.Cmd.Arg("system", "System name or ID.").Required().StringVar(&c.system)
	c.Cmd.Arg("task", "Task name.").Required().StringVar(&c.task)
	c.Cmd.Flag("date", "Day to undo (YYYY-MM-DD), defaults to today.").StringVar(&c.date)

	return c
}

func (c UndoCommand) Name() string { return c.Cmd.FullCommand() }

func (c UndoCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	req := uncomplete.Request{
		SystemNameOrID: c.system,
		TaskName:       c.task,
		Now:            time.Now().UTC(),
	}

	if c.date != "" {
		day, err := time.Parse(time.DateOnly, c.date)
		if err != nil {
			return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
		}
		req.Day = day
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

	svc, err := uncomplete.NewService(uncomplete.ServiceConfig{
		Repository:  repo,
		Consistency: agg,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	result, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("could not undo completion: %w", err)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	msg := fmt.Sprintf("Removed completion of %s on %s. Streak is now %d.", result.Task.Name, printer.FormatDay(result.Day), result.Streak.Current)
	if err := p.PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
