package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/cadence/internal/app/systemstatus"
	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/printer"
)

type WeekCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	system string
	format string
}

// NewWeekCommand returns the week command.
func NewWeekCommand(rootCmd *RootCommand, app *kingpin.Application) *WeekCommand {
	c := &WeekCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("week", "Show this week's progress per task.")
	c.Cmd.Arg("system", "System name or ID. All systems when omitted.").StringVar(&c.system)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c WeekCommand) Name() string { return c.Cmd.FullCommand() }

func (c WeekCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

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

	svc, err := systemstatus.NewService(systemstatus.ServiceConfig{
		Repository:  repo,
		Consistency: agg,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	result, err := svc.Run(ctx, systemstatus.Request{
		SystemNameOrID: c.system,
		Now:            time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("could not get week progress: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintWeek(*result); err != nil {
		return fmt.Errorf("could not print week progress: %w", err)
	}

	return nil
}
