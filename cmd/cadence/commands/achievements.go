package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/cadence/internal/app/achievementlist"
	"github.com/slok/cadence/internal/printer"
)

type AchievementsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	onlyUnlocked bool
	format       string
}

// NewAchievementsCommand returns the achievements command.
func NewAchievementsCommand(rootCmd *RootCommand, app *kingpin.Application) *AchievementsCommand {
	c := &AchievementsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("achievements", "Show level, XP and achievement progress.")
	c.Cmd.Flag("unlocked", "Only show unlocked achievements.").BoolVar(&c.onlyUnlocked)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c AchievementsCommand) Name() string { return c.Cmd.FullCommand() }

func (c AchievementsCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := newRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}

	svc, err := achievementlist.NewService(achievementlist.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	result, err := svc.Run(ctx, achievementlist.Request{
		OnlyUnlocked: c.onlyUnlocked,
	})
	if err != nil {
		return fmt.Errorf("could not list achievements: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintAchievements(*result); err != nil {
		return fmt.Errorf("could not print achievements: %w", err)
	}

	return nil
}
