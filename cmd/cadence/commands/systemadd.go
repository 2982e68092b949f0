package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/cadence/internal/app/systemcreate"
)

type SystemAddCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	name string
}

// NewSystemAddCommand returns the system add command.
func NewSystemAddCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *SystemAddCommand {
	c := &SystemAddCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("add", "Create a new system.")
	c.Cmd.Arg("name", "Name for the system.").Required().StringVar(&c.name)

	return c
}

func (c SystemAddCommand) Name() string { return c.Cmd.FullCommand() }

func (c SystemAddCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := newRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}

	svc, err := systemcreate.NewService(systemcreate.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	result, err := svc.Run(ctx, systemcreate.Request{
		Name: c.name,
		Now:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("could not create system: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "System created!\n")
	fmt.Fprintf(c.rootCmd.Stdout, "  ID:   %s\n", result.System.ID)
	fmt.Fprintf(c.rootCmd.Stdout, "  Name: %s\n", result.System.Name)
	for _, a := range result.Unlocked {
		fmt.Fprintf(c.rootCmd.Stdout, "Achievement unlocked: %s (+%d XP)\n", a.Name, a.XPReward)
	}

	return nil
}
