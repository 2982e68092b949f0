package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/cadence/internal/app/taskremove"
	"github.com/slok/cadence/internal/consistency"
)

type TaskRmCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	system string
	name   string
}

// NewTaskRmCommand returns the task rm command.
func NewTaskRmCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskRmCommand {
	c := &TaskRmCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("rm", "Remove a task and its completion history.")
	c.Cmd.Arg("system", "System name or ID.").Required().StringVar(&c.system)
	c.Cmd.Arg("name", "Task name.").Required().StringVar(&c.name)

	return c
}

func (c TaskRmCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskRmCommand) Run(ctx context.Context) error {
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

	svc, err := taskremove.NewService(taskremove.ServiceConfig{
		Repository:  repo,
		Consistency: agg,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	err = svc.Run(ctx, taskremove.Request{
		SystemNameOrID: c.system,
		TaskName:       c.name,
	})
	if err != nil {
		return fmt.Errorf("could not remove task: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Task %q removed.\n", c.name)

	return nil
}
