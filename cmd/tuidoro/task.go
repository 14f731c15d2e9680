package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/task"
)

var taskListAll bool

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	add := &cobra.Command{
		Use:   "add [name...]",
		Short: "Add a task (prompts when no name is given)",
		RunE:  runTaskAddCmd,
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE:  runTaskListCmd,
	}
	list.Flags().BoolVar(&taskListAll, "all", false, "include completed tasks")
	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskDoneCmd,
	}
	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskRemoveCmd,
	}
	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Add one task per line of a text file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskImportCmd,
	}
	cmd.AddCommand(add, list, done, rm, imp)
	return cmd
}

func runTaskAddCmd(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	if strings.TrimSpace(name) == "" {
		if err := huh.NewInput().
			Title("New task").
			CharLimit(task.MaxNameLength).
			Value(&name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return task.ErrEmptyName
				}
				return nil
			}).
			Run(); err != nil {
			return fmt.Errorf("failed to read task name: %w", err)
		}
	}
	return withApp(func(a *app) error {
		t, err := a.tasks.Add(name)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(t.ID), t.Name)
		return err
	})
}

func runTaskListCmd(cmd *cobra.Command, _ []string) error {
	return withApp(func(a *app) error {
		tasks := a.tasks.Pending()
		if taskListAll {
			tasks = a.tasks.All()
		}
		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			_, err := fmt.Fprintln(out, "No tasks.")
			return err
		}
		for _, t := range tasks {
			if _, err := fmt.Fprintln(out, formatTask(t)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	})
}

func runTaskDoneCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		ev, err := a.orch.CompleteTask(args[0])
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Completed %s", ev.Task.Name)
		if ev.Reward.Granted {
			msg += fmt.Sprintf(" (+%d XP)", ev.Reward.Award.Amount)
		} else {
			msg += " (reward limit reached, no XP)"
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
		return err
	})
}

func runTaskRemoveCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		t, err := a.tasks.Get(args[0])
		if err != nil {
			return err
		}
		if err := a.tasks.Remove(t.ID); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", t.Name)
		return err
	})
}

func runTaskImportCmd(cmd *cobra.Command, args []string) error {
	names, err := task.LoadNames(args[0])
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	return withApp(func(a *app) error {
		added := 0
		for _, name := range names {
			if _, err := a.tasks.Add(name); err != nil {
				return err
			}
			added++
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Added %d task(s)\n", added)
		return err
	})
}

// withApp runs fn against a restored app with logging configured.
func withApp(fn func(a *app) error) error {
	fileCfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()
	a, _, err := openRestored(durationsFromConfig(fileCfg))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func formatTask(t model.Task) string {
	mark := " "
	if t.Done {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s  %s", mark, shortID(t.ID), t.Name)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
