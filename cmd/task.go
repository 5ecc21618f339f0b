package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tasker.com/tasker/internal/constants"
	apperrors "tasker.com/tasker/internal/errors"
	model "tasker.com/tasker/internal/models"
	"tasker.com/tasker/internal/services"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks from the command line",
}

var taskAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, err := optionalString(cmd, "description")
		if err != nil {
			return err
		}
		due, err := optionalDate(cmd, "due")
		if err != nil {
			return err
		}

		return withApp(func(a *app) error {
			task, err := a.tasks.CreateTask(cmd.Context(), args[0], description, due)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		})
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			tasks, err := a.tasks.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			printTaskTable(cmd.OutOrStdout(), tasks)
			return nil
		})
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a single task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			task, err := a.tasks.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		})
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Update a task's fields",
	Long: "Updates only the fields whose flags are given. " +
		"Use --clear-description or --clear-due to remove a value.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		upd, err := taskUpdateFromFlags(cmd)
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			task, err := a.tasks.UpdateTask(cmd.Context(), id, upd)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		})
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], constants.StatusDone)
	},
}

var taskReopenCmd = &cobra.Command{
	Use:   "reopen ID",
	Short: "Move a task back to in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], constants.StatusInProgress)
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			deleted, err := a.tasks.DeleteTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("task %d: %w", id, apperrors.ErrTaskNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
			return nil
		})
	},
}

func init() {
	taskAddCmd.Flags().String("description", "", "Task description")
	taskAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	addEditFlags(taskEditCmd)

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskEditCmd, taskDoneCmd, taskReopenCmd, taskRemoveCmd)
	rootCmd.AddCommand(taskCmd)
}

func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().Bool("clear-description", false, "Remove the description")
	cmd.Flags().String("status", "", "New status (in_progress | done | overdue)")
	cmd.Flags().String("due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
}

func withApp(fn func(a *app) error) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

func changeStatus(cmd *cobra.Command, arg string, status constants.TaskStatus) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	return withApp(func(a *app) error {
		task, err := a.tasks.ChangeTaskStatus(cmd.Context(), id, status)
		if err != nil {
			return err
		}
		printTask(cmd.OutOrStdout(), task)
		return nil
	})
}

func taskUpdateFromFlags(cmd *cobra.Command) (services.TaskUpdate, error) {
	var upd services.TaskUpdate
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		upd.Title = &title
	}

	if clearDesc, _ := flags.GetBool("clear-description"); clearDesc {
		upd.Description = services.Cleared[string]()
	} else if flags.Changed("description") {
		description, _ := flags.GetString("description")
		upd.Description = services.SetTo(description)
	}

	if flags.Changed("status") {
		raw, _ := flags.GetString("status")
		status, err := constants.ParseTaskStatus(raw)
		if err != nil {
			return services.TaskUpdate{}, err
		}
		upd.Status = &status
	}

	if clearDue, _ := flags.GetBool("clear-due"); clearDue {
		upd.DueDate = services.Cleared[time.Time]()
	} else if flags.Changed("due") {
		raw, _ := flags.GetString("due")
		due, err := model.ParseDate(raw)
		if err != nil {
			return services.TaskUpdate{}, err
		}
		upd.DueDate = services.SetTo(due)
	}

	return upd, nil
}

func optionalString(cmd *cobra.Command, name string) (*string, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalDate(cmd *cobra.Command, name string) (*time.Time, error) {
	raw, err := optionalString(cmd, name)
	if err != nil || raw == nil {
		return nil, err
	}
	due, err := model.ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidTaskID
	}
	return id, nil
}

var statusColors = map[constants.TaskStatus]*color.Color{
	constants.StatusInProgress: color.New(color.FgMagenta, color.Bold),
	constants.StatusDone:       color.New(color.FgGreen, color.Bold),
	constants.StatusOverdue:    color.New(color.FgRed, color.Bold),
}

func colorStatus(status constants.TaskStatus) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status.Label())
	}
	return status.Label()
}

func dueString(task *model.Task) string {
	if task.DueDate == nil {
		return "N/A"
	}
	return model.FormatDate(*task.DueDate)
}

func printTaskTable(w io.Writer, tasks []*model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tDUE DATE")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", task.ID, task.Title, colorStatus(task.Status), dueString(task))
	}
	_ = tw.Flush()
}

func printTask(w io.Writer, task *model.Task) {
	bold := color.New(color.Bold).SprintFunc()

	desc := "N/A"
	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		desc = *task.Description
	}

	fmt.Fprintf(w, "%s %d\n", bold("ID:"), task.ID)
	fmt.Fprintf(w, "%s %s\n", bold("Title:"), task.Title)
	fmt.Fprintf(w, "%s %s\n", bold("Status:"), colorStatus(task.Status))
	fmt.Fprintf(w, "%s %s\n", bold("Due date:"), dueString(task))
	fmt.Fprintf(w, "%s %s\n", bold("Description:"), desc)
}
