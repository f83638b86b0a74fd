package cli

import (
	"context"
	"fmt"
	"time"

	"ingaggio/internal/schedule"
	"ingaggio/internal/service"

	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Edit schedule tasks by hand",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskMoveCmd(app),
		newTaskRemoveCmd(app),
		newTaskUndoCmd(app),
	)

	return cmd
}

// parseTaskSpan turns a date plus start/end hours into the task bounds.
func parseTaskSpan(date string, startHour, endHour int) (time.Time, time.Time, error) {
	day, err := parseDateFlag("date", date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startHour < 0 || startHour > 23 || endHour < 1 || endHour > 24 || startHour >= endHour {
		return time.Time{}, time.Time{}, fmt.Errorf(
			"invalid hour span %d-%d, expected 0 <= start < end <= 24", startHour, endHour)
	}
	start := day.Add(time.Duration(startHour) * time.Hour)
	end := day.Add(time.Duration(endHour) * time.Hour)
	return start, end, nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var scheduleID, engagementID, date string
	var startHour, endHour int
	var onPremises bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			start, end, err := parseTaskSpan(date, startHour, endHour)
			if err != nil {
				return err
			}

			cset, err := app.Schedules.Apply(ctx, scheduleID, []service.TaskEdit{{
				Kind:                schedule.KindAddTask,
				ContractedServiceID: engagementID,
				OnPremises:          onPremises,
				Start:               start,
				End:                 end,
			}})
			if err != nil {
				return err
			}

			fmt.Printf("Added task %s to %s (changeset %s)\n",
				start.Format("2006-01-02 15:04"), end.Format("15:04"), cset.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleID, "schedule", "", "Schedule ID")
	cmd.Flags().StringVar(&engagementID, "engagement", "", "Contracted service ID")
	cmd.Flags().StringVar(&date, "date", "", "Task day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&startHour, "start", 0, "Start hour (0-23)")
	cmd.Flags().IntVar(&endHour, "end", 0, "End hour, exclusive (1-24)")
	cmd.Flags().BoolVar(&onPremises, "on-premises", false, "Perform the task on the recipient's premises")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("engagement")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var scheduleID, taskID, date string
	var startHour, endHour int

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a task to new bounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			start, end, err := parseTaskSpan(date, startHour, endHour)
			if err != nil {
				return err
			}

			cset, err := app.Schedules.Apply(ctx, scheduleID, []service.TaskEdit{{
				Kind:   schedule.KindMoveTask,
				TaskID: taskID,
				Start:  start,
				End:    end,
			}})
			if err != nil {
				return err
			}

			fmt.Printf("Moved task %s to %s - %s (changeset %s)\n",
				taskID, start.Format("2006-01-02 15:04"), end.Format("15:04"), cset.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleID, "schedule", "", "Schedule ID")
	cmd.Flags().StringVar(&taskID, "task", "", "Task ID")
	cmd.Flags().StringVar(&date, "date", "", "New task day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&startHour, "start", 0, "New start hour (0-23)")
	cmd.Flags().IntVar(&endHour, "end", 0, "New end hour, exclusive (1-24)")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var scheduleID, taskID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a task from a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cset, err := app.Schedules.Apply(ctx, scheduleID, []service.TaskEdit{{
				Kind:   schedule.KindRemoveTask,
				TaskID: taskID,
			}})
			if err != nil {
				return err
			}

			fmt.Printf("Removed task %s (changeset %s)\n", taskID, cset.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleID, "schedule", "", "Schedule ID")
	cmd.Flags().StringVar(&taskID, "task", "", "Task ID")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("task")

	return cmd
}

func newTaskUndoCmd(app *App) *cobra.Command {
	var changesetID string

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Revert a previously applied changeset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := app.Schedules.Undo(ctx, changesetID); err != nil {
				return err
			}

			fmt.Printf("Reverted changeset %s\n", changesetID)
			return nil
		},
	}

	cmd.Flags().StringVar(&changesetID, "changeset", "", "Changeset ID")
	_ = cmd.MarkFlagRequired("changeset")

	return cmd
}
