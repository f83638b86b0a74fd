package cli

import (
	"context"
	"fmt"

	"ingaggio/internal/cli/formatter"

	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and inspect work schedules",
	}

	cmd.AddCommand(
		newScheduleGenerateCmd(app),
		newScheduleShowCmd(app),
		newScheduleListCmd(app),
		newScheduleValidateCmd(app),
	)

	return cmd
}

func newScheduleGenerateCmd(app *App) *cobra.Command {
	var consultantID, from, to string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Allocate a consultant's contracted hours over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			fromDate, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			toDate, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}

			rec, err := app.Schedules.Generate(ctx, consultantID, fromDate, toDate)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatSchedule(rec))
			return nil
		},
	}

	cmd.Flags().StringVar(&consultantID, "consultant", "", "Consultant ID")
	cmd.Flags().StringVar(&from, "from", "", "First schedule day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last schedule day, inclusive (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("consultant")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newScheduleShowCmd(app *App) *cobra.Command {
	var scheduleID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a schedule's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			rec, err := app.Schedules.Get(ctx, scheduleID)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatSchedule(rec))
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleID, "id", "", "Schedule ID")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newScheduleListCmd(app *App) *cobra.Command {
	var consultantID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a consultant's schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			schedules, err := app.Schedules.ListByConsultant(ctx, consultantID)
			if err != nil {
				return err
			}
			if len(schedules) == 0 {
				fmt.Println("No schedules found.")
				return nil
			}

			rows := make([][]string, 0, len(schedules))
			for _, rec := range schedules {
				rows = append(rows, []string{
					rec.ID,
					rec.From.Format(dateLayout),
					rec.To.Format(dateLayout),
					fmt.Sprintf("%d", len(rec.Tasks)),
				})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "FROM", "TO", "TASKS"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&consultantID, "consultant", "", "Consultant ID")
	_ = cmd.MarkFlagRequired("consultant")

	return cmd
}

func newScheduleValidateCmd(app *App) *cobra.Command {
	var scheduleID string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a schedule against its invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			violations, err := app.Schedules.Validate(ctx, scheduleID)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatViolations(violations))
			if len(violations) > 0 {
				return fmt.Errorf("schedule %s has %d violation(s)", scheduleID, len(violations))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleID, "id", "", "Schedule ID")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
