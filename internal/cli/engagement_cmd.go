package cli

import (
	"context"
	"fmt"
	"strconv"

	"ingaggio/internal/cli/formatter"
	"ingaggio/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newEngagementCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engagement",
		Short: "Manage contracted services (consultant engagements)",
	}

	cmd.AddCommand(
		newEngagementAddCmd(app),
		newEngagementListCmd(app),
	)

	return cmd
}

func newEngagementAddCmd(app *App) *cobra.Command {
	var contractID, serviceID, consultantID, from, to string
	var hours, hoursOnPremises int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Engage a consultant on a contract service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cs := &domain.ContractedService{
				ID:              uuid.New().String(),
				ContractID:      contractID,
				ServiceID:       serviceID,
				ConsultantID:    consultantID,
				Hours:           hours,
				HoursOnPremises: hoursOnPremises,
			}
			if from != "" {
				fd, err := parseDateFlag("from", from)
				if err != nil {
					return err
				}
				cs.FromDate = &fd
			}
			if to != "" {
				td, err := parseDateFlag("to", to)
				if err != nil {
					return err
				}
				cs.ToDate = &td
			}

			if err := app.Registry.CreateContractedService(ctx, cs); err != nil {
				return err
			}

			fmt.Printf("Engaged consultant %s for %d hours (%d on-premises) on service %s (%s)\n",
				cs.ConsultantID, cs.Hours, cs.HoursOnPremises, cs.ServiceID, cs.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&contractID, "contract", "", "Contract ID")
	cmd.Flags().StringVar(&serviceID, "service", "", "Service ID")
	cmd.Flags().StringVar(&consultantID, "consultant", "", "Consultant ID")
	cmd.Flags().IntVar(&hours, "hours", 0, "Total contracted hours")
	cmd.Flags().IntVar(&hoursOnPremises, "on-premises", 0, "Hours to perform on the recipient's premises")
	cmd.Flags().StringVar(&from, "from", "", "Earliest scheduling date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Latest scheduling date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("consultant")
	_ = cmd.MarkFlagRequired("hours")

	return cmd
}

func newEngagementListCmd(app *App) *cobra.Command {
	var consultantID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a consultant's engagements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			engagements, err := app.Registry.ListContractedServices(ctx, consultantID)
			if err != nil {
				return err
			}
			if len(engagements) == 0 {
				fmt.Println("No engagements found.")
				return nil
			}

			rows := make([][]string, 0, len(engagements))
			for _, cs := range engagements {
				window := "full range"
				if cs.FromDate != nil || cs.ToDate != nil {
					lo, hi := "...", "..."
					if cs.FromDate != nil {
						lo = cs.FromDate.Format(dateLayout)
					}
					if cs.ToDate != nil {
						hi = cs.ToDate.Format(dateLayout)
					}
					window = lo + " " + hi
				}
				rows = append(rows, []string{
					cs.ID,
					cs.ContractID,
					cs.ServiceID,
					strconv.Itoa(cs.Hours),
					strconv.Itoa(cs.HoursOnPremises),
					window,
				})
			}
			fmt.Println(formatter.RenderTable(
				[]string{"ID", "CONTRACT", "SERVICE", "HOURS", "ON-PREM", "WINDOW"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&consultantID, "consultant", "", "Consultant ID")
	_ = cmd.MarkFlagRequired("consultant")

	return cmd
}
