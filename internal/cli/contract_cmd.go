package cli

import (
	"context"
	"fmt"
	"time"

	"ingaggio/internal/cli/formatter"
	"ingaggio/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func parseDateFlag(name, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q, expected YYYY-MM-DD", name, value)
	}
	return t, nil
}

func newContractCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Manage contracts",
	}

	cmd.AddCommand(
		newContractAddCmd(app),
		newContractListCmd(app),
	)

	return cmd
}

func newContractAddCmd(app *App) *cobra.Command {
	var recipientID, start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a contract for a recipient",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			startDate, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			var endDate *time.Time
			if end != "" {
				ed, err := parseDateFlag("end", end)
				if err != nil {
					return err
				}
				endDate = &ed
			}

			c := &domain.Contract{
				ID:          uuid.New().String(),
				RecipientID: recipientID,
				StartDate:   startDate,
				EndDate:     endDate,
			}
			if err := app.Registry.CreateContract(ctx, c); err != nil {
				return err
			}

			fmt.Printf("Added contract %s for recipient %s\n", c.ID, c.RecipientID)
			return nil
		},
	}

	cmd.Flags().StringVar(&recipientID, "recipient", "", "Recipient ID")
	cmd.Flags().StringVar(&start, "start", "", "Contract start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Contract end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("recipient")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newContractListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contracts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			contracts, err := app.Registry.ListContracts(ctx)
			if err != nil {
				return err
			}
			if len(contracts) == 0 {
				fmt.Println("No contracts registered.")
				return nil
			}

			rows := make([][]string, 0, len(contracts))
			for _, c := range contracts {
				end := "open"
				if c.EndDate != nil {
					end = c.EndDate.Format(dateLayout)
				}
				rows = append(rows, []string{
					c.ID,
					c.RecipientID,
					c.StartDate.Format(dateLayout),
					end,
				})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "RECIPIENT", "START", "END"}, rows))
			return nil
		},
	}

	return cmd
}
