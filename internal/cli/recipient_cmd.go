package cli

import (
	"context"
	"fmt"

	"ingaggio/internal/cli/formatter"
	"ingaggio/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRecipientCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipient",
		Short: "Manage service recipients",
	}

	cmd.AddCommand(
		newRecipientAddCmd(app),
		newRecipientListCmd(app),
	)

	return cmd
}

func newRecipientAddCmd(app *App) *cobra.Command {
	var name, vat string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a recipient organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			r := &domain.Recipient{
				ID:        uuid.New().String(),
				Name:      name,
				VATNumber: vat,
			}
			if err := app.Registry.CreateRecipient(ctx, r); err != nil {
				return err
			}

			fmt.Printf("Added recipient %s (%s)\n", r.Name, r.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Recipient name")
	cmd.Flags().StringVar(&vat, "vat", "", "Recipient VAT number")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRecipientListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipients",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			recipients, err := app.Registry.ListRecipients(ctx)
			if err != nil {
				return err
			}
			if len(recipients) == 0 {
				fmt.Println("No recipients registered.")
				return nil
			}

			rows := make([][]string, 0, len(recipients))
			for _, r := range recipients {
				rows = append(rows, []string{r.ID, r.Name, r.VATNumber})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "NAME", "VAT"}, rows))
			return nil
		},
	}

	return cmd
}
