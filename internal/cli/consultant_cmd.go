package cli

import (
	"context"
	"fmt"

	"ingaggio/internal/cli/formatter"
	"ingaggio/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newConsultantCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consultant",
		Short: "Manage consultants",
	}

	cmd.AddCommand(
		newConsultantAddCmd(app),
		newConsultantListCmd(app),
	)

	return cmd
}

func newConsultantAddCmd(app *App) *cobra.Command {
	var name, surname, email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a consultant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			c := &domain.Consultant{
				ID:      uuid.New().String(),
				Name:    name,
				Surname: surname,
				Email:   email,
			}
			if err := app.Registry.CreateConsultant(ctx, c); err != nil {
				return err
			}

			fmt.Printf("Added consultant %s (%s)\n", c.FullName(), c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Consultant first name")
	cmd.Flags().StringVar(&surname, "surname", "", "Consultant surname")
	cmd.Flags().StringVar(&email, "email", "", "Consultant email address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("surname")

	return cmd
}

func newConsultantListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List consultants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			consultants, err := app.Registry.ListConsultants(ctx)
			if err != nil {
				return err
			}
			if len(consultants) == 0 {
				fmt.Println("No consultants registered.")
				return nil
			}

			rows := make([][]string, 0, len(consultants))
			for _, c := range consultants {
				rows = append(rows, []string{c.ID, c.FullName(), c.Email})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "NAME", "EMAIL"}, rows))
			return nil
		},
	}

	return cmd
}
