package cli

import (
	"context"
	"fmt"

	"ingaggio/internal/cli/formatter"
	"ingaggio/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newServiceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the service catalog",
	}

	cmd.AddCommand(
		newServiceAddCmd(app),
		newServiceListCmd(app),
	)

	return cmd
}

func newServiceAddCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a service to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			s := &domain.Service{
				ID:          uuid.New().String(),
				Name:        name,
				Description: description,
			}
			if err := app.Registry.CreateService(ctx, s); err != nil {
				return err
			}

			fmt.Printf("Added service %s (%s)\n", s.Name, s.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Service name")
	cmd.Flags().StringVar(&description, "description", "", "Service description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newServiceListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog services",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			services, err := app.Registry.ListServices(ctx)
			if err != nil {
				return err
			}
			if len(services) == 0 {
				fmt.Println("No services in the catalog.")
				return nil
			}

			rows := make([][]string, 0, len(services))
			for _, s := range services {
				rows = append(rows, []string{s.ID, s.Name, s.Description})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "NAME", "DESCRIPTION"}, rows))
			return nil
		},
	}

	return cmd
}
