package cli

import (
	"ingaggio/internal/service"

	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Registry  service.RegistryService
	Schedules service.ScheduleService
}

// NewRootCmd creates the top-level "ingaggio" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "ingaggio",
		Short: "Consulting contract and work-schedule planner",
	}

	root.AddCommand(
		newConsultantCmd(app),
		newRecipientCmd(app),
		newContractCmd(app),
		newServiceCmd(app),
		newEngagementCmd(app),
		newScheduleCmd(app),
		newTaskCmd(app),
	)

	return root
}
