package main

import (
	"fmt"
	"os"

	"ingaggio/internal/calendar"
	"ingaggio/internal/cli"
	"ingaggio/internal/config"
	"ingaggio/internal/db"
	"ingaggio/internal/repository"
	"ingaggio/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Build the business calendar from config.
	calOpts := []calendar.Option{
		calendar.WithWorkingHours(cfg.DayStartHour, cfg.DayEndHour),
		calendar.WithPrefestivi(cfg.IncludePrefestivi),
	}
	if cfg.ExtraHolidaysFile != "" {
		closures, err := calendar.LoadExtraClosures(cfg.ExtraHolidaysFile)
		if err != nil {
			return fmt.Errorf("loading extra closures: %w", err)
		}
		calOpts = append(calOpts, calendar.WithExtraClosures(closures))
	}
	cal := calendar.New(calOpts...)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	consultantRepo := repository.NewSQLiteConsultantRepo(database)
	recipientRepo := repository.NewSQLiteRecipientRepo(database)
	contractRepo := repository.NewSQLiteContractRepo(database)
	serviceRepo := repository.NewSQLiteServiceRepo(database)
	engagementRepo := repository.NewSQLiteContractedServiceRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	changesetRepo := repository.NewSQLiteChangesetRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(os.Stderr)

	app := &cli.App{
		Registry: service.NewRegistryService(
			consultantRepo, recipientRepo, contractRepo, serviceRepo, engagementRepo),
		Schedules: service.NewScheduleService(
			consultantRepo, engagementRepo, scheduleRepo, changesetRepo,
			uow, cal, nil, observer),
	}

	return cli.NewRootCmd(app).Execute()
}
