package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"ingaggio/internal/calendar"
	"ingaggio/internal/db"
	"ingaggio/internal/domain"
	"ingaggio/internal/metrics"
	"ingaggio/internal/repository"
	"ingaggio/internal/schedule"
	"ingaggio/internal/scheduler"
)

type scheduleService struct {
	consultants        repository.ConsultantRepo
	contractedServices repository.ContractedServiceRepo
	schedules          repository.ScheduleRepo
	changesets         repository.ChangesetRepo
	uow                db.UnitOfWork
	cal                *calendar.Calendar
	rng                *rand.Rand
	managers           *schedule.ManagerFactory
	observer           UseCaseObserver
}

// NewScheduleService wires the schedule use cases. rng drives every
// randomized allocation choice; pass a seeded source in tests, nil for
// a time-seeded one.
func NewScheduleService(
	consultants repository.ConsultantRepo,
	contractedServices repository.ContractedServiceRepo,
	schedules repository.ScheduleRepo,
	changesets repository.ChangesetRepo,
	uow db.UnitOfWork,
	cal *calendar.Calendar,
	rng *rand.Rand,
	observers ...UseCaseObserver,
) ScheduleService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &scheduleService{
		consultants:        consultants,
		contractedServices: contractedServices,
		schedules:          schedules,
		changesets:         changesets,
		uow:                uow,
		cal:                cal,
		rng:                rng,
		managers:           schedule.NewManagerFactory(),
		observer:           useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) Generate(ctx context.Context, consultantID string, from, to time.Time) (rec *repository.ScheduleRecord, err error) {
	started := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:     "schedule_generate",
			Duration: time.Since(started),
			Err:      err,
			Fields:   map[string]any{"consultant_id": consultantID},
		})
	}()

	consultant, err := s.consultants.GetByID(ctx, consultantID)
	if err != nil {
		return nil, err
	}
	services, err := s.contractedServices.ListByConsultant(ctx, consultantID)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("consultant %s has no contracted services", consultantID)
	}

	gen := scheduler.NewGenerator(s.cal, s.rng)
	sched, err := gen.Generate(consultant, services, from, to)
	if err != nil {
		metrics.GenerationFailures.WithLabelValues(failureKind(err)).Inc()
		return nil, err
	}

	rec = &repository.ScheduleRecord{
		ID:           sched.ID(),
		ConsultantID: consultantID,
		From:         sched.From(),
		To:           sched.To(),
		CreatedAt:    time.Now().UTC(),
		Tasks:        sched.Tasks(),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedules := repository.NewSQLiteScheduleRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := txSchedules.Create(ctx, rec); err != nil {
			return err
		}
		for _, t := range rec.Tasks {
			if err := txTasks.Create(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.GenerationRuns.Inc()
	metrics.TasksAllocated.Add(float64(len(rec.Tasks)))
	allocated := 0
	for _, t := range rec.Tasks {
		allocated += t.Hours()
	}
	metrics.SlotsAllocated.Set(float64(allocated))
	return rec, nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, schedule.ErrCapacityExhausted):
		return "capacity"
	case errors.Is(err, schedule.ErrWatchdogExceeded):
		return "watchdog"
	case errors.Is(err, schedule.ErrInvariant):
		return "invariant"
	default:
		return "other"
	}
}

func (s *scheduleService) Get(ctx context.Context, id string) (*repository.ScheduleRecord, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *scheduleService) ListByConsultant(ctx context.Context, consultantID string) ([]*repository.ScheduleRecord, error) {
	return s.schedules.ListByConsultant(ctx, consultantID)
}

// materialize rebuilds the live schedule from a stored record: slots
// regenerated from the bounds, tasks re-attached, manager index
// refreshed. Boundary violations surface here.
func (s *scheduleService) materialize(rec *repository.ScheduleRecord) (*schedule.Schedule, error) {
	sched, err := schedule.New(rec.ID, rec.ConsultantID, rec.From, rec.To, s.cal, s.rng)
	if err != nil {
		return nil, err
	}
	for _, t := range rec.Tasks {
		sched.AddTask(t)
	}
	if _, err := s.managers.For(sched); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *scheduleService) Validate(ctx context.Context, id string) ([]schedule.Violation, error) {
	rec, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sched, err := s.materialize(rec)
	if err != nil {
		return []schedule.Violation{{Rule: "slot_index", Message: err.Error()}}, nil
	}
	services, err := s.contractedServices.ListByConsultant(ctx, rec.ConsultantID)
	if err != nil {
		return nil, err
	}
	return schedule.Validate(sched, services, s.cal), nil
}

func (s *scheduleService) Apply(ctx context.Context, scheduleID string, edits []TaskEdit) (rec *repository.ChangesetRecord, err error) {
	started := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:     "schedule_apply_changeset",
			Duration: time.Since(started),
			Err:      err,
			Fields:   map[string]any{"schedule_id": scheduleID, "edits": len(edits)},
		})
	}()

	schedRec, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	sched, err := s.materialize(schedRec)
	if err != nil {
		return nil, err
	}

	cset := schedule.NewChangeset(uuid.New().String(), sched)
	rec = &repository.ChangesetRecord{
		ID:         cset.ID,
		ScheduleID: scheduleID,
		CreatedAt:  cset.CreatedAt,
	}
	for _, edit := range edits {
		cmd, cmdRec, err := s.buildCommand(ctx, sched, schedRec, edit)
		if err != nil {
			return nil, err
		}
		cmdRec.ChangesetID = cset.ID
		cmdRec.Seq = cset.Add(cmd)
		rec.Commands = append(rec.Commands, cmdRec)
	}

	if err := cset.Execute(); err != nil {
		return nil, err
	}
	if err := s.checkEdited(sched); err != nil {
		_ = cset.Undo()
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		for i, cmd := range cset.Commands() {
			switch cmd.Kind {
			case schedule.KindAddTask:
				if err := txTasks.Create(ctx, cmd.Task); err != nil {
					return err
				}
			case schedule.KindRemoveTask:
				if err := txTasks.Delete(ctx, cmd.Task.ID); err != nil {
					return err
				}
			case schedule.KindMoveTask:
				if err := txTasks.Update(ctx, cmd.Task); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown command kind at seq %d", i)
			}
		}
		return repository.NewSQLiteChangesetRepo(tx).Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	metrics.ChangesetsApplied.Inc()
	return rec, nil
}

// buildCommand translates one TaskEdit into a live command plus its
// audit record.
func (s *scheduleService) buildCommand(ctx context.Context, sched *schedule.Schedule, schedRec *repository.ScheduleRecord, edit TaskEdit) (*schedule.Command, repository.CommandRecord, error) {
	switch edit.Kind {
	case schedule.KindAddTask:
		cs, err := s.contractedServices.GetByID(ctx, edit.ContractedServiceID)
		if err != nil {
			return nil, repository.CommandRecord{}, err
		}
		if cs.ConsultantID != schedRec.ConsultantID {
			return nil, repository.CommandRecord{}, fmt.Errorf(
				"contracted service %s belongs to a different consultant", cs.ID)
		}
		task := &domain.Task{
			ID:                  uuid.New().String(),
			ScheduleID:          schedRec.ID,
			ContractedServiceID: cs.ID,
			ConsultantID:        cs.ConsultantID,
			Start:               edit.Start,
			End:                 edit.End,
			OnPremises:          edit.OnPremises,
		}
		if err := task.Validate(); err != nil {
			return nil, repository.CommandRecord{}, fmt.Errorf("%w: %v", schedule.ErrInvalidTask, err)
		}
		start, end := task.Start, task.End
		return schedule.AddTask(sched, task), repository.CommandRecord{
			Kind:                schedule.KindAddTask.String(),
			TaskID:              task.ID,
			ContractedServiceID: task.ContractedServiceID,
			OnPremises:          task.OnPremises,
			NewStart:            &start,
			NewEnd:              &end,
		}, nil

	case schedule.KindRemoveTask:
		task := findTask(sched, edit.TaskID)
		if task == nil {
			return nil, repository.CommandRecord{}, fmt.Errorf("task %s not in schedule %s", edit.TaskID, schedRec.ID)
		}
		start, end := task.Start, task.End
		return schedule.RemoveTask(sched, task), repository.CommandRecord{
			Kind:                schedule.KindRemoveTask.String(),
			TaskID:              task.ID,
			ContractedServiceID: task.ContractedServiceID,
			OnPremises:          task.OnPremises,
			PrevStart:           &start,
			PrevEnd:             &end,
		}, nil

	case schedule.KindMoveTask:
		task := findTask(sched, edit.TaskID)
		if task == nil {
			return nil, repository.CommandRecord{}, fmt.Errorf("task %s not in schedule %s", edit.TaskID, schedRec.ID)
		}
		moved := &domain.Task{
			ID:                  task.ID,
			ScheduleID:          task.ScheduleID,
			ContractedServiceID: task.ContractedServiceID,
			ConsultantID:        task.ConsultantID,
			Start:               edit.Start,
			End:                 edit.End,
			OnPremises:          task.OnPremises,
		}
		if err := moved.Validate(); err != nil {
			return nil, repository.CommandRecord{}, fmt.Errorf("%w: %v", schedule.ErrInvalidTask, err)
		}
		prevStart, prevEnd := task.Start, task.End
		newStart, newEnd := edit.Start, edit.End
		return schedule.MoveTask(sched, task, edit.Start, edit.End), repository.CommandRecord{
			Kind:                schedule.KindMoveTask.String(),
			TaskID:              task.ID,
			ContractedServiceID: task.ContractedServiceID,
			OnPremises:          task.OnPremises,
			PrevStart:           &prevStart,
			PrevEnd:             &prevEnd,
			NewStart:            &newStart,
			NewEnd:              &newEnd,
		}, nil

	default:
		return nil, repository.CommandRecord{}, fmt.Errorf("unknown edit kind %d", int(edit.Kind))
	}
}

// checkEdited runs the structural invariants after a changeset. Hour
// targets are deliberately not re-checked here: manual edits change
// the totals, and Validate reports those mismatches on demand.
func (s *scheduleService) checkEdited(sched *schedule.Schedule) error {
	if _, err := s.managers.For(sched); err != nil {
		return err
	}
	var violations []schedule.Violation
	violations = append(violations, schedule.CheckTasks(sched)...)
	violations = append(violations, schedule.CheckNoOverlap(sched)...)
	violations = append(violations, schedule.CheckWithinBounds(sched)...)
	violations = append(violations, schedule.CheckBusinessDays(sched, s.cal)...)
	if len(violations) > 0 {
		msgs := make([]string, len(violations))
		for i, v := range violations {
			msgs[i] = v.String()
		}
		return fmt.Errorf("%w: %s", schedule.ErrInvalidSchedule, strings.Join(msgs, "; "))
	}
	return nil
}

func (s *scheduleService) Undo(ctx context.Context, changesetID string) (err error) {
	started := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:     "schedule_undo_changeset",
			Duration: time.Since(started),
			Err:      err,
			Fields:   map[string]any{"changeset_id": changesetID},
		})
	}()

	csetRec, err := s.changesets.GetByID(ctx, changesetID)
	if err != nil {
		return err
	}
	schedRec, err := s.schedules.GetByID(ctx, csetRec.ScheduleID)
	if err != nil {
		return err
	}
	sched, err := s.materialize(schedRec)
	if err != nil {
		return err
	}

	// Invert each command in reverse order of execution.
	for i := len(csetRec.Commands) - 1; i >= 0; i-- {
		cmd := csetRec.Commands[i]
		switch cmd.Kind {
		case schedule.KindAddTask.String():
			task := findTask(sched, cmd.TaskID)
			if task == nil {
				return fmt.Errorf("undoing changeset %s: task %s no longer present", changesetID, cmd.TaskID)
			}
			sched.RemoveTask(task)
		case schedule.KindRemoveTask.String():
			if cmd.PrevStart == nil || cmd.PrevEnd == nil {
				return fmt.Errorf("changeset %s command %d has no previous bounds", changesetID, cmd.Seq)
			}
			sched.AddTask(&domain.Task{
				ID:                  cmd.TaskID,
				ScheduleID:          schedRec.ID,
				ContractedServiceID: cmd.ContractedServiceID,
				ConsultantID:        schedRec.ConsultantID,
				Start:               *cmd.PrevStart,
				End:                 *cmd.PrevEnd,
				OnPremises:          cmd.OnPremises,
			})
		case schedule.KindMoveTask.String():
			task := findTask(sched, cmd.TaskID)
			if task == nil {
				return fmt.Errorf("undoing changeset %s: task %s no longer present", changesetID, cmd.TaskID)
			}
			if cmd.PrevStart == nil || cmd.PrevEnd == nil {
				return fmt.Errorf("changeset %s command %d has no previous bounds", changesetID, cmd.Seq)
			}
			task.Start = *cmd.PrevStart
			task.End = *cmd.PrevEnd
		default:
			return fmt.Errorf("changeset %s command %d has unknown kind %q", changesetID, cmd.Seq, cmd.Kind)
		}
	}

	if err := s.checkEdited(sched); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		for i := len(csetRec.Commands) - 1; i >= 0; i-- {
			cmd := csetRec.Commands[i]
			switch cmd.Kind {
			case schedule.KindAddTask.String():
				if err := txTasks.Delete(ctx, cmd.TaskID); err != nil {
					return err
				}
			case schedule.KindRemoveTask.String():
				if err := txTasks.Create(ctx, findTask(sched, cmd.TaskID)); err != nil {
					return err
				}
			case schedule.KindMoveTask.String():
				if err := txTasks.Update(ctx, findTask(sched, cmd.TaskID)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func findTask(sched *schedule.Schedule, id string) *domain.Task {
	for _, t := range sched.Tasks() {
		if t.ID == id {
			return t
		}
	}
	return nil
}
