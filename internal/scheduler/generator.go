// Package scheduler implements the greedy allocation algorithm that
// fills a schedule's free slots to satisfy every contracted service's
// hour targets.
package scheduler

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"ingaggio/internal/calendar"
	"ingaggio/internal/domain"
	"ingaggio/internal/schedule"
)

// maxBlockSlots caps how many contiguous slots a single expansion pass
// may claim for one contracted service.
const maxBlockSlots = 5

// watchdogLimit bounds the expansion passes. Every pass allocates at
// least one slot per unfinished service or fails with capacity
// exhaustion, so hitting this ceiling signals a convergence bug, not
// an infeasible request.
const watchdogLimit = 10000

// Generator produces a fully populated schedule for one consultant.
// All randomized choices (seed slot, search direction, on-premises
// coin flip, tie breaks) draw from the injected rng, so a seeded
// source makes generation reproducible.
type Generator struct {
	cal *calendar.Calendar
	rng *rand.Rand
}

func NewGenerator(cal *calendar.Calendar, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{cal: cal, rng: rng}
}

// Generate allocates tasks for every contracted service of the
// consultant into a new schedule spanning [from, to] (day precision,
// inclusive), matching each service's total and on-premises hour
// targets exactly. It fails, never returning a partial schedule, when
// the hours cannot fit (ErrCapacityExhausted), when the expansion loop
// does not converge (ErrWatchdogExceeded), or when the produced
// schedule violates an invariant (ErrInvariant).
func (g *Generator) Generate(consultant *domain.Consultant, services []*domain.ContractedService, from, to time.Time) (*schedule.Schedule, error) {
	sched, err := schedule.New(uuid.New().String(), consultant.ID, from, to, g.cal, g.rng)
	if err != nil {
		return nil, err
	}

	frontier, err := g.seed(sched, consultant, services)
	if err != nil {
		return nil, err
	}

	if err := g.expand(sched, services, frontier); err != nil {
		return nil, err
	}

	if err := sched.AssertZeroOrOneTaskPerSlot(); err != nil {
		return nil, err
	}
	if violations := schedule.Validate(sched, services, g.cal); len(violations) > 0 {
		msgs := make([]string, len(violations))
		for i, v := range violations {
			msgs[i] = v.String()
		}
		return nil, fmt.Errorf("%w: generated schedule failed validation: %s",
			schedule.ErrInvariant, strings.Join(msgs, "; "))
	}
	return sched, nil
}

// seed runs phase one: one single-hour task per contracted service on
// a random free slot inside the service's eligible window, with a
// randomly chosen on-premises flag.
func (g *Generator) seed(sched *schedule.Schedule, consultant *domain.Consultant, services []*domain.ContractedService) (map[string]*schedule.Slot, error) {
	frontier := make(map[string]*schedule.Slot, len(services))
	for _, cs := range services {
		if cs.ConsultantID != consultant.ID {
			return nil, fmt.Errorf("%w: contracted service %s belongs to consultant %s, not %s",
				schedule.ErrInvariant, cs.ID, cs.ConsultantID, consultant.ID)
		}
		if err := cs.Validate(); err != nil {
			return nil, fmt.Errorf("%w: contracted service %s: %v", schedule.ErrInvalidSchedule, cs.ID, err)
		}
		if cs.Hours == 0 {
			return nil, fmt.Errorf("%w: contracted service %s has zero hours", schedule.ErrInvalidSchedule, cs.ID)
		}

		lo, hi := cs.Window(sched.From(), sched.To())
		after := lo
		before := hi.AddDate(0, 0, 1)
		slot, err := sched.RandomFreeSlot(&after, &before)
		if err != nil {
			return nil, fmt.Errorf("seeding contracted service %s: %w", cs.ID, err)
		}

		task := &domain.Task{
			ID:                  uuid.New().String(),
			ContractedServiceID: cs.ID,
			ConsultantID:        cs.ConsultantID,
			Start:               slot.Start(),
			End:                 slot.End(),
			OnPremises:          g.chooseMode(minInt(cs.HoursOnPremises, 1), minInt(cs.HoursRemote(), 1)),
		}
		if err := slot.Assign(task); err != nil {
			return nil, err
		}
		sched.AddTask(task)
		frontier[cs.ID] = slot
	}
	return frontier, nil
}

// expand runs phase two: repeated passes over the per-service frontier
// slots, each pass claiming up to maxBlockSlots contiguous free slots
// near the frontier, inside the service's eligible window, and covering
// them with one task, until every service's allocated hours match its
// target. A service whose window runs out of free slots before its
// target is met fails with ErrCapacityExhausted.
func (g *Generator) expand(sched *schedule.Schedule, services []*domain.ContractedService, frontier map[string]*schedule.Slot) error {
	for pass := 0; ; pass++ {
		if pass >= watchdogLimit {
			return fmt.Errorf("%w: %d passes without converging", schedule.ErrWatchdogExceeded, pass)
		}

		done := true
		for _, cs := range services {
			allocated := sched.SlotsAllocatedTo(cs.ID)
			onPremises := sched.OnPremisesSlotsAllocatedTo(cs.ID)

			remaining := cs.Hours - allocated
			remainingOn := cs.HoursOnPremises - onPremises
			remainingOff := cs.HoursRemote() - (allocated - onPremises)
			if remaining < 0 || remainingOn < 0 || remainingOff < 0 {
				return fmt.Errorf("%w: contracted service %s over-allocated (total %d, on-premises %d, remote %d)",
					schedule.ErrInvariant, cs.ID, remaining, remainingOn, remainingOff)
			}
			if remaining == 0 {
				continue
			}
			done = false

			mode := g.chooseMode(remainingOn, remainingOff)
			want := remainingOff
			if mode {
				want = remainingOn
			}
			if want > maxBlockSlots {
				want = maxBlockSlots
			}

			lo, hi := cs.Window(sched.From(), sched.To())
			after := lo
			before := hi.AddDate(0, 0, 1)
			slots, err := sched.ContiguousFreeSlotsWithin(frontier[cs.ID], want, &after, &before)
			if err != nil {
				return fmt.Errorf("expanding contracted service %s: %w", cs.ID, err)
			}

			task := &domain.Task{
				ID:                  uuid.New().String(),
				ContractedServiceID: cs.ID,
				ConsultantID:        cs.ConsultantID,
				Start:               slots[0].Start(),
				End:                 slots[len(slots)-1].End(),
				OnPremises:          mode,
			}
			for _, slot := range slots {
				if err := slot.Assign(task); err != nil {
					return err
				}
			}
			sched.AddTask(task)
			frontier[cs.ID] = slots[len(slots)-1]
		}

		if done {
			return nil
		}
	}
}

// chooseMode decides a pass's on-premises flag: forced when one bucket
// is exhausted, otherwise a uniform coin flip.
func (g *Generator) chooseMode(remainingOn, remainingOff int) bool {
	if remainingOff == 0 {
		return true
	}
	if remainingOn == 0 {
		return false
	}
	return g.rng.Intn(2) == 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
