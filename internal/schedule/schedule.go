// Package schedule implements the slot-allocation core: the Schedule
// and Slot model, free-slot search, the task command/changeset log and
// the invariant validators.
package schedule

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"ingaggio/internal/calendar"
	"ingaggio/internal/domain"
)

// Direction constrains a closest-free-slot search.
type Direction int

const (
	Both Direction = iota
	Before
	After
)

// Schedule is the work calendar for a bounded date range: a fixed,
// ordered sequence of one-hour slots generated once at construction
// (business hours only, weekends and holidays excluded) plus the task
// collection allocated onto them. The from/to bounds are immutable for
// the life of the object and slots are never regenerated.
type Schedule struct {
	id           string
	consultantID string
	from         time.Time
	to           time.Time
	slots        []*Slot
	tasks        []*domain.Task
	rng          *rand.Rand
}

// New builds a Schedule for the inclusive day range [from, to],
// generating slots for every working hour per cal. The rng drives
// every randomized slot choice; pass a seeded source in tests.
func New(id, consultantID string, from, to time.Time, cal *calendar.Calendar, rng *rand.Rand) (*Schedule, error) {
	from = truncateToDay(from)
	to = truncateToDay(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range ends %s before it starts %s",
			ErrInvalidSchedule, to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Schedule{
		id:           id,
		consultantID: consultantID,
		from:         from,
		to:           to,
		rng:          rng,
	}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !cal.IsWorkingDay(day) {
			continue
		}
		for hour := cal.DayStartHour(); hour < cal.DayEndHour(); hour++ {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			s.slots = append(s.slots, newSlot(len(s.slots), start))
		}
	}
	return s, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *Schedule) ID() string           { return s.id }
func (s *Schedule) ConsultantID() string { return s.consultantID }

// From is the first day of the range (inclusive, midnight).
func (s *Schedule) From() time.Time { return s.from }

// To is the last day of the range (inclusive, midnight).
func (s *Schedule) To() time.Time { return s.to }

// EndExclusive is the first instant past the schedule range.
func (s *Schedule) EndExclusive() time.Time { return s.to.AddDate(0, 0, 1) }

// Slots returns the generated slot sequence, ordered by start time.
func (s *Schedule) Slots() []*Slot { return s.slots }

// SlotAt returns the slot at the given index. The caller guarantees
// the index is in bounds.
func (s *Schedule) SlotAt(index int) *Slot { return s.slots[index] }

// Tasks returns the schedule's task collection in insertion order.
func (s *Schedule) Tasks() []*domain.Task { return s.tasks }

// AddTask appends t to the task collection and sets its back-reference.
// Adding a task that is already present is a no-op.
func (s *Schedule) AddTask(t *domain.Task) {
	if s.indexOfTask(t) >= 0 {
		return
	}
	t.ScheduleID = s.id
	s.tasks = append(s.tasks, t)
}

// RemoveTask removes t from the task collection and clears any slots
// assigned to it. Removing an absent task is a no-op.
func (s *Schedule) RemoveTask(t *domain.Task) {
	i := s.indexOfTask(t)
	if i < 0 {
		return
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	for _, slot := range s.slots {
		if slot.task == t || (t.ID != "" && slot.task != nil && slot.task.ID == t.ID) {
			slot.Clear()
		}
	}
}

func (s *Schedule) indexOfTask(t *domain.Task) int {
	for i, existing := range s.tasks {
		if existing == t || (t.ID != "" && existing.ID == t.ID) {
			return i
		}
	}
	return -1
}

// RandomFreeSlot picks a uniformly random free slot, optionally
// restricted to slots starting in [after, before). A random index is
// probed first; if it is allocated the search falls back to the
// closest free slot in a randomly chosen direction. This avoids
// clustering allocations at the start of the range.
func (s *Schedule) RandomFreeSlot(after, before *time.Time) (*Slot, error) {
	lo, hi := s.rangeIndexes(after, before)
	if lo > hi {
		return nil, fmt.Errorf("%w: no slots in requested range", ErrCapacityExhausted)
	}
	idx := lo + s.rng.Intn(hi-lo+1)
	if s.slots[idx].IsFree() {
		return s.slots[idx], nil
	}
	dir := Direction(s.rng.Intn(3))
	if slot := s.closestFreeSlotBounded(idx, dir, lo, hi); slot != nil {
		return slot, nil
	}
	// The picked direction may be empty while the other still has free
	// slots; retry unconstrained before reporting exhaustion.
	if slot := s.closestFreeSlotBounded(idx, Both, lo, hi); slot != nil {
		return slot, nil
	}
	return nil, fmt.Errorf("%w: no free slot between %s and %s",
		ErrCapacityExhausted,
		s.slots[lo].Start().Format("2006-01-02 15:04"),
		s.slots[hi].Start().Format("2006-01-02 15:04"))
}

// rangeIndexes maps optional time bounds onto slot indexes. after is
// inclusive, before exclusive. Returns lo > hi when no slot qualifies.
func (s *Schedule) rangeIndexes(after, before *time.Time) (int, int) {
	lo, hi := 0, len(s.slots)-1
	if after != nil {
		for lo <= hi && s.slots[lo].Start().Before(*after) {
			lo++
		}
	}
	if before != nil {
		for hi >= lo && !s.slots[hi].Start().Before(*before) {
			hi--
		}
	}
	return lo, hi
}

// ClosestFreeSlot scans outward from index for the nearest free slot in
// the given direction, or both. The slot at index itself qualifies when
// it is free. Equidistant candidates are broken by a uniform random
// choice. Returns nil when the required directions are exhausted. The
// caller guarantees index is in bounds.
func (s *Schedule) ClosestFreeSlot(index int, dir Direction) *Slot {
	return s.closestFreeSlotBounded(index, dir, 0, len(s.slots)-1)
}

func (s *Schedule) closestFreeSlotBounded(index int, dir Direction, lo, hi int) *Slot {
	if index >= lo && index <= hi && s.slots[index].IsFree() {
		return s.slots[index]
	}
	for dist := 1; ; dist++ {
		var before, after *Slot
		if dir != After {
			if i := index - dist; i >= lo && s.slots[i].IsFree() {
				before = s.slots[i]
			}
		}
		if dir != Before {
			if i := index + dist; i <= hi && s.slots[i].IsFree() {
				after = s.slots[i]
			}
		}
		switch {
		case before != nil && after != nil:
			if s.rng.Intn(2) == 0 {
				return before
			}
			return after
		case before != nil:
			return before
		case after != nil:
			return after
		}
		exhaustedBefore := dir == After || index-dist < lo
		exhaustedAfter := dir == Before || index+dist > hi
		if exhaustedBefore && exhaustedAfter {
			return nil
		}
	}
}

// ContiguousFreeSlots returns up to n free slots forming a contiguous
// same-day run adjacent to the anchor slot. When both neighbors of the
// anchor are allocated, the search relocates to the closest free slot
// anywhere in the schedule and builds the run around it. The returned
// slots are sorted by start time and a single task may span them
// without touching any allocated slot. Fails with ErrCapacityExhausted
// when no free slot remains.
func (s *Schedule) ContiguousFreeSlots(anchor *Slot, n int) ([]*Slot, error) {
	return s.ContiguousFreeSlotsWithin(anchor, n, nil, nil)
}

// ContiguousFreeSlotsWithin restricts the contiguous search to slots
// starting in [after, before): the runs stop at the restriction edges
// and the relocation fallback never leaves them.
func (s *Schedule) ContiguousFreeSlotsWithin(anchor *Slot, n int, after, before *time.Time) ([]*Slot, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: requested %d slots", ErrInvariant, n)
	}
	lo, hi := s.rangeIndexes(after, before)
	if lo > hi {
		return nil, fmt.Errorf("%w: no slots in requested range", ErrCapacityExhausted)
	}
	var left, right []*Slot
	if anchor.index >= lo && anchor.index <= hi {
		left = s.freeRunLeft(anchor.index, lo)
		right = s.freeRunRight(anchor.index, hi)
	}

	var run []*Slot
	switch {
	case len(left) == 0 && len(right) == 0:
		free := s.closestFreeSlotBounded(anchor.index, Both, lo, hi)
		if free == nil {
			return nil, fmt.Errorf("%w: no free slot between %s and %s",
				ErrCapacityExhausted,
				s.slots[lo].Start().Format("2006-01-02 15:04"),
				s.slots[hi].Start().Format("2006-01-02 15:04"))
		}
		run = s.runAround(free, n, lo, hi)
	case len(right) > len(left):
		run = right
	case len(left) > len(right):
		run = left
	default:
		if s.rng.Intn(2) == 0 {
			run = left
		} else {
			run = right
		}
	}

	if len(run) > n {
		if run[0].index < anchor.index {
			// Left run: keep the n slots nearest the anchor.
			run = run[len(run)-n:]
		} else {
			run = run[:n]
		}
	}
	sort.Slice(run, func(i, j int) bool { return run[i].start.Before(run[j].start) })
	return run, nil
}

// freeRunRight collects the contiguous free slots immediately after
// index, stopping at the first allocated slot, day change, or slot
// past hi.
func (s *Schedule) freeRunRight(index, hi int) []*Slot {
	var run []*Slot
	for i := index + 1; i <= hi && s.slots[i].IsFree(); i++ {
		if len(run) > 0 && !sameDay(run[0].start, s.slots[i].start) {
			break
		}
		run = append(run, s.slots[i])
	}
	return run
}

// freeRunLeft collects the contiguous free slots immediately before
// index and at or above lo, in ascending order.
func (s *Schedule) freeRunLeft(index, lo int) []*Slot {
	var run []*Slot
	for i := index - 1; i >= lo && s.slots[i].IsFree(); i-- {
		if len(run) > 0 && !sameDay(run[0].start, s.slots[i].start) {
			break
		}
		run = append(run, s.slots[i])
	}
	// Collected right-to-left; restore ascending order.
	for i, j := 0, len(run)-1; i < j; i, j = i+1, j-1 {
		run[i], run[j] = run[j], run[i]
	}
	return run
}

// runAround builds a contiguous same-day free run containing seed,
// extending forward first, then backward, up to n slots, staying
// inside [lo, hi].
func (s *Schedule) runAround(seed *Slot, n, lo, hi int) []*Slot {
	run := []*Slot{seed}
	for i := seed.index + 1; i <= hi && len(run) < n; i++ {
		if !s.slots[i].IsFree() || !sameDay(seed.start, s.slots[i].start) {
			break
		}
		run = append(run, s.slots[i])
	}
	for i := seed.index - 1; i >= lo && len(run) < n; i-- {
		if !s.slots[i].IsFree() || !sameDay(seed.start, s.slots[i].start) {
			break
		}
		run = append([]*Slot{s.slots[i]}, run...)
	}
	return run
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SlotsAllocatedTo counts slots whose task belongs to the given
// contracted service.
func (s *Schedule) SlotsAllocatedTo(contractedServiceID string) int {
	n := 0
	for _, slot := range s.slots {
		if slot.task != nil && slot.task.ContractedServiceID == contractedServiceID {
			n++
		}
	}
	return n
}

// OnPremisesSlotsAllocatedTo counts slots allocated to the given
// contracted service whose task carries the on-premises flag.
func (s *Schedule) OnPremisesSlotsAllocatedTo(contractedServiceID string) int {
	n := 0
	for _, slot := range s.slots {
		if slot.task != nil && slot.task.ContractedServiceID == contractedServiceID && slot.task.OnPremises {
			n++
		}
	}
	return n
}

// FreeSlotCount returns the number of unallocated slots.
func (s *Schedule) FreeSlotCount() int {
	n := 0
	for _, slot := range s.slots {
		if slot.IsFree() {
			n++
		}
	}
	return n
}

// AssertZeroOrOneTaskPerSlot verifies that no slot hour is covered by
// more than one task. A violation is a programming error in the
// allocator, surfaced as ErrInvariant and treated as fatal by callers.
func (s *Schedule) AssertZeroOrOneTaskPerSlot() error {
	covered := make(map[time.Time]*domain.Task, len(s.slots))
	for _, t := range s.tasks {
		for h := t.Start; h.Before(t.End); h = h.Add(time.Hour) {
			if prev, ok := covered[h]; ok {
				return fmt.Errorf("%w: slot %s covered by two tasks (%s and %s)",
					ErrInvariant, h.Format("2006-01-02 15:04"), prev.ID, t.ID)
			}
			covered[h] = t
		}
	}
	return nil
}
