package schedule

import (
	"fmt"
	"time"

	"ingaggio/internal/domain"
)

// Slot is the atomic allocatable unit: one hour of one business day,
// holding at most one assigned task. Slots are created in bulk when a
// Schedule is constructed and never destroyed individually; only the
// task reference mutates.
type Slot struct {
	index int
	start time.Time
	end   time.Time
	task  *domain.Task
}

func newSlot(index int, start time.Time) *Slot {
	return &Slot{index: index, start: start, end: start.Add(time.Hour)}
}

// Index is the slot's position in its schedule's slot sequence. It is
// the slot's stable identity for index-keyed maps and distance search.
func (s *Slot) Index() int { return s.index }

func (s *Slot) Start() time.Time { return s.start }

func (s *Slot) End() time.Time { return s.end }

func (s *Slot) IsAllocated() bool { return s.task != nil }

func (s *Slot) IsFree() bool { return s.task == nil }

// Task returns the assigned task, or nil if the slot is free.
func (s *Slot) Task() *domain.Task { return s.task }

// Assign binds a task to this slot. Assigning to an already allocated
// slot is an invariant violation, never a recoverable condition.
func (s *Slot) Assign(t *domain.Task) error {
	if s.task != nil {
		return fmt.Errorf("%w: slot %d (%s) already allocated", ErrInvariant, s.index, s.start.Format("2006-01-02 15:04"))
	}
	s.task = t
	return nil
}

// Clear detaches the assigned task, if any.
func (s *Slot) Clear() { s.task = nil }
