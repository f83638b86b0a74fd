package domain

import (
	"fmt"
	"time"
)

// Task is one continuous block of work for one contracted service.
// End is exclusive: a task occupying the 10:00 and 11:00 slots has
// Start 10:00 and End 12:00.
type Task struct {
	ID                  string
	ScheduleID          string
	ContractedServiceID string
	ConsultantID        string
	Start               time.Time
	End                 time.Time
	OnPremises          bool
}

// Hours returns the task's duration in whole hours.
func (t *Task) Hours() int {
	return int(t.End.Sub(t.Start) / time.Hour)
}

// Validate enforces the structural task invariants: positive duration,
// hour-aligned boundaries, start and end on the same calendar day.
func (t *Task) Validate() error {
	if t.ContractedServiceID == "" {
		return fmt.Errorf("task has no contracted service")
	}
	if !t.Start.Before(t.End) {
		return fmt.Errorf("task start %s is not before end %s", t.Start, t.End)
	}
	if !t.Start.Equal(t.Start.Truncate(time.Hour)) || !t.End.Equal(t.End.Truncate(time.Hour)) {
		return fmt.Errorf("task boundaries must align to hour boundaries")
	}
	sy, sm, sd := t.Start.Date()
	ey, em, ed := t.End.Add(-time.Second).Date()
	if sy != ey || sm != em || sd != ed {
		return fmt.Errorf("task crosses a day boundary (%s to %s)", t.Start, t.End)
	}
	return nil
}

// Overlaps reports whether the two tasks' [start, end) intervals intersect.
func (t *Task) Overlaps(other *Task) bool {
	return t.Start.Before(other.End) && other.Start.Before(t.End)
}

// Covers reports whether instant ts falls inside the task's [start, end).
func (t *Task) Covers(ts time.Time) bool {
	return !ts.Before(t.Start) && ts.Before(t.End)
}
