package schedule

import (
	"fmt"
	"time"

	"ingaggio/internal/calendar"
	"ingaggio/internal/domain"
)

// Violation is one failed schedule rule. A non-empty violation list is
// fatal for the operation that produced the schedule; violations are
// never auto-corrected.
type Violation struct {
	Rule    string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// CheckNoOverlap verifies that no two tasks of the schedule partially
// or fully overlap.
func CheckNoOverlap(s *Schedule) []Violation {
	var out []Violation
	tasks := s.Tasks()
	for i := 0; i < len(tasks); i++ {
		for j := i + 1; j < len(tasks); j++ {
			if tasks[i].Overlaps(tasks[j]) {
				out = append(out, Violation{
					Rule: "no_overlap",
					Message: fmt.Sprintf("task %s [%s, %s) overlaps task %s [%s, %s)",
						tasks[i].ID, tasks[i].Start.Format(time.RFC3339), tasks[i].End.Format(time.RFC3339),
						tasks[j].ID, tasks[j].Start.Format(time.RFC3339), tasks[j].End.Format(time.RFC3339)),
				})
			}
		}
	}
	return out
}

// CheckWithinBounds verifies that every task's [start, end) lies inside
// the schedule's [from, to] day range.
func CheckWithinBounds(s *Schedule) []Violation {
	var out []Violation
	for _, t := range s.Tasks() {
		if t.Start.Before(s.From()) || t.End.After(s.EndExclusive()) {
			out = append(out, Violation{
				Rule: "within_bounds",
				Message: fmt.Sprintf("task %s [%s, %s) outside schedule range [%s, %s]",
					t.ID, t.Start.Format(time.RFC3339), t.End.Format(time.RFC3339),
					s.From().Format("2006-01-02"), s.To().Format("2006-01-02")),
			})
		}
	}
	return out
}

// CheckHoursMatch verifies that, for every given contracted service,
// the schedule's task hours sum to the service's total target and the
// on-premises task hours sum to its on-premises target.
func CheckHoursMatch(s *Schedule, services []*domain.ContractedService) []Violation {
	var out []Violation
	for _, cs := range services {
		total, onPremises := 0, 0
		for _, t := range s.Tasks() {
			if t.ContractedServiceID != cs.ID {
				continue
			}
			total += t.Hours()
			if t.OnPremises {
				onPremises += t.Hours()
			}
		}
		if total != cs.Hours {
			out = append(out, Violation{
				Rule:    "hours_match",
				Message: fmt.Sprintf("contracted service %s: %d task hours, target %d", cs.ID, total, cs.Hours),
			})
		}
		if onPremises != cs.HoursOnPremises {
			out = append(out, Violation{
				Rule:    "hours_match",
				Message: fmt.Sprintf("contracted service %s: %d on-premises hours, target %d", cs.ID, onPremises, cs.HoursOnPremises),
			})
		}
	}
	return out
}

// CheckEligibilityWindows verifies that every task lies inside its
// contracted service's eligibility window, clamped to the schedule
// range. Tasks referencing an unknown service are skipped.
func CheckEligibilityWindows(s *Schedule, services []*domain.ContractedService) []Violation {
	byID := make(map[string]*domain.ContractedService, len(services))
	for _, cs := range services {
		byID[cs.ID] = cs
	}
	var out []Violation
	for _, t := range s.Tasks() {
		cs, ok := byID[t.ContractedServiceID]
		if !ok {
			continue
		}
		lo, hi := cs.Window(s.From(), s.To())
		if t.Start.Before(lo) || t.End.After(hi.AddDate(0, 0, 1)) {
			out = append(out, Violation{
				Rule: "eligibility_window",
				Message: fmt.Sprintf("task %s [%s, %s) outside contracted service %s window [%s, %s]",
					t.ID, t.Start.Format(time.RFC3339), t.End.Format(time.RFC3339),
					cs.ID, lo.Format("2006-01-02"), hi.Format("2006-01-02")),
			})
		}
	}
	return out
}

// CheckBusinessDays verifies that every task falls on a working day
// and inside the working-hour window.
func CheckBusinessDays(s *Schedule, cal *calendar.Calendar) []Violation {
	var out []Violation
	for _, t := range s.Tasks() {
		if !cal.IsWorkingDay(t.Start) {
			out = append(out, Violation{
				Rule:    "business_day",
				Message: fmt.Sprintf("task %s falls on non-working day %s", t.ID, t.Start.Format("2006-01-02")),
			})
			continue
		}
		if t.Start.Hour() < cal.DayStartHour() || t.End.Add(-time.Second).Hour() >= cal.DayEndHour() {
			out = append(out, Violation{
				Rule:    "business_day",
				Message: fmt.Sprintf("task %s [%s, %s) outside working hours", t.ID, t.Start.Format("15:04"), t.End.Format("15:04")),
			})
		}
	}
	return out
}

// CheckTasks runs each task's structural validation.
func CheckTasks(s *Schedule) []Violation {
	var out []Violation
	for _, t := range s.Tasks() {
		if err := t.Validate(); err != nil {
			out = append(out, Violation{Rule: "task", Message: err.Error()})
		}
	}
	return out
}

// Validate runs every schedule rule and returns the collected
// violations.
func Validate(s *Schedule, services []*domain.ContractedService, cal *calendar.Calendar) []Violation {
	var out []Violation
	out = append(out, CheckTasks(s)...)
	out = append(out, CheckNoOverlap(s)...)
	out = append(out, CheckWithinBounds(s)...)
	out = append(out, CheckBusinessDays(s, cal)...)
	out = append(out, CheckEligibilityWindows(s, services)...)
	out = append(out, CheckHoursMatch(s, services)...)
	return out
}
