package schedule

import (
	"testing"
	"time"

	"ingaggio/internal/calendar"
	"ingaggio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rulesOf(violations []Violation) []string {
	rules := make([]string, len(violations))
	for i, v := range violations {
		rules[i] = v.Rule
	}
	return rules
}

func TestCheckNoOverlap(t *testing.T) {
	s := newTestSchedule(t, 1)
	allocate(t, s, "t1", 2, 3)

	assert.Empty(t, CheckNoOverlap(s))

	// Overlapping task added behind the slots' back.
	s.AddTask(&domain.Task{
		ID:                  "t2",
		ContractedServiceID: "cs-2",
		Start:               s.SlotAt(3).Start(),
		End:                 s.SlotAt(5).End(),
	})

	violations := CheckNoOverlap(s)
	require.Len(t, violations, 1)
	assert.Equal(t, "no_overlap", violations[0].Rule)
}

func TestCheckWithinBounds(t *testing.T) {
	s := newTestSchedule(t, 1)
	allocate(t, s, "t1", 0)

	assert.Empty(t, CheckWithinBounds(s))

	s.AddTask(&domain.Task{
		ID:                  "t2",
		ContractedServiceID: "cs-2",
		Start:               day(2021, time.June, 25).Add(10 * time.Hour),
		End:                 day(2021, time.June, 25).Add(11 * time.Hour),
	})

	violations := CheckWithinBounds(s)
	require.Len(t, violations, 1)
	assert.Equal(t, "within_bounds", violations[0].Rule)
}

func TestCheckHoursMatch(t *testing.T) {
	s := newTestSchedule(t, 1)
	task := allocate(t, s, "t1", 2, 3)
	task.ContractedServiceID = "cs-1"
	task.OnPremises = true

	services := []*domain.ContractedService{{
		ID: "cs-1", ContractID: "c1", ServiceID: "sv1", ConsultantID: "cons-1",
		Hours: 2, HoursOnPremises: 2,
	}}
	assert.Empty(t, CheckHoursMatch(s, services))

	// Target raised: both the total and the on-premises sum miss.
	services[0].Hours = 5
	services[0].HoursOnPremises = 3
	violations := CheckHoursMatch(s, services)
	require.Len(t, violations, 2)
	assert.Equal(t, []string{"hours_match", "hours_match"}, rulesOf(violations))
}

func TestCheckBusinessDays(t *testing.T) {
	cal := calendar.New()
	s := newTestSchedule(t, 1)
	allocate(t, s, "t1", 2, 3)

	assert.Empty(t, CheckBusinessDays(s, cal))

	// Saturday inside the range plus a task past the working window.
	s.AddTask(&domain.Task{
		ID:                  "t2",
		ContractedServiceID: "cs-2",
		Start:               day(2021, time.June, 19).Add(10 * time.Hour),
		End:                 day(2021, time.June, 19).Add(11 * time.Hour),
	})
	s.AddTask(&domain.Task{
		ID:                  "t3",
		ContractedServiceID: "cs-3",
		Start:               day(2021, time.June, 21).Add(17 * time.Hour),
		End:                 day(2021, time.June, 21).Add(19 * time.Hour),
	})

	violations := CheckBusinessDays(s, cal)
	require.Len(t, violations, 2)
	assert.Equal(t, []string{"business_day", "business_day"}, rulesOf(violations))
}

func TestCheckEligibilityWindows(t *testing.T) {
	s := newTestSchedule(t, 1)
	// Friday task for a service whose window only opens the following
	// Monday.
	task := allocate(t, s, "t1", 2, 3)
	task.ContractedServiceID = "cs-1"

	from := day(2021, time.June, 21)
	to := day(2021, time.June, 24)
	services := []*domain.ContractedService{{
		ID: "cs-1", ContractID: "c1", ServiceID: "sv1", ConsultantID: "cons-1",
		Hours: 2, FromDate: &from, ToDate: &to,
	}}

	violations := CheckEligibilityWindows(s, services)
	require.Len(t, violations, 1)
	assert.Equal(t, "eligibility_window", violations[0].Rule)

	// Moved inside the window the task is fine again.
	task.Start = s.SlotAt(10).Start()
	task.End = s.SlotAt(11).End()
	assert.Empty(t, CheckEligibilityWindows(s, services))

	// A task referencing an unknown service is not this rule's concern.
	s.AddTask(&domain.Task{
		ID:                  "t2",
		ContractedServiceID: "cs-ghost",
		Start:               s.SlotAt(0).Start(),
		End:                 s.SlotAt(0).End(),
	})
	assert.Empty(t, CheckEligibilityWindows(s, services))
}

func TestCheckTasks(t *testing.T) {
	s := newTestSchedule(t, 1)
	s.AddTask(&domain.Task{
		ID:                  "t1",
		ContractedServiceID: "cs-1",
		Start:               s.SlotAt(3).Start(),
		End:                 s.SlotAt(2).Start(), // inverted
	})

	violations := CheckTasks(s)
	require.Len(t, violations, 1)
	assert.Equal(t, "task", violations[0].Rule)
}

func TestValidate_CollectsAllRules(t *testing.T) {
	cal := calendar.New()
	s := newTestSchedule(t, 1)
	task := allocate(t, s, "t1", 2, 3)
	task.ContractedServiceID = "cs-1"

	services := []*domain.ContractedService{{
		ID: "cs-1", ContractID: "c1", ServiceID: "sv1", ConsultantID: "cons-1",
		Hours: 2, HoursOnPremises: 0,
	}}
	assert.Empty(t, Validate(s, services, cal))

	// Break several rules at once.
	s.AddTask(&domain.Task{
		ID:                  "t2",
		ContractedServiceID: "cs-1",
		Start:               day(2021, time.June, 19).Add(10 * time.Hour),
		End:                 day(2021, time.June, 19).Add(12 * time.Hour),
	})

	violations := Validate(s, services, cal)
	rules := rulesOf(violations)
	assert.Contains(t, rules, "business_day")
	assert.Contains(t, rules, "hours_match")
}
