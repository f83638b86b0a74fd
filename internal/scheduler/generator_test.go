package scheduler

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"ingaggio/internal/calendar"
	"ingaggio/internal/domain"
	"ingaggio/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testConsultant() *domain.Consultant {
	return &domain.Consultant{ID: "cons-1", Name: "Ada", Surname: "Rossi"}
}

func testService(id string, hours, onPremises int) *domain.ContractedService {
	return &domain.ContractedService{
		ID:              id,
		ContractID:      "c1",
		ServiceID:       "sv-" + id,
		ConsultantID:    "cons-1",
		Hours:           hours,
		HoursOnPremises: onPremises,
	}
}

func TestGenerate_MatchesHourTargetsExactly(t *testing.T) {
	cal := calendar.New()
	consultant := testConsultant()
	services := []*domain.ContractedService{
		testService("cs-1", 12, 4),
		testService("cs-2", 7, 0),
		testService("cs-3", 5, 5),
	}

	for seed := int64(0); seed < 20; seed++ {
		g := NewGenerator(cal, rand.New(rand.NewSource(seed)))
		sched, err := g.Generate(consultant, services,
			day(2021, time.June, 1), day(2021, time.June, 30))
		require.NoError(t, err, "seed %d", seed)

		for _, cs := range services {
			assert.Equal(t, cs.Hours, sched.SlotsAllocatedTo(cs.ID), "seed %d service %s", seed, cs.ID)
			assert.Equal(t, cs.HoursOnPremises, sched.OnPremisesSlotsAllocatedTo(cs.ID), "seed %d service %s", seed, cs.ID)
		}
		require.NoError(t, sched.AssertZeroOrOneTaskPerSlot(), "seed %d", seed)
		assert.Empty(t, schedule.Validate(sched, services, cal), "seed %d", seed)
	}
}

func TestGenerate_TasksNeverExceedBlockSize(t *testing.T) {
	cal := calendar.New()
	g := NewGenerator(cal, rand.New(rand.NewSource(3)))

	services := []*domain.ContractedService{testService("cs-1", 40, 0)}
	sched, err := g.Generate(testConsultant(), services,
		day(2021, time.June, 1), day(2021, time.June, 30))
	require.NoError(t, err)

	for _, task := range sched.Tasks() {
		assert.LessOrEqual(t, task.Hours(), maxBlockSlots)
		assert.NoError(t, task.Validate())
	}
}

func TestGenerate_FillsTightCapacityExactly(t *testing.T) {
	cal := calendar.New()
	// One working week: 2021-06-21 through 25, 50 slots.
	g := NewGenerator(cal, rand.New(rand.NewSource(11)))

	services := []*domain.ContractedService{
		testService("cs-1", 30, 10),
		testService("cs-2", 20, 0),
	}
	sched, err := g.Generate(testConsultant(), services,
		day(2021, time.June, 21), day(2021, time.June, 25))
	require.NoError(t, err)

	assert.Equal(t, 0, sched.FreeSlotCount())
}

func TestGenerate_CapacityExhausted(t *testing.T) {
	cal := calendar.New()
	g := NewGenerator(cal, rand.New(rand.NewSource(5)))

	// 11 hours into a single 10-slot day cannot fit.
	services := []*domain.ContractedService{testService("cs-1", 11, 0)}
	_, err := g.Generate(testConsultant(), services,
		day(2021, time.June, 18), day(2021, time.June, 18))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrCapacityExhausted))
}

func TestGenerate_RespectsEligibilityWindow(t *testing.T) {
	cal := calendar.New()

	from := day(2021, time.June, 23)
	to := day(2021, time.June, 24)
	windowed := testService("cs-1", 6, 0)
	windowed.FromDate = &from
	windowed.ToDate = &to

	for seed := int64(0); seed < 10; seed++ {
		g := NewGenerator(cal, rand.New(rand.NewSource(seed)))
		sched, err := g.Generate(testConsultant(), []*domain.ContractedService{windowed},
			day(2021, time.June, 14), day(2021, time.June, 30))
		require.NoError(t, err, "seed %d", seed)

		// Every allocated hour, seeded or expanded, must stay inside
		// the eligibility window.
		windowEnd := to.AddDate(0, 0, 1)
		require.NotEmpty(t, sched.Tasks())
		for _, task := range sched.Tasks() {
			assert.NoError(t, task.Validate())
			assert.False(t, task.Start.Before(from),
				"seed %d: task %s starts %s, window opens %s", seed, task.ID, task.Start, from)
			assert.False(t, task.End.After(windowEnd),
				"seed %d: task %s ends %s, window closes %s", seed, task.ID, task.End, windowEnd)
		}
	}
}

func TestGenerate_WindowCapacityExhausted(t *testing.T) {
	cal := calendar.New()

	// A single eligible day holds ten slots; fifteen hours cannot fit
	// even though the surrounding schedule has plenty of room.
	windowDay := day(2021, time.June, 23)
	overbooked := testService("cs-1", 15, 5)
	overbooked.FromDate = &windowDay
	overbooked.ToDate = &windowDay

	for seed := int64(0); seed < 5; seed++ {
		g := NewGenerator(cal, rand.New(rand.NewSource(seed)))
		_, err := g.Generate(testConsultant(), []*domain.ContractedService{overbooked},
			day(2021, time.June, 14), day(2021, time.June, 30))
		require.Error(t, err, "seed %d", seed)
		assert.ErrorIs(t, err, schedule.ErrCapacityExhausted, "seed %d", seed)
	}
}

func TestGenerate_ConsultantMismatch(t *testing.T) {
	cal := calendar.New()
	g := NewGenerator(cal, rand.New(rand.NewSource(1)))

	stray := testService("cs-1", 4, 0)
	stray.ConsultantID = "someone-else"

	_, err := g.Generate(testConsultant(), []*domain.ContractedService{stray},
		day(2021, time.June, 1), day(2021, time.June, 30))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrInvariant))
}

func TestGenerate_ZeroHoursService(t *testing.T) {
	cal := calendar.New()
	g := NewGenerator(cal, rand.New(rand.NewSource(1)))

	_, err := g.Generate(testConsultant(), []*domain.ContractedService{testService("cs-1", 0, 0)},
		day(2021, time.June, 1), day(2021, time.June, 30))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrInvalidSchedule))
}

func TestGenerate_InvalidService(t *testing.T) {
	cal := calendar.New()
	g := NewGenerator(cal, rand.New(rand.NewSource(1)))

	// On-premises hours exceeding the total fail structural validation.
	broken := testService("cs-1", 4, 6)
	_, err := g.Generate(testConsultant(), []*domain.ContractedService{broken},
		day(2021, time.June, 1), day(2021, time.June, 30))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrInvalidSchedule))
}

func TestGenerate_NoServicesYieldsEmptySchedule(t *testing.T) {
	cal := calendar.New()
	g := NewGenerator(cal, rand.New(rand.NewSource(1)))

	sched, err := g.Generate(testConsultant(), nil,
		day(2021, time.June, 1), day(2021, time.June, 30))
	require.NoError(t, err)
	assert.Empty(t, sched.Tasks())
	assert.Equal(t, len(sched.Slots()), sched.FreeSlotCount())
}

func TestGenerate_Deterministic(t *testing.T) {
	cal := calendar.New()
	services := []*domain.ContractedService{
		testService("cs-1", 10, 3),
		testService("cs-2", 8, 0),
	}

	run := func() []*domain.Task {
		g := NewGenerator(cal, rand.New(rand.NewSource(99)))
		sched, err := g.Generate(testConsultant(), services,
			day(2021, time.June, 1), day(2021, time.June, 30))
		require.NoError(t, err)
		return sched.Tasks()
	}

	first, second := run(), run()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Start.Equal(second[i].Start))
		assert.True(t, first[i].End.Equal(second[i].End))
		assert.Equal(t, first[i].ContractedServiceID, second[i].ContractedServiceID)
		assert.Equal(t, first[i].OnPremises, second[i].OnPremises)
	}
}
