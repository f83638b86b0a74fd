package schedule

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"ingaggio/internal/calendar"
	"ingaggio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestSchedule covers 2021-06-18 (a Friday) through 2021-06-24:
// five working days of ten slots each.
func newTestSchedule(t *testing.T, seed int64) *Schedule {
	t.Helper()
	s, err := New("sched-1", "cons-1",
		day(2021, time.June, 18), day(2021, time.June, 24),
		calendar.New(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return s
}

// allocate binds a fresh task to the given slot indexes, one task per
// contiguous hour block.
func allocate(t *testing.T, s *Schedule, id string, indexes ...int) *domain.Task {
	t.Helper()
	first, last := s.SlotAt(indexes[0]), s.SlotAt(indexes[len(indexes)-1])
	task := &domain.Task{
		ID:                  id,
		ContractedServiceID: "cs-" + id,
		ConsultantID:        "cons-1",
		Start:               first.Start(),
		End:                 last.End(),
	}
	for _, i := range indexes {
		require.NoError(t, s.SlotAt(i).Assign(task))
	}
	s.AddTask(task)
	return task
}

func TestNew_GeneratesBusinessSlots(t *testing.T) {
	s := newTestSchedule(t, 1)

	// Friday the 18th, then Monday 21 through Thursday 24.
	require.Len(t, s.Slots(), 50)

	assert.Equal(t, day(2021, time.June, 18).Add(8*time.Hour), s.SlotAt(0).Start())
	assert.Equal(t, day(2021, time.June, 18).Add(17*time.Hour), s.SlotAt(9).Start())
	assert.Equal(t, day(2021, time.June, 18).Add(18*time.Hour), s.SlotAt(9).End())

	// The weekend is skipped entirely.
	assert.Equal(t, day(2021, time.June, 21).Add(8*time.Hour), s.SlotAt(10).Start())

	for i, slot := range s.Slots() {
		assert.Equal(t, i, slot.Index())
		assert.True(t, slot.IsFree())
	}
}

func TestNew_SkipsHolidays(t *testing.T) {
	// 2021-06-02 (Festa della Repubblica) falls on a Wednesday.
	s, err := New("sched-1", "cons-1",
		day(2021, time.May, 31), day(2021, time.June, 4),
		calendar.New(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// Mon, Tue, Thu, Fri.
	require.Len(t, s.Slots(), 40)
	for _, slot := range s.Slots() {
		assert.NotEqual(t, 2, slot.Start().Day())
	}
}

func TestNew_RejectsInvertedRange(t *testing.T) {
	_, err := New("sched-1", "cons-1",
		day(2021, time.June, 24), day(2021, time.June, 18),
		calendar.New(), rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestNew_TruncatesBoundsToDays(t *testing.T) {
	s, err := New("sched-1", "cons-1",
		day(2021, time.June, 18).Add(13*time.Hour),
		day(2021, time.June, 18).Add(15*time.Hour),
		calendar.New(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, day(2021, time.June, 18), s.From())
	assert.Len(t, s.Slots(), 10)
}

func TestAddTask_Idempotent(t *testing.T) {
	s := newTestSchedule(t, 1)
	task := &domain.Task{
		ID:                  "t1",
		ContractedServiceID: "cs-1",
		Start:               s.SlotAt(0).Start(),
		End:                 s.SlotAt(0).End(),
	}

	s.AddTask(task)
	s.AddTask(task)

	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, "sched-1", task.ScheduleID)
}

func TestRemoveTask_ClearsSlotsAndIsIdempotent(t *testing.T) {
	s := newTestSchedule(t, 1)
	task := allocate(t, s, "t1", 3, 4)

	s.RemoveTask(task)
	s.RemoveTask(task)

	assert.Empty(t, s.Tasks())
	assert.True(t, s.SlotAt(3).IsFree())
	assert.True(t, s.SlotAt(4).IsFree())
}

func TestRemoveTask_MatchesByID(t *testing.T) {
	s := newTestSchedule(t, 1)
	allocate(t, s, "t1", 3)

	// A distinct object carrying the same ID removes the original.
	s.RemoveTask(&domain.Task{ID: "t1"})

	assert.Empty(t, s.Tasks())
	assert.True(t, s.SlotAt(3).IsFree())
}

func TestRandomFreeSlot_RespectsRange(t *testing.T) {
	s := newTestSchedule(t, 7)

	after := day(2021, time.June, 21)
	before := day(2021, time.June, 22)
	for i := 0; i < 50; i++ {
		slot, err := s.RandomFreeSlot(&after, &before)
		require.NoError(t, err)
		assert.Equal(t, 21, slot.Start().Day())
	}
}

func TestRandomFreeSlot_FallsBackToClosestFree(t *testing.T) {
	s := newTestSchedule(t, 7)

	// Keep only slot 42 free.
	for i := range s.Slots() {
		if i != 42 {
			allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
		}
	}

	for i := 0; i < 20; i++ {
		slot, err := s.RandomFreeSlot(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 42, slot.Index())
	}
}

func TestRandomFreeSlot_Exhausted(t *testing.T) {
	s := newTestSchedule(t, 7)
	for i := range s.Slots() {
		allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
	}

	_, err := s.RandomFreeSlot(nil, nil)
	assert.ErrorIs(t, err, ErrCapacityExhausted)
}

func TestRandomFreeSlot_EmptyRange(t *testing.T) {
	s := newTestSchedule(t, 7)

	// The weekend holds no slots at all.
	after := day(2021, time.June, 19)
	before := day(2021, time.June, 21)
	_, err := s.RandomFreeSlot(&after, &before)
	assert.ErrorIs(t, err, ErrCapacityExhausted)
}

func TestClosestFreeSlot_PicksNearest(t *testing.T) {
	s := newTestSchedule(t, 7)
	for _, i := range []int{19, 20, 21, 22} {
		allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
	}

	// From the allocated index 20: 23 is the nearest free going
	// forward, 18 the nearest going backward.
	got := s.ClosestFreeSlot(20, After)
	require.NotNil(t, got)
	assert.Equal(t, 23, got.Index())

	got = s.ClosestFreeSlot(20, Before)
	require.NotNil(t, got)
	assert.Equal(t, 18, got.Index())
}

func TestClosestFreeSlot_ReturnsIndexItselfWhenFree(t *testing.T) {
	s := newTestSchedule(t, 7)
	for i := range s.Slots() {
		if i != 42 {
			allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
		}
	}

	for _, dir := range []Direction{Both, Before, After} {
		slot := s.ClosestFreeSlot(42, dir)
		require.NotNil(t, slot)
		assert.Equal(t, 42, slot.Index())
	}
}

func TestClosestFreeSlot_BreaksTiesRandomly(t *testing.T) {
	s := newTestSchedule(t, 7)
	allocate(t, s, "t1", 20)

	// 19 and 21 are both free at distance 1; over many draws both
	// sides must be picked.
	seen := map[int]int{}
	for i := 0; i < 100; i++ {
		slot := s.ClosestFreeSlot(20, Both)
		require.NotNil(t, slot)
		seen[slot.Index()]++
	}
	assert.Len(t, seen, 2)
	assert.Positive(t, seen[19])
	assert.Positive(t, seen[21])
}

func TestClosestFreeSlot_ExhaustedDirection(t *testing.T) {
	s := newTestSchedule(t, 7)
	for i := 0; i < 5; i++ {
		allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
	}

	assert.Nil(t, s.ClosestFreeSlot(4, Before))

	slot := s.ClosestFreeSlot(4, Both)
	require.NotNil(t, slot)
	assert.Equal(t, 5, slot.Index())
}

func TestContiguousFreeSlots_ExtendsFromAnchor(t *testing.T) {
	s := newTestSchedule(t, 7)
	allocate(t, s, "t1", 3)

	slots, err := s.ContiguousFreeSlots(s.SlotAt(3), 3)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	// One contiguous run on one side of the anchor, sorted by start,
	// touching no allocated slot.
	for i, slot := range slots {
		assert.True(t, slot.IsFree())
		if i > 0 {
			assert.Equal(t, slots[i-1].Index()+1, slot.Index())
		}
	}
	first, last := slots[0].Index(), slots[len(slots)-1].Index()
	assert.True(t, last == 2 || first == 4, "run [%d, %d] must be adjacent to the anchor", first, last)
}

func TestContiguousFreeSlots_RunNeverCrossesDays(t *testing.T) {
	s := newTestSchedule(t, 7)
	// Anchor at the last Friday slot: the remaining Friday run holds
	// two slots, the full Monday is longer and wins, but the returned
	// run itself never spans both days.
	allocate(t, s, "t1", 9)
	for i := 0; i < 7; i++ {
		allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
	}

	slots, err := s.ContiguousFreeSlots(s.SlotAt(9), 5)
	require.NoError(t, err)
	require.Len(t, slots, 5)
	for _, slot := range slots {
		assert.Equal(t, 21, slot.Start().Day())
	}
	assert.Equal(t, 10, slots[0].Index())
}

func TestContiguousFreeSlots_PrefersShorterAdjacentRunOverNone(t *testing.T) {
	s := newTestSchedule(t, 7)
	// Friday slots 0-6 allocated, 7-9 free; Monday 08:00 allocated so
	// the right run stops immediately.
	for i := 0; i < 7; i++ {
		allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
	}
	allocate(t, s, "mon", 10)

	slots, err := s.ContiguousFreeSlots(s.SlotAt(9), 5)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 7, slots[0].Index())
	assert.Equal(t, 8, slots[1].Index())
}

func TestContiguousFreeSlots_RelocatesWhenNeighborhoodFull(t *testing.T) {
	s := newTestSchedule(t, 7)
	// Fill Friday completely; anchor sits inside the full day.
	for i := 0; i < 10; i++ {
		allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
	}

	slots, err := s.ContiguousFreeSlots(s.SlotAt(5), 4)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	for _, slot := range slots {
		assert.True(t, slot.IsFree())
		assert.Equal(t, 21, slot.Start().Day())
	}
}

func TestContiguousFreeSlotsWithin_StaysInsideRange(t *testing.T) {
	s := newTestSchedule(t, 7)
	// Anchor on the last Friday slot. Unrestricted, the free Monday run
	// would win; restricted to Friday the search must settle for the
	// shorter run before the anchor.
	allocate(t, s, "t1", 9)

	after := day(2021, time.June, 18)
	before := day(2021, time.June, 19)
	slots, err := s.ContiguousFreeSlotsWithin(s.SlotAt(9), 5, &after, &before)
	require.NoError(t, err)
	require.Len(t, slots, 5)
	for _, slot := range slots {
		assert.Equal(t, 18, slot.Start().Day())
	}
	assert.Equal(t, 8, slots[len(slots)-1].Index())
}

func TestContiguousFreeSlotsWithin_RelocationStaysInsideRange(t *testing.T) {
	s := newTestSchedule(t, 7)
	// Friday is fully allocated and the anchor sits inside it; the
	// relocation must land in the restricted Monday, not before.
	for i := 0; i < 10; i++ {
		allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
	}

	after := day(2021, time.June, 21)
	before := day(2021, time.June, 22)
	slots, err := s.ContiguousFreeSlotsWithin(s.SlotAt(5), 4, &after, &before)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	for _, slot := range slots {
		assert.Equal(t, 21, slot.Start().Day())
	}
}

func TestContiguousFreeSlotsWithin_ExhaustedRange(t *testing.T) {
	s := newTestSchedule(t, 7)
	// Fill Friday; restricting the search to it must fail even though
	// the rest of the schedule is free.
	for i := 0; i < 10; i++ {
		allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
	}

	after := day(2021, time.June, 18)
	before := day(2021, time.June, 19)
	_, err := s.ContiguousFreeSlotsWithin(s.SlotAt(5), 2, &after, &before)
	assert.ErrorIs(t, err, ErrCapacityExhausted)

	// A range holding no slots at all fails the same way.
	after = day(2021, time.June, 19)
	before = day(2021, time.June, 21)
	_, err = s.ContiguousFreeSlotsWithin(s.SlotAt(5), 2, &after, &before)
	assert.ErrorIs(t, err, ErrCapacityExhausted)
}

func TestContiguousFreeSlots_Exhausted(t *testing.T) {
	s := newTestSchedule(t, 7)
	for i := range s.Slots() {
		allocate(t, s, "t"+s.SlotAt(i).Start().Format("02-15"), i)
	}

	_, err := s.ContiguousFreeSlots(s.SlotAt(5), 2)
	assert.ErrorIs(t, err, ErrCapacityExhausted)
}

func TestSlotCounts(t *testing.T) {
	s := newTestSchedule(t, 7)

	onPrem := allocate(t, s, "t1", 0, 1)
	onPrem.OnPremises = true
	remote := allocate(t, s, "t2", 5)
	remote.ContractedServiceID = "cs-t1"

	assert.Equal(t, 3, s.SlotsAllocatedTo("cs-t1"))
	assert.Equal(t, 2, s.OnPremisesSlotsAllocatedTo("cs-t1"))
	assert.Equal(t, 47, s.FreeSlotCount())
}

func TestAssertZeroOrOneTaskPerSlot(t *testing.T) {
	s := newTestSchedule(t, 7)
	allocate(t, s, "t1", 2, 3)

	require.NoError(t, s.AssertZeroOrOneTaskPerSlot())

	// A second task covering 10:00 violates the invariant even though
	// it was never assigned to a slot.
	s.AddTask(&domain.Task{
		ID:                  "t2",
		ContractedServiceID: "cs-t2",
		Start:               s.SlotAt(2).Start(),
		End:                 s.SlotAt(2).End(),
	})

	err := s.AssertZeroOrOneTaskPerSlot()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestSlot_AssignTwiceFails(t *testing.T) {
	s := newTestSchedule(t, 7)
	allocate(t, s, "t1", 0)

	err := s.SlotAt(0).Assign(&domain.Task{ID: "t2"})
	assert.ErrorIs(t, err, ErrInvariant)
}
