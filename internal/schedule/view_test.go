package schedule

import (
	"testing"

	"ingaggio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsultantView_FiltersTasks(t *testing.T) {
	s := newTestSchedule(t, 1)
	mine := allocate(t, s, "t1", 0, 1)
	other := allocate(t, s, "t2", 3)
	other.ConsultantID = "cons-2"

	v := NewConsultantView(s, "cons-1")
	assert.Equal(t, "cons-1", v.ConsultantID())
	assert.Same(t, s, v.Schedule())

	got := v.Tasks()
	require.Len(t, got, 1)
	assert.Same(t, mine, got[0])
}

func TestConsultantView_MutationsRouteToParent(t *testing.T) {
	s := newTestSchedule(t, 1)
	v := NewConsultantView(s, "cons-1")

	task := &domain.Task{
		ID:                  "t1",
		ContractedServiceID: "cs-1",
		ConsultantID:        "cons-1",
		Start:               s.SlotAt(0).Start(),
		End:                 s.SlotAt(0).End(),
	}
	v.AddTask(task)
	require.Len(t, s.Tasks(), 1)
	assert.Len(t, v.Tasks(), 1)

	v.RemoveTask(task)
	assert.Empty(t, s.Tasks())
}
