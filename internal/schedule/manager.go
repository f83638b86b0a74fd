package schedule

import (
	"fmt"
	"sort"
	"time"

	"ingaggio/internal/domain"
)

type slotKey struct {
	year  int
	month time.Month
	day   int
	hour  int
}

func keyFor(t time.Time) slotKey {
	y, m, d := t.Date()
	return slotKey{year: y, month: m, day: d, hour: t.Hour()}
}

// Manager maintains a denormalized lookup over a Schedule: a (day,
// hour) -> Slot map built once from the schedule's slot sequence, plus
// per-contracted-service task sets. Slot generation is the expensive,
// invariant part; task loading is cheap and re-run on demand.
type Manager struct {
	schedule  *Schedule
	slots     map[slotKey]*Slot
	byService map[string][]*domain.Task
}

// NewManager builds the slot index and loads the current task set.
func NewManager(s *Schedule) (*Manager, error) {
	m := &Manager{
		schedule: s,
		slots:    make(map[slotKey]*Slot, len(s.Slots())),
	}
	for _, slot := range s.Slots() {
		m.slots[keyFor(slot.Start())] = slot
	}
	if err := m.ReloadTasks(); err != nil {
		return nil, err
	}
	return m, nil
}

// Schedule returns the managed schedule.
func (m *Manager) Schedule() *Schedule { return m.schedule }

// SlotAt returns the slot covering instant t, or nil if t falls
// outside business hours.
func (m *Manager) SlotAt(t time.Time) *Slot {
	return m.slots[keyFor(t)]
}

// ReloadTasks clears every slot assignment, then re-walks the
// schedule's current task collection in start order, re-attaching each
// task to every slot its span covers. A task hour with no slot in the
// index is a fatal boundary violation.
func (m *Manager) ReloadTasks() error {
	for _, slot := range m.schedule.Slots() {
		slot.Clear()
	}
	m.byService = make(map[string][]*domain.Task)

	tasks := append([]*domain.Task(nil), m.schedule.Tasks()...)
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Start.Before(tasks[j].Start) })

	for _, t := range tasks {
		for h := t.Start; h.Before(t.End); h = h.Add(time.Hour) {
			slot, ok := m.slots[keyFor(h)]
			if !ok {
				return fmt.Errorf("%w: task %s covers %s which has no slot in schedule %s",
					ErrInvariant, t.ID, h.Format("2006-01-02 15:04"), m.schedule.ID())
			}
			if err := slot.Assign(t); err != nil {
				return err
			}
		}
		m.byService[t.ContractedServiceID] = append(m.byService[t.ContractedServiceID], t)
	}
	return nil
}

// TasksFor returns the managed schedule's tasks for one contracted
// service, sorted by start time. The slice is only valid until the
// next ReloadTasks.
func (m *Manager) TasksFor(contractedServiceID string) []*domain.Task {
	return m.byService[contractedServiceID]
}

// ManagerFactory caches one Manager per schedule identity. Rebuilding
// the slot index is the expensive part, so a cached manager is reused
// and refreshed (ReloadTasks) rather than reconstructed. Callers must
// not hold two managers for the same schedule with divergent task
// sets; there is no coordination between them.
type ManagerFactory struct {
	managers map[string]*Manager
}

func NewManagerFactory() *ManagerFactory {
	return &ManagerFactory{managers: make(map[string]*Manager)}
}

// For returns the cached manager for s, refreshing its task load, or
// builds one on first use. A manager cached for a different live
// object with the same identity is replaced, never shared.
func (f *ManagerFactory) For(s *Schedule) (*Manager, error) {
	if m, ok := f.managers[s.ID()]; ok && m.schedule == s {
		if err := m.ReloadTasks(); err != nil {
			return nil, err
		}
		return m, nil
	}
	m, err := NewManager(s)
	if err != nil {
		return nil, err
	}
	f.managers[s.ID()] = m
	return m, nil
}
