package schedule

import "ingaggio/internal/domain"

// ConsultantView is a read-filtered projection of a Schedule exposing
// only one consultant's tasks. It holds a reference into the parent
// schedule rather than a copy; mutations always route through the
// owning schedule's AddTask/RemoveTask.
type ConsultantView struct {
	schedule     *Schedule
	consultantID string
}

// NewConsultantView wraps s with a filter on the given consultant.
func NewConsultantView(s *Schedule, consultantID string) *ConsultantView {
	return &ConsultantView{schedule: s, consultantID: consultantID}
}

func (v *ConsultantView) ConsultantID() string { return v.consultantID }

// Schedule returns the underlying schedule.
func (v *ConsultantView) Schedule() *Schedule { return v.schedule }

// Tasks returns the parent schedule's tasks belonging to the viewed
// consultant, in the parent's order.
func (v *ConsultantView) Tasks() []*domain.Task {
	var out []*domain.Task
	for _, t := range v.schedule.Tasks() {
		if t.ConsultantID == v.consultantID {
			out = append(out, t)
		}
	}
	return out
}

// AddTask delegates to the owning schedule.
func (v *ConsultantView) AddTask(t *domain.Task) {
	v.schedule.AddTask(t)
}

// RemoveTask delegates to the owning schedule.
func (v *ConsultantView) RemoveTask(t *domain.Task) {
	v.schedule.RemoveTask(t)
}
