package domain

import (
	"fmt"
	"time"
)

// ContractedService is the commitment of one consultant to perform one
// service for one recipient under a contract, for a fixed number of
// hours split into on-premises and remote portions. At most one
// ContractedService exists per (contract, service, consultant) triple.
type ContractedService struct {
	ID           string
	ContractID   string
	ServiceID    string
	ConsultantID string

	Hours           int
	HoursOnPremises int

	// Optional eligibility window bounding when this service's tasks
	// may be scheduled. Nil means the full schedule range.
	FromDate *time.Time
	ToDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoursRemote is derived: total hours minus on-premises hours.
func (cs *ContractedService) HoursRemote() int {
	return cs.Hours - cs.HoursOnPremises
}

func (cs *ContractedService) Validate() error {
	if cs.ContractID == "" {
		return fmt.Errorf("contracted service has no contract")
	}
	if cs.ServiceID == "" {
		return fmt.Errorf("contracted service has no service")
	}
	if cs.ConsultantID == "" {
		return fmt.Errorf("contracted service has no consultant")
	}
	if cs.Hours < 0 {
		return fmt.Errorf("hours must be non-negative, got %d", cs.Hours)
	}
	if cs.HoursOnPremises < 0 {
		return fmt.Errorf("on-premises hours must be non-negative, got %d", cs.HoursOnPremises)
	}
	if cs.HoursOnPremises > cs.Hours {
		return fmt.Errorf("on-premises hours %d exceed total hours %d", cs.HoursOnPremises, cs.Hours)
	}
	if cs.FromDate != nil && cs.ToDate != nil && cs.ToDate.Before(*cs.FromDate) {
		return fmt.Errorf("eligibility window ends before it starts")
	}
	return nil
}

// Window clamps the service's eligibility window to the given range and
// returns the effective [from, to] bounds for scheduling its tasks.
func (cs *ContractedService) Window(from, to time.Time) (time.Time, time.Time) {
	lo, hi := from, to
	if cs.FromDate != nil && cs.FromDate.After(lo) {
		lo = *cs.FromDate
	}
	if cs.ToDate != nil && cs.ToDate.Before(hi) {
		hi = *cs.ToDate
	}
	return lo, hi
}
