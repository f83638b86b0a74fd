package schedule

import "errors"

// Sentinel error kinds for the allocation engine. Capacity and watchdog
// failures are deliberately distinct: the former means the contracted
// hours legitimately do not fit in the period, the latter means the
// allocator failed to converge and indicates a logic defect.
var (
	ErrCapacityExhausted = errors.New("no more slots available")
	ErrWatchdogExceeded  = errors.New("allocation watchdog exceeded")
	ErrInvariant         = errors.New("schedule invariant violated")
	ErrInvalidTask       = errors.New("invalid task")
	ErrInvalidSchedule   = errors.New("invalid schedule")
)
