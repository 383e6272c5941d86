package appointment

import "github.com/quiroferreira/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ===============================
// Validations
// ===============================

// CanCancel: only scheduled appointments may be cancelled. Cancelled and
// completed are terminal.
func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness(httperr.CodeIllegalTransition)
	}
	return nil
}

// CanComplete: only scheduled appointments may be completed.
func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness(httperr.CodeIllegalTransition)
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
