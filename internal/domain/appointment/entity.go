package appointment

import (
	"time"

	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel transitions scheduled → cancelled and records the audit triplet.
// The slot is free again as soon as the row is persisted, since conflict
// detection ignores cancelled appointments.
func Cancel(ap *models.Appointment, by uint, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancelledBy = &by
	if reason != "" {
		ap.CancellationReason = &reason
	}
	return nil
}

// Complete transitions scheduled → completed. Completed appointments keep
// blocking their slot.
func Complete(ap *models.Appointment) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	return nil
}
