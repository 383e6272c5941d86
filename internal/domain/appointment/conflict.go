package appointment

import (
	"time"

	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

// ===============================
// Conflict Detection
// ===============================

// Candidate is one proposed half-open slot [Start, End).
type Candidate struct {
	Start time.Time
	End   time.Time
}

// Conflict reports one candidate that collides with an existing
// non-cancelled appointment. PatientName identifies the occupant for user
// messaging.
type Conflict struct {
	CandidateIndex int
	Start          time.Time
	PatientName    string
}

// DetectConflicts matches every candidate against the snapshot of existing
// appointments. Two half-open intervals [a1,a2) and [b1,b2) collide iff
// a1 < b2 && b1 < a2, so back-to-back slots never conflict.
//
// When several existing appointments hit one candidate, the
// earliest-starting one is reported; ties break on the smaller id. The
// snapshot must exclude cancelled rows.
func DetectConflicts(candidates []Candidate, existing []models.Appointment) []Conflict {
	var conflicts []Conflict

	for i, cand := range candidates {
		var hit *models.Appointment

		for j := range existing {
			ex := &existing[j]
			if !overlaps(cand.Start, cand.End, ex.StartAt, ex.EndAt()) {
				continue
			}
			if hit == nil || earlier(ex, hit) {
				hit = ex
			}
		}

		if hit != nil {
			conflicts = append(conflicts, Conflict{
				CandidateIndex: i,
				Start:          cand.Start,
				PatientName:    hit.PatientName(),
			})
		}
	}

	return conflicts
}

func overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

func earlier(a, b *models.Appointment) bool {
	if a.StartAt.Equal(b.StartAt) {
		return a.ID < b.ID
	}
	return a.StartAt.Before(b.StartAt)
}
