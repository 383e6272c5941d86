package appointment

import (
	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
)

// ConflictDetail is one colliding occurrence, expressed in clinic-local
// wall clock for user messaging.
type ConflictDetail struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	PatientName string `json:"patient_name"`
}

type ConflictDetails struct {
	Conflicts []ConflictDetail `json:"conflicts"`
}

func buildConflictDetails(clk *clock.Service, conflicts []domain.Conflict) ConflictDetails {
	out := ConflictDetails{Conflicts: make([]ConflictDetail, 0, len(conflicts))}
	for _, c := range conflicts {
		date, timeStr := clk.ToLocal(c.Start)
		out.Conflicts = append(out.Conflicts, ConflictDetail{
			Date:        date,
			Time:        timeStr,
			PatientName: c.PatientName,
		})
	}
	return out
}
