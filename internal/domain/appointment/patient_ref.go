package appointment

import "github.com/quiroferreira/clinic-scheduler/internal/httperr"

// ===============================
// Patient Reference
// ===============================

type PatientKind string

const (
	PatientMember    PatientKind = "member"
	PatientDependent PatientKind = "dependent"
	PatientPrivate   PatientKind = "private"
)

// PatientRef is the tagged variant behind the three mutually exclusive id
// fields of the transport layer. Construct it through NewPatientRef so the
// exactly-one invariant holds at the type boundary.
type PatientRef struct {
	Kind PatientKind
	ID   uint
}

func NewPatientRef(memberID, dependentID, privatePatientID *uint) (PatientRef, error) {
	set := 0
	var ref PatientRef

	if memberID != nil {
		set++
		ref = PatientRef{Kind: PatientMember, ID: *memberID}
	}
	if dependentID != nil {
		set++
		ref = PatientRef{Kind: PatientDependent, ID: *dependentID}
	}
	if privatePatientID != nil {
		set++
		ref = PatientRef{Kind: PatientPrivate, ID: *privatePatientID}
	}

	if set != 1 {
		return PatientRef{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	return ref, nil
}

// Columns splits the reference back into the three nullable FK columns.
func (r PatientRef) Columns() (memberID, dependentID, privatePatientID *uint) {
	id := r.ID
	switch r.Kind {
	case PatientMember:
		return &id, nil, nil
	case PatientDependent:
		return nil, &id, nil
	case PatientPrivate:
		return nil, nil, &id
	}
	return nil, nil, nil
}
