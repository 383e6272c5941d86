package httperr

import "errors"

// Stable business codes of the scheduling core. The HTTP adapter localizes
// messages; these codes never change.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeNoSchedulingAccess = "no_scheduling_access"
	CodeConflict           = "conflict"
	CodeNotFound           = "not_found"
	CodeIllegalTransition  = "illegal_transition"
	CodeTransient          = "transient"
	CodeInternal           = "internal"
)

type BusinessError struct {
	Code    string
	Details any
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessWithDetails(code string, details any) error {
	return BusinessError{Code: code, Details: details}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
