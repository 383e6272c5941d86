package appointment

import "github.com/quiroferreira/clinic-scheduler/internal/httperr"

// withRetry reruns fn while it fails with the transient code, up to
// maxRetries extra attempts. Every other outcome propagates unchanged; a
// persistently transient failure surfaces as transient.
func withRetry(maxRetries int, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = fn()
		if !httperr.IsBusiness(err, httperr.CodeTransient) {
			return err
		}
	}
	return err
}
