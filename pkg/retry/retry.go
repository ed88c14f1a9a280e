package retry

import "errors"

// ErrExhausted is returned when every attempt failed with a retryable error.
var ErrExhausted = errors.New("retry: attempts exhausted")

// Do runs fn up to attempts times. A retry only happens when retryable
// reports true for the returned error; any other error is returned as-is.
// The caller regenerates whatever collided (e.g. a candidate loan ID)
// inside fn itself.
func Do(attempts int, retryable func(error) bool, fn func() error) error {
	if attempts <= 0 {
		return ErrExhausted
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
	}
	return ErrExhausted
}
