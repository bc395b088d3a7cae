package ports

import "errors"

// TransientError marks a provider failure worth retrying (rate limits,
// timeouts, upstream 5xx). Providers wrap such errors so the retry policy
// can distinguish them from permanent rejections without importing
// provider SDKs.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as retryable. Returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
