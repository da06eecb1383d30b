package capture

import (
	"errors"
	"fmt"
)

// ErrCapture matches every *CaptureError with errors.Is.
var ErrCapture = errors.New("capture failed")

// Reason identifies the step at which a capture failed.
type Reason string

const (
	AllocationFailed  Reason = "allocation failed"
	NavigationTimeout Reason = "navigation failed"
	SnapshotFailed    Reason = "snapshot failed"
	TitleUnavailable  Reason = "title unavailable"
	TeardownFailed    Reason = "teardown failed"
)

// CaptureError is the single failed-capture result. No partial image accompanies it.
type CaptureError struct {
	Reason Reason
	URL    string
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("capture %s: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("capture %s: %s: %v", e.URL, e.Reason, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCapture.
func (e *CaptureError) Is(target error) bool {
	return target == ErrCapture
}

// ReasonOf returns the Reason of a capture error, or "" if err is not one.
func ReasonOf(err error) Reason {
	var ce *CaptureError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ""
}
