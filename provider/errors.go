package provider

import (
	"errors"
	"fmt"
)

// ErrNotFound covers every operation targeting an id that does not exist or
// is soft-deleted. Controllers translate it to a 404.
var ErrNotFound = errors.New("not found")

// ErrStoreUnavailable wraps backing-store failures. They are fatal for the
// current request and are never retried here.
var ErrStoreUnavailable = errors.New("store unavailable")

// ValidationError reports a field-length/range/count violation. It is always
// raised before any store access.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UnsupportedMediaError reports a photo upload with an undeclared or
// non-allowed content type, or a raw size over the upload ceiling.
type UnsupportedMediaError struct {
	Message string
}

func (e *UnsupportedMediaError) Error() string {
	return e.Message
}

func unsupportedMediaErrorf(format string, args ...interface{}) *UnsupportedMediaError {
	return &UnsupportedMediaError{Message: fmt.Sprintf(format, args...)}
}

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
