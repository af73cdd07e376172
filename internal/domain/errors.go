package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogUnavailable means the format list could not be fetched or decoded.
	ErrCatalogUnavailable = errors.New("format catalog unavailable")
	// ErrInvalidRequest means a required field was missing; nothing was sent.
	ErrInvalidRequest = errors.New("invalid conversion request")
	// ErrConversionFailed matches every *ConversionError.
	ErrConversionFailed = errors.New("conversion failed")
	// ErrRawTextNotSupported means the target cannot be shown as raw text.
	ErrRawTextNotSupported = errors.New("format cannot be shown as raw text")
)

// ConversionError reports a failed call to the conversion endpoint.
type ConversionError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Message    string
	Err        error
}

func (e *ConversionError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("conversion failed (status %d): %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("conversion failed (status %d)", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("conversion failed: %v", e.Err)
	default:
		return "conversion failed: " + e.Message
	}
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrConversionFailed) match any ConversionError.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversionFailed
}
