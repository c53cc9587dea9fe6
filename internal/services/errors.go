package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTransport         = errors.New("transport failure")
	ErrStatus            = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNotFound          = errors.New("not found")
	ErrConfiguration     = errors.New("configuration error")
)

// Wrap builds an error message that includes resource and operation context
// while tagging it with the provided marker for later classification. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, resource, operation, message string, err error) error {
	detail := buildDetail(resource, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to a short label suitable for CLI output.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrStatus):
		return "server"
	case errors.Is(err, ErrMalformedResponse):
		return "response"
	case errors.Is(err, ErrConfiguration):
		return "config"
	default:
		return "transport"
	}
}

func buildDetail(resource, operation, message string) string {
	parts := make([]string, 0, 3)
	if resource = strings.TrimSpace(resource); resource != "" {
		parts = append(parts, resource)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
