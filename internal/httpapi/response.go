package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"learningcenter/internal/services"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Method     string
	URL        string
	RequestID  string
}

// StatusText returns the reason phrase, e.g. "Not Found".
func (r *Response) StatusText() string {
	if r == nil {
		return ""
	}
	code := fmt.Sprintf("%d", r.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(r.Status, code)); text != "" {
		return text
	}
	return http.StatusText(r.StatusCode)
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("decode response: %w", services.ErrMalformedResponse)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", services.ErrMalformedResponse, r.Method, r.URL, err)
	}
	return nil
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Response *Response
}

func (e *StatusError) Error() string {
	resp := e.Response
	return fmt.Sprintf("%s %s returned %d %s", resp.Method, resp.URL, resp.StatusCode, resp.StatusText())
}

// Unwrap exposes the classification markers so callers can use errors.Is
// with services.ErrStatus (always) and services.ErrNotFound (404 only).
func (e *StatusError) Unwrap() []error {
	if e.Response != nil && e.Response.StatusCode == http.StatusNotFound {
		return []error{services.ErrStatus, services.ErrNotFound}
	}
	return []error{services.ErrStatus}
}
