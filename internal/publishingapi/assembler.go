package publishingapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"learningcenter/internal/httpapi"
	"learningcenter/internal/logging"
	"learningcenter/internal/publishing"
	"learningcenter/internal/services"
)

// ErrMalformedEnvelope reports a 200 list response that is neither a JSON
// array nor an object holding an array under the expected key.
var ErrMalformedEnvelope = fmt.Errorf("%w: list envelope", services.ErrMalformedResponse)

// listResources extracts the raw list items from resp. It returns ok=false
// for non-200 responses after logging them; those are recovered, not errors.
func listResources(resp *httpapi.Response, key string, logger *slog.Logger) ([]publishing.Resource, bool, error) {
	if resp == nil {
		return nil, false, fmt.Errorf("%w: %s: no response", ErrMalformedEnvelope, key)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error(fmt.Sprintf("%d, %s", resp.StatusCode, resp.StatusText()),
			logging.String(logging.FieldResource, key),
			logging.Int(logging.FieldStatus, resp.StatusCode),
		)
		return nil, false, nil
	}

	body := bytes.TrimSpace(resp.Body)
	var items []json.RawMessage
	switch {
	case len(body) > 0 && body[0] == '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, false, fmt.Errorf("%w: %s: %w", ErrMalformedEnvelope, key, err)
		}
	case len(body) > 0 && body[0] == '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, false, fmt.Errorf("%w: %s: %w", ErrMalformedEnvelope, key, err)
		}
		raw, found := envelope[key]
		if !found {
			return nil, false, fmt.Errorf("%w: missing %q key", ErrMalformedEnvelope, key)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			return nil, false, fmt.Errorf("%w: %q is not an array", ErrMalformedEnvelope, key)
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, false, fmt.Errorf("%w: %s: %w", ErrMalformedEnvelope, key, err)
		}
	default:
		return nil, false, fmt.Errorf("%w: %s: unexpected body", ErrMalformedEnvelope, key)
	}

	resources := make([]publishing.Resource, 0, len(items))
	for _, item := range items {
		resources = append(resources, toResource(item))
	}
	return resources, true, nil
}

// singleResource decodes a response holding exactly one object.
func singleResource(resp *httpapi.Response, key string) (publishing.Resource, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: %s: no response", services.ErrMalformedResponse, key)
	}
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 || body[0] != '{' {
		return nil, fmt.Errorf("%w: %s: expected object body", services.ErrMalformedResponse, key)
	}
	var resource publishing.Resource
	if err := resp.Decode(&resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// toResource never fails: list items that are not objects become empty
// resources and assemble into default entities.
func toResource(raw json.RawMessage) publishing.Resource {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return publishing.Resource{}
	}
	var resource publishing.Resource
	if err := json.Unmarshal(raw, &resource); err != nil {
		return publishing.Resource{}
	}
	return resource
}
