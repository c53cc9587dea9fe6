package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"learningcenter/internal/services"
)

// Endpoint binds a Client to one resource path and issues the standard REST
// verbs against it.
type Endpoint struct {
	client *Client
	path   string
}

// NewEndpoint returns an endpoint for path (e.g. "/categories").
func NewEndpoint(client *Client, path string) *Endpoint {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	return &Endpoint{client: client, path: path}
}

// Path returns the normalized endpoint path.
func (e *Endpoint) Path() string { return e.path }

// GetAll issues GET {path}.
func (e *Endpoint) GetAll(ctx context.Context) (*Response, error) {
	return e.client.Do(ctx, http.MethodGet, e.path, nil)
}

// GetByID issues GET {path}/{id}.
func (e *Endpoint) GetByID(ctx context.Context, id string) (*Response, error) {
	target, err := e.itemPath(id)
	if err != nil {
		return nil, err
	}
	return e.client.Do(ctx, http.MethodGet, target, nil)
}

// Create issues POST {path} with resource as the JSON body.
func (e *Endpoint) Create(ctx context.Context, resource any) (*Response, error) {
	return e.client.Do(ctx, http.MethodPost, e.path, resource)
}

// Update issues PUT {path}/{id} with resource as the JSON body.
func (e *Endpoint) Update(ctx context.Context, id string, resource any) (*Response, error) {
	target, err := e.itemPath(id)
	if err != nil {
		return nil, err
	}
	return e.client.Do(ctx, http.MethodPut, target, resource)
}

// Delete issues DELETE {path}/{id}.
func (e *Endpoint) Delete(ctx context.Context, id string) (*Response, error) {
	target, err := e.itemPath(id)
	if err != nil {
		return nil, err
	}
	return e.client.Do(ctx, http.MethodDelete, target, nil)
}

func (e *Endpoint) itemPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", services.Wrap(services.ErrNotFound, strings.TrimPrefix(e.path, "/"), "", "empty resource id", nil)
	}
	return e.path + "/" + url.PathEscape(id), nil
}
