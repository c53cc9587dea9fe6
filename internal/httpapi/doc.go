// Package httpapi is the base REST client for the learning platform API.
//
// Client owns the base URL, the HTTP transport, and request stamping (JSON
// content negotiation, user agent, X-Request-ID). Endpoint binds a Client to
// one resource path and exposes the five standard verbs. Neither type
// retries or interprets payloads: 2xx responses come back verbatim, while
// transport failures and non-2xx statuses come back as errors.
package httpapi
