// Package http implements the read-only status API of a modeling run.
//
// # Routes
//
//	GET /healthz        liveness and per-state model counts
//	GET /models         every model status, sorted by name
//	GET /models/{name}  one model status, 404 when unknown
//
// Handlers render JSON through chi/render. Errors are rendered as
// errors.APIError values so clients always receive a status code, an error
// code, and a message.
package http
