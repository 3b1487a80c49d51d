// Package http implements the REST transport of go-todo-keeper.
//
// It wires the chi router under /api/v1, decodes request bodies, resolves the
// principal from the access token and maps service errors onto the response
// envelope. Tracing, access logging, panic recovery, metrics and login
// throttling are handled here before requests reach the service layer.
package http
