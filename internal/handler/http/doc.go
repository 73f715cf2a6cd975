// Package http implements the HTTP API of the TaskPro auth server.
//
// It wires the chi router, the request pipeline (tracing, access logging,
// security headers, origin checks, rate limiting, body caps, input
// sanitizing and timeouts) and the handlers of the /api/users routes.
// Handlers decode requests, call the service layer and translate service
// errors into JSON responses through one ordered error table.
package http
