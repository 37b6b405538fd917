// Package client talks to the civic-complaints backend over HTTP/JSON.
//
// # Overview
//
// The package provides:
//  1. A transport contract (the Client interface) listing every backend
//     operation the client uses: complaint listing and detail, the admin
//     status transitions and messaging, the profile, and the legacy account
//     endpoints (login, register, departments, stats, complaint submission).
//  2. HTTPClient, the net/http implementation. It reads the bearer token from
//     a TokenSource on every call, attaches it as "Authorization: Bearer",
//     tags the request with an X-Request-ID and normalises responses.
//
// # Responses
//
// 204 yields a null result. Any other 2xx body is decoded as JSON. A non-2xx
// response becomes *APIError carrying the status code, the parsed body
// (or {"detail": <raw text>} when the body is not a JSON object) and a
// human-readable Detail.
//
// # Error Handling
//
// Sentinel errors are matched with errors.Is: ErrUnavailable (transport
// failure), and, through *APIError, ErrUnauthorized (401), ErrForbidden (403),
// ErrNotFound (404). The client never logs out by itself on 401; callers
// decide.
//
// There is no retry and no backoff. Every method honours ctx.
package client
