// Package errs defines the error shapes the API returns to clients.
//
// Every client-visible failure ends up as an *HTTPError so responses
// keep one JSON schema: a machine code, a message, the status, and
// optional field-level errors.
package errs
