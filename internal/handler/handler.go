// Package handler is the HTTP layer behind the router.
//
// Handlers bind and validate requests through the validation package, call
// a service and write the JSON response. Typed handlers go through Handle so
// binding, logging and tracing are the same for every endpoint.
package handler
