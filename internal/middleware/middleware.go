// Package middleware holds the global and route-specific echo middleware:
// authentication (Clerk), request context and logging, CORS, rate
// limiting, metrics, tracing and panic recovery.
package middleware
