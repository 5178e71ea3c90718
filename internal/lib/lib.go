// Package lib holds integrations that sit beside the layered packages:
// background jobs (asynq over Redis), report emails (Resend) and small
// output helpers.
package lib
