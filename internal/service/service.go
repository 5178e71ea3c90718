// Package service contains the business logic.
//
// It sits between the handler and repository layers: handlers pass in
// validated input, services apply catalog rules, run verifications and
// call repositories or the job queue.
package service
