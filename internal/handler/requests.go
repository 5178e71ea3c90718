package handler

import (
	"github.com/hadywafa/DatabaseHub/internal/validation"
)

// EmptyRequest is used by endpoints without input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

type ListProblemsRequest struct {
	Topic string `query:"topic" validate:"omitempty,max=64"`
}

func (r *ListProblemsRequest) Validate() error {
	return validation.Struct(r)
}

type ProblemRequest struct {
	ID string `param:"id" validate:"required,problemid"`
}

func (r *ProblemRequest) Validate() error {
	return validation.Struct(r)
}

type ListRunsRequest struct {
	ID    string `param:"id" validate:"required,problemid"`
	Limit int    `query:"limit" validate:"min=0,max=100"`
}

func (r *ListRunsRequest) Validate() error {
	return validation.Struct(r)
}

type RunRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *RunRequest) Validate() error {
	return validation.Struct(r)
}

// EnqueueVerificationRequest queues a background verification. An empty
// list means every problem.
type EnqueueVerificationRequest struct {
	ProblemIDs []string `json:"problemIds" validate:"omitempty,max=50,dive,problemid"`
}

func (r *EnqueueVerificationRequest) Validate() error {
	return validation.Struct(r)
}

type RoadmapRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=done in-progress planned"`
}

func (r *RoadmapRequest) Validate() error {
	return validation.Struct(r)
}

type VideoRequest struct {
	ID string `param:"id" validate:"required,max=128"`
}

func (r *VideoRequest) Validate() error {
	return validation.Struct(r)
}
