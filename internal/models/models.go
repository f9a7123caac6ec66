package models

import (
	"time"
)

// Dataset represents an uploaded edge-list graph
type Dataset struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Status    DatasetStatus   `json:"status"`
	Metadata  DatasetMetadata `json:"metadata"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type DatasetStatus string

const (
	DatasetStatusReady   DatasetStatus = "ready"
	DatasetStatusDeleted DatasetStatus = "deleted"
)

type DatasetMetadata struct {
	NodeCount int   `json:"nodeCount"`
	EdgeCount int   `json:"edgeCount"`
	FileSize  int64 `json:"fileSize"`
}

// Job represents an influence computation job
type Job struct {
	ID          string        `json:"id"`
	DatasetID   string        `json:"datasetId"`
	Operation   OperationType `json:"operation"`
	Parameters  JobParameters `json:"parameters"`
	Status      JobStatus     `json:"status"`
	Progress    JobProgress   `json:"progress"`
	Result      *JobResult    `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	StartedAt   *time.Time    `json:"startedAt,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

type OperationType string

const (
	OperationSimulate OperationType = "simulate"
	OperationEstimate OperationType = "estimate"
	OperationCELF     OperationType = "celf"
)

type JobParameters struct {
	// CELF parameters
	K *int `json:"k,omitempty"`

	// Simulation / estimation parameters
	Seeds       []string `json:"seeds,omitempty"`
	Trials      *int     `json:"trials,omitempty"`
	MaxSteps    *int     `json:"maxSteps,omitempty"`
	ProbAttr    *string  `json:"probAttr,omitempty"`
	DefaultProb *float64 `json:"defaultProb,omitempty"`
	RandomSeed  *int64   `json:"randomSeed,omitempty"`
}

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

type JobProgress struct {
	Percentage int    `json:"percentage"`
	Message    string `json:"message"`
}

// JobResult summarizes a completed job. Operation-specific fields are
// populated depending on the job's OperationType. Numeric fields have no
// omitempty: a zero steps count or zero spread is a legitimate result and
// must survive serialization.
type JobResult struct {
	// celf
	Seeds          []string  `json:"seeds,omitempty"`
	Gains          []float64 `json:"gains,omitempty"`
	ExpectedSpread float64   `json:"expectedSpread"`

	// simulate
	Activated []string `json:"activated,omitempty"`
	Steps     int      `json:"steps"`

	// estimate
	SpreadMean   float64 `json:"spreadMean"`
	SpreadStdDev float64 `json:"spreadStdDev"`
	Trials       int     `json:"trials"`

	ProcessingTimeMS int64                  `json:"processingTimeMS"`
	Statistics       map[string]interface{} `json:"statistics,omitempty"`
}

// BaselineResult is the response payload for baseline seed selection
type BaselineResult struct {
	Method string   `json:"method"`
	K      int      `json:"k"`
	Seeds  []string `json:"seeds"`
}

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// UploadResponse is returned after a successful dataset upload
type UploadResponse struct {
	DatasetID string  `json:"datasetId"`
	Dataset   Dataset `json:"dataset"`
}

// JobRequest is the payload for starting a job
type JobRequest struct {
	Operation  OperationType `json:"operation"`
	Parameters JobParameters `json:"parameters"`
}
