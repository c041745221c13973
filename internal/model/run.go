package model

import "time"

// RunStatus is the state of a cleaning run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunInputs names the sources a run reads.
type RunInputs struct {
	RawPath   string `json:"raw_path"`
	CodesPath string `json:"codes_path"`
}

// Run is one recorded execution of the cleaning pipeline.
type Run struct {
	ID         string    `json:"id"`
	Status     RunStatus `json:"status"`
	Inputs     RunInputs `json:"inputs"`
	Persons    int       `json:"persons"`
	Households int       `json:"households"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
