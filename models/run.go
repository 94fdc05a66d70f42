package models

import (
	"time"
)

// StepStatus is the outcome of one verification step.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// Step names, in call order.
const (
	StepLayer2Info       = "layer2_basic_info"
	StepOrderBooks       = "order_books"
	StepOrderBookDetails = "order_book_details"
	StepRecentTrades     = "recent_trades"
	StepCurrentHeight    = "current_height"
	StepBlockByHeight    = "block_by_height"
)

// StepResult records one step of a verification run.
type StepResult struct {
	Name      string        `json:"name"`
	Status    StepStatus    `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// RunReport summarises one verification run.
type RunReport struct {
	RunID      string       `json:"run_id"`
	Host       string       `json:"host"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Success    bool         `json:"success"`
	Error      string       `json:"error,omitempty"`
	MarketID   *int64       `json:"market_id,omitempty"`
	Height     *int64       `json:"height,omitempty"`
	Steps      []StepResult `json:"steps"`
}

// Step returns the result recorded under name.
func (r *RunReport) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Duration is the wall time between start and finish.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
