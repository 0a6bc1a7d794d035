package model

import (
	"encoding/json"
	"time"
)

// AgentRun is a persisted agent execution.
type AgentRun struct {
	ID         string
	UserID     int64
	Query      string
	Answer     string
	Steps      json.RawMessage
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunRequest asks the agent to answer a query.
type RunRequest struct {
	Query string `json:"query"`
}

// RunStep is one tool call of a run as exposed by the API.
type RunStep struct {
	Tool        string         `json:"tool"`
	Args        map[string]any `json:"args,omitempty"`
	Observation string         `json:"observation"`
	Failed      bool           `json:"failed,omitempty"`
}

// RunResponse represents a run in API responses.
type RunResponse struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Answer     string    `json:"answer"`
	Steps      []RunStep `json:"steps"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// ToolInvokeResponse is the result of calling a tool directly.
type ToolInvokeResponse struct {
	Tool   string `json:"tool"`
	Output string `json:"output"`
}
