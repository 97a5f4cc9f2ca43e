package domain

import "time"

// SessionStatus marks whether a session is still accepting commands.
type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionTerminated SessionStatus = "terminated"
)

// Session is the unit of continuity across multiple commands from one
// interactive run. It is owned by the session store; the pipeline only
// reads it and appends CommandEntry records.
type Session struct {
	ID             string
	UserID         string
	WorkingDir     string
	Environment    map[string]string
	StartedAt      time.Time
	LastActivityAt time.Time
	Status         SessionStatus
}

// CommandEntry is one append-only audit record in a session. Entries are
// timestamp-ordered and never reordered or deleted except via the store's
// explicit clear operation.
type CommandEntry struct {
	InputText         string        `json:"input_text"`
	Command           string        `json:"command"`
	RiskLevel         RiskLevel     `json:"risk_level"`
	State             PipelineState `json:"state"`
	AssessmentSummary string        `json:"assessment_summary"`
	ResultSummary     string        `json:"result_summary"`
	ExitCode          int           `json:"exit_code"`
	DurationMS        int64         `json:"duration_ms"`
	Timestamp         time.Time     `json:"timestamp"`
}
