package domain

import "time"

// Project is a website a user is building
type Project struct {
	ID            string
	UserID        string
	Name          string
	LastAISummary string
	CreatedAt     time.Time
}

// Prompt is one generation request against a project. Rows are append-only:
// the inbound message id makes a turn auditable and detectable as a duplicate.
type Prompt struct {
	ID            string
	UserID        string
	ProjectID     string
	MessageID     string
	PromptText    string
	ModelResponse string
	CreatedAt     time.Time
}
