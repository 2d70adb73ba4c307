package deploy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"siteship/internal/config"

	"github.com/go-resty/resty/v2"
)

// Request is the deploy-trigger payload for one generated site
type Request struct {
	Username    string   `json:"username"`
	ProjectName string   `json:"project_name"`
	Prompt      string   `json:"prompt"`
	ArchiveURL  string   `json:"archive_url"`
	Metadata    Metadata `json:"metadata"`
}

// Metadata carries turn provenance alongside the deploy request
type Metadata struct {
	Source        string `json:"source"`
	MessageID     string `json:"message_id"`
	ProfileName   string `json:"profile_name"`
	ProjectID     string `json:"project_id"`
	LastAISummary string `json:"last_ai_summary"`
}

// Status is the hosting service's reply; Status is the only required field
type Status struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

// Trigger calls the static-hosting deploy endpoint
type Trigger struct {
	client *resty.Client
}

// NewTrigger creates a deploy trigger against the configured endpoint
func NewTrigger(cfg config.DeployConfig) *Trigger {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Trigger{client: client}
}

// Deploy submits the site for deployment and returns the reported status.
// A reply without a status field is treated as a failure.
func (t *Trigger) Deploy(ctx context.Context, req Request) (Status, error) {
	var status Status
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&status).
		Post("/deployments")
	if err != nil {
		return Status{}, fmt.Errorf("deploy request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return Status{}, fmt.Errorf("deploy request: unexpected status %d", resp.StatusCode())
	}
	if status.Status == "" {
		return Status{}, fmt.Errorf("deploy request: malformed response, missing status")
	}

	return status, nil
}
