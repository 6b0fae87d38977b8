package azureml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"workspace-registry-service/internal/config"
	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

const apiVersion = "2024-04-01"

type azureMLRunner struct {
	baseURL        string
	subscriptionID string
	resourceGroup  string
	workspace      string
	token          string
	client         *http.Client
	enabled        bool
}

// NewJobRunner creates an AzureML jobs client adapter.
func NewJobRunner(cfg *config.AzureMLConfig) ports.JobRunner {
	if !cfg.Enabled {
		return &azureMLRunner{enabled: false}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://management.azure.com"
	}

	return &azureMLRunner{
		baseURL:        strings.TrimRight(baseURL, "/"),
		subscriptionID: cfg.SubscriptionID,
		resourceGroup:  cfg.ResourceGroup,
		workspace:      cfg.Workspace,
		token:          cfg.Token,
		enabled:        true,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *azureMLRunner) IsAvailable() bool {
	return c.enabled
}

func (c *azureMLRunner) jobURL(jobName string) string {
	return fmt.Sprintf(
		"%s/subscriptions/%s/resourceGroups/%s/providers/Microsoft.MachineLearningServices/workspaces/%s/jobs/%s?api-version=%s",
		c.baseURL, c.subscriptionID, c.resourceGroup, c.workspace, jobName, apiVersion,
	)
}

// AzureML job payload structures (command job subset)

type jobResource struct {
	Properties jobProperties `json:"properties"`
}

type jobProperties struct {
	JobType              string               `json:"jobType"`
	DisplayName          string               `json:"displayName,omitempty"`
	ExperimentName       string               `json:"experimentName,omitempty"`
	Command              string               `json:"command,omitempty"`
	EnvironmentVariables map[string]string    `json:"environmentVariables,omitempty"`
	Inputs               map[string]jobInput  `json:"inputs,omitempty"`
	Tags                 map[string]string    `json:"tags,omitempty"`
	Status               string               `json:"status,omitempty"`
	EnvironmentID        string               `json:"environmentId,omitempty"`
}

type jobInput struct {
	JobInputType string `json:"jobInputType"`
	URI          string `json:"uri"`
	Mode         string `json:"mode,omitempty"`
}

func (c *azureMLRunner) Submit(ctx context.Context, run *domain.ExperimentRun) (*ports.JobSubmission, error) {
	if !c.enabled {
		return nil, domain.ErrRunnerNotAvailable
	}

	jobName := run.ID.String()

	inputs := make(map[string]jobInput, len(run.DataBindings))
	for _, b := range run.DataBindings {
		inputs[b.AssetName] = jobInput{
			JobInputType: "uri_folder",
			URI:          b.URI,
			Mode:         "ro_mount",
		}
	}

	env := make(map[string]string, len(run.Parameters)+1)
	for k, v := range run.Parameters {
		env[k] = v
	}
	env["GIT_COMMIT"] = run.GitCommit

	payload := jobResource{
		Properties: jobProperties{
			JobType:              "Command",
			DisplayName:          run.DisplayName,
			ExperimentName:       run.PackageName,
			Command:              run.Command,
			EnvironmentVariables: env,
			Inputs:               inputs,
			Tags: map[string]string{
				"git_commit": run.GitCommit,
				"package":    run.PackageName,
				"run_id":     run.ID.String(),
			},
		},
	}
	if run.ContainerImage != "" {
		payload.Properties.EnvironmentID = run.ContainerImage
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal azureml job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.jobURL(jobName), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create azureml request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit azureml job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("azureml job submission failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	return &ports.JobSubmission{ExternalID: jobName}, nil
}

func (c *azureMLRunner) Status(ctx context.Context, run *domain.ExperimentRun) (*ports.JobStatus, error) {
	if !c.enabled {
		return nil, domain.ErrRunnerNotAvailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jobURL(run.ExternalJobID), nil)
	if err != nil {
		return nil, fmt.Errorf("create azureml request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get azureml job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azureml job status failed: %s", resp.Status)
	}

	var job jobResource
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decode azureml job: %w", err)
	}

	return &ports.JobStatus{
		State:   mapJobState(job.Properties.Status),
		Message: job.Properties.Status,
	}, nil
}

func (c *azureMLRunner) Cancel(ctx context.Context, run *domain.ExperimentRun) error {
	if !c.enabled {
		return domain.ErrRunnerNotAvailable
	}

	url := fmt.Sprintf(
		"%s/subscriptions/%s/resourceGroups/%s/providers/Microsoft.MachineLearningServices/workspaces/%s/jobs/%s/cancel?api-version=%s",
		c.baseURL, c.subscriptionID, c.resourceGroup, c.workspace, run.ExternalJobID, apiVersion,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("create azureml request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cancel azureml job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("azureml job cancel failed: %s", resp.Status)
	}
	return nil
}

func mapJobState(status string) ports.JobState {
	switch status {
	case "NotStarted", "Queued", "Starting", "Preparing":
		return ports.JobStateQueued
	case "Running", "Finalizing":
		return ports.JobStateRunning
	case "Completed":
		return ports.JobStateSucceeded
	case "Failed":
		return ports.JobStateFailed
	case "Canceled", "CancelRequested":
		return ports.JobStateCanceled
	default:
		return ports.JobStateUnknown
	}
}
