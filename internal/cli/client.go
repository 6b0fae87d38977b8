package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"workspace-registry-service/internal/adapters/primary/http/dto"
)

const apiPrefix = "/api/v1/workspace-registry"

// Client talks to the workspace registry API on behalf of wsctl.
type Client struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
}

func NewClient(baseURL, projectID string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		projectID:  projectID,
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("registry returned %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Project-ID", c.projectID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.WithFields(log.Fields{"method": method, "path": path}).Debug("registry request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &apiError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) CreateDataAsset(ctx context.Context, req dto.CreateDataAssetRequest) (*dto.DataAssetResponse, error) {
	var out dto.DataAssetResponse
	if err := c.do(ctx, http.MethodPost, "/data_assets", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDataAssetByName(ctx context.Context, name string) (*dto.DataAssetResponse, error) {
	var out dto.DataAssetResponse
	path := "/data_asset?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListDataAssets(ctx context.Context, limit, offset int) (*dto.ListDataAssetsResponse, error) {
	var out dto.ListDataAssetsResponse
	path := fmt.Sprintf("/data_assets?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterVersion(ctx context.Context, assetID string, req dto.RegisterVersionRequest) (*dto.DataAssetVersionResponse, error) {
	var out dto.DataAssetVersionResponse
	if err := c.do(ctx, http.MethodPost, "/data_assets/"+assetID+"/versions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SyncPackage(ctx context.Context, req dto.SyncPackageRequest) (*dto.WorkspacePackageResponse, error) {
	var out dto.WorkspacePackageResponse
	if err := c.do(ctx, http.MethodPut, "/packages", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordReport(ctx context.Context, packageName string, req dto.RecordReportRequest) (*dto.ComplianceReportResponse, error) {
	var out dto.ComplianceReportResponse
	if err := c.do(ctx, http.MethodPost, "/packages/"+url.PathEscape(packageName)+"/reports", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitRun(ctx context.Context, req dto.SubmitRunRequest) (*dto.ExperimentRunResponse, error) {
	var out dto.ExperimentRunResponse
	if err := c.do(ctx, http.MethodPost, "/runs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRun(ctx context.Context, id string) (*dto.ExperimentRunResponse, error) {
	var out dto.ExperimentRunResponse
	if err := c.do(ctx, http.MethodGet, "/runs/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SyncRunStatus(ctx context.Context, id string) (*dto.ExperimentRunResponse, error) {
	var out dto.ExperimentRunResponse
	if err := c.do(ctx, http.MethodPost, "/runs/"+id+"/sync", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelRun(ctx context.Context, id string) (*dto.ExperimentRunResponse, error) {
	var out dto.ExperimentRunResponse
	if err := c.do(ctx, http.MethodPost, "/runs/"+id+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListRuns(ctx context.Context, limit, offset int) (*dto.ListRunsResponse, error) {
	var out dto.ListRunsResponse
	path := "/runs?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EvaluateRun(ctx context.Context, runID string, req dto.EvaluateRunRequest) (*dto.EvaluationReportResponse, error) {
	var out dto.EvaluationReportResponse
	if err := c.do(ctx, http.MethodPost, "/runs/"+runID+"/evaluations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
