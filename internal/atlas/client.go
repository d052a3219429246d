package atlas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/icholy/digest"

	"github.com/nebula-db/nebula-backend/config"
)

const requestTimeout = 30 * time.Second

// Client handles communication with the MongoDB Atlas management API.
// Every request is signed with HTTP digest authentication; non-2xx responses
// are translated into *APIError and transport failures into *UnreachableError.
// Retry policy belongs to the callers, not here.
type Client struct {
	baseURL    string
	orgID      string
	httpClient *http.Client
}

// NewClient creates an Atlas API client from the process configuration
func NewClient(cfg config.AtlasConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		orgID:   cfg.OrgID,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &digest.Transport{
				Username: cfg.PublicKey,
				Password: cfg.PrivateKey,
			},
		},
	}
}

// Do issues one authenticated request. body (if non-nil) is sent as JSON and
// out (if non-nil) is filled from the response body.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// newAPIError builds an *APIError from an Atlas error body, keeping the
// remote's detail/errorCode/reason/parameters verbatim when present.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	_ = json.Unmarshal(body, apiErr)
	if apiErr.Message == "" {
		// some error bodies use "message" instead of "detail"
		var alt struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &alt) == nil && alt.Message != "" {
			apiErr.Message = alt.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	if apiErr.HTTPStatus == 0 {
		apiErr.HTTPStatus = status
	}
	return apiErr
}

// CreateProject creates a project under the configured organization and
// returns it with the Atlas-assigned id
func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	body := map[string]string{
		"name":  name,
		"orgId": c.orgID,
	}

	var project Project
	if err := c.Do(ctx, http.MethodPost, "/groups", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects fetches every project visible to the API key
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var page projectsPage
	if err := c.Do(ctx, http.MethodGet, "/groups", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// CreateCluster initiates cluster creation in a project. The response carries
// the authoritative cluster name.
func (c *Client) CreateCluster(ctx context.Context, projectID string, cluster *Cluster) (*Cluster, error) {
	var created Cluster
	path := fmt.Sprintf("/groups/%s/clusters", projectID)
	if err := c.Do(ctx, http.MethodPost, path, cluster, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetCluster fetches one cluster's detail, including connection strings once
// Atlas has provisioned them
func (c *Client) GetCluster(ctx context.Context, projectID, clusterName string) (*Cluster, error) {
	var cluster Cluster
	path := fmt.Sprintf("/groups/%s/clusters/%s", projectID, clusterName)
	if err := c.Do(ctx, http.MethodGet, path, nil, &cluster); err != nil {
		return nil, err
	}
	return &cluster, nil
}

// ListClusters fetches all clusters in a project
func (c *Client) ListClusters(ctx context.Context, projectID string) ([]Cluster, error) {
	var page clustersPage
	path := fmt.Sprintf("/groups/%s/clusters", projectID)
	if err := c.Do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// DeleteCluster tears down a cluster
func (c *Client) DeleteCluster(ctx context.Context, projectID, clusterName string) error {
	path := fmt.Sprintf("/groups/%s/clusters/%s", projectID, clusterName)
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// CreateDatabaseUser creates a database user in a project
func (c *Client) CreateDatabaseUser(ctx context.Context, projectID string, user *DatabaseUser) error {
	path := fmt.Sprintf("/groups/%s/databaseUsers", projectID)
	return c.Do(ctx, http.MethodPost, path, user, nil)
}

// InviteToOrg invites a user (by email) into the organization
func (c *Client) InviteToOrg(ctx context.Context, email string, roles []string) error {
	body := map[string]any{
		"username": email,
		"roles":    roles,
	}
	path := fmt.Sprintf("/orgs/%s/invites", c.orgID)
	return c.Do(ctx, http.MethodPost, path, body, nil)
}

// AddProjectAccessList appends entries to a project's IP access list
func (c *Client) AddProjectAccessList(ctx context.Context, projectID string, entries []AccessListEntry) error {
	path := fmt.Sprintf("/groups/%s/accessList", projectID)
	return c.Do(ctx, http.MethodPost, path, entries, nil)
}
