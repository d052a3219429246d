package provisioning

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/nebula-db/nebula-backend/internal/atlas"
)

// ProvisionRequest is the input for a full provisioning run
type ProvisionRequest struct {
	ProjectName string `json:"projectName"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// ProvisionResult is produced only when every gating step succeeded.
// Warning carries a non-fatal org-invite failure.
type ProvisionResult struct {
	ProjectID        string `json:"projectId"`
	ProjectName      string `json:"projectName"`
	ClusterName      string `json:"clusterName"`
	ConnectionString string `json:"connectionString"`
	DatabaseUsername string `json:"databaseUsername"`
	OriginalInput    string `json:"originalInput"`
	Warning          string `json:"warning,omitempty"`
}

// InviteOutcome reports a best-effort org invite. A failed invite never
// fails the caller; the failure is carried in Warning.
type InviteOutcome struct {
	Message string `json:"message,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// PollTimeoutError means the cluster never exposed a connection string
// within the attempt bound. Distinct from an Atlas rejection.
type PollTimeoutError struct {
	ClusterName string
	Attempts    int
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("connection string for cluster %s not available after %d attempts", e.ClusterName, e.Attempts)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service runs the ordered project -> cluster -> user -> connection-string
// workflow against Atlas
type Service struct {
	client *atlas.Client
	retry  RetryPolicy
}

// NewService creates a provisioning service with the given polling policy
func NewService(client *atlas.Client, retry RetryPolicy) *Service {
	return &Service{client: client, retry: retry}
}

// freeTierCluster is the fixed provisioning template: shared-tier M0 on AWS
// us-east-1, replica set, backups off
func freeTierCluster(name string) *atlas.Cluster {
	return &atlas.Cluster{
		Name:          name,
		ClusterType:   "REPLICASET",
		BackupEnabled: false,
		ProviderSettings: &atlas.ProviderSettings{
			ProviderName:        "TENANT",
			BackingProviderName: "AWS",
			InstanceSizeName:    "M0",
			RegionName:          "US_EAST_1",
		},
	}
}

// Provision executes the creation sequence in strict order. Each step gates
// the next: a failure aborts immediately with the failing step's context.
// Only the trailing org invite is best-effort.
func (s *Service) Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error) {
	project, err := s.client.CreateProject(ctx, req.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	log.Printf("[provision] project %s created id=%s", req.ProjectName, project.ID)

	cluster, err := s.client.CreateCluster(ctx, project.ID, freeTierCluster(req.ProjectName))
	if err != nil {
		return nil, fmt.Errorf("create cluster: %w", err)
	}
	clusterName := cluster.Name
	if clusterName == "" {
		clusterName = req.ProjectName
	}
	log.Printf("[provision] cluster %s creation initiated in project %s", clusterName, project.ID)

	dbUsername := NormalizeUsername(req.Username)
	user := &atlas.DatabaseUser{
		Username:     dbUsername,
		Password:     req.Password,
		DatabaseName: "admin",
		Roles: []atlas.Role{
			{RoleName: "readWriteAnyDatabase", DatabaseName: "admin"},
		},
		X509Type: "NONE",
	}
	if err := s.client.CreateDatabaseUser(ctx, project.ID, user); err != nil {
		return nil, fmt.Errorf("create database user: %w", err)
	}
	log.Printf("[provision] database user %s created in project %s", dbUsername, project.ID)

	connectionString, err := s.resolveConnectionString(ctx, project.ID, clusterName, dbUsername, req.Password)
	if err != nil {
		return nil, err
	}

	result := &ProvisionResult{
		ProjectID:        project.ID,
		ProjectName:      req.ProjectName,
		ClusterName:      clusterName,
		ConnectionString: connectionString,
		DatabaseUsername: dbUsername,
		OriginalInput:    req.Username,
	}

	if outcome := s.InviteToOrg(ctx, req.Username); outcome.Warning != "" {
		result.Warning = outcome.Warning
	}
	return result, nil
}

// resolveConnectionString polls the cluster detail until Atlas exposes the
// SRV connection string, then assembles the final URI with credentials.
// A failed poll fetch retries like a pending one; only exhaustion fails.
func (s *Service) resolveConnectionString(ctx context.Context, projectID, clusterName, username, password string) (string, error) {
	var uri string
	attempt := 0

	operation := func() error {
		attempt++
		cluster, err := s.client.GetCluster(ctx, projectID, clusterName)
		if err != nil {
			log.Printf("[provision] connection string attempt %d/%d failed: %v", attempt, s.retry.MaxAttempts, err)
			return err
		}
		if cluster.ConnectionStrings == nil || cluster.ConnectionStrings.StandardSrv == "" {
			return fmt.Errorf("cluster %s has no SRV connection string yet", clusterName)
		}
		uri = buildConnectionURI(cluster.ConnectionStrings.StandardSrv, clusterName, username, password)
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(s.retry.newBackOff(), ctx)); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("connection string poll cancelled: %w", ctx.Err())
		}
		return "", &PollTimeoutError{ClusterName: clusterName, Attempts: attempt}
	}
	return uri, nil
}

// buildConnectionURI inserts credentials into the SRV host and appends the
// standard retry/write-concern parameters. Credentials are percent-encoded
// so reserved characters in passwords cannot malform the URI.
func buildConnectionURI(standardSrv, clusterName, username, password string) string {
	host := standardSrv
	if i := strings.Index(standardSrv, "//"); i >= 0 {
		host = standardSrv[i+2:]
	}
	creds := url.UserPassword(username, password).String()
	return fmt.Sprintf("mongodb+srv://%s@%s/?retryWrites=true&w=majority&appName=%s", creds, host, clusterName)
}

// InviteToOrg invites the (possibly email-form) user into the organization
// as a member. Best-effort: a malformed email short-circuits locally and a
// remote rejection is reported as a warning, never as an error.
func (s *Service) InviteToOrg(ctx context.Context, email string) InviteOutcome {
	if !emailPattern.MatchString(email) {
		log.Printf("[provision] invalid email format %q, skipping org invite", email)
		return InviteOutcome{Warning: "invalid email format provided, skipping user invitation"}
	}

	if err := s.client.InviteToOrg(ctx, email, []string{"ORG_MEMBER"}); err != nil {
		log.Printf("[provision] org invite for %s failed: %v", email, err)
		return InviteOutcome{Warning: "could not invite user to the organization: " + err.Error()}
	}
	return InviteOutcome{Message: "invitation sent to " + email}
}

// DeleteCluster tears down the cluster created for a project
func (s *Service) DeleteCluster(ctx context.Context, projectID, clusterName string) error {
	if err := s.client.DeleteCluster(ctx, projectID, clusterName); err != nil {
		return fmt.Errorf("delete cluster %s: %w", clusterName, err)
	}
	return nil
}
