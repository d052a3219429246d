package inspection

import (
	"context"
	"fmt"
	"log"

	"github.com/nebula-db/nebula-backend/internal/atlas"
)

// ClusterSummary is one cluster joined with its owning project's identity,
// flattened for dashboard display
type ClusterSummary struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	StateName        string                  `json:"stateName"`
	MongoDBVersion   string                  `json:"mongoDBVersion,omitempty"`
	ProviderSettings *atlas.ProviderSettings `json:"providerSettings,omitempty"`
	ProjectID        string                  `json:"projectId"`
	ProjectName      string                  `json:"projectName"`
	ProjectCreated   string                  `json:"projectCreated,omitempty"`
}

// ClusterDetail is a single cluster's metadata. ConnectionString stays empty
// when Atlas has not exposed one yet; that is not an error.
type ClusterDetail struct {
	Cluster          *atlas.Cluster `json:"cluster"`
	ConnectionString string         `json:"connectionString,omitempty"`
}

// Service aggregates read-only cluster state across projects
type Service struct {
	client *atlas.Client
}

func NewService(client *atlas.Client) *Service {
	return &Service{client: client}
}

// ListProjects returns every project in the organization
func (s *Service) ListProjects(ctx context.Context) ([]atlas.Project, error) {
	projects, err := s.client.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ListProjectClusters returns the clusters of one project
func (s *Service) ListProjectClusters(ctx context.Context, projectID string) ([]atlas.Cluster, error) {
	clusters, err := s.client.ListClusters(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list clusters for project %s: %w", projectID, err)
	}
	return clusters, nil
}

// ListAllClusters fetches every project and then each project's clusters,
// merging project identity onto each record. A project whose cluster fetch
// fails is logged and skipped so one inaccessible project cannot blank out
// the whole listing.
func (s *Service) ListAllClusters(ctx context.Context) ([]ClusterSummary, error) {
	projects, err := s.client.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	summaries := make([]ClusterSummary, 0)
	for _, project := range projects {
		clusters, err := s.client.ListClusters(ctx, project.ID)
		if err != nil {
			log.Printf("[inspection] skipping project %s (%s): %v", project.Name, project.ID, err)
			continue
		}

		for _, cluster := range clusters {
			summaries = append(summaries, ClusterSummary{
				ID:               cluster.ID,
				Name:             cluster.Name,
				StateName:        cluster.StateName,
				MongoDBVersion:   cluster.MongoDBVersion,
				ProviderSettings: cluster.ProviderSettings,
				ProjectID:        project.ID,
				ProjectName:      project.Name,
				ProjectCreated:   project.Created,
			})
		}
	}
	return summaries, nil
}

// GetClusterDetail fetches one cluster's metadata. The connection string is
// carried over when present; its absence never fails the call.
func (s *Service) GetClusterDetail(ctx context.Context, projectID, clusterName string) (*ClusterDetail, error) {
	cluster, err := s.client.GetCluster(ctx, projectID, clusterName)
	if err != nil {
		return nil, fmt.Errorf("get cluster %s: %w", clusterName, err)
	}

	detail := &ClusterDetail{Cluster: cluster}
	if cs, err := s.connectionString(ctx, projectID, cluster); err != nil {
		log.Printf("[inspection] connection string for %s unavailable: %v", clusterName, err)
	} else {
		detail.ConnectionString = cs
	}
	return detail, nil
}

// connectionString re-reads the cluster when the first response carried no
// connection strings. Returns an error only to signal "not available yet".
func (s *Service) connectionString(ctx context.Context, projectID string, cluster *atlas.Cluster) (string, error) {
	if cluster.ConnectionStrings != nil && cluster.ConnectionStrings.StandardSrv != "" {
		return cluster.ConnectionStrings.StandardSrv, nil
	}

	fresh, err := s.client.GetCluster(ctx, projectID, cluster.Name)
	if err != nil {
		return "", err
	}
	if fresh.ConnectionStrings == nil || fresh.ConnectionStrings.StandardSrv == "" {
		return "", fmt.Errorf("cluster %s has no SRV connection string yet", cluster.Name)
	}
	return fresh.ConnectionStrings.StandardSrv, nil
}
