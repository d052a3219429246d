package accesslist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nebula-db/nebula-backend/internal/atlas"
)

const ipLookupURL = "https://api.ipify.org?format=json"

// Service manages project IP access lists. When the caller does not supply
// an address, the server's own public IP is looked up and allowed instead.
type Service struct {
	client     *atlas.Client
	httpClient *http.Client
	lookupURL  string
}

func NewService(client *atlas.Client) *Service {
	return &Service{
		client: client,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		lookupURL: ipLookupURL,
	}
}

// LookupPublicIP resolves the public IP address of this server
func (s *Service) LookupPublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.lookupURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ip lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ip lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode ip lookup response: %w", err)
	}
	return body.IP, nil
}

// AllowIP adds an address to a project's IP access list. An empty ipAddress
// means "allow this server's public IP"; the resolved address is returned.
func (s *Service) AllowIP(ctx context.Context, projectID, ipAddress string) (string, error) {
	if ipAddress == "" {
		ip, err := s.LookupPublicIP(ctx)
		if err != nil {
			return "", err
		}
		ipAddress = ip
	}

	entries := []atlas.AccessListEntry{
		{IPAddress: ipAddress, Comment: "Automated IP addition"},
	}
	if err := s.client.AddProjectAccessList(ctx, projectID, entries); err != nil {
		return "", fmt.Errorf("add %s to access list of project %s: %w", ipAddress, projectID, err)
	}
	return ipAddress, nil
}
