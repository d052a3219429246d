package atlas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebula-db/nebula-backend/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.AtlasConfig{
		PublicKey:  "pub-key",
		PrivateKey: "priv-key",
		OrgID:      "org-1",
		BaseURL:    baseURL,
	})
}

func TestCreateProject_SendsOrgID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/groups" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "demo", body["name"])
		assert.Equal(t, "org-1", body["orgId"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "proj-1", "name": "demo", "orgId": "org-1"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	project, err := client.CreateProject(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "proj-1", project.ID)
	assert.Equal(t, "demo", project.Name)
}

func TestDo_TranslatesAtlasErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{
			"detail": "A group with name demo already exists.",
			"error": 409,
			"errorCode": "GROUP_ALREADY_EXISTS",
			"reason": "Conflict",
			"parameters": ["demo"]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreateProject(context.Background(), "demo")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T", err)
	assert.Equal(t, "A group with name demo already exists.", apiErr.Message)
	assert.Equal(t, "GROUP_ALREADY_EXISTS", apiErr.ErrorCode)
	assert.Equal(t, http.StatusConflict, apiErr.HTTPStatus)
	assert.Equal(t, "Conflict", apiErr.Reason)
	assert.Equal(t, []any{"demo"}, apiErr.Parameters)
}

func TestDo_ErrorBodyWithMessageField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid credentials"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	err := client.Do(context.Background(), http.MethodGet, "/groups", nil, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
}

func TestDo_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	err := client.Do(context.Background(), http.MethodGet, "/groups", nil, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestDo_NonSuccessOutsideErrorRangeIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	err := client.Do(context.Background(), http.MethodGet, "/groups", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusNotModified, apiErr.HTTPStatus)
	assert.Equal(t, http.StatusText(http.StatusNotModified), apiErr.Message)
}

func TestDo_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(server.URL)

	err := client.Do(context.Background(), http.MethodGet, "/groups", nil, nil)
	require.Error(t, err)

	var unreachable *UnreachableError
	assert.True(t, errors.As(err, &unreachable), "expected *UnreachableError, got %T", err)
}

func TestDo_AnswersDigestChallenge(t *testing.T) {
	var sawAuthorization bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.Header().Set("WWW-Authenticate", `Digest realm="MMS Public API", domain="", nonce="abc123", algorithm=MD5, qop="auth", stale=false`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		sawAuthorization = true
		w.Write([]byte(`{"results": [], "totalCount": 0}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.True(t, sawAuthorization, "expected a digest-authenticated retry")
}

func TestListClusters_UnwrapsResultsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/groups/proj-1/clusters", r.URL.Path)
		w.Write([]byte(`{
			"results": [
				{"id": "c-1", "name": "demo", "stateName": "IDLE",
				 "providerSettings": {"providerName": "TENANT", "instanceSizeName": "M0", "regionName": "US_EAST_1"}}
			],
			"totalCount": 1
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	clusters, err := client.ListClusters(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "demo", clusters[0].Name)
	assert.Equal(t, "IDLE", clusters[0].StateName)
	require.NotNil(t, clusters[0].ProviderSettings)
	assert.Equal(t, "M0", clusters[0].ProviderSettings.InstanceSizeName)
}
