package accesslist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebula-db/nebula-backend/config"
	"github.com/nebula-db/nebula-backend/internal/atlas"
)

func newTestService(t *testing.T, atlasHandler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(atlasHandler)
	t.Cleanup(server.Close)

	client := atlas.NewClient(config.AtlasConfig{
		PublicKey:  "pub-key",
		PrivateKey: "priv-key",
		OrgID:      "org-1",
		BaseURL:    server.URL,
	})
	return NewService(client)
}

func TestLookupPublicIP(t *testing.T) {
	lookup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip": "203.0.113.7"}`))
	}))
	defer lookup.Close()

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("atlas must not be called for an IP lookup")
	})
	svc.lookupURL = lookup.URL

	ip, err := svc.LookupPublicIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestAllowIP_ExplicitAddress(t *testing.T) {
	var entries []atlas.AccessListEntry
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/groups/p-1/accessList", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&entries))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})

	ip, err := svc.AllowIP(context.Background(), "p-1", "198.51.100.4")
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.4", ip)

	require.Len(t, entries, 1)
	assert.Equal(t, "198.51.100.4", entries[0].IPAddress)
	assert.NotEmpty(t, entries[0].Comment)
}

func TestAllowIP_FallsBackToOwnIP(t *testing.T) {
	lookup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip": "203.0.113.9"}`))
	}))
	defer lookup.Close()

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var entries []atlas.AccessListEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "203.0.113.9", entries[0].IPAddress)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})
	svc.lookupURL = lookup.URL

	ip, err := svc.AllowIP(context.Background(), "p-1", "")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", ip)
}

func TestAllowIP_LookupFailure(t *testing.T) {
	lookup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer lookup.Close()

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("atlas must not be called when the IP lookup fails")
	})
	svc.lookupURL = lookup.URL

	_, err := svc.AllowIP(context.Background(), "p-1", "")
	require.Error(t, err)
}
