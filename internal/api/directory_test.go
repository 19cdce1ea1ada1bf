package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentforge/internal/access"
)

func directoryServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/security/users", func(w http.ResponseWriter, r *http.Request) {
		// wrapped shape
		w.Write([]byte(`{"items":[{"id":"u1","display_name":"Alice","email":"alice@example.com"}]}`))
	})
	mux.HandleFunc("/api/security/groups", func(w http.ResponseWriter, r *http.Request) {
		// bare-array shape
		w.Write([]byte(`[{"id":"g1","display_name":"Ops"}]`))
	})
	mux.HandleFunc("/api/tools/accessible", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"tool_id":"t1","name":"Weather","type":"api"}]`))
	})
	return httptest.NewServer(mux)
}

func TestFetchDirectoryBothShapes(t *testing.T) {
	srv := directoryServer(t)
	defer srv.Close()

	c := New(srv.URL, nil)
	dir, err := c.FetchDirectory(context.Background())
	require.NoError(t, err)

	require.Len(t, dir.Users, 1)
	assert.Equal(t, access.PrincipalUser, dir.Users[0].Type)
	assert.Equal(t, "Alice", dir.Users[0].DisplayName)
	assert.Equal(t, "alice@example.com", dir.Users[0].Email)

	require.Len(t, dir.Groups, 1)
	assert.Equal(t, access.PrincipalGroup, dir.Groups[0].Type)
	assert.Equal(t, "Ops", dir.Groups[0].DisplayName)
}

func TestFetchDirectoryPropagatesFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/security/users", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"forbidden"}`, http.StatusForbidden)
	})
	mux.HandleFunc("/api/security/groups", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.FetchDirectory(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}

func TestListAccessibleTools(t *testing.T) {
	srv := directoryServer(t)
	defer srv.Close()

	c := New(srv.URL, nil)
	tools, err := c.ListAccessibleTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "Weather", tools[0].Name)
}
