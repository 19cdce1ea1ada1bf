package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "tok-123" })
	_, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestAnonymousRequestTolerated(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.False(t, hadAuth, "no Authorization header must be sent without a token")
}

func TestServerErrorExtraction(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"detail field", `{"detail":"name taken"}`, "name taken"},
		{"message field", `{"message":"bad config"}`, "bad config"},
		{"error field", `{"error":"nope"}`, "nope"},
		{"detail wins", `{"detail":"d","message":"m","error":"e"}`, "d"},
		{"generic fallback", `<html>gateway error</html>`, "status 502"},
		{"empty body", ``, "status 502"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := serverError(502, []byte(tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDecodeListShapes(t *testing.T) {
	type row struct {
		ID string `json:"id"`
	}

	bare, err := decodeList[row]([]byte(`[{"id":"a"},{"id":"b"}]`))
	require.NoError(t, err)
	assert.Len(t, bare, 2)

	wrapped, err := decodeList[row]([]byte(`{"items":[{"id":"a"}]}`))
	require.NoError(t, err)
	require.Len(t, wrapped, 1)
	assert.Equal(t, "a", wrapped[0].ID)

	_, err = decodeList[row]([]byte(`"not a list"`))
	assert.Error(t, err)
}

func TestCreateToolReturnsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tools", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"tool_id":"t-1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	id, err := c.CreateTool(context.Background(), ToolRequest{Type: "api", Name: "Weather"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", id)
}

func TestCreateToolRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.CreateTool(context.Background(), ToolRequest{Name: "x"})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		w.Write([]byte(`{"token":"tok-9"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	tok, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-9", tok)
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":""}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Login(context.Background(), "alice", "bad")
	assert.Error(t, err)
}
