package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/thing/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"42","name":"poulet"}`))
	}))
	defer srv.Close()

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	c := NewClient(srv.URL)
	require.NoError(t, c.GetJSON(context.Background(), "/thing/42", &out))
	assert.Equal(t, "42", out.ID)
	assert.Equal(t, "poulet", out.Name)
}

func TestNotFoundIsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.GetJSON(context.Background(), "/missing", &struct{}{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNon2xxIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.PostJSON(context.Background(), "/explode", map[string]string{"a": "b"}, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Body, "boom")
}

func TestPostSetsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	assert.NoError(t, c.PostJSON(context.Background(), "/add", map[string]int{"n": 1}, nil))
}

func TestAuthMessage(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"auth/invalid-credential", "Invalid email or password"},
		{"auth/wrong-password", "Invalid email or password"},
		{"auth/user-not-found", "No account matches this email"},
		{"auth/email-already-in-use", "An account already exists for this email"},
		{"auth/invalid-email", "Malformed email address"},
		{"auth/too-many-requests", "Too many attempts, try again later"},
		{"auth/network-request-failed", "Network error, check your connection"},
		{"auth/something-new", genericAuthMessage},
		{"", genericAuthMessage},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AuthMessage(c.code), "code %q", c.code)
	}
}
