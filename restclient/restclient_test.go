package restclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finbackoffice/sessionkit/restclient"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("grant_type") != "password" {
			http.Error(w, `{"error":"unsupported_grant_type"}`, http.StatusBadRequest)
			return
		}
		if r.FormValue("username") != "a@b.com" || r.FormValue("password") != "pw" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"issued-token","token_type":"bearer"}`))
	})

	mux.HandleFunc("POST /auth/restore", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			UserID string `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if payload.UserID != "7" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"restored-token"}`))
	})

	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer restored-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.PathValue("id") != "7" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"7","name":"X","app":"tenantA"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthenticate(t *testing.T) {
	srv := newBackend(t)
	client := restclient.New(srv.URL)

	token, err := client.Authenticate(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "issued-token", token)
}

func TestAuthenticateRejected(t *testing.T) {
	srv := newBackend(t)
	client := restclient.New(srv.URL)

	_, err := client.Authenticate(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
}

func TestFetchTokenByUserID(t *testing.T) {
	srv := newBackend(t)
	client := restclient.New(srv.URL)

	token, err := client.FetchTokenByUserID(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, "restored-token", token)
}

func TestFetchTokenByUserIDDeclined(t *testing.T) {
	srv := newBackend(t)
	client := restclient.New(srv.URL)

	token, err := client.FetchTokenByUserID(context.Background(), "unknown")
	require.NoError(t, err)
	require.Empty(t, token, "a declined restore is not an error")
}

func TestFetchUserByID(t *testing.T) {
	srv := newBackend(t)
	client := restclient.New(srv.URL)

	profile, err := client.FetchUserByID(context.Background(), "7", "restored-token")
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, "X", profile.Name)
	require.Equal(t, "tenantA", profile.App)
}

func TestFetchUserByIDAbsent(t *testing.T) {
	srv := newBackend(t)
	client := restclient.New(srv.URL)

	profile, err := client.FetchUserByID(context.Background(), "999", "restored-token")
	require.NoError(t, err)
	require.Nil(t, profile, "an unknown user is not an error")
}
