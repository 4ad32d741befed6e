// Package restclient implements the session collaborators over the
// back-office REST backend.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/finbackoffice/sessionkit/session"
	"github.com/finbackoffice/sessionkit/users"
)

const (
	tokenPath   = "/oauth/token"
	restorePath = "/auth/restore"
	usersPath   = "/users/"

	defaultTimeout = 15 * time.Second
	defaultClient  = "backoffice-web"
)

// Client speaks to the backend's three auth endpoints. It implements
// session.Authenticator, session.TokenFetcher and session.UserFetcher.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

var (
	_ session.Authenticator = (*Client)(nil)
	_ session.TokenFetcher  = (*Client)(nil)
	_ session.UserFetcher   = (*Client)(nil)
)

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithClientID(clientID string) ClientOption {
	return func(c *Client) {
		c.clientID = clientID
	}
}

func New(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   defaultClient,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Authenticate exchanges credentials for a bearer token via the resource
// owner password grant.
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	conf := oauth2.Config{
		ClientID: c.clientID,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := conf.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return "", errors.Wrap(err, "[Authenticate] password grant")
	}
	return token.AccessToken, nil
}

// FetchTokenByUserID asks the backend to re-issue a token for a previously
// authenticated user id. A 204 means the backend declines to restore.
func (c *Client) FetchTokenByUserID(ctx context.Context, userID string) (string, error) {
	body, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return "", errors.Wrap(err, "[FetchTokenByUserID] encoding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+restorePath, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "[FetchTokenByUserID] building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "[FetchTokenByUserID] request")
	}
	defer drainAndClose(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return "", errors.Wrap(err, "[FetchTokenByUserID] decoding response")
		}
		return payload.Token, nil
	case http.StatusNoContent, http.StatusNotFound, http.StatusUnauthorized:
		return "", nil
	default:
		return "", errors.Errorf("[FetchTokenByUserID] unexpected status %d", resp.StatusCode)
	}
}

// FetchUserByID loads the profile for an authenticated principal. A 404
// yields a nil profile with no error.
func (c *Client) FetchUserByID(ctx context.Context, userID, token string) (*users.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+usersPath+userID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[FetchUserByID] building request")
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[FetchUserByID] request")
	}
	defer drainAndClose(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		var profile users.Profile
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			return nil, errors.Wrap(err, "[FetchUserByID] decoding response")
		}
		return &profile, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, errors.Errorf("[FetchUserByID] unexpected status %d", resp.StatusCode)
	}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
