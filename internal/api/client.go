// Package api talks to the two fixed school endpoints: the identity endpoint
// that exchanges credentials for an opaque bearer token, and the GraphQL
// endpoint that serves profile and transaction data. Neither client retries;
// failures surface to the caller as typed errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	DefaultSignInURL  = "https://01.kood.tech/api/auth/signin"
	DefaultGraphQLURL = "https://01.kood.tech/api/graphql-engine/v1/graphql"
)

// accountQuery is the one fixed document: skill transactions for the donut,
// profile fields for the info panel, xp transactions (piscine excluded) for
// the monthly series.
const accountQuery = `
query {
  skills: transaction(limit: 100, offset: 0, where: {
    _and: [{type: {_ilike: "%skill%"}}]
  }) {
    type
    amount
  }
  user {
    auditRatio
    firstName
    lastName
    email
    createdAt
    login
  }
  xp: transaction(where: {
    _and: [
      {type: {_eq: "xp"}},
      {path: {_nlike: "%piscine%"}}
    ]
  }) {
    type
    path
    createdAt
    amount
    object {
      name
    }
  }
}
`

type Client struct {
	http       *http.Client
	signInURL  string
	graphqlURL string
	log        *slog.Logger
}

// New returns a client against the production endpoints. Timeouts are left to
// the default transport; an abandoned TUI just drops the response.
func New(log *slog.Logger) *Client {
	return NewWithEndpoints(DefaultSignInURL, DefaultGraphQLURL, http.DefaultClient, log)
}

// NewWithEndpoints exists for tests running against httptest servers.
func NewWithEndpoints(signInURL, graphqlURL string, hc *http.Client, log *slog.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		http:       hc,
		signInURL:  signInURL,
		graphqlURL: graphqlURL,
		log:        log,
	}
}

// errorPayload is the provider's failure body for both endpoints.
type errorPayload struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (p errorPayload) text() string {
	if p.Err != "" {
		return p.Err
	}
	if p.Message != "" {
		return p.Message
	}
	return "request rejected"
}

// SignIn exchanges (identifier, secret) for an opaque token via a Basic-auth
// POST. A provider rejection comes back as *AuthError carrying the provider's
// message; nothing is persisted here.
func (c *Client) SignIn(ctx context.Context, identifier, secret string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.signInURL, nil)
	if err != nil {
		return "", fmt.Errorf("build signin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(identifier, secret)

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("signin request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var p errorPayload
		_ = json.NewDecoder(res.Body).Decode(&p)
		c.log.Warn("signin rejected", "status", res.StatusCode, "message", p.text())
		return "", &AuthError{Message: p.text()}
	}

	// The success body is a JSON-encoded string.
	var token string
	if err := json.NewDecoder(res.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if token == "" {
		return "", &ShapeError{Field: "token"}
	}
	c.log.Info("signed in", "identifier", identifier)
	return token, nil
}

type accountData struct {
	Skills []Transaction `json:"skills"`
	User   []Profile     `json:"user"`
	XP     []Transaction `json:"xp"`
}

type queryEnvelope struct {
	Data   *accountData `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchAccount issues the fixed aggregate query with a bearer token. The
// caller is expected to re-persist the token on success (expiry refresh);
// this client does not touch storage.
func (c *Client) FetchAccount(ctx context.Context, token string) (*Account, error) {
	body, err := json.Marshal(map[string]string{"query": accountQuery})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var p errorPayload
		_ = json.NewDecoder(res.Body).Decode(&p)
		c.log.Warn("query rejected", "status", res.StatusCode, "message", p.text())
		return nil, &QueryError{Status: res.StatusCode, Message: p.text()}
	}

	var env queryEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	if len(env.Errors) > 0 {
		c.log.Warn("query returned errors", "message", env.Errors[0].Message)
		return nil, &QueryError{Status: res.StatusCode, Message: env.Errors[0].Message}
	}
	if env.Data == nil {
		return nil, &ShapeError{Field: "data"}
	}
	if len(env.Data.User) == 0 {
		return nil, &ShapeError{Field: "user"}
	}

	return &Account{
		Profile: env.Data.User[0],
		Skills:  env.Data.Skills,
		XP:      env.Data.XP,
	}, nil
}
