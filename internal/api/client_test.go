package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(signin, graphql string) *Client {
	return NewWithEndpoints(signin, graphql, http.DefaultClient, nil)
}

func TestSignInSuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`"tok-123"`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	token, err := c.SignIn(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:s3cret"))
	assert.Equal(t, want, gotAuth)
}

func TestSignInRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"wrong credentials"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	token, err := c.SignIn(context.Background(), "alice", "nope")
	require.Error(t, err)
	assert.Empty(t, token)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "wrong credentials", authErr.Message)
}

func TestSignInEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`""`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	_, err := c.SignIn(context.Background(), "alice", "s3cret")

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

const accountBody = `{
  "data": {
    "skills": [
      {"type": "skill_go", "amount": 10},
      {"type": "skill_js", "amount": 15}
    ],
    "user": [
      {
        "auditRatio": 1.234567,
        "firstName": "Alice",
        "lastName": "Smith",
        "email": "alice@example.com",
        "createdAt": "2023-01-05T12:35:00+00:00",
        "login": "asmith"
      }
    ],
    "xp": [
      {
        "type": "xp",
        "path": "/johvi/div-01/ascii-art",
        "createdAt": "2023-03-10T09:00:00+00:00",
        "amount": 2500,
        "object": {"name": "ascii-art"}
      }
    ]
  }
}`

func TestFetchAccountSuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(accountBody))
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	acct, err := c.FetchAccount(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	assert.Equal(t, "Alice", acct.Profile.FirstName)
	assert.Equal(t, "asmith", acct.Profile.Login)
	assert.InDelta(t, 1.234567, acct.Profile.AuditRatio, 1e-9)

	require.Len(t, acct.Skills, 2)
	assert.Equal(t, "skill_go", acct.Skills[0].Type)

	require.Len(t, acct.XP, 1)
	assert.Equal(t, 2500.0, acct.XP[0].Amount)
	assert.Equal(t, "ascii-art", acct.XP[0].ObjectName())
}

func TestFetchAccountRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"jwt expired"}`))
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	_, err := c.FetchAccount(context.Background(), "stale")

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, http.StatusForbidden, queryErr.Status)
	assert.Contains(t, queryErr.Error(), "jwt expired")
}

func TestFetchAccountGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"field \"nope\" not found"}]}`))
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	_, err := c.FetchAccount(context.Background(), "tok")

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Contains(t, queryErr.Message, "not found")
}

func TestFetchAccountMissingUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"skills":[],"user":[],"xp":[]}}`))
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	_, err := c.FetchAccount(context.Background(), "tok")

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "user", shapeErr.Field)
}

func TestFetchAccountMissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	_, err := c.FetchAccount(context.Background(), "tok")

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "data", shapeErr.Field)
}
