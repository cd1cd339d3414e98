package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetchSendsAuthHeaders(t *testing.T) {
	var gotHost, gotKey, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Header.Get("X-RapidAPI-Host")
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"response":[]}`))
	}))
	defer server.Close()

	c := NewClient("api-nba-v1.p.rapidapi.com", "secret-key", 5*time.Second, zerolog.Nop())

	body, err := c.Fetch(context.Background(), server.URL+"/games?season=2022")
	require.NoError(t, err)
	assert.Equal(t, `{"response":[]}`, string(body))
	assert.Equal(t, "api-nba-v1.p.rapidapi.com", gotHost)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientFetchReturnsBodyOnNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"You have exceeded the rate limit per minute"}`))
	}))
	defer server.Close()

	c := NewClient("host", "key", 5*time.Second, zerolog.Nop())

	// Status codes are not interpreted here; the body flows to the
	// caller, which recognizes a throttling notice by its message.
	body, err := c.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rate limit")
}

func TestClientFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewClient("host", "key", time.Second, zerolog.Nop())

	_, err := c.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API request failed")
}

func TestClientFetchLogsEveryAttempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":[2022]}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	c := NewClient("host", "key", 5*time.Second, logger)

	_, err := c.Fetch(context.Background(), server.URL+"/seasons")
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "Successful request")
	assert.Contains(t, logged, server.URL+"/seasons")
	assert.Contains(t, logged, `{\"response\":[2022]}`)
}

func TestClientFetchContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	c := NewClient("host", "key", 5*time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, server.URL)
	require.Error(t, err)
}
