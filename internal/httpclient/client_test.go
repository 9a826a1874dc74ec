package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostDefaultsToJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.Method+" "+r.Header.Get("Content-Type")+" "+r.Header.Get("X-Trace"))
	}))
	defer server.Close()

	c := New(0)
	assert.Equal(t, 30*time.Second, c.GetTimeout())

	tests := []struct {
		name     string
		do       func() (*http.Response, error)
		expected string
	}{
		{
			name:     "post without headers",
			do:       func() (*http.Response, error) { return c.Post(t.Context(), server.URL, strings.NewReader("{}"), nil) },
			expected: "POST application/json ",
		},
		{
			name: "post keeps explicit content type",
			do: func() (*http.Response, error) {
				return c.Post(t.Context(), server.URL, strings.NewReader("a=b"), map[string]string{"Content-Type": "text/plain", "X-Trace": "1"})
			},
			expected: "POST text/plain 1",
		},
		{
			name:     "put without body has no content type",
			do:       func() (*http.Response, error) { return c.Put(t.Context(), server.URL, nil, nil) },
			expected: "PUT  ",
		},
		{
			name:     "get",
			do:       func() (*http.Response, error) { return c.Get(t.Context(), server.URL, map[string]string{"X-Trace": "2"}) },
			expected: "GET  2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.do()
			require.NoError(t, err)
			b, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(b))
		})
	}
}

func TestRateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	c := New(time.Second, WithRateLimit(0.001))

	resp, err := c.Get(t.Context(), server.URL, nil)
	require.NoError(t, err)
	resp.Body.Close()

	// the single token is spent; the next wait exceeds the deadline
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, server.URL, nil)
	assert.Error(t, err)
}

func TestReadErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusBadRequest)
	io.WriteString(rec, `{"error":"  ","message":"bad input"}`)
	resp := rec.Result()

	assert.False(t, IsSuccess(resp))
	body := ReadErrorBody(resp)
	assert.Equal(t, "bad input", body.GetString("error", "message"))

	rec = httptest.NewRecorder()
	io.WriteString(rec, `<html>nope</html>`)
	assert.Equal(t, "", ReadErrorBody(rec.Result()).GetString("error"))
}
