package diffusion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGenerate(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("fake-image-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 0, zerolog.Nop())
	seed := int64(99)
	data, err := c.Generate(context.Background(), Request{
		Prompt:        "armored knight",
		Steps:         30,
		GuidanceScale: 8.5,
		Width:         512,
		Height:        512,
		Seed:          &seed,
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-image-bytes"), data)

	assert.Equal(t, "armored knight", got.Prompt)
	assert.Equal(t, 30, got.Steps)
	require.NotNil(t, got.Seed)
	assert.Equal(t, seed, *got.Seed)
}

func TestClientGenerateErrorClassification(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		transient bool
	}{
		{"server overloaded", http.StatusServiceUnavailable, true},
		{"throttled", http.StatusTooManyRequests, true},
		{"timeout", http.StatusRequestTimeout, true},
		{"bad request", http.StatusUnprocessableEntity, false},
		{"not found", http.StatusNotFound, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, 5*time.Second, 0, zerolog.Nop())
			_, err := c.Generate(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)

			var derr *Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tc.status, derr.Status)
			assert.Equal(t, tc.transient, derr.Transient)
			assert.Equal(t, tc.transient, IsTransient(err))
		})
	}
}

func TestClientGenerateEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 0, zerolog.Nop())
	_, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestClientGenerateConnectionRefused(t *testing.T) {
	// A stopped server makes the URL refuse connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second, 0, zerolog.Nop())
	_, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, IsTransient(err), "connection errors are transient")
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.True(t, IsTransient(&Error{Transient: true}))
	assert.False(t, IsTransient(&Error{Transient: false}))
	assert.True(t, IsTransient(context.DeadlineExceeded))
}
