package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestClientRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestClientLikeState(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/articles/go-generics/likes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"likes":12,"liked":true}`))
	}), Config{})

	st, err := c.LikeState(context.Background(), "go-generics")
	require.NoError(t, err)
	assert.Equal(t, int64(12), st.Likes)
	assert.True(t, st.Liked)
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"not_found", http.StatusNotFound, ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}), Config{})

			_, err := c.ToggleBookmark(context.Background(), "go-generics")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClientFailClosedDecode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"likes":1,"liked":false,"surprise":"field"}`))
	}), Config{})

	_, err := c.LikeState(context.Background(), "go-generics")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bookmarked":true}`))
	}), Config{Tokens: StaticToken("tok-123")})

	_, err := c.ToggleBookmark(context.Background(), "go-generics")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientAnonymousOmitsAuthorization(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"likes":0,"liked":false}`))
	}), Config{Tokens: StaticToken("")})

	_, err := c.LikeState(context.Background(), "go-generics")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientRetriesReadsOnly(t *testing.T) {
	var getCalls, postCalls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			atomic.AddInt32(&postCalls, 1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if atomic.AddInt32(&getCalls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"likes":5,"liked":false}`))
	})
	c := newTestClient(t, handler, Config{Retry: RetryPolicy{MaxAttempts: 3}})

	st, err := c.LikeState(context.Background(), "go-generics")
	require.NoError(t, err)
	assert.Equal(t, int64(5), st.Likes)
	assert.Equal(t, int32(3), atomic.LoadInt32(&getCalls))

	// a retried toggle would double-flip, so writes get exactly one attempt
	_, err = c.ToggleLike(context.Background(), "go-generics")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&postCalls))
}

func TestClientBookmarkSlugs(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/me/bookmarks/slugs", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"slugs":["a","b"]}`))
	}), Config{Tokens: StaticToken("tok")})

	slugs, err := c.BookmarkSlugs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, slugs)
}
