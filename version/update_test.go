package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReleaseServer(t *testing.T, body *atomic.Value) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.UserAgent(), "PIAWireguard/"))
		_, _ = w.Write([]byte(body.Load().(string)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdate_FetchLatest(t *testing.T) {
	var body atomic.Value
	body.Store("1.5.0\n")
	srv := newReleaseServer(t, &body)

	u := NewUpdate(srv.URL, srv.Client())

	changed, err := u.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "1.5.0", u.LastAvailable())
	assert.True(t, u.IsUpdateAvailable())

	changed, err = u.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.False(t, changed, "same version must not be reported as a change")
}

func TestUpdate_NoUpdateForOlderRelease(t *testing.T) {
	var body atomic.Value
	body.Store("0.9")
	srv := newReleaseServer(t, &body)

	u := NewUpdate(srv.URL, srv.Client())
	_, err := u.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.False(t, u.IsUpdateAvailable())
}

func TestUpdate_Listener(t *testing.T) {
	var body atomic.Value
	body.Store("2.0.0")
	srv := newReleaseServer(t, &body)

	u := NewUpdate(srv.URL, srv.Client())
	var notified []string
	u.SetOnUpdateListener(func(v string) {
		notified = append(notified, v)
	})
	assert.Empty(t, notified)

	u.fetchAndCheck(context.Background())
	assert.Equal(t, []string{"2.0.0"}, notified)

	u.SetLocalVersion("2.0.0")
	assert.Len(t, notified, 1, "listener must not fire once up to date")
}

func TestUpdate_InvalidResponses(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "bad status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "too large",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(strings.Repeat("1", maxResponseSize+10)))
			},
		},
		{
			name: "not a version",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("latest"))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			u := NewUpdate(srv.URL, srv.Client())
			changed, err := u.FetchLatest(context.Background())
			assert.Error(t, err)
			assert.False(t, changed)
			assert.Equal(t, "0.0.0", u.LastAvailable())
		})
	}
}

func TestUpdate_Start(t *testing.T) {
	var body atomic.Value
	body.Store("3.1.0")
	srv := newReleaseServer(t, &body)

	u := NewUpdate(srv.URL, srv.Client())
	notified := make(chan string, 1)
	u.SetOnUpdateListener(func(v string) {
		notified <- v
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		u.Start(ctx)
		close(done)
	}()

	select {
	case v := <-notified:
		assert.Equal(t, "3.1.0", v)
	case <-time.After(10 * time.Second):
		t.Fatal("listener was not called after the first fetch")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Start did not return after the context was cancelled")
	}
}
