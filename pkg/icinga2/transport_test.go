package icinga2

import (
	"context"
	"github.com/icinga/icinga2-api/pkg/backoff"
	"github.com/icinga/icinga2-api/pkg/logging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger(t *testing.T) *logging.Logger {
	return logging.NewLogger(zaptest.NewLogger(t).Sugar(), time.Second)
}

func newTestTransport(t *testing.T) *transport {
	c := &Config{}
	c.Retry = RetryConfig{Attempts: 1, MinBackoff: time.Millisecond, MaxBackoff: time.Second}

	tr := newTransport(c, &Credentials{Username: "root", Password: "icinga"}, testLogger(t))
	tr.backoff = backoff.NewExponentialWithJitter(time.Millisecond, 10*time.Millisecond)

	return tr
}

type recordedRequest struct {
	method   string
	override string
	accept   string
	body     string
	hasAuth  bool
}

func recordingServer(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	rec := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		rec.method = r.Method
		rec.override = r.Header.Get("X-HTTP-Method-Override")
		rec.accept = r.Header.Get("Accept")
		rec.body = string(body)
		_, _, rec.hasAuth = r.BasicAuth()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	return server, rec
}

func TestTransportVerbMapping(t *testing.T) {
	tr := newTestTransport(t)
	ctx := context.Background()

	t.Run("plain-get", func(t *testing.T) {
		server, rec := recordingServer(t, 200, `{"results":[]}`)

		res, err := tr.Get(ctx, server.URL, nil)
		require.NoError(t, err)
		require.True(t, res.Ok())
		require.Equal(t, http.MethodGet, rec.method)
		require.Empty(t, rec.override)
		require.Equal(t, "application/json", rec.accept)
		require.True(t, rec.hasAuth)
	})

	t.Run("get-with-query-body", func(t *testing.T) {
		server, rec := recordingServer(t, 200, `{"results":[]}`)

		_, err := tr.Get(ctx, server.URL, &ObjectsQuery{Filter: "host.state!=0"})
		require.NoError(t, err)
		require.Equal(t, http.MethodPost, rec.method)
		require.Equal(t, http.MethodGet, rec.override)
		require.JSONEq(t, `{"filter":"host.state!=0"}`, rec.body)
	})

	t.Run("put", func(t *testing.T) {
		server, rec := recordingServer(t, 200, `{"results":[{"code":200.0,"status":"created"}]}`)

		res, err := tr.Put(ctx, server.URL, map[string]interface{}{"attrs": map[string]interface{}{}})
		require.NoError(t, err)
		require.Equal(t, "created", res.Status)
		require.Equal(t, http.MethodPost, rec.method)
		require.Equal(t, http.MethodPut, rec.override)
	})

	t.Run("post", func(t *testing.T) {
		server, rec := recordingServer(t, 200, `{"results":[{"code":200.0,"status":"updated"}]}`)

		_, err := tr.Post(ctx, server.URL, map[string]interface{}{"attrs": map[string]interface{}{}})
		require.NoError(t, err)
		require.Equal(t, http.MethodPost, rec.method)
		require.Equal(t, http.MethodPost, rec.override)
	})

	t.Run("delete-without-payload-sends-empty-document", func(t *testing.T) {
		server, rec := recordingServer(t, 200, `{"results":[{"code":200.0,"status":"deleted"}]}`)

		_, err := tr.Delete(ctx, server.URL, nil)
		require.NoError(t, err)
		require.Equal(t, http.MethodPost, rec.method)
		require.Equal(t, http.MethodDelete, rec.override)
		require.JSONEq(t, `{}`, rec.body)
	})
}

func TestTransportServerRejection(t *testing.T) {
	tr := newTestTransport(t)
	server, _ := recordingServer(t, 404, `{"error":404.0,"status":"No objects found."}`)

	res, err := tr.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	require.False(t, res.Ok())
	require.False(t, res.Unavailable)
	require.Equal(t, 404, res.StatusCode)
	require.Equal(t, "No objects found.", res.Status)
}

func TestTransportUnavailable(t *testing.T) {
	tr := newTestTransport(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	res, err := tr.Get(context.Background(), url, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnavailable))
	require.NotNil(t, res)
	require.True(t, res.Unavailable)
	require.False(t, res.Ok())
}

func TestTransportRetriesConnectionFailures(t *testing.T) {
	c := &Config{}
	c.Retry = RetryConfig{Attempts: 3, MinBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
	tr := newTransport(c, &Credentials{Username: "root", Password: "icinga"}, testLogger(t))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	start := time.Now()
	_, err := tr.Get(context.Background(), url, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnavailable))
	// Two backoff sleeps must have happened between the three attempts.
	require.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}
