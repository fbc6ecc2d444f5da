package icinga2

import (
	"bytes"
	"context"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/pkg/backoff"
	"github.com/icinga/icinga2-api/pkg/logging"
	"github.com/icinga/icinga2-api/pkg/retry"
	"github.com/pkg/errors"
	"io"
	"net/http"
	"time"
)

// methodOverrideHeader instructs the server to treat a literal POST as the
// given verb. Structured queries (attrs/filter/joins) can only travel as POST
// bodies, never as query strings, so GET-with-body becomes POST plus this
// header, and all mutations use it for their real verb.
const methodOverrideHeader = "X-HTTP-Method-Override"

// transport executes a single HTTP call per operation and normalizes the
// heterogeneous response shapes into Result. It holds no per-request state.
type transport struct {
	client  *http.Client
	headers map[string]string
	// Basic auth credentials; empty when client certificates are in play.
	username string
	password string

	retrySettings RetryConfig
	backoff       backoff.Backoff

	logger *logging.Logger
}

func newTransport(c *Config, credentials *Credentials, logger *logging.Logger) *transport {
	return &transport{
		client: &http.Client{
			Transport: &http.Transport{TLSClientConfig: credentials.TlsConfig},
		},
		headers:       map[string]string{"Accept": "application/json"},
		username:      credentials.Username,
		password:      credentials.Password,
		retrySettings: c.Retry,
		backoff:       backoff.NewExponentialWithJitter(c.Retry.MinBackoff, c.Retry.MaxBackoff),
		logger:        logger,
	}
}

// Get performs a GET, or a POST with overridden GET semantics
// if a structured query payload is given.
func (t *transport) Get(ctx context.Context, url string, payload interface{}) (*Result, error) {
	if payload == nil {
		return t.do(ctx, http.MethodGet, url, "", nil, false)
	}

	return t.do(ctx, http.MethodPost, url, http.MethodGet, payload, false)
}

// Put creates an object via POST with overridden PUT semantics.
func (t *transport) Put(ctx context.Context, url string, payload interface{}) (*Result, error) {
	return t.do(ctx, http.MethodPost, url, http.MethodPut, payload, true)
}

// Post modifies an object. The override header is set regardless so that all
// mutations travel uniformly.
func (t *transport) Post(ctx context.Context, url string, payload interface{}) (*Result, error) {
	return t.do(ctx, http.MethodPost, url, http.MethodPost, payload, true)
}

// Delete removes an object via POST with overridden DELETE semantics.
func (t *transport) Delete(ctx context.Context, url string, payload interface{}) (*Result, error) {
	return t.do(ctx, http.MethodPost, url, http.MethodDelete, payload, true)
}

// GetRaw fetches a non-JSON resource, e.g. a file from a config stage.
func (t *transport) GetRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "can't create request")
	}

	req.Header.Set("Accept", "application/octet-stream")
	t.authenticate(req)

	resp, err := t.execute(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "can't read response body")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.Errorf("%s: %s", resp.Status, body)
	}

	return body, nil
}

func (t *transport) do(
	ctx context.Context, method, url, override string, payload interface{}, mutation bool,
) (*Result, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = internal.MarshalJSON(payload); err != nil {
			return nil, err
		}
	} else if mutation {
		// The server insists on a JSON body for overridden mutations.
		body = []byte("{}")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "can't create request")
	}

	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if override != "" {
		req.Header.Set(methodOverrideHeader, override)
	}
	t.authenticate(req)

	resp, err := t.execute(ctx, req, body)
	if err != nil {
		t.logger.Warnw("Can't reach API", "url", url, "error", err)

		return &Result{Unavailable: true, Status: err.Error()},
			errors.Wrapf(ErrUnavailable, "%s %s: %s", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "can't read response body")
	}

	return parseResponse(resp.StatusCode, raw, mutation)
}

// execute performs the exchange, retrying dial-level failures within the
// configured retry policy. The default policy of one attempt makes this a
// single try; HTTP error statuses are never retried.
func (t *transport) execute(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	var resp *http.Response

	err := retry.WithBackoff(
		ctx,
		func(ctx context.Context) (err error) {
			if body != nil {
				req.Body = io.NopCloser(bytes.NewReader(body))
			}

			resp, err = t.client.Do(req.WithContext(ctx))
			return
		},
		retry.Retryable,
		t.backoff,
		retry.Settings{
			Attempts: t.retrySettings.Attempts,
			Timeout:  t.retrySettings.Timeout,
			OnError: func(_ time.Duration, attempt uint64, err, lastErr error) {
				if lastErr == nil || err.Error() != lastErr.Error() {
					t.logger.Warnw("Can't connect to API. Retrying",
						"attempt", attempt, "error", err)
				}
			},
		},
	)

	return resp, err
}

func (t *transport) authenticate(req *http.Request) {
	if t.username != "" {
		req.SetBasicAuth(t.username, t.password)
	}
}
