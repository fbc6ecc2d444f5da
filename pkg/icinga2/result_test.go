package icinga2

import (
	"github.com/stretchr/testify/require"
	"net/http"
	"testing"
)

func TestParseResponse(t *testing.T) {
	subtests := []struct {
		name       string
		statusCode int
		body       string
		mutation   bool
		expected   Result
	}{
		{
			name:       "list-results-kept-as-is",
			statusCode: 200,
			body:       `{"results":[{"name":"a"},{"name":"b"}]}`,
			expected:   Result{StatusCode: 200},
		},
		{
			name:       "list-empty",
			statusCode: 200,
			body:       `{"results":[]}`,
			expected:   Result{StatusCode: 200},
		},
		{
			name:       "mutation-reduced-to-first-result",
			statusCode: 200,
			body:       `{"results":[{"code":200.0,"status":"Object was created"}]}`,
			mutation:   true,
			expected:   Result{StatusCode: 200, Status: "Object was created"},
		},
		{
			name:       "mutation-with-name-and-errors",
			statusCode: 500,
			body:       `{"results":[{"code":500.0,"name":"web!http","status":"Attributes not updated","errors":["no such attribute"]}]}`,
			mutation:   true,
			expected: Result{
				StatusCode: 500,
				Name:       "web!http",
				Status:     "Attributes not updated",
				Errors:     []string{"no such attribute"},
			},
		},
		{
			name:       "error-envelope-top-level",
			statusCode: 404,
			body:       `{"error":404.0,"status":"No objects found."}`,
			expected:   Result{StatusCode: 404, Status: "No objects found."},
		},
		{
			name:       "error-status-wins-over-http-code",
			statusCode: 500,
			body:       `{"error":503.0,"status":"Shutting down."}`,
			expected:   Result{StatusCode: 503, Status: "Shutting down."},
		},
		{
			name:       "error-without-json-body",
			statusCode: 401,
			body:       `Unauthorized. Please check your user credentials.`,
			expected:   Result{StatusCode: 401, Status: http.StatusText(401)},
		},
		{
			name:       "mutation-result-code-missing-falls-back",
			statusCode: 200,
			body:       `{"results":[{"status":"ok"}]}`,
			mutation:   true,
			expected:   Result{StatusCode: 200, Status: "ok"},
		},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			res, err := parseResponse(st.statusCode, []byte(st.body), st.mutation)
			require.NoError(t, err)

			require.Equal(t, st.expected.StatusCode, res.StatusCode)
			require.Equal(t, st.expected.Name, res.Name)
			require.Equal(t, st.expected.Status, res.Status)
			require.Equal(t, st.expected.Errors, res.Errors)
			require.False(t, res.Unavailable)
		})
	}

	t.Run("results-preserved-for-lists", func(t *testing.T) {
		res, err := parseResponse(200, []byte(`{"results":[{"name":"a"},{"name":"b"}]}`), false)
		require.NoError(t, err)
		require.Len(t, res.Results, 2)
		require.True(t, res.Ok())
	})

	t.Run("malformed-success-body-is-an-error", func(t *testing.T) {
		_, err := parseResponse(200, []byte(`{"results":`), false)
		require.Error(t, err)
	})
}
