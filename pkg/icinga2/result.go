package icinga2

import (
	"encoding/json"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/pkg/types"
	"net/http"
)

// Result is the canonical outcome of any transport call.
// Exactly one of Results and Status is meaningful per call, never a blend.
type Result struct {
	StatusCode int
	// Name is the object the call addressed, if the server reported one.
	Name string
	// Status is the server's human-readable status text
	// or a locally synthesized error message.
	Status string
	// Errors carries additional messages on validation failures.
	Errors []string
	// Results holds the raw result objects of GET-family calls.
	Results []json.RawMessage
	// Unavailable is set when the API could not be reached at all, which
	// distinguishes "no data matched" from "server unreachable".
	Unavailable bool
}

// Objects decodes the Results into typed monitored objects.
func (r *Result) Objects() ([]ApiObject, error) {
	return DecodeObjects(r.Results)
}

// Ok tells whether the call got through and the server did not reject it.
func (r *Result) Ok() bool {
	return !r.Unavailable && r.StatusCode < 400
}

// envelope mirrors the two body shapes the API responds with: a results
// array on success and most failures, or top-level error/status fields.
type envelope struct {
	Results []json.RawMessage `json:"results"`
	Error   types.Float       `json:"error"`
	Status  string            `json:"status"`
}

// opResult is a single mutation outcome within a results array.
type opResult struct {
	Code   types.Float `json:"code"`
	Status string      `json:"status"`
	Name   string      `json:"name"`
	Errors []string    `json:"errors"`
}

// parseResponse normalizes a decoded HTTP response into a Result per the
// rules of the API: list calls keep their results array as-is, mutation
// calls reduce to the first result's code/status, and error envelopes fall
// back on the top-level error/status fields if they carry no results.
func parseResponse(statusCode int, body []byte, mutation bool) (*Result, error) {
	var env envelope
	if len(body) > 0 {
		if err := internal.UnmarshalJSON(body, &env); err != nil {
			if statusCode >= http.StatusBadRequest {
				// Not all error responses carry a JSON body.
				return &Result{StatusCode: statusCode, Status: http.StatusText(statusCode)}, nil
			}

			return nil, err
		}
	}

	if statusCode < http.StatusBadRequest && !mutation {
		return &Result{StatusCode: statusCode, Results: env.Results}, nil
	}

	if len(env.Results) > 0 {
		var op opResult
		if err := internal.UnmarshalJSON(env.Results[0], &op); err != nil {
			return nil, err
		}

		code := op.Code.Int()
		if code == 0 {
			code = statusCode
		}

		return &Result{StatusCode: code, Name: op.Name, Status: op.Status, Errors: op.Errors}, nil
	}

	code := env.Error.Int()
	if code == 0 {
		code = statusCode
	}

	return &Result{StatusCode: code, Status: env.Status}, nil
}
