package icinga2

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestModifyHostMergeVars(t *testing.T) {
	var modifyBody []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/objects/hosts/web-1" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":404.0,"status":"No objects found."}`)
			return
		}

		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"results":[{"name":"web-1","type":"Host","attrs":{"name":"web-1","vars":{"os":"Linux","rack":"r12"}}}]}`)
		case http.MethodPost:
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			modifyBody = body
			fmt.Fprint(w, `{"results":[{"code":200.0,"status":"Attributes updated"}]}`)
		}
	})
	client := newTestClient(t, handler, 320*time.Second)

	spec := &HostSpec{
		Name: "web-1",
		Vars: map[string]interface{}{"rack": "r13", "env": "prod"},
	}

	res, err := client.ModifyHost(context.Background(), spec, true)
	require.NoError(t, err)
	require.True(t, res.Ok())

	var payload struct {
		Attrs struct {
			Vars map[string]interface{} `json:"vars"`
		} `json:"attrs"`
	}
	require.NoError(t, json.Unmarshal(modifyBody, &payload))

	// Existing vars survive, the given ones win on conflict.
	require.Equal(t, map[string]interface{}{"os": "Linux", "rack": "r13", "env": "prod"}, payload.Attrs.Vars)

	// The caller's spec is input only, the merge must not leak into it.
	require.Equal(t, map[string]interface{}{"rack": "r13", "env": "prod"}, spec.Vars)
}

func TestModifyHostOverwriteVars(t *testing.T) {
	var fetches int
	var modifyBody []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fetches++
			fmt.Fprint(w, `{"results":[{"name":"web-1","type":"Host","attrs":{"name":"web-1","vars":{"os":"Linux"}}}]}`)
		case http.MethodPost:
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			modifyBody = body
			fmt.Fprint(w, `{"results":[{"code":200.0,"status":"Attributes updated"}]}`)
		}
	})
	client := newTestClient(t, handler, 320*time.Second)

	spec := &HostSpec{Name: "web-1", Vars: map[string]interface{}{"env": "prod"}}

	res, err := client.ModifyHost(context.Background(), spec, false)
	require.NoError(t, err)
	require.True(t, res.Ok())
	require.Zero(t, fetches, "overwriting must not fetch the existing vars")

	var payload struct {
		Attrs struct {
			Vars map[string]interface{} `json:"vars"`
		} `json:"attrs"`
	}
	require.NoError(t, json.Unmarshal(modifyBody, &payload))
	require.Equal(t, map[string]interface{}{"env": "prod"}, payload.Attrs.Vars)
}
