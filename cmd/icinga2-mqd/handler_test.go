package main

import (
	"context"
	"github.com/icinga/icinga2-api/pkg/icinga2"
	"github.com/icinga/icinga2-api/pkg/logging"
	"github.com/icinga/icinga2-api/pkg/mq"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"net/http"
	"testing"
	"time"
)

func testHandler(t *testing.T) *apiHandler {
	t.Helper()

	client, err := icinga2.NewClientFromConfig(&icinga2.Config{
		Host:         "icinga.example.com",
		Port:         5665,
		ApiVersion:   "v1",
		NodeName:     "node",
		Username:     "root",
		Password:     "icinga",
		CacheTimeout: 320 * time.Second,
		Retry:        icinga2.RetryConfig{Attempts: 1, MinBackoff: time.Millisecond, MaxBackoff: time.Second},
	}, logging.NewLogger(zaptest.NewLogger(t).Sugar(), time.Second))
	require.NoError(t, err)

	return &apiHandler{client: client}
}

func TestHandlerRejectsMalformedPayload(t *testing.T) {
	h := testHandler(t)
	ctx := context.Background()
	job := &mq.Job{ID: "1", Cmd: "add", Payload: []byte(`{"name":`)}

	for name, handle := range map[string]func(context.Context, *mq.Job) (*mq.Reply, error){
		"add":    h.Add,
		"remove": h.Remove,
		"info":   h.Info,
	} {
		t.Run(name, func(t *testing.T) {
			reply, err := handle(ctx, job)

			// A broken payload is answered, not buried: retrying can't fix it.
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, reply.Code)
		})
	}
}

func TestHandlerRejectsInvalidSpec(t *testing.T) {
	h := testHandler(t)
	ctx := context.Background()

	t.Run("add-without-name", func(t *testing.T) {
		reply, err := h.Add(ctx, &mq.Job{ID: "1", Cmd: "add", Payload: []byte(`{"address":"10.0.0.1"}`)})

		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, reply.Code)
	})

	t.Run("remove-without-name", func(t *testing.T) {
		reply, err := h.Remove(ctx, &mq.Job{ID: "1", Cmd: "remove", Payload: []byte(`{}`)})

		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, reply.Code)
	})
}
