package main

import (
	"context"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/internal/command"
	"github.com/icinga/icinga2-api/pkg/icinga2"
	"github.com/icinga/icinga2-api/pkg/mq"
	"github.com/pkg/errors"
	"net/http"
)

// apiHandler relays queue commands to the monitoring API. The add and remove
// commands manage hosts, info returns the current host object. Malformed
// payloads and validation rejections come back as bad-request replies since
// burying them would just retry the same broken input.
type apiHandler struct {
	client *icinga2.Client
}

func newConsumer(cmd *command.Command, client *icinga2.Client, queue *mq.Queue) *mq.Consumer {
	return mq.NewConsumer(
		queue,
		&apiHandler{client: client},
		cmd.Config.MQ.KickInterval,
		cmd.Logs.GetChildLogger("mq"),
	)
}

// hostPayload is the job payload of the add and remove commands.
type hostPayload struct {
	Name    string                 `json:"name"`
	Address string                 `json:"address"`
	Groups  []string               `json:"groups"`
	Vars    map[string]interface{} `json:"vars"`
	Cascade bool                   `json:"cascade"`
}

func (h *apiHandler) Add(ctx context.Context, job *mq.Job) (*mq.Reply, error) {
	var p hostPayload
	if err := internal.UnmarshalJSON(job.Payload, &p); err != nil {
		return mq.BadRequest("malformed payload"), nil
	}

	res, err := h.client.AddHost(ctx, &icinga2.HostSpec{
		Name:    p.Name,
		Address: p.Address,
		Groups:  p.Groups,
		Vars:    p.Vars,
	})
	if err != nil {
		if errors.Is(err, icinga2.ErrValidation) {
			return mq.BadRequest(err.Error()), nil
		}

		return nil, err
	}

	return &mq.Reply{Code: res.StatusCode, Status: res.Status}, nil
}

func (h *apiHandler) Remove(ctx context.Context, job *mq.Job) (*mq.Reply, error) {
	var p hostPayload
	if err := internal.UnmarshalJSON(job.Payload, &p); err != nil {
		return mq.BadRequest("malformed payload"), nil
	}

	res, err := h.client.DeleteHost(ctx, p.Name, p.Cascade)
	if err != nil {
		if errors.Is(err, icinga2.ErrValidation) {
			return mq.BadRequest(err.Error()), nil
		}

		return nil, err
	}

	return &mq.Reply{Code: res.StatusCode, Status: res.Status}, nil
}

func (h *apiHandler) Info(ctx context.Context, job *mq.Job) (*mq.Reply, error) {
	var p hostPayload
	if err := internal.UnmarshalJSON(job.Payload, &p); err != nil {
		return mq.BadRequest("malformed payload"), nil
	}

	hosts, err := h.client.Hosts(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return &mq.Reply{Code: http.StatusNotFound, Status: "no such host"}, nil
	}

	data, err := internal.MarshalJSON(hosts[0])
	if err != nil {
		return nil, err
	}

	return &mq.Reply{Code: http.StatusOK, Status: "object found", Data: data}, nil
}
