package icinga2

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
	"time"
)

// Downtime types the API accepts.
const (
	DowntimeFixed    = "fixed"
	DowntimeFlexible = "flexible"
)

// DowntimeSpec describes a downtime to schedule for a host or for every
// member of a hostgroup. Host and Hostgroup are mutually exclusive.
type DowntimeSpec struct {
	Host      string
	Hostgroup string

	// AllServices extends the downtime to the services of the matched hosts.
	AllServices bool

	Author  string
	Comment string

	// Type is either DowntimeFixed or DowntimeFlexible.
	Type      string
	StartTime time.Time
	EndTime   time.Time
	// Duration applies to flexible downtimes only.
	Duration time.Duration
}

func (s *DowntimeSpec) validate() error {
	switch {
	case s == nil:
		return errors.Wrap(ErrValidation, "downtime spec missing")
	case s.Author == "" || s.Comment == "":
		return errors.Wrap(ErrValidation, "downtime author and comment required")
	case s.Type != DowntimeFixed && s.Type != DowntimeFlexible:
		return errors.Wrapf(ErrValidation, "downtime type must be %q or %q", DowntimeFixed, DowntimeFlexible)
	case s.Host == "" && s.Hostgroup == "":
		return errors.Wrap(ErrValidation, "downtime needs a host or a hostgroup")
	case s.Host != "" && s.Hostgroup != "":
		return errors.Wrap(ErrValidation, "downtime host and hostgroup are mutually exclusive")
	case !s.EndTime.After(s.StartTime):
		return errors.Wrap(ErrValidation, "downtime end time must be after start time")
	case s.Type == DowntimeFlexible && s.Duration <= 0:
		return errors.Wrap(ErrValidation, "flexible downtime needs a positive duration")
	}

	return nil
}

// filter matches the hosts the downtime targets.
func (s *DowntimeSpec) filter() string {
	if s.Host != "" {
		return fmt.Sprintf("host.name==%q", s.Host)
	}

	return fmt.Sprintf("%q in host.groups", s.Hostgroup)
}

// ScheduleDowntime schedules the downtime described by spec.
func (c *Client) ScheduleDowntime(ctx context.Context, spec *DowntimeSpec) (*Result, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"type":         "Host",
		"filter":       spec.filter(),
		"author":       spec.Author,
		"comment":      spec.Comment,
		"fixed":        spec.Type == DowntimeFixed,
		"start_time":   spec.StartTime.Unix(),
		"end_time":     spec.EndTime.Unix(),
		"all_services": spec.AllServices,
	}
	if spec.Type == DowntimeFlexible {
		payload["duration"] = int64(spec.Duration.Seconds())
	}

	return c.transport.Post(ctx, c.url("actions/schedule-downtime"), payload)
}

// Downtimes lists all scheduled downtimes.
func (c *Client) Downtimes(ctx context.Context) ([]ApiObject, error) {
	return c.objects(ctx, "downtimes", nil)
}
