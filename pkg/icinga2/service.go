package icinga2

import (
	"context"
	"github.com/pkg/errors"
	"net/http"
)

// ServiceSpec describes a service to create or modify.
type ServiceSpec struct {
	Name         string
	Host         string
	DisplayName  string
	CheckCommand string

	MaxCheckAttempts float64
	CheckInterval    float64
	RetryInterval    float64

	Templates []string
	Groups    []string
	Zone      string
	Notes     string
	NotesUrl  string

	EnableNotifications bool
	Vars                map[string]interface{}
}

func (s *ServiceSpec) attrs() map[string]interface{} {
	attrs := map[string]interface{}{
		"check_command":        s.CheckCommand,
		"enable_notifications": s.EnableNotifications,
	}

	if s.DisplayName != "" {
		attrs["display_name"] = s.DisplayName
	}
	if s.MaxCheckAttempts > 0 {
		attrs["max_check_attempts"] = s.MaxCheckAttempts
	}
	if s.CheckInterval > 0 {
		attrs["check_interval"] = s.CheckInterval
	}
	if s.RetryInterval > 0 {
		attrs["retry_interval"] = s.RetryInterval
	}
	if len(s.Groups) > 0 {
		attrs["groups"] = s.Groups
	}
	if s.Zone != "" {
		attrs["zone"] = s.Zone
	}
	if s.Notes != "" {
		attrs["notes"] = s.Notes
	}
	if s.NotesUrl != "" {
		attrs["notes_url"] = s.NotesUrl
	}
	if len(s.Vars) > 0 {
		attrs["vars"] = s.Vars
	}

	return attrs
}

// validate checks the fields every service mutation needs.
func (s *ServiceSpec) validate() error {
	if s == nil || s.Name == "" {
		return errors.Wrap(ErrValidation, "service name missing")
	}
	if s.Host == "" {
		return errors.Wrap(ErrValidation, "service host missing")
	}

	return nil
}

// AddService creates the service described by spec on its host.
func (c *Client) AddService(ctx context.Context, spec *ServiceSpec) (*Result, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if spec.CheckCommand == "" {
		return nil, errors.Wrap(ErrValidation, "service check command missing")
	}

	payload := map[string]interface{}{"attrs": spec.attrs()}
	if len(spec.Templates) > 0 {
		payload["templates"] = spec.Templates
	}

	return c.transport.Put(ctx, c.url("objects/services/%s!%s", spec.Host, spec.Name), payload)
}

// ModifyService updates an existing service.
func (c *Client) ModifyService(ctx context.Context, spec *ServiceSpec) (*Result, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	return c.transport.Post(ctx,
		c.url("objects/services/%s!%s", spec.Host, spec.Name),
		map[string]interface{}{"attrs": spec.attrs()})
}

// DeleteService removes the named service from its host.
func (c *Client) DeleteService(ctx context.Context, host, name string, cascade bool) (*Result, error) {
	if host == "" || name == "" {
		return nil, errors.Wrap(ErrValidation, "service host and name required")
	}

	url := c.url("objects/services/%s!%s", host, name)
	if cascade {
		url += "?cascade=1"
	}

	return c.transport.Delete(ctx, url, nil)
}

// Services lists services. With host and name, only that service;
// with just a host, all of its services; otherwise all services.
func (c *Client) Services(ctx context.Context, host, name string) ([]ApiObject, error) {
	switch {
	case host == "" && name == "":
		return c.objects(ctx, "services", nil)
	case name == "":
		return c.ServiceObjects(ctx, nil, `match("`+host+`",host.name)`, nil)
	}

	res, err := c.transport.Get(ctx, c.url("objects/services/%s!%s", host, name), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !res.Ok() {
		return nil, errors.Errorf("can't query service %q on %q: %d %s", name, host, res.StatusCode, res.Status)
	}

	return res.Objects()
}

// ServiceExists tells whether the named service exists on the given host.
func (c *Client) ServiceExists(ctx context.Context, host, name string) (bool, error) {
	if host == "" || name == "" {
		return false, errors.Wrap(ErrValidation, "service host and name required")
	}

	services, err := c.Services(ctx, host, name)
	if err != nil {
		return false, err
	}

	return len(services) > 0, nil
}

// ServiceObjects performs a structured service query with the given attrs,
// filter and joins. Nil attrs and joins fall back on what the severity
// engine needs, host context included.
func (c *Client) ServiceObjects(ctx context.Context, attrs []string, filter string, joins []string) ([]ApiObject, error) {
	if attrs == nil {
		attrs = hostQueryAttrs
	}
	if joins == nil {
		joins = serviceQueryJoins
	}

	return c.objects(ctx, "services", &ObjectsQuery{Attrs: attrs, Filter: filter, Joins: joins})
}

// UnhandledServices lists services in a problem state that are neither
// acknowledged nor in downtime.
func (c *Client) UnhandledServices(ctx context.Context) ([]ApiObject, error) {
	filter := "service.state != ServiceOK && service.downtime_depth == 0.0 && service.acknowledgement == 0.0"

	return c.ServiceObjects(ctx, nil, filter, nil)
}

// ServiceProblemCount counts services in an unhandled problem state,
// optionally narrowed to specific states.
func (c *Client) ServiceProblemCount(ctx context.Context, states ...int) (int, error) {
	services, err := c.cachedObjects(ctx, "services")
	if err != nil {
		return 0, err
	}

	return CountProblems(services, states...), nil
}

// TopServiceProblems ranks the most urgent unhandled service problems.
func (c *Client) TopServiceProblems(ctx context.Context, max int) ([]string, map[string]int, error) {
	services, err := c.cachedObjects(ctx, "services")
	if err != nil {
		return nil, nil, err
	}

	names, severities := TopProblems(services, max, false)

	return names, severities, nil
}

// ServiceProblems aggregates raw, handled and adjusted service problem
// counts per problem category. Adjusted counts are raw minus handled and
// deliberately not clamped: a negative value surfaces inconsistent backend
// bookkeeping instead of hiding it.
type ServiceProblems struct {
	// Total is the number of unhandled service problems in the object snapshot.
	Total int

	// Raw CIB counts.
	Warning  int
	Critical int
	Unknown  int

	// Problems acknowledged or in downtime, from the object snapshot.
	HandledWarning  int
	HandledCritical int
	HandledUnknown  int

	// Raw minus handled.
	AdjustedWarning  int
	AdjustedCritical int
	AdjustedUnknown  int
}

// ServiceProblemsAdjusted combines the cached CIB counts with handled counts
// derived from the most recent service object snapshot.
func (c *Client) ServiceProblemsAdjusted(ctx context.Context) (*ServiceProblems, error) {
	cib, err := c.CIBData(ctx)
	if err != nil {
		return nil, err
	}

	services, err := c.cachedObjects(ctx, "services")
	if err != nil {
		return nil, err
	}

	p := &ServiceProblems{
		Total:           CountProblems(services),
		Warning:         cib.NumServicesWarning.Int(),
		Critical:        cib.NumServicesCritical.Int(),
		Unknown:         cib.NumServicesUnknown.Int(),
		HandledWarning:  HandledProblems(services, ServiceWarning),
		HandledCritical: HandledProblems(services, ServiceCritical),
		HandledUnknown:  HandledProblems(services, ServiceUnknown),
	}

	p.AdjustedWarning = p.Warning - p.HandledWarning
	p.AdjustedCritical = p.Critical - p.HandledCritical
	p.AdjustedUnknown = p.Unknown - p.HandledUnknown

	return p, nil
}
