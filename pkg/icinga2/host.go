package icinga2

import (
	"context"
	"github.com/pkg/errors"
	"net/http"
)

// HostSpec describes a host to create or modify.
type HostSpec struct {
	Name         string
	Address      string
	Address6     string
	DisplayName  string
	CheckCommand string
	// Check scheduling; zero values leave the server defaults untouched.
	MaxCheckAttempts float64
	CheckInterval    float64
	RetryInterval    float64

	Templates []string
	Groups    []string
	Zone      string
	Notes     string
	NotesUrl  string
	ActionUrl string

	EnableNotifications bool
	Vars                map[string]interface{}
}

// attrs assembles the attribute document for create/modify calls.
func (s *HostSpec) attrs() map[string]interface{} {
	attrs := map[string]interface{}{
		"address":              s.Address,
		"check_command":        s.CheckCommand,
		"enable_notifications": s.EnableNotifications,
	}

	if s.Address6 != "" {
		attrs["address6"] = s.Address6
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
	if s.ActionUrl != "" {
		attrs["action_url"] = s.ActionUrl
	}
	if len(s.Vars) > 0 {
		attrs["vars"] = s.Vars
	}

	return attrs
}

// AddHost creates the host described by spec.
func (c *Client) AddHost(ctx context.Context, spec *HostSpec) (*Result, error) {
	if spec == nil || spec.Name == "" {
		return nil, errors.Wrap(ErrValidation, "host name missing")
	}
	if spec.Address == "" {
		spec.Address = spec.Name
	}
	if spec.CheckCommand == "" {
		spec.CheckCommand = "hostalive"
	}

	payload := map[string]interface{}{"attrs": spec.attrs()}
	if len(spec.Templates) > 0 {
		payload["templates"] = spec.Templates
	}

	return c.transport.Put(ctx, c.url("objects/hosts/%s", spec.Name), payload)
}

// ModifyHost updates an existing host. With mergeVars the given vars are
// merged into the host's existing ones, otherwise they replace them.
func (c *Client) ModifyHost(ctx context.Context, spec *HostSpec, mergeVars bool) (*Result, error) {
	if spec == nil || spec.Name == "" {
		return nil, errors.Wrap(ErrValidation, "host name missing")
	}

	// Merge into a fresh map so the caller's spec stays untouched.
	vars := spec.Vars
	if mergeVars && len(vars) > 0 {
		hosts, err := c.Hosts(ctx, spec.Name)
		if err != nil {
			return nil, err
		}
		if len(hosts) == 0 {
			return nil, errors.Wrapf(ErrValidation, "host %q does not exist", spec.Name)
		}

		merged := make(map[string]interface{}, len(hosts[0].Attrs.Vars)+len(vars))
		for k, v := range hosts[0].Attrs.Vars {
			merged[k] = v
		}
		for k, v := range vars {
			merged[k] = v
		}
		vars = merged
	}

	attrs := map[string]interface{}{}
	if spec.Address != "" {
		attrs["address"] = spec.Address
	}
	if spec.DisplayName != "" {
		attrs["display_name"] = spec.DisplayName
	}
	if spec.Notes != "" {
		attrs["notes"] = spec.Notes
	}
	if len(vars) > 0 {
		attrs["vars"] = vars
	}

	return c.transport.Post(ctx, c.url("objects/hosts/%s", spec.Name), map[string]interface{}{"attrs": attrs})
}

// DeleteHost removes the named host, cascading to dependent objects on request.
func (c *Client) DeleteHost(ctx context.Context, name string, cascade bool) (*Result, error) {
	if name == "" {
		return nil, errors.Wrap(ErrValidation, "host name missing")
	}

	url := c.url("objects/hosts/%s", name)
	if cascade {
		url += "?cascade=1"
	}

	return c.transport.Delete(ctx, url, nil)
}

// Hosts lists hosts. With a name, only that host; otherwise all of them.
func (c *Client) Hosts(ctx context.Context, name string) ([]ApiObject, error) {
	if name == "" {
		return c.objects(ctx, "hosts", nil)
	}

	res, err := c.transport.Get(ctx, c.url("objects/hosts/%s", name), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !res.Ok() {
		return nil, errors.Errorf("can't query host %q: %d %s", name, res.StatusCode, res.Status)
	}

	return res.Objects()
}

// HostExists tells whether the named host exists.
func (c *Client) HostExists(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, errors.Wrap(ErrValidation, "host name missing")
	}

	hosts, err := c.Hosts(ctx, name)
	if err != nil {
		return false, err
	}

	return len(hosts) > 0, nil
}

// HostObjects performs a structured host query with the given attrs, filter
// and joins. Nil attrs fall back on the attributes the severity engine needs.
func (c *Client) HostObjects(ctx context.Context, attrs []string, filter string, joins []string) ([]ApiObject, error) {
	if attrs == nil {
		attrs = hostQueryAttrs
	}

	return c.objects(ctx, "hosts", &ObjectsQuery{Attrs: attrs, Filter: filter, Joins: joins})
}

// HostProblemCount counts hosts in an unhandled problem state,
// optionally narrowed to specific states.
func (c *Client) HostProblemCount(ctx context.Context, states ...int) (int, error) {
	hosts, err := c.cachedObjects(ctx, "hosts")
	if err != nil {
		return 0, err
	}

	return CountProblems(hosts, states...), nil
}

// TopHostProblems ranks the most urgent unhandled host problems.
func (c *Client) TopHostProblems(ctx context.Context, max int) ([]string, map[string]int, error) {
	hosts, err := c.cachedObjects(ctx, "hosts")
	if err != nil {
		return nil, nil, err
	}

	names, severities := TopProblems(hosts, max, true)

	return names, severities, nil
}

// HostProblems aggregates raw, handled and adjusted host problem counts.
// Adjusted counts are raw minus handled and deliberately not clamped:
// a negative value surfaces inconsistent backend bookkeeping instead of
// hiding it.
type HostProblems struct {
	// Total is the number of unhandled host problems in the object snapshot.
	Total int
	// Down is the raw CIB count of hosts down.
	Down int
	// HandledDown is the number of down hosts acknowledged or in downtime.
	HandledDown int
	// AdjustedDown is Down minus HandledDown.
	AdjustedDown int
}

// HostProblemsAdjusted combines the cached CIB counts with handled counts
// derived from the most recent host object snapshot.
func (c *Client) HostProblemsAdjusted(ctx context.Context) (*HostProblems, error) {
	cib, err := c.CIBData(ctx)
	if err != nil {
		return nil, err
	}

	hosts, err := c.cachedObjects(ctx, "hosts")
	if err != nil {
		return nil, err
	}

	down := cib.NumHostsDown.Int()
	handled := HandledProblems(hosts, HostDown)

	return &HostProblems{
		Total:        CountProblems(hosts),
		Down:         down,
		HandledDown:  handled,
		AdjustedDown: down - handled,
	}, nil
}
