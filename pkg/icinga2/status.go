package icinga2

import (
	"context"
	"encoding/json"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/pkg/types"
	"github.com/pkg/errors"
	"strings"
	"time"
)

// ApplicationInfo is the IcingaApplication status snapshot.
type ApplicationInfo struct {
	Environment         string        `json:"environment"`
	NodeName            string        `json:"node_name"`
	Version             string        `json:"version"`
	Pid                 types.Float   `json:"pid"`
	ProgramStart        types.UnixSec `json:"program_start"`
	EnableNotifications types.Bool    `json:"enable_notifications"`
	EnableEventHandlers types.Bool    `json:"enable_event_handlers"`
	EnableFlapping      types.Bool    `json:"enable_flapping"`
	EnablePerfdata      types.Bool    `json:"enable_perfdata"`

	// Revision is the package revision split off the version string,
	// e.g. "1" for "r2.25.0-1". Not part of the wire format.
	Revision string `json:"-"`
}

// CIBInfo is the Cluster Information Base status snapshot: the aggregate
// host/service counts and check statistics of the monitored node.
type CIBInfo struct {
	Uptime           types.Float `json:"uptime"`
	AvgLatency       types.Float `json:"avg_latency"`
	AvgExecutionTime types.Float `json:"avg_execution_time"`

	NumHostsUp           types.Float `json:"num_hosts_up"`
	NumHostsDown         types.Float `json:"num_hosts_down"`
	NumHostsPending      types.Float `json:"num_hosts_pending"`
	NumHostsUnreachable  types.Float `json:"num_hosts_unreachable"`
	NumHostsInDowntime   types.Float `json:"num_hosts_in_downtime"`
	NumHostsAcknowledged types.Float `json:"num_hosts_acknowledged"`

	NumServicesOk           types.Float `json:"num_services_ok"`
	NumServicesWarning      types.Float `json:"num_services_warning"`
	NumServicesCritical     types.Float `json:"num_services_critical"`
	NumServicesUnknown      types.Float `json:"num_services_unknown"`
	NumServicesPending      types.Float `json:"num_services_pending"`
	NumServicesInDowntime   types.Float `json:"num_services_in_downtime"`
	NumServicesAcknowledged types.Float `json:"num_services_acknowledged"`

	ActiveHostChecks1min     types.Float `json:"active_host_checks_1min"`
	PassiveHostChecks1min    types.Float `json:"passive_host_checks_1min"`
	ActiveServiceChecks1min  types.Float `json:"active_service_checks_1min"`
	PassiveServiceChecks1min types.Float `json:"passive_service_checks_1min"`
}

// APIListenerInfo is the ApiListener status snapshot.
type APIListenerInfo struct {
	NumConnEndpoints    types.Float `json:"num_conn_endpoints"`
	NumNotConnEndpoints types.Float `json:"num_not_conn_endpoints"`
	NumEndpoints        types.Float `json:"num_endpoints"`
}

// ApplicationData returns the IcingaApplication status, served from the
// snapshot cache within the staleness window.
func (c *Client) ApplicationData(ctx context.Context) (*ApplicationInfo, error) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	now := time.Now()
	if !c.cache.stale(c.cache.appFetched, now) {
		app := c.cache.app
		return &app, nil
	}

	var status struct {
		IcingaApplication struct {
			App ApplicationInfo `json:"app"`
		} `json:"icingaapplication"`
	}
	if err := c.status(ctx, "IcingaApplication", &status); err != nil {
		return nil, err
	}

	app := status.IcingaApplication.App
	app.Version, app.Revision = parseVersion(app.Version)

	c.cache.app = app
	c.cache.appFetched = now

	return &app, nil
}

// CIBData returns the CIB status, served from the snapshot cache within the
// staleness window.
func (c *Client) CIBData(ctx context.Context) (*CIBInfo, error) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	now := time.Now()
	if !c.cache.stale(c.cache.cibFetched, now) {
		cib := c.cache.cib
		return &cib, nil
	}

	var cib CIBInfo
	if err := c.status(ctx, "CIB", &cib); err != nil {
		return nil, err
	}

	c.cache.cib = cib
	c.cache.cibFetched = now

	return &cib, nil
}

// APIListener returns the ApiListener status. Not cached.
func (c *Client) APIListener(ctx context.Context) (*APIListenerInfo, error) {
	var status struct {
		Api APIListenerInfo `json:"api"`
	}
	if err := c.status(ctx, "ApiListener", &status); err != nil {
		return nil, err
	}

	return &status.Api, nil
}

// Version returns the version of the monitored node, e.g. "2.25.0".
func (c *Client) Version(ctx context.Context) (string, error) {
	app, err := c.ApplicationData(ctx)
	if err != nil {
		return "", err
	}

	return app.Version, nil
}

// Revision returns the package revision of the monitored node, e.g. "1".
func (c *Client) Revision(ctx context.Context) (string, error) {
	app, err := c.ApplicationData(ctx)
	if err != nil {
		return "", err
	}

	return app.Revision, nil
}

// NodeName returns the node name of the monitored node.
func (c *Client) NodeName(ctx context.Context) (string, error) {
	app, err := c.ApplicationData(ctx)
	if err != nil {
		return "", err
	}

	return app.NodeName, nil
}

// StartTime returns when the monitored process started.
func (c *Client) StartTime(ctx context.Context) (time.Time, error) {
	app, err := c.ApplicationData(ctx)
	if err != nil {
		return time.Time{}, err
	}

	return app.ProgramStart.Time(), nil
}

// Uptime returns for how long the monitored process has been running.
func (c *Client) Uptime(ctx context.Context) (time.Duration, error) {
	cib, err := c.CIBData(ctx)
	if err != nil {
		return 0, err
	}

	return time.Duration(cib.Uptime.Float64 * float64(time.Second)), nil
}

// Available probes whether the API answers at all.
func (c *Client) Available(ctx context.Context) bool {
	res, err := c.transport.Get(ctx, c.url("status"), nil)

	return err == nil && res.Ok()
}

// status fetches a single status component and decodes its status document.
func (c *Client) status(ctx context.Context, component string, v interface{}) error {
	res, err := c.transport.Get(ctx, c.url("status/%s", component), nil)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return errors.Errorf("can't query status of %s: %d %s", component, res.StatusCode, res.Status)
	}
	if len(res.Results) == 0 {
		return errors.Errorf("status of %s missing in response", component)
	}

	var result struct {
		Name   string          `json:"name"`
		Status json.RawMessage `json:"status"`
	}
	if err := internal.UnmarshalJSON(res.Results[0], &result); err != nil {
		return err
	}

	return internal.UnmarshalJSON(result.Status, v)
}

// parseVersion splits the API's version string, e.g. "r2.25.0-1",
// into version and package revision.
func parseVersion(v string) (version, revision string) {
	version = strings.TrimPrefix(v, "r")
	if i := strings.LastIndex(version, "-"); i >= 0 {
		revision = version[i+1:]
		version = version[:i]
	}

	return
}
