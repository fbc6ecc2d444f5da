package icinga2

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
)

// setNotifications flips enable_notifications on every object of the given
// kind matching the filter.
func (c *Client) setNotifications(ctx context.Context, kind, filter string, enable bool) (*Result, error) {
	payload := map[string]interface{}{
		"filter": filter,
		"attrs":  map[string]interface{}{"enable_notifications": enable},
	}

	return c.transport.Post(ctx, c.url("objects/%s", kind), payload)
}

// EnableHostNotifications enables or disables notifications for a host.
func (c *Client) EnableHostNotifications(ctx context.Context, host string, enable bool) (*Result, error) {
	if host == "" {
		return nil, errors.Wrap(ErrValidation, "host name missing")
	}

	return c.setNotifications(ctx, "hosts", fmt.Sprintf("host.name==%q", host), enable)
}

// EnableServiceNotifications enables or disables notifications
// for all services of a host.
func (c *Client) EnableServiceNotifications(ctx context.Context, host string, enable bool) (*Result, error) {
	if host == "" {
		return nil, errors.Wrap(ErrValidation, "host name missing")
	}

	return c.setNotifications(ctx, "services", fmt.Sprintf("host.name==%q", host), enable)
}

// EnableHostgroupNotifications enables or disables notifications for all
// hosts of a hostgroup and their services.
func (c *Client) EnableHostgroupNotifications(ctx context.Context, hostgroup string, enable bool) (*Result, error) {
	if hostgroup == "" {
		return nil, errors.Wrap(ErrValidation, "hostgroup name missing")
	}

	filter := fmt.Sprintf("%q in host.groups", hostgroup)

	res, err := c.setNotifications(ctx, "hosts", filter, enable)
	if err != nil {
		return res, err
	}

	return c.setNotifications(ctx, "services", filter, enable)
}
