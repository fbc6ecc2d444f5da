package icinga2

import (
	"context"
	"github.com/pkg/errors"
	"net/http"
)

// The hostgroup, servicegroup and usergroup endpoints share one CRUD shape;
// groupKind binds the endpoint path and the error wording.
type groupKind struct {
	endpoint string
	label    string
}

var (
	hostgroups    = groupKind{"hostgroups", "hostgroup"}
	servicegroups = groupKind{"servicegroups", "servicegroup"}
	usergroups    = groupKind{"usergroups", "usergroup"}
)

func (c *Client) addGroup(ctx context.Context, kind groupKind, name, displayName string) (*Result, error) {
	if name == "" {
		return nil, errors.Wrapf(ErrValidation, "%s name missing", kind.label)
	}
	if displayName == "" {
		return nil, errors.Wrapf(ErrValidation, "%s display name missing", kind.label)
	}

	payload := map[string]interface{}{
		"attrs": map[string]interface{}{"display_name": displayName},
	}

	return c.transport.Put(ctx, c.url("objects/%s/%s", kind.endpoint, name), payload)
}

func (c *Client) deleteGroup(ctx context.Context, kind groupKind, name string) (*Result, error) {
	if name == "" {
		return nil, errors.Wrapf(ErrValidation, "%s name missing", kind.label)
	}

	return c.transport.Delete(ctx, c.url("objects/%s/%s", kind.endpoint, name), nil)
}

func (c *Client) listGroups(ctx context.Context, kind groupKind, name string) ([]ApiObject, error) {
	if name == "" {
		return c.objects(ctx, kind.endpoint, nil)
	}

	res, err := c.transport.Get(ctx, c.url("objects/%s/%s", kind.endpoint, name), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !res.Ok() {
		return nil, errors.Errorf("can't query %s %q: %d %s", kind.label, name, res.StatusCode, res.Status)
	}

	return res.Objects()
}

func (c *Client) groupExists(ctx context.Context, kind groupKind, name string) (bool, error) {
	if name == "" {
		return false, errors.Wrapf(ErrValidation, "%s name missing", kind.label)
	}

	groups, err := c.listGroups(ctx, kind, name)
	if err != nil {
		return false, err
	}

	return len(groups) > 0, nil
}

// AddHostgroup creates a hostgroup with the given display name.
func (c *Client) AddHostgroup(ctx context.Context, name, displayName string) (*Result, error) {
	return c.addGroup(ctx, hostgroups, name, displayName)
}

// DeleteHostgroup removes the named hostgroup.
func (c *Client) DeleteHostgroup(ctx context.Context, name string) (*Result, error) {
	return c.deleteGroup(ctx, hostgroups, name)
}

// Hostgroups lists hostgroups. With a name, only that hostgroup.
func (c *Client) Hostgroups(ctx context.Context, name string) ([]ApiObject, error) {
	return c.listGroups(ctx, hostgroups, name)
}

// HostgroupExists tells whether the named hostgroup exists.
func (c *Client) HostgroupExists(ctx context.Context, name string) (bool, error) {
	return c.groupExists(ctx, hostgroups, name)
}

// AddServicegroup creates a servicegroup with the given display name.
func (c *Client) AddServicegroup(ctx context.Context, name, displayName string) (*Result, error) {
	return c.addGroup(ctx, servicegroups, name, displayName)
}

// DeleteServicegroup removes the named servicegroup.
func (c *Client) DeleteServicegroup(ctx context.Context, name string) (*Result, error) {
	return c.deleteGroup(ctx, servicegroups, name)
}

// Servicegroups lists servicegroups. With a name, only that servicegroup.
func (c *Client) Servicegroups(ctx context.Context, name string) ([]ApiObject, error) {
	return c.listGroups(ctx, servicegroups, name)
}

// ServicegroupExists tells whether the named servicegroup exists.
func (c *Client) ServicegroupExists(ctx context.Context, name string) (bool, error) {
	return c.groupExists(ctx, servicegroups, name)
}

// AddUsergroup creates a usergroup with the given display name.
func (c *Client) AddUsergroup(ctx context.Context, name, displayName string) (*Result, error) {
	return c.addGroup(ctx, usergroups, name, displayName)
}

// DeleteUsergroup removes the named usergroup.
func (c *Client) DeleteUsergroup(ctx context.Context, name string) (*Result, error) {
	return c.deleteGroup(ctx, usergroups, name)
}

// Usergroups lists usergroups. With a name, only that usergroup.
func (c *Client) Usergroups(ctx context.Context, name string) ([]ApiObject, error) {
	return c.listGroups(ctx, usergroups, name)
}

// UsergroupExists tells whether the named usergroup exists.
func (c *Client) UsergroupExists(ctx context.Context, name string) (bool, error) {
	return c.groupExists(ctx, usergroups, name)
}
