package icinga2

import (
	"context"
	"github.com/pkg/errors"
	"net/http"
)

// UserSpec describes a contact to create.
type UserSpec struct {
	Name                string
	DisplayName         string
	Email               string
	Pager               string
	EnableNotifications bool
	Groups              []string
}

// AddUser creates the user described by spec. The usergroups it references
// must exist beforehand.
func (c *Client) AddUser(ctx context.Context, spec *UserSpec) (*Result, error) {
	if spec == nil || spec.Name == "" {
		return nil, errors.Wrap(ErrValidation, "user name missing")
	}
	if spec.Email == "" {
		return nil, errors.Wrap(ErrValidation, "user email missing")
	}

	for _, group := range spec.Groups {
		exists, err := c.UsergroupExists(ctx, group)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.Wrapf(ErrValidation, "usergroup %q does not exist", group)
		}
	}

	attrs := map[string]interface{}{
		"email":                spec.Email,
		"enable_notifications": spec.EnableNotifications,
	}
	if spec.DisplayName != "" {
		attrs["display_name"] = spec.DisplayName
	}
	if spec.Pager != "" {
		attrs["pager"] = spec.Pager
	}
	if len(spec.Groups) > 0 {
		attrs["groups"] = spec.Groups
	}

	return c.transport.Put(ctx, c.url("objects/users/%s", spec.Name), map[string]interface{}{"attrs": attrs})
}

// DeleteUser removes the named user.
func (c *Client) DeleteUser(ctx context.Context, name string) (*Result, error) {
	if name == "" {
		return nil, errors.Wrap(ErrValidation, "user name missing")
	}

	return c.transport.Delete(ctx, c.url("objects/users/%s", name), nil)
}

// Users lists users. With a name, only that user.
func (c *Client) Users(ctx context.Context, name string) ([]ApiObject, error) {
	if name == "" {
		return c.objects(ctx, "users", nil)
	}

	res, err := c.transport.Get(ctx, c.url("objects/users/%s", name), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !res.Ok() {
		return nil, errors.Errorf("can't query user %q: %d %s", name, res.StatusCode, res.Status)
	}

	return res.Objects()
}

// UserExists tells whether the named user exists.
func (c *Client) UserExists(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, errors.Wrap(ErrValidation, "user name missing")
	}

	users, err := c.Users(ctx, name)
	if err != nil {
		return false, err
	}

	return len(users) > 0, nil
}
