package icinga2

import (
	"context"
	"github.com/pkg/errors"
	"time"
)

// ObjectsQuery is a structured object query. It travels as a POST body with
// overridden GET semantics since the server accepts attrs/filter/joins only
// that way, never as query strings.
type ObjectsQuery struct {
	Attrs  []string `json:"attrs,omitempty"`
	Filter string   `json:"filter,omitempty"`
	Joins  []string `json:"joins,omitempty"`
}

// hostQueryAttrs are the attributes the derived-metric accessors need.
var hostQueryAttrs = []string{"name", "display_name", "state", "acknowledgement", "downtime_depth", "last_check"}

// serviceQueryJoins joins the host context the severity engine weighs in.
var serviceQueryJoins = []string{"host.name", "host.state", "host.acknowledgement", "host.downtime_depth", "host.last_check"}

// objects performs a structured query against the given object endpoint.
func (c *Client) objects(ctx context.Context, kind string, query *ObjectsQuery) ([]ApiObject, error) {
	var payload interface{}
	if query != nil {
		payload = query
	}

	res, err := c.transport.Get(ctx, c.url("objects/%s", kind), payload)
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		return nil, errors.Errorf("can't query %s: %d %s", kind, res.StatusCode, res.Status)
	}

	return res.Objects()
}

// cachedObjects returns the object snapshot for the given kind, refreshing it
// through the snapshot cache when its staleness window has elapsed.
func (c *Client) cachedObjects(ctx context.Context, kind string) ([]ApiObject, error) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	now := time.Now()
	if !c.cache.stale(c.cache.objectsFetched[kind], now) {
		return c.cache.objects[kind], nil
	}

	query := &ObjectsQuery{Attrs: hostQueryAttrs}
	if kind == "services" {
		query.Joins = serviceQueryJoins
	}

	objects, err := c.objects(ctx, kind, query)
	if err != nil {
		return nil, err
	}

	c.cache.objects[kind] = objects
	c.cache.objectsFetched[kind] = now

	return objects, nil
}
