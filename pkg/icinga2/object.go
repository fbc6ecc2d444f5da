package icinga2

import (
	"encoding/json"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/pkg/types"
)

// Host states as the API encodes them. Hosts only distinguish Up and Down;
// an unreachable host still carries state 1 plus last_reachable false.
const (
	HostUp   = 0
	HostDown = 1
)

// Service states as the API encodes them.
const (
	ServiceOK       = 0
	ServiceWarning  = 1
	ServiceCritical = 2
	ServiceUnknown  = 3
)

// ApiObject is a monitored object (host or service) as returned by the API.
type ApiObject struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Attrs Attrs  `json:"attrs"`
	Joins Joins  `json:"joins"`
}

// Attrs are the object attributes the client consumes, decoded into named
// optional fields so that a missing attribute stays null instead of
// requiring nested lookups at every use site.
type Attrs struct {
	Name                string                 `json:"name"`
	DisplayName         string                 `json:"display_name"`
	Address             string                 `json:"address"`
	CheckCommand        string                 `json:"check_command"`
	State               types.Float            `json:"state"`
	StateType           types.Float            `json:"state_type"`
	Acknowledgement     types.Float            `json:"acknowledgement"`
	DowntimeDepth       types.Float            `json:"downtime_depth"`
	LastCheck           types.UnixSec          `json:"last_check"`
	EnableNotifications types.Bool             `json:"enable_notifications"`
	Vars                map[string]interface{} `json:"vars"`
}

// Joins carries joined attributes requested alongside service queries.
type Joins struct {
	Host *HostJoin `json:"host"`
}

// HostJoin is the subset of host attributes joined into service objects,
// which the severity engine needs to weigh a service's host context.
type HostJoin struct {
	Name            string        `json:"name"`
	State           types.Float   `json:"state"`
	Acknowledgement types.Float   `json:"acknowledgement"`
	DowntimeDepth   types.Float   `json:"downtime_depth"`
	LastCheck       types.UnixSec `json:"last_check"`
}

// DecodeObjects decodes the raw results of a GET-family call into typed objects.
func DecodeObjects(raws []json.RawMessage) ([]ApiObject, error) {
	objects := make([]ApiObject, 0, len(raws))
	for _, raw := range raws {
		var obj ApiObject
		if err := internal.UnmarshalJSON(raw, &obj); err != nil {
			return nil, err
		}

		objects = append(objects, obj)
	}

	return objects, nil
}
