package icinga2

import (
	"github.com/icinga/icinga2-api/pkg/types"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func f(v float64) types.Float {
	return types.Float{Float64: v, Valid: true}
}

func checkedAt(sec int64) types.UnixSec {
	return types.UnixSec(time.Unix(sec, 0))
}

func object(name string, state, ack, downtime float64, checked bool) ApiObject {
	o := ApiObject{
		Name: name,
		Attrs: Attrs{
			State:           f(state),
			Acknowledgement: f(ack),
			DowntimeDepth:   f(downtime),
		},
	}
	if checked {
		o.Attrs.LastCheck = checkedAt(1700000000)
	}

	return o
}

func withHostJoin(o ApiObject, state, ack, downtime float64) ApiObject {
	o.Joins.Host = &HostJoin{
		State:           f(state),
		Acknowledgement: f(ack),
		DowntimeDepth:   f(downtime),
		LastCheck:       checkedAt(1700000000),
	}

	return o
}

func TestObjectSeverity(t *testing.T) {
	subtests := []struct {
		name     string
		object   ApiObject
		isHost   bool
		expected int
	}{
		{"host-ok-unchecked", object("h", HostUp, 0, 0, false), true, 4},
		{"host-ok-checked", object("h", HostUp, 0, 0, true), true, 20},
		{"host-down-unhandled", object("h", HostDown, 0, 0, true), true, 52},
		{"host-down-acknowledged", object("h", HostDown, 1, 0, true), true, 50},
		{"host-down-in-downtime", object("h", HostDown, 0, 1, true), true, 49},
		{"host-ack-wins-over-downtime", object("h", HostDown, 1, 2, true), true, 50},
		{"host-odd-state-counts-critical", object("h", 2, 0, 0, true), true, 84},
		{"service-warning-unhandled", object("s", ServiceWarning, 0, 0, true), false, 52},
		{"service-critical-unhandled", object("s", ServiceCritical, 0, 0, true), false, 84},
		{"service-critical-acknowledged", object("s", ServiceCritical, 1, 0, true), false, 82},
		{"service-critical-in-downtime", object("s", ServiceCritical, 0, 1, true), false, 81},
		{"service-unknown-unhandled", object("s", ServiceUnknown, 0, 0, true), false, 276},
		{"service-critical-host-down", withHostJoin(object("s", ServiceCritical, 0, 0, true), HostDown, 0, 0), false, 1108},
		{"service-critical-host-acknowledged", withHostJoin(object("s", ServiceCritical, 0, 0, true), HostUp, 1, 0), false, 596},
		{"service-critical-host-in-downtime", withHostJoin(object("s", ServiceCritical, 0, 0, true), HostUp, 0, 1), false, 340},
		{"service-critical-host-fine", withHostJoin(object("s", ServiceCritical, 0, 0, true), HostUp, 0, 0), false, 2132},
		{"service-ok-checked", object("s", ServiceOK, 0, 0, true), false, 20},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			require.Equal(t, st.expected, ObjectSeverity(st.object, st.isHost))
		})
	}
}

func TestObjectSeverityWithoutHostJoin(t *testing.T) {
	// A service queried without the host join must rank on its own terms,
	// the host context simply contributes nothing.
	svc := object("s", ServiceCritical, 0, 0, true)
	require.Nil(t, svc.Joins.Host)
	require.Equal(t, 84, ObjectSeverity(svc, false))
}

func TestCountProblems(t *testing.T) {
	objects := []ApiObject{
		object("ok", ServiceOK, 0, 0, true),
		object("warn", ServiceWarning, 0, 0, true),
		object("crit", ServiceCritical, 0, 0, true),
		object("crit-acked", ServiceCritical, 1, 0, true),
		object("crit-downtime", ServiceCritical, 0, 1, true),
		object("unknown", ServiceUnknown, 0, 0, true),
	}

	subtests := []struct {
		name     string
		states   []int
		expected int
	}{
		{"all-unhandled", nil, 3},
		{"warning-only", []int{ServiceWarning}, 1},
		{"critical-only", []int{ServiceCritical}, 1},
		{"critical-or-unknown", []int{ServiceCritical, ServiceUnknown}, 2},
		{"no-pending", []int{99}, 0},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			require.Equal(t, st.expected, CountProblems(objects, st.states...))
		})
	}
}

func TestHandledProblems(t *testing.T) {
	objects := []ApiObject{
		object("crit", ServiceCritical, 0, 0, true),
		object("crit-acked", ServiceCritical, 1, 0, true),
		object("crit-downtime", ServiceCritical, 0, 2, true),
		object("warn-acked", ServiceWarning, 1, 0, true),
	}

	require.Equal(t, 2, HandledProblems(objects, ServiceCritical))
	require.Equal(t, 1, HandledProblems(objects, ServiceWarning))
	require.Equal(t, 0, HandledProblems(objects, ServiceUnknown))
}

func TestTopProblems(t *testing.T) {
	objects := []ApiObject{
		object("ok", ServiceOK, 0, 0, true),
		object("warn", ServiceWarning, 0, 0, true),
		object("crit-acked", ServiceCritical, 1, 0, true),
		object("crit-a", ServiceCritical, 0, 0, true),
		object("crit-b", ServiceCritical, 0, 0, true),
		object("unknown", ServiceUnknown, 0, 0, true),
	}

	t.Run("ordering", func(t *testing.T) {
		names, severities := TopProblems(objects, 10, false)

		// Equal severities keep their input order.
		require.Equal(t, []string{"unknown", "crit-a", "crit-b", "crit-acked", "warn"}, names)
		require.Equal(t, 276, severities["unknown"])
		require.Equal(t, 84, severities["crit-a"])
		require.Equal(t, 84, severities["crit-b"])
		require.Equal(t, 82, severities["crit-acked"])
		require.Equal(t, 52, severities["warn"])
	})

	t.Run("cap", func(t *testing.T) {
		names, severities := TopProblems(objects, 2, false)

		require.Equal(t, []string{"unknown", "crit-a"}, names)
		require.Len(t, severities, 2)
	})

	t.Run("no-problems", func(t *testing.T) {
		names, severities := TopProblems([]ApiObject{object("ok", ServiceOK, 0, 0, true)}, 10, false)

		require.Empty(t, names)
		require.Empty(t, severities)
	})
}
