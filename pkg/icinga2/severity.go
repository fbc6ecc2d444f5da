package icinga2

import (
	"sort"
)

// ObjectSeverity computes the synthetic urgency rank of a monitored object.
// The weights are additive flags chosen so that sorting descending surfaces
// the most urgent, least-handled, most-recently-escalated problems first:
//
//	+16    the object has been checked at least once
//	+2     acknowledged, else +1 in downtime, else +4 unhandled
//	+32    Warning/Down, +64 Critical, +256 Unknown (problem states only)
//	+1024  joined host down, +512 host acknowledged, +256 host in downtime,
//	       +2048 host fine (services with host join only)
//
// The exact values must stay bit-for-bit as they are; existing consumers
// sort on them. This is an ordering heuristic, not a checksum.
func ObjectSeverity(object ApiObject, isHost bool) int {
	severity := 0

	if !object.Attrs.LastCheck.Time().IsZero() {
		severity += 16
	}

	switch {
	case object.Attrs.Acknowledgement.Int() != 0:
		severity += 2
	case object.Attrs.DowntimeDepth.Float64 > 0:
		severity += 1
	default:
		severity += 4
	}

	if state := object.Attrs.State.Int(); state != ServiceOK {
		if isHost {
			if state == HostDown {
				severity += 32
			} else {
				severity += 64
			}
		} else {
			switch state {
			case ServiceWarning:
				severity += 32
			case ServiceCritical:
				severity += 64
			default:
				severity += 256
			}
		}
	}

	// Host context weighs into service urgency, but only when the host join
	// was actually requested. Without it the term contributes nothing rather
	// than guessing.
	if !isHost && object.Joins.Host != nil {
		host := object.Joins.Host
		switch {
		case host.State.Int() > 0:
			severity += 1024
		case host.Acknowledgement.Int() != 0:
			severity += 512
		case host.DowntimeDepth.Float64 > 0:
			severity += 256
		default:
			severity += 2048
		}
	}

	return severity
}

// CountProblems counts objects in a problem state that are neither in
// downtime nor acknowledged. Optional states narrow the count to those
// specific problem states.
func CountProblems(objects []ApiObject, states ...int) int {
	count := 0

	for _, object := range objects {
		state := object.Attrs.State.Int()
		if state == ServiceOK {
			continue
		}
		if object.Attrs.DowntimeDepth.Float64 != 0 || object.Attrs.Acknowledgement.Int() != 0 {
			continue
		}

		if len(states) == 0 {
			count++
			continue
		}
		for _, s := range states {
			if state == s {
				count++
				break
			}
		}
	}

	return count
}

// HandledProblems counts objects with the given problem state that are
// acknowledged or in downtime, i.e. problems an operator already took care of.
func HandledProblems(objects []ApiObject, state int) int {
	count := 0

	for _, object := range objects {
		if object.Attrs.State.Int() != state {
			continue
		}
		if object.Attrs.DowntimeDepth.Float64 != 0 || object.Attrs.Acknowledgement.Int() != 0 {
			count++
		}
	}

	return count
}

// TopProblems filters objects to problem states, ranks them by descending
// severity and returns the names of the first max of them along with a
// name-to-severity mapping. Objects of equal severity keep their input order;
// the server defines no secondary ordering and none is invented here.
func TopProblems(objects []ApiObject, max int, isHost bool) ([]string, map[string]int) {
	type ranked struct {
		name     string
		severity int
	}

	problems := make([]ranked, 0, len(objects))
	for _, object := range objects {
		if object.Attrs.State.Int() == ServiceOK {
			continue
		}

		problems = append(problems, ranked{
			name:     object.Name,
			severity: ObjectSeverity(object, isHost),
		})
	}

	sort.SliceStable(problems, func(i, j int) bool {
		return problems[i].severity > problems[j].severity
	})

	if max >= 0 && len(problems) > max {
		problems = problems[:max]
	}

	names := make([]string, 0, len(problems))
	severities := make(map[string]int, len(problems))
	for _, p := range problems {
		names = append(names, p.name)
		severities[p.name] = p.severity
	}

	return names, severities
}
