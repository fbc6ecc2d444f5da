package icinga2

import (
	"sync"
	"time"
)

// snapshots memoizes the three expensive group fetches (application data,
// CIB data, objects per kind) for a bounded staleness window. Each group has
// its own last-called timestamp and is refreshed independently once its age
// exceeds the timeout; elapsed time is the only invalidation. The mutex keeps
// concurrent callers from racing a refresh; should two of them still both
// fetch, the last writer wins, which is fine since the fields are idempotent
// snapshots of the same server state.
type snapshots struct {
	mu      sync.Mutex
	timeout time.Duration

	app        ApplicationInfo
	appFetched time.Time

	cib        CIBInfo
	cibFetched time.Time

	objects        map[string][]ApiObject
	objectsFetched map[string]time.Time
}

func newSnapshots(timeout time.Duration) *snapshots {
	return &snapshots{
		timeout:        timeout,
		objects:        map[string][]ApiObject{},
		objectsFetched: map[string]time.Time{},
	}
}

// stale tells whether a group fetched at the given time needs a refresh.
// The zero time, i.e. never fetched, always does.
func (s *snapshots) stale(fetched time.Time, now time.Time) bool {
	return fetched.IsZero() || now.Sub(fetched) > s.timeout
}
