package icinga2

import (
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func validDowntime() *DowntimeSpec {
	now := time.Unix(1700000000, 0)

	return &DowntimeSpec{
		Host:      "web-1",
		Author:    "icingaadmin",
		Comment:   "maintenance",
		Type:      DowntimeFixed,
		StartTime: now,
		EndTime:   now.Add(2 * time.Hour),
	}
}

func TestDowntimeSpecValidate(t *testing.T) {
	subtests := []struct {
		name   string
		mutate func(*DowntimeSpec)
		valid  bool
	}{
		{"fixed-host", func(s *DowntimeSpec) {}, true},
		{"hostgroup", func(s *DowntimeSpec) { s.Host = ""; s.Hostgroup = "linux-servers" }, true},
		{"flexible-with-duration", func(s *DowntimeSpec) { s.Type = DowntimeFlexible; s.Duration = time.Hour }, true},
		{"missing-author", func(s *DowntimeSpec) { s.Author = "" }, false},
		{"missing-comment", func(s *DowntimeSpec) { s.Comment = "" }, false},
		{"bogus-type", func(s *DowntimeSpec) { s.Type = "sometimes" }, false},
		{"no-target", func(s *DowntimeSpec) { s.Host = "" }, false},
		{"both-targets", func(s *DowntimeSpec) { s.Hostgroup = "linux-servers" }, false},
		{"end-before-start", func(s *DowntimeSpec) { s.EndTime = s.StartTime.Add(-time.Hour) }, false},
		{"flexible-without-duration", func(s *DowntimeSpec) { s.Type = DowntimeFlexible }, false},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			spec := validDowntime()
			st.mutate(spec)

			err := spec.validate()
			if st.valid {
				require.NoError(t, err)
			} else {
				require.True(t, errors.Is(err, ErrValidation))
			}
		})
	}
}

func TestDowntimeSpecFilter(t *testing.T) {
	require.Equal(t, `host.name=="web-1"`, validDowntime().filter())

	spec := validDowntime()
	spec.Host = ""
	spec.Hostgroup = "linux-servers"
	require.Equal(t, `"linux-servers" in host.groups`, spec.filter())
}
