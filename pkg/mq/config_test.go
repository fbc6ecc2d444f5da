package mq

import (
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	subtests := []struct {
		name   string
		config Config
		valid  bool
	}{
		{"ok", Config{Host: "localhost", Queue: "icinga2", KickInterval: time.Minute}, true},
		{"missing-host", Config{Queue: "icinga2", KickInterval: time.Minute}, false},
		{"missing-queue", Config{Host: "localhost", KickInterval: time.Minute}, false},
		{"zero-kick-interval", Config{Host: "localhost", Queue: "icinga2"}, false},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			if err := st.config.Validate(); st.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
