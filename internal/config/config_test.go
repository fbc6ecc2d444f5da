package config

import (
	"github.com/google/go-cmp/cmp"
	"github.com/icinga/icinga2-api/pkg/icinga2"
	"github.com/icinga/icinga2-api/pkg/mq"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYaml = `
api:
  host: icinga.example.com
  username: root
  password: icinga
mq:
  host: localhost
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

func TestFromYAMLFileDefaults(t *testing.T) {
	cfg, err := FromYAMLFile(writeConfig(t, minimalYaml))
	require.NoError(t, err)

	expectedApi := icinga2.Config{
		Host:         "icinga.example.com",
		Port:         5665,
		ApiVersion:   "v1",
		Username:     "root",
		Password:     "icinga",
		CacheTimeout: 320 * time.Second,
		Retry: icinga2.RetryConfig{
			Attempts:   1,
			MinBackoff: 256 * time.Millisecond,
			MaxBackoff: 8 * time.Second,
		},
	}
	if diff := cmp.Diff(expectedApi, cfg.Api); diff != "" {
		t.Errorf("api config mismatch (-expected +got):\n%s", diff)
	}

	expectedMq := mq.Config{
		Host:         "localhost",
		Port:         6379,
		Queue:        "icinga2",
		KickInterval: 5 * time.Minute,
	}
	if diff := cmp.Diff(expectedMq, cfg.MQ); diff != "" {
		t.Errorf("mq config mismatch (-expected +got):\n%s", diff)
	}

	require.Equal(t, 20*time.Second, cfg.Logging.Interval)
}

func TestFromYAMLFileOverrides(t *testing.T) {
	cfg, err := FromYAMLFile(writeConfig(t, `
api:
  host: icinga.example.com
  port: 5666
  username: root
  password: icinga
  cache-timeout: 10s
  retry:
    attempts: 5
mq:
  host: localhost
  queue: ops
  kick-interval: 30s
`))
	require.NoError(t, err)

	require.Equal(t, 5666, cfg.Api.Port)
	require.Equal(t, 10*time.Second, cfg.Api.CacheTimeout)
	require.Equal(t, uint64(5), cfg.Api.Retry.Attempts)
	require.Equal(t, "ops", cfg.MQ.Queue)
	require.Equal(t, 30*time.Second, cfg.MQ.KickInterval)
}

func TestFromYAMLFileInvalid(t *testing.T) {
	subtests := []struct {
		name string
		yaml string
	}{
		{"missing-api-host", "api:\n  username: root\n  password: icinga\nmq:\n  host: localhost\n"},
		{"negative-port", "api:\n  host: h\n  port: -1\n  username: u\n  password: p\nmq:\n  host: localhost\n"},
		{"missing-mq-host", "api:\n  host: h\n  username: u\n  password: p\n"},
		{"zero-retry-attempts", "api:\n  host: h\n  username: u\n  password: p\n  retry:\n    attempts: 0\nmq:\n  host: localhost\n"},
		{"not-yaml", "{"},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			_, err := FromYAMLFile(writeConfig(t, st.yaml))
			require.Error(t, err)
		})
	}
}

func TestFromYAMLFileMissing(t *testing.T) {
	_, err := FromYAMLFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestFlagsGetConfigPath(t *testing.T) {
	require.Equal(t, DefaultConfigPath, Flags{}.GetConfigPath())
	require.Equal(t, "/tmp/other.yml", Flags{Config: "/tmp/other.yml"}.GetConfigPath())
}
