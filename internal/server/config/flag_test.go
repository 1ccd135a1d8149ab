package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-w", ":9091", "-d", "store.db", "-n", "temple", "-s", "secret",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-i", "300",
		},
			expected: &Config{
				EndpointAddrGRPC: "127.0.0.1:9090",
				EndpointAddrWS:   ":9091",
				DatabaseDSN:      "store.db",
				DocumentID:       "temple",
				SecretKey:        "secret",
				S3RootUser:       "user",
				S3RootPassword:   "password",
				S3Bucket:         "bucket",
				S3Region:         "us-west-1",
				S3BaseEndpoint:   "http://endpoint",
				BackupInterval:   5 * time.Minute,
			}},
		{name: "unknown flags are ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "1", "-a=:7000"},
			expected: &Config{EndpointAddrGRPC: ":7000"}},
		{name: "bad int panics", args: []string{"cmd", "-i", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{"endpoint_addr_grpc": ":1111", "secret_key": "from-json"})
	os.Args = []string{"cmd", "-c", path, "-a", ":2222"}

	cfg := LoadConfig()

	assert.Equal(t, ":2222", cfg.EndpointAddrGRPC)
	assert.Equal(t, "from-json", cfg.SecretKey)
	assert.Equal(t, "memory", cfg.DatabaseDSN)
}
