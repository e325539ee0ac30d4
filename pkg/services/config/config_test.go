package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/policy-report/pkg/services/downloads"
	"github.com/de-tools/policy-report/pkg/store/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, client.DefaultEndpoint, cfg.Backend.URL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, downloads.SinkFile, cfg.Downloads.Sink)
	assert.Equal(t, downloads.DefaultDir, cfg.Downloads.Dir)
}

func TestLoadConfig_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	path := writeFile(t, "config.yaml", `backend:
  url: "http://backend:9000/process"
log:
  level: debug
server:
  host: 0.0.0.0
  port: "9090"
downloads:
  sink: s3
  dir: out
  s3:
    bucket: reports
    prefix: acme
    profile: prod
`)

	// When
	cfg, err := LoadConfig(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000/process", cfg.Backend.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, downloads.SinkSettings{
		Dir:        "out",
		Bucket:     "reports",
		Prefix:     "acme",
		AWSProfile: "prod",
	}, cfg.Downloads.SinkSettings())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("POLICY_REPORT_BACKEND_URL", "http://env:8000/process")
	t.Setenv("POLICY_REPORT_DOWNLOADS_S3_BUCKET", "from-env")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://env:8000/process", cfg.Backend.URL)
	assert.Equal(t, "from-env", cfg.Downloads.S3.Bucket)
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeFile(t, "bad.yaml", "backend: [unterminated")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name: "Valid",
			cfg: Config{
				Backend:   BackendConfig{URL: client.DefaultEndpoint},
				Downloads: DownloadsConfig{Sink: downloads.SinkFile},
			},
		},
		{
			name: "S3WithoutBucket",
			cfg: Config{
				Backend:   BackendConfig{URL: client.DefaultEndpoint},
				Downloads: DownloadsConfig{Sink: downloads.SinkS3},
			},
			wantErr: []string{"downloads.s3.bucket"},
		},
		{
			name:    "Everything",
			cfg:     Config{Downloads: DownloadsConfig{Sink: "ftp"}},
			wantErr: []string{"backend.url", `unknown downloads.sink "ftp"`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if len(tc.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tc.wantErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}
