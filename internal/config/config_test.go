package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"vcfclean/internal/config"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "BEGIN:VCARD", cfg.Markers.Begin)
	require.Equal(t, "END:VCARD", cfg.Markers.End)
	require.Equal(t, "UTF-8", cfg.Encoding.Fallback)
	require.Equal(t, "3.0", cfg.VCard.DefaultVersion)
	require.Equal(t, "invalid_explanations.txt", cfg.Report.Path)
	require.Empty(t, cfg.Report.XLSXPath)
	require.False(t, cfg.Artifacts.Persist)
	require.Empty(t, cfg.Metrics.TextfilePath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("REPORT_PATH", "/tmp/report.txt")
	t.Setenv("ARTIFACTS_PERSIST", "true")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, "/tmp/report.txt", cfg.Report.Path)
	require.True(t, cfg.Artifacts.Persist)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`environment: test
encoding:
  fallback: windows-1252
vcard:
  defaultVersion: "4.0"
report:
  xlsxPath: invalid.xlsx
metrics:
  textfilePath: vcfclean.prom
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "test", cfg.Environment)
	require.Equal(t, "windows-1252", cfg.Encoding.Fallback)
	require.Equal(t, "4.0", cfg.VCard.DefaultVersion)
	require.Equal(t, "invalid.xlsx", cfg.Report.XLSXPath)
	require.Equal(t, "vcfclean.prom", cfg.Metrics.TextfilePath)
	require.Equal(t, "BEGIN:VCARD", cfg.Markers.Begin)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown environment", body: "environment: staging\n"},
		{name: "same markers", body: "markers:\n  begin: X\n  end: X\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			_, err := config.Load(path)
			require.Error(t, err)
		})
	}
}
