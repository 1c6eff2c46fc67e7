package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yurifrl/adinsights/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data-dir", ".", "")
	flags.Int("top-n", 15, "")
	flags.String("log-level", "info", "")
	return flags
}

func TestBuildDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Build("", nil)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, 15, cfg.TopN)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestBuildConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "adinsights.yaml")
	writeFile(t, path, "data_dir: /data\ntop_n: 20\nformat: xls\nserver:\n  addr: \":8080\"\n")

	cfg, err := Build(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, 20, cfg.TopN)
	assert.Equal(t, "xls", cfg.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestBuildPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "config.yaml"), "top_n: 20\ndata_dir: /from-file\n")
	t.Setenv("ADINSIGHTS_TOP_N", "30")

	cfg, err := Build("", nil)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.TopN, "env overrides the config file")
	assert.Equal(t, "/from-file", cfg.DataDir)

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--top-n", "40"}))
	cfg, err = Build("", flags)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.TopN, "flags override env")
}

func TestBuildDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, ".env"), "ADINSIGHTS_DATA_DIR=/from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("ADINSIGHTS_DATA_DIR") })

	cfg, err := Build("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/from-dotenv", cfg.DataDir)
}

func TestBuildInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"top_n too small", "top_n: 4\n", "TopN"},
		{"top_n too large", "top_n: 51\n", "TopN"},
		{"unknown format", "format: json\n", "Format"},
		{"bad log level", "log:\n  level: loud\n", "Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			path := filepath.Join(dir, "config.yaml")
			writeFile(t, path, tt.content)

			_, err := Build(path, nil)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestBuildMissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Build("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestOptions(t *testing.T) {
	cfg := &Config{TopN: 20, Format: "xls"}
	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, 20, opts.TopN)
	require.Len(t, opts.Manifest.Entries, 10)
	assert.Equal(t, ".xls", filepath.Ext(opts.Manifest.Entries[0].File))

	cfg.Format = "pdf"
	_, err = cfg.Options()
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
