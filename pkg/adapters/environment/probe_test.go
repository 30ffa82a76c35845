package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestProbeWritableDir(t *testing.T) {
	dir := t.TempDir()
	report := NewProber(dir).WithGetenv(envFrom(nil)).Probe()

	assert.False(t, report.IsServerless)
	assert.True(t, report.HasWritePermission)
	assert.Equal(t, dir, report.ProbeDir)
	assert.Equal(t, domain.ModeFile, report.RecommendedMode())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}

func TestProbeServerlessMarkers(t *testing.T) {
	for _, key := range ServerlessMarkers {
		t.Run(key, func(t *testing.T) {
			report := NewProber(t.TempDir()).WithGetenv(envFrom(map[string]string{key: "1"})).Probe()
			assert.True(t, report.IsServerless)
			assert.Equal(t, "1", report.Variables[key])
			assert.Equal(t, domain.ModeMemory, report.RecommendedMode())
		})
	}
}

func TestProbeReadOnlyDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(dir, 0o555))

	report := NewProber(dir).WithGetenv(envFrom(nil)).Probe()
	assert.False(t, report.HasWritePermission)
	assert.Equal(t, domain.ModeMemory, report.RecommendedMode())
}

func TestProbeMissingDirFallsBackToCwd(t *testing.T) {
	report := NewProber(filepath.Join(t.TempDir(), "missing")).WithGetenv(envFrom(nil)).Probe()
	assert.Equal(t, report.Cwd, report.ProbeDir)
}
