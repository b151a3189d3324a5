package profilers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupAndQuit(t *testing.T) {
	dir := t.TempDir()
	cpuPath := filepath.Join(dir, "cpu.prof")
	memPath := filepath.Join(dir, "mem.prof")
	*flagCPUProfile = cpuPath
	*flagMemProfile = memPath
	defer func() {
		*flagCPUProfile, *flagMemProfile = "", ""
	}()

	p, err := Setup(context.Background())
	require.NoError(t, err)
	sum := 0
	for ii := range 1_000_000 {
		sum += ii % 7
	}
	require.Positive(t, sum)
	p.OnQuit()

	for _, path := range []string{cpuPath, memPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		require.Positive(t, info.Size(), path)
	}

	// A nil Profilers is a no-op.
	var nilProfilers *Profilers
	nilProfilers.OnQuit()
}

func TestSetup_BadPath(t *testing.T) {
	*flagCPUProfile = filepath.Join(t.TempDir(), "missing", "cpu.prof")
	defer func() { *flagCPUProfile = "" }()
	_, err := Setup(context.Background())
	require.Error(t, err)
}
