//go:build darwin

package msl

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergen/ir"
)

// compileMetal compiles source to AIR with the Metal toolchain at the
// language standard the backend targets. It skips when the toolchain is
// not installed.
func compileMetal(t *testing.T, kind ir.FunctionKind, source string) {
	t.Helper()
	if err := exec.Command("xcrun", "--sdk", "macosx", "--find", "metal").Run(); err != nil {
		t.Skipf("metal compiler unavailable: %v", err)
	}

	dir := t.TempDir()
	src := filepath.Join(dir, kind.String()+".metal")
	require.NoError(t, os.WriteFile(src, []byte(source), 0o600))

	std := "-std=" + New().Profile(kind)
	//nolint:gosec // G204: fixed tool, temp paths
	out, err := exec.Command("xcrun", "--sdk", "macosx", "metal", std,
		"-c", src, "-o", filepath.Join(dir, kind.String()+".air")).CombinedOutput()
	require.NoError(t, err, "%s\n--- %s stage ---\n%s", out, kind, source)
}
