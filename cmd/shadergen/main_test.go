package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergen"
	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/layout"
)

const kernelProgram = `
types:
  - name: Blur.Params
    fields:
      - {name: Radius, type: uint32}
  - name: Blur.Kernels
    kind: class
    resources:
      - {name: Params, type: Blur.Params}
      - {name: Pixels, type: RWStructuredBuffer, element: Vector4}
    functions:
      - name: CS
        kind: compute
        workgroup: [8, 8, 1]
        body:
          - assign:
              target:
                index: {uint: 0}
                type: Vector4
                of: {resource: Pixels, type: RWStructuredBuffer}
              value: {new: Vector4}
          - var:
              name: r
              type: uint32
              init: {member: Radius, type: uint32, of: {resource: Params, type: Blur.Params}}
sets:
  - name: Blur
    compute: Blur.Kernels.CS
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "shadergen.yaml", `
output: gen
targets: [hlsl, metal]
host_packing: natural
parallelism: 2
log_level: debug
`)

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, "gen", cfg.Output)
	assert.Equal(t, 2, cfg.Parallelism)

	targets, err := cfg.targets()
	require.NoError(t, err)
	assert.Equal(t, []backend.Target{backend.TargetHLSL, backend.TargetMetal}, targets)

	packing, err := cfg.hostPacking()
	require.NoError(t, err)
	assert.Equal(t, layout.HostPackingNatural, packing)

	level, err := cfg.logLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SHADERGEN_OUTPUT", "out")
	t.Setenv("SHADERGEN_TARGETS", "glsl450,msl")
	t.Setenv("SHADERGEN_PARALLELISM", "3")
	t.Setenv("SHADERGEN_PROCESSOR_ARGS", "generated")

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, 3, cfg.Parallelism)
	assert.Equal(t, "generated", cfg.ProcessorArgs)
	assert.Equal(t, "warn", cfg.LogLevel)

	targets, err := cfg.targets()
	require.NoError(t, err)
	assert.Equal(t, []backend.Target{backend.TargetGLSL450, backend.TargetMetal}, targets)

	t.Setenv("SHADERGEN_PARALLELISM", "many")
	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"), true)
	assert.Error(t, err)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"), false)
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, dir, "bad.yaml", "targets: {"), false)
	assert.Error(t, err)

	_, err = Config{HostPacking: "tight"}.hostPacking()
	assert.Error(t, err)
	_, err = Config{LogLevel: "loud"}.logLevel()
	assert.Error(t, err)
}

func TestLoadConfigDotEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		wantErr bool
		level   string
	}{
		{"applied", "SHADERGEN_LOG_LEVEL=error\n", false, "error"},
		{"comments only", "# nothing to set\n", false, "warn"},
		{"malformed name", "SHADERGEN-LOG-LEVEL=debug\n", true, ""},
		{"unterminated quote", "SHADERGEN_OUTPUT=\"gen\n", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setenv restores the variable afterwards; unset it so .env applies.
			t.Setenv("SHADERGEN_LOG_LEVEL", "")
			require.NoError(t, os.Unsetenv("SHADERGEN_LOG_LEVEL"))
			dir := t.TempDir()
			t.Chdir(dir)
			writeFile(t, dir, ".env", tt.env)

			cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"), true)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), ".env")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.level, cfg.LogLevel)
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "blur.yaml", kernelProgram)
	out := filepath.Join(dir, "gen")

	cfg := defaultConfig()
	cfg.Output = out
	cfg.LogLevel = "error"
	cfg.Targets = []string{"hlsl", "glsl450"}
	cfg.ProcessorArgs = "do not edit"

	t.Cleanup(func() { shadergen.SetLogger(nil) })
	failed, err := run(context.Background(), cfg, input)
	require.NoError(t, err)
	assert.False(t, failed)

	list, err := os.ReadFile(filepath.Join(out, genListName))
	require.NoError(t, err)
	assert.Equal(t, []string{"Blur-compute.450.glsl", "Blur-compute.hlsl", "Blur.layout.yaml"},
		strings.Fields(string(list)))

	hlsl, err := os.ReadFile(filepath.Join(out, "Blur-compute.hlsl"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(hlsl), "// do not edit\n"))
	assert.Contains(t, string(hlsl), "[numthreads(8, 8, 1)]")

	layouts, err := os.ReadFile(filepath.Join(out, "Blur.layout.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, layouts)
}

func TestRunRejectsInvalidProgram(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "bad.yaml", `
types:
  - name: S
    resources:
      - {name: T, type: Texture2D}
`)
	cfg := defaultConfig()
	cfg.Output = filepath.Join(dir, "gen")

	_, err := run(context.Background(), cfg, input)
	assert.ErrorContains(t, err, "validation errors")
}

func TestBannerProcessor(t *testing.T) {
	set := &shadergen.GeneratedShaderSet{Compute: &shadergen.GeneratedStage{Code: "void main() {}\n"}}

	require.NoError(t, bannerProcessor(set, ""))
	assert.Equal(t, "void main() {}\n", set.Compute.Code)

	require.NoError(t, bannerProcessor(set, "v1"))
	assert.Equal(t, "// v1\nvoid main() {}\n", set.Compute.Code)
}
