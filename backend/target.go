package backend

import (
	"fmt"
	"strings"
)

// Target identifies an output dialect.
type Target uint8

const (
	TargetHLSL Target = iota
	TargetGLSL330
	TargetGLSLES300
	TargetGLSL450
	TargetMetal
)

var targetNames = [...]string{
	TargetHLSL:      "hlsl",
	TargetGLSL330:   "glsl330",
	TargetGLSLES300: "glsles300",
	TargetGLSL450:   "glsl450",
	TargetMetal:     "metal",
}

var targetExtensions = [...]string{
	TargetHLSL:      "hlsl",
	TargetGLSL330:   "330.glsl",
	TargetGLSLES300: "300.glsles",
	TargetGLSL450:   "450.glsl",
	TargetMetal:     "metal",
}

func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", t)
}

// Extension returns the file extension used for generated files, without
// the leading dot.
func (t Target) Extension() string {
	if int(t) < len(targetExtensions) {
		return targetExtensions[t]
	}
	return "txt"
}

// AllTargets returns every target in declaration order.
func AllTargets() []Target {
	return []Target{TargetHLSL, TargetGLSL330, TargetGLSLES300, TargetGLSL450, TargetMetal}
}

// ParseTarget converts a target name to its value. Matching is case
// insensitive and accepts "msl" for Metal.
func ParseTarget(s string) (Target, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "msl" {
		return TargetMetal, nil
	}
	for i, n := range targetNames {
		if n == name {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("unknown target %q", s)
}

// ParseTargets parses a comma separated target list. An empty list means
// all targets.
func ParseTargets(s string) ([]Target, error) {
	if strings.TrimSpace(s) == "" {
		return AllTargets(), nil
	}
	var out []Target
	seen := make(map[Target]bool)
	for _, part := range strings.Split(s, ",") {
		t, err := ParseTarget(part)
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}
