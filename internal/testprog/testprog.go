// Package testprog holds the YAML program documents shared by tests.
package testprog

import (
	"embed"
	"testing"

	"github.com/gogpu/shadergen/ir"
)

//go:embed testdata/*.yaml
var files embed.FS

// Names of the embedded documents.
const (
	Quad      = "quad"
	Particles = "particles"
	MRT       = "mrt"
	Invalid   = "invalid"
)

// Load decodes an embedded program document.
func Load(name string) (*ir.Document, error) {
	data, err := files.ReadFile("testdata/" + name + ".yaml")
	if err != nil {
		return nil, err
	}
	return ir.LoadProgram(data)
}

// MustLoad is Load for tests.
func MustLoad(t testing.TB, name string) *ir.Document {
	t.Helper()
	doc, err := Load(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return doc
}

// Set returns the named shader set of doc.
func Set(t testing.TB, doc *ir.Document, name string) ir.ShaderSetInfo {
	t.Helper()
	for _, s := range doc.Sets {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no shader set %s", name)
	return ir.ShaderSetInfo{}
}
