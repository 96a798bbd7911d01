package shadergen_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/gogpu/shadergen"
	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/internal/testprog"
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/layout"
	"github.com/gogpu/shadergen/model"
)

// ---------------------------------------------------------------------------
// Model construction
// ---------------------------------------------------------------------------

// BenchmarkBuildModel measures call graph discovery, resource assignment
// and structure layout for one shader set.
func BenchmarkBuildModel(b *testing.B) {
	doc := testprog.MustLoad(b, testprog.Quad)
	set := testprog.Set(b, doc, "Quad")
	engine := layout.NewEngine(doc.Program, layout.HostPackingSequential)

	b.ReportAllocs()
	b.ResetTimer()

	var m *model.ShaderModel
	for i := 0; i < b.N; i++ {
		var err error
		m, err = model.NewBuilder(doc.Program, engine).Build(set)
		if err != nil {
			b.Fatalf("build failed: %v", err)
		}
	}
	runtime.KeepAlive(m)
}

// ---------------------------------------------------------------------------
// Cross-backend comparison: same shader set generated for every target
// ---------------------------------------------------------------------------

// BenchmarkGenerateSet benchmarks one shader set per target, including
// model construction.
func BenchmarkGenerateSet(b *testing.B) {
	doc := testprog.MustLoad(b, testprog.Quad)
	set := testprog.Set(b, doc, "Quad")
	gen := shadergen.New(doc.Program, shadergen.DefaultOptions())

	for _, target := range backend.AllTargets() {
		b.Run(target.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			var out *shadergen.GeneratedShaderSet
			for i := 0; i < b.N; i++ {
				var err error
				out, err = gen.GenerateSet(set, target)
				if err != nil {
					b.Fatalf("%s failed: %v", target, err)
				}
			}
			runtime.KeepAlive(out)
		})
	}
}

// BenchmarkDriver benchmarks only the backend emit phase of the compute
// stage.
func BenchmarkDriver(b *testing.B) {
	doc := testprog.MustLoad(b, testprog.Particles)
	m, err := model.NewBuilder(doc.Program, layout.NewEngine(doc.Program, layout.HostPackingSequential)).
		Build(testprog.Set(b, doc, "Particles"))
	if err != nil {
		b.Fatalf("build failed: %v", err)
	}

	for _, target := range backend.AllTargets() {
		lb, err := shadergen.NewBackend(target)
		if err != nil {
			b.Fatalf("backend: %v", err)
		}
		b.Run(target.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			var code string
			for i := 0; i < b.N; i++ {
				code, err = backend.NewDriver(lb, m).Generate(ir.FunctionCompute)
				if err != nil {
					b.Fatalf("generate failed: %v", err)
				}
			}
			runtime.KeepAlive(code)
		})
	}
}

// ---------------------------------------------------------------------------
// Batch generation
// ---------------------------------------------------------------------------

// BenchmarkGenerate benchmarks a full batch over every fixture set and
// target with sequential and parallel job scheduling.
func BenchmarkGenerate(b *testing.B) {
	doc := testprog.MustLoad(b, testprog.MRT)

	for _, tc := range []struct {
		name        string
		parallelism int
	}{
		{"Serial", 1},
		{"Parallel", 0},
	} {
		b.Run(tc.name, func(b *testing.B) {
			gen := shadergen.New(doc.Program, shadergen.Options{Parallelism: tc.parallelism})
			b.ReportAllocs()
			b.ResetTimer()

			var result *shadergen.Result
			for i := 0; i < b.N; i++ {
				var err error
				result, err = gen.Generate(context.Background(), doc.Sets)
				if err != nil {
					b.Fatalf("generate failed: %v", err)
				}
			}
			runtime.KeepAlive(result)
		})
	}
}

// BenchmarkValidate measures program validation.
func BenchmarkValidate(b *testing.B) {
	doc := testprog.MustLoad(b, testprog.Particles)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		errs, err := ir.Validate(doc.Program)
		if err != nil || len(errs) > 0 {
			b.Fatalf("validate failed: %v %v", err, errs)
		}
	}
}
