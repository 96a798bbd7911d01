// Package shadergen generates GPU shader source from a typed program.
//
// A program is a set of type declarations: structures with semantic tags,
// resources, and functions, some of which are vertex, fragment or compute
// entry points. Shader sets name up to one entry point per stage. For
// every (shader set, target) pair the generator builds a shader model and
// drives one backend per target:
//   - HLSL (Shader Model 5.0)
//   - GLSL 3.30, GLSL ES 3.00 and GLSL 4.50
//   - Metal Shading Language
//
// Example usage:
//
//	doc, err := ir.LoadProgramFile("shaders.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen := shadergen.New(doc.Program, shadergen.DefaultOptions())
//	result, err := gen.Generate(ctx, doc.Sets)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, set := range result.Sets {
//	    fmt.Println(set.Name, set.Target, set.Vertex.Code)
//	}
//
// Lower-level access is available through the model and backend packages.
package shadergen

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/glsl"
	"github.com/gogpu/shadergen/hlsl"
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/layout"
	"github.com/gogpu/shadergen/model"
	"github.com/gogpu/shadergen/msl"
)

// Options configures a Generator.
type Options struct {
	// Targets lists the output dialects. Empty selects every target.
	Targets []backend.Target

	// Parallelism bounds the number of concurrent (set, target) jobs.
	// Zero or less uses GOMAXPROCS.
	Parallelism int

	// HostPacking selects the host-side layout rules.
	HostPacking layout.HostPacking

	// Processors run over every generated set, in order, after all jobs
	// have finished.
	Processors []Processor

	// ProcessorArgs is passed unchanged to every processor.
	ProcessorArgs string
}

// DefaultOptions returns options generating every target with sequential
// host packing.
func DefaultOptions() Options {
	return Options{
		Targets:     backend.AllTargets(),
		HostPacking: layout.HostPackingSequential,
	}
}

// Processor post-processes a generated shader set in place.
type Processor interface {
	Process(set *GeneratedShaderSet, userArgs string) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(set *GeneratedShaderSet, userArgs string) error

// Process calls f(set, userArgs).
func (f ProcessorFunc) Process(set *GeneratedShaderSet, userArgs string) error {
	return f(set, userArgs)
}

// GeneratedStage is the output of one stage.
type GeneratedStage struct {
	Code     string
	Function model.ShaderFunction

	// Profile is the compiler profile or language version for a native
	// compiler, such as "vs_5_0", "330" or "metal2.1".
	Profile string
}

// GeneratedShaderSet is the output of one shader set for one target.
type GeneratedShaderSet struct {
	Name   string
	Target backend.Target

	Vertex   *GeneratedStage
	Fragment *GeneratedStage
	Compute  *GeneratedStage

	Model *model.ShaderModel
}

// Stage returns the output for a stage kind, or nil.
func (s *GeneratedShaderSet) Stage(kind ir.FunctionKind) *GeneratedStage {
	switch kind {
	case ir.FunctionVertex:
		return s.Vertex
	case ir.FunctionFragment:
		return s.Fragment
	case ir.FunctionCompute:
		return s.Compute
	}
	return nil
}

func (s *GeneratedShaderSet) setStage(kind ir.FunctionKind, st *GeneratedStage) {
	switch kind {
	case ir.FunctionVertex:
		s.Vertex = st
	case ir.FunctionFragment:
		s.Fragment = st
	case ir.FunctionCompute:
		s.Compute = st
	}
}

// Failure records a (shader set, target) job that did not produce output.
type Failure struct {
	Set    string
	Target backend.Target
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s (%s): %v", f.Set, f.Target, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result is the outcome of a batch. Sets and Failures are ordered by
// shader set, then by target in the order the options list them.
type Result struct {
	Sets     []*GeneratedShaderSet
	Failures []Failure
}

// Err joins all failures, or returns nil when every job succeeded.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Generator generates shader sets from one program. The layout cache is
// shared by all jobs; every job owns its model builder and driver.
type Generator struct {
	program ir.Oracle
	options Options
	engine  *layout.Engine
}

// New creates a generator over program.
func New(program ir.Oracle, options Options) *Generator {
	if len(options.Targets) == 0 {
		options.Targets = backend.AllTargets()
	}
	return &Generator{
		program: program,
		options: options,
		engine:  layout.NewEngine(program, options.HostPacking),
	}
}

// NewBackend creates a backend with default options for target.
func NewBackend(target backend.Target) (backend.LanguageBackend, error) {
	switch target {
	case backend.TargetHLSL:
		return hlsl.New(), nil
	case backend.TargetGLSL330, backend.TargetGLSLES300, backend.TargetGLSL450:
		return glsl.New(target)
	case backend.TargetMetal:
		return msl.New(), nil
	}
	return nil, fmt.Errorf("shadergen: unknown target %s", target)
}

// Generate generates every shader set for every configured target. Sets
// without a name, with a duplicate name or without any stage fail the
// whole batch. Any other failure, including an entry point that does not
// exist or has the wrong kind, is recorded for its (set, target) job in
// Result.Failures and does not affect the others. The returned error is
// non-nil only for such declaration errors, cancellation or a failing
// processor.
func (g *Generator) Generate(ctx context.Context, sets []ir.ShaderSetInfo) (*Result, error) {
	if err := errors.Join(declarationErrors(sets)...); err != nil {
		return nil, err
	}

	targets := g.options.Targets
	outputs := make([]*GeneratedShaderSet, len(sets)*len(targets))
	failures := make([]error, len(outputs))

	limit := g.options.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, set := range sets {
		for j, target := range targets {
			slot := i*len(targets) + j
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				log := Logger().With("set", set.Name, "target", target.String())
				log.Debug("generating shader set")
				out, err := g.GenerateSet(set, target)
				if err != nil {
					log.Warn("shader set failed", "error", err)
					failures[slot] = err
					return nil
				}
				log.Debug("generated shader set")
				outputs[slot] = out
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for slot, out := range outputs {
		if failures[slot] != nil {
			result.Failures = append(result.Failures, Failure{
				Set:    sets[slot/len(targets)].Name,
				Target: targets[slot%len(targets)],
				Err:    failures[slot],
			})
			continue
		}
		result.Sets = append(result.Sets, out)
	}

	for _, out := range result.Sets {
		for _, p := range g.options.Processors {
			if err := p.Process(out, g.options.ProcessorArgs); err != nil {
				return result, fmt.Errorf("processor on %s (%s): %w", out.Name, out.Target, err)
			}
		}
	}
	return result, nil
}

// GenerateSet builds the model of one shader set and generates each of
// its stages through the target's backend. Either every stage is
// generated or an error is returned.
func (g *Generator) GenerateSet(set ir.ShaderSetInfo, target backend.Target) (*GeneratedShaderSet, error) {
	b, err := NewBackend(target)
	if err != nil {
		return nil, err
	}
	m, err := model.NewBuilder(g.program, g.engine).Build(set)
	if err != nil {
		return nil, err
	}
	for _, name := range m.MismatchedStructures() {
		sd, _ := m.StructureDefinition(name)
		Logger().Debug("host and device layouts differ",
			"structure", name,
			"hostSize", sd.Alignment.HostSize,
			"deviceSize", sd.Alignment.DeviceSize)
	}

	out := &GeneratedShaderSet{Name: set.Name, Target: target, Model: m}
	d := backend.NewDriver(b, m)
	for _, ep := range m.EntryPoints() {
		kind := ep.Function.Kind
		code, err := d.Generate(kind)
		if err != nil {
			return nil, fmt.Errorf("%s stage: %w", kind, err)
		}
		out.setStage(kind, &GeneratedStage{
			Code:     code,
			Function: ep.Function,
			Profile:  b.Profile(kind),
		})
	}
	return out, nil
}
