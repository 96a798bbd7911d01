package model

import (
	"github.com/gogpu/shadergen/ir"
)

// StageIO is the resolved input and output structures of an entry point.
// Input is nil for parameterless entries; Output is nil for void and
// single-vector returns.
type StageIO struct {
	Input  *StructureDefinition
	Output *StructureDefinition
}

// ValidateSemantics checks the semantic requirements of an entry point's
// signature and returns its resolved stage structures.
//
// A vertex entry point must return a structure with exactly one field
// tagged SystemPosition. A fragment entry point returns void, a Vector4,
// or a structure whose fields are all Vector4 color targets.
func ValidateSemantics(m *ShaderModel, ep *EntryPoint) (StageIO, error) {
	fn := ep.Function
	var io StageIO

	for _, name := range ep.Builtins {
		bv, ok := ir.LookupBuiltinVariable(name)
		if !ok {
			return io, ir.NewError(ir.ErrUnresolvedSymbol, ir.TypeBuiltins+"."+name, "unknown built-in variable")
		}
		if bv.Stage != fn.Kind {
			return io, ir.NewError(ir.ErrUnsupportedFeature, ir.TypeBuiltins+"."+name,
				"built-in is only available to %s entry points, used by %s", bv.Stage, fn)
		}
	}

	switch {
	case fn.Kind == ir.FunctionCompute && len(fn.Params) > 0:
		return io, ir.NewError(ir.ErrInvalidProgram, fn.String(), "compute entry point cannot take parameters")
	case len(fn.Params) > 1:
		return io, ir.NewError(ir.ErrInvalidProgram, fn.String(),
			"%s entry point takes at most one parameter, has %d", fn.Kind, len(fn.Params))
	}

	if len(fn.Params) > 0 {
		in, err := stageStruct(m, fn, fn.Params[0].Type)
		if err != nil {
			return io, err
		}
		io.Input = in
	}

	switch fn.Kind {
	case ir.FunctionVertex:
		out, err := stageStruct(m, fn, fn.Return)
		if err != nil {
			return io, err
		}
		positions := 0
		for _, f := range out.Fields {
			if f.Semantic != ir.SemanticSystemPosition {
				continue
			}
			positions++
			if f.Type.Name != ir.TypeVector4 || f.ArrayLength != 0 {
				return io, ir.NewError(ir.ErrUnsupportedType, out.Name+"."+f.Name,
					"%s field must be a %s", ir.SemanticSystemPosition, ir.TypeVector4)
			}
		}
		switch {
		case positions == 0:
			return io, ir.NewError(ir.ErrMissingSemantic, fn.String(),
				"vertex output %s must contain a field tagged %s", out.Name, ir.SemanticSystemPosition)
		case positions > 1:
			return io, ir.NewError(ir.ErrMissingSemantic, fn.String(),
				"vertex output %s has %d fields tagged %s, want exactly one", out.Name, positions, ir.SemanticSystemPosition)
		}
		io.Output = out

	case ir.FunctionFragment:
		if fn.Return.IsVoid() || fn.Return.Name == ir.TypeVector4 {
			break
		}
		out, err := stageStruct(m, fn, fn.Return)
		if err != nil {
			return io, err
		}
		for _, f := range out.Fields {
			if f.Semantic != ir.SemanticColorTarget || f.Type.Name != ir.TypeVector4 || f.ArrayLength != 0 {
				return io, ir.NewError(ir.ErrMissingSemantic, out.Name+"."+f.Name,
					"fragment outputs must be %s fields tagged %s", ir.TypeVector4, ir.SemanticColorTarget)
			}
		}
		io.Output = out

	case ir.FunctionCompute:
		if !fn.Return.IsVoid() {
			return io, ir.NewError(ir.ErrUnsupportedType, fn.String(), "compute entry points must return void")
		}
		for i, n := range fn.Workgroup {
			if n == 0 {
				return io, ir.NewError(ir.ErrInvalidProgram, fn.String(), "workgroup size component %d is zero", i)
			}
		}

	default:
		return io, ir.NewError(ir.ErrEntryPointNotFound, fn.String(), "function is not an entry point")
	}
	return io, nil
}

func stageStruct(m *ShaderModel, fn ShaderFunction, t ir.TypeReference) (*StructureDefinition, error) {
	if t.IsVoid() {
		return nil, ir.NewError(ir.ErrMissingSemantic, fn.String(), "%s entry point needs a structure type", fn.Kind)
	}
	sd, ok := m.StructureDefinition(t.Name)
	if !ok {
		return nil, ir.NewError(ir.ErrUnsupportedType, t.Name,
			"%s entry point %s: stage input/output must be a structure", fn.Kind, fn)
	}
	return sd, nil
}
