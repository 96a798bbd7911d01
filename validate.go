package shadergen

import (
	"errors"

	"github.com/gogpu/shadergen/ir"
)

// ValidateShaderSets checks shader sets before generation: names must be
// non-empty and unique, every set needs at least one stage, and every
// stage must name a function declared as an entry point of that stage.
// All problems are reported, joined.
func ValidateShaderSets(program ir.Oracle, sets []ir.ShaderSetInfo) error {
	errs := declarationErrors(sets)
	for _, set := range sets {
		for _, st := range []struct {
			id   *ir.FunctionID
			kind ir.FunctionKind
		}{
			{set.Vertex, ir.FunctionVertex},
			{set.Fragment, ir.FunctionFragment},
			{set.Compute, ir.FunctionCompute},
		} {
			if st.id == nil {
				continue
			}
			decl, err := program.Function(*st.id)
			if err != nil {
				errs = append(errs, ir.NewError(ir.ErrEntryPointNotFound, st.id.String(),
					"shader set %s: %v", set.Name, err))
				continue
			}
			if decl.Kind != st.kind {
				errs = append(errs, ir.NewError(ir.ErrInvalidShaderSet, st.id.String(),
					"shader set %s: function is a %s function, not a %s entry point", set.Name, decl.Kind, st.kind))
			}
		}
	}
	return errors.Join(errs...)
}

// declarationErrors reports the problems that make a batch ambiguous:
// missing or duplicate set names and sets without any stage. Entry point
// lookups are left to each set's own job.
func declarationErrors(sets []ir.ShaderSetInfo) []error {
	var errs []error
	seen := make(map[string]bool, len(sets))
	for _, set := range sets {
		switch {
		case set.Name == "":
			errs = append(errs, ir.NewError(ir.ErrInvalidShaderSet, "", "shader set has no name"))
		case seen[set.Name]:
			errs = append(errs, ir.NewError(ir.ErrInvalidShaderSet, set.Name, "duplicate shader set name"))
		}
		seen[set.Name] = true

		if set.Vertex == nil && set.Fragment == nil && set.Compute == nil {
			errs = append(errs, ir.NewError(ir.ErrInvalidShaderSet, set.Name, "no shader specified"))
		}
	}
	return errs
}
