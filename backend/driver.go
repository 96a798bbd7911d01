package backend

import (
	"github.com/gogpu/shadergen/ir"
	"github.com/gogpu/shadergen/model"
)

// Driver generates the stages of one shader model through one backend.
// A Driver is not safe for concurrent use; create one per job.
type Driver struct {
	backend LanguageBackend
	model   *model.ShaderModel
}

// NewDriver creates a driver for m.
func NewDriver(b LanguageBackend, m *model.ShaderModel) *Driver {
	return &Driver{backend: b, model: m}
}

// Backend returns the backend the driver writes through.
func (d *Driver) Backend() LanguageBackend {
	return d.backend
}

// Generate produces the complete source for the entry point of the given
// kind. On error no partial output is returned.
func (d *Driver) Generate(kind ir.FunctionKind) (string, error) {
	ep := d.model.Entry(kind)
	if ep == nil {
		return "", ir.NewError(ir.ErrEntryPointNotFound, d.model.Name, "shader set has no %s entry point", kind)
	}
	io, err := model.ValidateSemantics(d.model, ep)
	if err != nil {
		return "", err
	}
	ctx := NewContext(d.model, ep, io)
	b := d.backend

	var w Writer
	for _, sd := range ep.Structures {
		if err := b.WriteStructure(&w, ctx, sd); err != nil {
			return "", err
		}
	}

	scope, scoped := b.(ScopeBackend)
	if scoped {
		if err := scope.BeginProgramScope(&w, ctx); err != nil {
			return "", err
		}
	}
	for _, r := range ep.Resources {
		if err := b.WriteResource(&w, ctx, r); err != nil {
			return "", err
		}
	}
	if err := b.WriteBuiltins(&w, ctx); err != nil {
		return "", err
	}
	for _, fn := range ep.Functions {
		if err := WriteFunction(&w, b, ctx, fn); err != nil {
			return "", err
		}
	}
	if scoped {
		if err := scope.EndProgramScope(&w, ctx); err != nil {
			return "", err
		}
	}
	if err := b.WriteEntryPoint(&w, ctx); err != nil {
		return "", err
	}

	header, err := b.Header(ctx)
	if err != nil {
		return "", err
	}
	return header + w.String(), nil
}
