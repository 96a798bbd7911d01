package model

import (
	"github.com/gogpu/shadergen/ir"
)

// OrderStructures sorts structures so that every structure follows the
// structures its fields embed. Structures that do not depend on each other
// keep their input order.
func OrderStructures(defs []*StructureDefinition) ([]*StructureDefinition, error) {
	byName := make(map[string]*StructureDefinition, len(defs))
	for _, sd := range defs {
		byName[sd.Name] = sd
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]uint8, len(defs))
	out := make([]*StructureDefinition, 0, len(defs))

	var visit func(sd *StructureDefinition) error
	visit = func(sd *StructureDefinition) error {
		switch state[sd.Name] {
		case done:
			return nil
		case visiting:
			return ir.NewError(ir.ErrInvalidProgram, sd.Name, "structure embeds itself")
		}
		state[sd.Name] = visiting
		for _, f := range sd.Fields {
			if dep, ok := byName[f.Type.Name]; ok && dep != sd {
				if err := visit(dep); err != nil {
					return err
				}
			} else if ok {
				return ir.NewError(ir.ErrInvalidProgram, sd.Name, "structure embeds itself")
			}
		}
		state[sd.Name] = done
		out = append(out, sd)
		return nil
	}

	for _, sd := range defs {
		if err := visit(sd); err != nil {
			return nil, err
		}
	}
	return out, nil
}
