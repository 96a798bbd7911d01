package layout

import "github.com/gogpu/shadergen/ir"

const scalarSize = 4

// primitive returns the layout of a scalar, vector or matrix type.
func (e *Engine) primitive(name string) (AlignmentInfo, bool) {
	p, ok := ir.LookupPrimitive(name)
	if !ok {
		return AlignmentInfo{}, false
	}

	size := scalarSize * p.Size * p.Columns
	info := AlignmentInfo{
		HostSize:        size,
		DeviceSize:      size,
		HostAlignment:   scalarSize,
		DeviceAlignment: deviceAlignment(p),
	}
	if e.packing == HostPackingNatural {
		info.HostAlignment = naturalAlignment(p)
	}
	return info, true
}

// deviceAlignment applies the device vector rules: vec2 aligns to 8,
// vec3 and vec4 to 16, matrices to their 16-byte column vectors.
func deviceAlignment(p ir.Primitive) int {
	switch {
	case p.IsMatrix():
		return 16
	case p.Size == 1:
		return scalarSize
	case p.Size == 2:
		return 8
	default:
		return 16
	}
}

// naturalAlignment matches deviceAlignment except for 3-component vectors,
// which hosts pack at scalar alignment.
func naturalAlignment(p ir.Primitive) int {
	if !p.IsMatrix() && p.Size == 3 {
		return scalarSize
	}
	return deviceAlignment(p)
}
