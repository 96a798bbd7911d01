// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/shadergen/model"
)

// BindTarget specifies the HLSL register binding for a resource.
// HLSL uses register(x#, space#) syntax for resource binding.
type BindTarget struct {
	// Type is the register class.
	Type RegisterType

	// Space is the register space; it carries the resource set.
	Space uint32

	// Register is the register index within the class and space.
	Register uint32
}

// String returns the register() annotation.
func (bt BindTarget) String() string {
	if bt.Space == 0 {
		return fmt.Sprintf("register(%s%d)", bt.Type, bt.Register)
	}
	return fmt.Sprintf("register(%s%d, space%d)", bt.Type, bt.Register, bt.Space)
}

// RegisterType represents the HLSL register type.
type RegisterType uint8

const (
	// RegisterTypeB is for constant buffers (cbuffer).
	RegisterTypeB RegisterType = iota

	// RegisterTypeT is for textures and shader resource views.
	RegisterTypeT

	// RegisterTypeS is for samplers.
	RegisterTypeS

	// RegisterTypeU is for unordered access views (UAV).
	RegisterTypeU
)

// String returns the single-character register prefix.
func (rt RegisterType) String() string {
	switch rt {
	case RegisterTypeB:
		return "b"
	case RegisterTypeT:
		return "t"
	case RegisterTypeS:
		return "s"
	case RegisterTypeU:
		return "u"
	default:
		return "b"
	}
}

// registerType returns the register class of a resource kind.
func registerType(k model.ResourceKind) RegisterType {
	switch k {
	case model.ResourceUniform:
		return RegisterTypeB
	case model.ResourceSampler, model.ResourceSamplerComparison:
		return RegisterTypeS
	case model.ResourceRWStructuredBuffer, model.ResourceAtomicBuffer, model.ResourceRWTexture2D:
		return RegisterTypeU
	default:
		return RegisterTypeT
	}
}

type registerKey struct {
	class RegisterType
	space uint32
}

// BindTargetFor numbers the registers of each (class, space) pair in
// resource declaration order over the whole model, so every stage of a
// shader set agrees on a resource's register.
func BindTargetFor(m *model.ShaderModel, r *model.ResourceDefinition) BindTarget {
	next := make(map[registerKey]uint32)
	for i := range m.Resources {
		cur := &m.Resources[i]
		key := registerKey{registerType(cur.Kind), cur.Set}
		if cur == r || (cur.Owner == r.Owner && cur.Name == r.Name) {
			return BindTarget{Type: key.class, Space: key.space, Register: next[key]}
		}
		next[key]++
	}
	return BindTarget{Type: registerType(r.Kind), Space: r.Set, Register: r.Binding}
}
