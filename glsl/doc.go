// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl is the OpenGL Shading Language backend. One Backend type
// serves three dialects selected by target:
//
//   - GLSL 3.30 core (backend.TargetGLSL330), escalated to 4.30 when a
//     stage needs compute or storage buffers
//   - GLSL ES 3.00 (backend.TargetGLSLES300), escalated to 3.10 on the
//     same conditions
//   - GLSL 4.50 with Vulkan-style set/binding qualifiers
//     (backend.TargetGLSL450)
//
// # Samplers
//
// The 3.30 and ES dialects have no separate sampler objects. Textures are
// declared as combined sampler uniforms and samplers become uniforms of
// the empty SamplerDummy structure so that function signatures keep their
// shape. GLSL 4.50 declares textures and samplers separately and combines
// them at the sampling site.
//
// # Clip space
//
// Options.CorrectDepth remaps the vertex output depth from [0, 1] to
// [-1, 1] and Options.CorrectClipSpace flips the Y axis, both in the
// synthesized main function.
//
// # Reserved Words
//
// Identifiers that collide with GLSL keywords or built-in functions are
// prefixed with an underscore.
package glsl
