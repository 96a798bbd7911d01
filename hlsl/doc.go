// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl is the High-Level Shader Language backend for Direct3D.
//
// Resources are bound through register(x#, space#) annotations. Each
// register class (b for constant buffers, t for shader resource views, s
// for samplers, u for unordered access views) is numbered independently
// per space in resource declaration order, and the space carries the
// resource set.
//
// Stage input and output structures carry HLSL semantics derived from the
// field semantic tags. The synthesized entry function takes the user
// input structure plus one parameter per built-in variable the stage
// reads, copies those into static globals and calls the user function.
package hlsl
