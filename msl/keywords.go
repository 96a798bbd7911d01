package msl

import "strings"

// reserved holds the C++14 and Metal keywords, address spaces, and the
// standard library names that generated code calls unqualified.
var reserved = map[string]struct{}{
	"alignas": {}, "alignof": {}, "and": {}, "and_eq": {}, "asm": {}, "auto": {},
	"bitand": {}, "bitor": {}, "bool": {}, "break": {}, "case": {}, "catch": {},
	"char": {}, "char16_t": {}, "char32_t": {}, "class": {}, "compl": {}, "const": {},
	"const_cast": {}, "constexpr": {}, "continue": {}, "decltype": {}, "default": {},
	"delete": {}, "do": {}, "double": {}, "dynamic_cast": {}, "else": {}, "enum": {},
	"explicit": {}, "export": {}, "extern": {}, "false": {}, "float": {}, "for": {},
	"friend": {}, "goto": {}, "if": {}, "inline": {}, "int": {}, "long": {},
	"mutable": {}, "namespace": {}, "new": {}, "noexcept": {}, "not": {}, "not_eq": {},
	"nullptr": {}, "operator": {}, "or": {}, "or_eq": {}, "private": {},
	"protected": {}, "public": {}, "register": {}, "reinterpret_cast": {},
	"return": {}, "short": {}, "signed": {}, "sizeof": {}, "static": {},
	"static_assert": {}, "static_cast": {}, "struct": {}, "switch": {},
	"template": {}, "this": {}, "thread_local": {}, "throw": {}, "true": {},
	"try": {}, "typedef": {}, "typeid": {}, "typename": {}, "union": {},
	"unsigned": {}, "using": {}, "virtual": {}, "void": {}, "volatile": {},
	"wchar_t": {}, "while": {}, "xor": {}, "xor_eq": {},

	"kernel": {}, "vertex": {}, "fragment": {}, "compute": {},
	"device": {}, "constant": {}, "thread": {}, "threadgroup": {},
	"threadgroup_imageblock": {}, "ray_data": {}, "object_data": {},
	"half": {}, "uint": {}, "uchar": {}, "ushort": {}, "ulong": {}, "size_t": {},
	"ptrdiff_t": {}, "sampler": {}, "texture": {}, "metal": {}, "main": {},
	"float2": {}, "float3": {}, "float4": {}, "float4x4": {}, "int2": {}, "int3": {},
	"int4": {}, "uint2": {}, "uint3": {}, "uint4": {},
	"texture2d": {}, "texture2d_array": {}, "texturecube": {}, "texture2d_ms": {},
	"depth2d": {}, "depth2d_array": {}, "access": {}, "level": {},

	"abs": {}, "acos": {}, "asin": {}, "atan": {}, "atan2": {}, "ceil": {}, "clamp": {},
	"cos": {}, "cosh": {}, "cross": {}, "dfdx": {}, "dfdy": {}, "distance": {},
	"dot": {}, "exp": {}, "exp2": {}, "floor": {}, "fmod": {}, "fract": {},
	"length": {}, "log": {}, "log2": {}, "max": {}, "min": {}, "mix": {},
	"normalize": {}, "pow": {}, "reflect": {}, "round": {}, "rsqrt": {},
	"saturate": {}, "sign": {}, "sin": {}, "sinh": {}, "smoothstep": {}, "sqrt": {},
	"step": {}, "tan": {}, "tanh": {}, "trunc": {},

	"ShaderContainer": {}, "input_": {},
}

// escapeName prefixes reserved names with an underscore. Names starting
// with a double underscore are reserved to the implementation.
func escapeName(name string) string {
	if name == "" {
		return "_unnamed"
	}
	if _, ok := reserved[name]; ok || strings.HasPrefix(name, "__") {
		return "_" + strings.TrimLeft(name, "_")
	}
	return name
}
