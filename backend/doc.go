// Package backend defines the capability set every shading-language
// backend implements and the driver that turns one stage of a shader
// model into target source.
//
// The driver owns everything the dialects share: structure, resource and
// function ordering, statement and expression emission, and header
// placement. A backend only answers spelling questions (type names,
// identifiers, literal and invocation syntax) and writes the declarations
// whose form is target specific.
package backend
