// Package msl is the Metal Shading Language backend.
//
// Metal has no global resource variables, so the backend wraps every
// resource, built-in variable and user function of a stage in a
// ShaderContainer structure: resources and built-ins become members set
// by its constructor and functions become methods that read them
// directly. The stage entry function receives the resources as bound
// arguments, builds the container and calls the user function on it.
//
// Buffers, textures and samplers are numbered independently in the order
// the stage uses them.
package msl
