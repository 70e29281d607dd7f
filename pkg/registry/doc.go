// Package registry holds the catalogue of primitive engine operations.
//
// Each Operation declares its ordered parameters, its side-effect class and
// the session scope it needs. The composite dispatcher and the resource layer
// only ever reach the engine through these descriptors.
package registry
