// Package model defines the data structures shared across the bundler.
package model

// Path represents a file system path.
type Path string

// ReferenceKind classifies the outcome of resolving a require reference.
type ReferenceKind string

const (
	// ReferenceCore represents a Node core module (fs, path, http, ...).
	// Core references are left untouched in the output.
	ReferenceCore ReferenceKind = "core"

	// ReferenceExcluded represents a file excluded from the bundle, either
	// explicitly or because node_modules resolution is disabled.
	ReferenceExcluded ReferenceKind = "excluded"

	// ReferenceNative represents a compiled addon (.node). Addons cannot be
	// concatenated and are reported separately.
	ReferenceNative ReferenceKind = "native"

	// ReferenceRegistered represents a file that is part of the bundle and
	// carries a module ID.
	ReferenceRegistered ReferenceKind = "registered"

	// ReferenceUnresolved represents a reference that could not be resolved.
	// The original require call is preserved as written.
	ReferenceUnresolved ReferenceKind = "unresolved"
)

// Resolution is the outcome of resolving a single require reference.
type Resolution struct {
	Kind ReferenceKind
	ID   int  // module ID, meaningful only when Kind is ReferenceRegistered
	Path Path // resolved absolute path, empty for core and unresolved references
}
