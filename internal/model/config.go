package model

// Options holds the switches that alter how references are resolved.
type Options struct {
	// Browser resolves modules against the "browser" package.json field and
	// keeps Node core names eligible for polyfill packages.
	Browser bool
	// ExcludeNodeModules leaves bare package references untouched instead of
	// resolving into node_modules.
	ExcludeNodeModules bool
	// ExcludeFiles are absolute paths that must never enter the bundle.
	ExcludeFiles []Path
}

// Config describes one bundling job.
type Config struct {
	Entry  Path // entry file, becomes module 0
	Output Path // output file, empty when writing to stdout
	Options
}
