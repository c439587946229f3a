package model

// Stats describes a completed traversal.
type Stats struct {
	// Files lists every bundled file, indexed by module ID.
	Files []Path
	// AddonsExcluded lists compiled addons encountered during traversal, in
	// discovery order.
	AddonsExcluded []Path
}

// BundleResult summarizes one finished bundle for reporting.
type BundleResult struct {
	Entry       Path
	Output      Path  // empty when the bundle went to stdout
	ModuleCount int   // number of files concatenated
	AddonCount  int   // number of native addons left out
	Bytes       int64 // total bytes written
}
