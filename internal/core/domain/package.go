package domain

// Package is a single discovered library: its declared name and version plus
// where it was found. Packages are keyed by name; re-scanning a name
// overwrites the previous entry.
type Package struct {
	// Name is the package's declared (directory or metadata) name.
	Name string

	// Version is the declared version string.
	Version string

	// Source is the directory (source mode) or archive path (wheel mode)
	// the package was read from.
	Source string

	// Digest is the xxhash64 fingerprint of the manifest or archive bytes,
	// formatted as 16 hex digits. Empty when hashing failed.
	Digest string
}

// ScanResult is the outcome of reading one candidate package. Exactly one of
// Pkg/Err is meaningful: a failed read still yields a result so the caller
// can report failures in bulk instead of swallowing them one by one.
type ScanResult struct {
	Path         string
	Pkg          *Package
	Requirements []string
	Err          error
}
