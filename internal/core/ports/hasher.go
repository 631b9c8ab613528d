package ports

// Hasher fingerprints file contents.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash returns the xxhash64 of the file's content.
	ComputeFileHash(path string) (uint64, error)
}
