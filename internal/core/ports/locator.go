package ports

// Locator finds candidate package locations under a root path.
//
//go:generate mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type Locator interface {
	// Locate returns the sorted candidate paths under root. An empty result
	// is valid: the tree simply contains no packages.
	Locate(root string) ([]string, error)
}
