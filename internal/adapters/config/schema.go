package config

// File represents the structure of the depcheck.yaml configuration file.
type File struct {
	Root         string   `yaml:"root"`
	Baseline     string   `yaml:"baseline"`
	Manifest     string   `yaml:"manifest"`
	Patterns     []string `yaml:"patterns"`
	Skip         []string `yaml:"skip"`
	SkipSuffixes []string `yaml:"skipSuffixes"`
}
