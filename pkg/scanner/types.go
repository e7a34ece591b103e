// Package scanner finds component tags in markup, maps them to import
// statements and discovers component files on disk.
package scanner

// ScanConfig configures which files batch commands pick up.
type ScanConfig struct {
	// Include glob patterns for file matching.
	Include []string
	// Exclude glob patterns.
	Exclude []string
}

// DefaultScanConfig returns the default configuration: every single-file
// component outside dependency and build directories.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Include: []string{
			"**/*.vue",
		},
		Exclude: []string{
			"node_modules/**",
			"**/node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			".nuxt/**",
			".output/**",
			"coverage/**",
			".vscode/**",
			".sfcfix/**",
		},
	}
}

// ImportKind is the shape of a generated import statement.
type ImportKind string

const (
	// DefaultImport renders `import Name from '<path>';`.
	DefaultImport ImportKind = "default"
	// NamedImport renders `import { Name } from '<module>';`.
	NamedImport ImportKind = "named"
)

// ImportRule maps a set of tag names to an import source.
//
// For a NamedImport, Source is the module specifier. For a DefaultImport,
// Source is a directory under the project alias; the file is
// <alias>/<Source>/<Name><extension>. A rule with no Names matches everything
// and is only meaningful as the last rule.
type ImportRule struct {
	Name   string
	Names  []string
	Kind   ImportKind
	Source string
}

// Matches reports whether the rule applies to tag name.
func (r ImportRule) Matches(name string) bool {
	if len(r.Names) == 0 {
		return true
	}
	for _, n := range r.Names {
		if n == name {
			return true
		}
	}
	return false
}

// ComponentImport is one synthesized import.
type ComponentImport struct {
	Tag       string
	Rule      string
	Statement string
}
