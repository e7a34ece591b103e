// Package transform computes and applies the two component migrations:
// inserting missing component imports, and converting runtime prop and emit
// declarations to their type-based form.
package transform

import (
	"github.com/gnana997/sfcfix/pkg/scanner"
	"github.com/gnana997/sfcfix/pkg/scripttag"
)

// DefaultQualifier is the props object name stripped from member accesses.
const DefaultQualifier = "props"

// Config controls what the migrations write.
type Config struct {
	// Lang is the script language marker, "ts" by default.
	Lang string
	// Qualifier is stripped from `<Qualifier>.` member accesses. Empty
	// disables the strip stage.
	Qualifier string
	// Imports maps tag names to import statements.
	Imports *scanner.ImportTable
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Lang:      scripttag.DefaultLang,
		Qualifier: DefaultQualifier,
		Imports:   scanner.DefaultImportTable(),
	}
}
