// Package parser wraps pooled tree-sitter parsers for the script grammars
// found in single-file components and checks generated code for syntax errors.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/sfcfix/pkg/util"
)

type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager owns one parser pool per grammar, created on first use.
// It is safe for concurrent use. Callers own the returned trees and must
// Close them.
//
// Example:
//
//	manager := NewParserManager(logger, 0)
//	defer manager.Close()
//
//	tree, err := manager.Parse([]byte("const x: number = 1"), LanguageTypeScript, false)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools    map[poolKey]*parserPool
	poolSize int

	mutex  sync.RWMutex
	logger *slog.Logger

	parsesCalled int
}

// NewParserManager creates a manager whose pools hold up to poolSize parsers
// each. A poolSize of 0 uses the CPU-based default, matching the batch worker
// count so workers never wait on a parser.
func NewParserManager(logger *slog.Logger, poolSize int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[poolKey]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the given grammar. isTSX only applies to
// TypeScript. Trees with syntax errors are still returned.
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pm.mutex.Lock()
	pm.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(poolKey{lang: lang, isTSX: isTSX && lang == LanguageTypeScript})
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}
	return tree, nil
}

// Close releases all pooled parsers. Call it only after every Parse has
// returned; a Parse still holding a parser from a closed pool closes that
// parser on release, and one blocked waiting for a parser fails.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for key, pool := range pm.pools {
		closed := pool.close()
		pm.logger.Debug("closed parser pool",
			"language", key.lang.String(),
			"tsx", key.isTSX,
			"parsers_closed", closed)
	}
	pm.pools = make(map[poolKey]*parserPool)
	return nil
}

func (pm *ParserManager) getOrCreatePool(key poolKey) (*parserPool, error) {
	pm.mutex.RLock()
	pool, exists := pm.pools[key]
	pm.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	// Another goroutine may have created it.
	if pool, exists = pm.pools[key]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(key)
	if err != nil {
		return nil, err
	}

	pool = newParserPool(key, langPtr, pm.poolSize, pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created new parser pool",
		"language", key.lang.String(),
		"tsx", key.isTSX,
		"max_size", pm.poolSize)
	return pool, nil
}

func languagePointer(key poolKey) (unsafe.Pointer, error) {
	switch key.lang {
	case LanguageTypeScript:
		if key.isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", key.lang)
	}
}

// Stats returns parser usage statistics.
func (pm *ParserManager) Stats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	total := 0
	for _, pool := range pm.pools {
		total += pool.createdCount()
	}
	return ParserStats{
		ParsersCreated: total,
		ParsesCalled:   pm.parsesCalled,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}
