package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

var errPoolClosed = errors.New("parser pool is closed")

// parserPool hands out tree-sitter parsers for one grammar. Parsers are
// created lazily up to maxSize; once that many exist, acquire blocks until
// one is released.
//
// close must only run once every acquired parser has been released. A
// parser released after close is closed instead of pooled, and acquire
// after close fails with errPoolClosed.
type parserPool struct {
	pool    chan *ts.Parser
	langPtr unsafe.Pointer
	key     poolKey
	maxSize int

	mutex   sync.Mutex
	created int
	closed  bool

	logger *slog.Logger
}

func newParserPool(key poolKey, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		langPtr: langPtr,
		key:     key,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser, ok := <-p.pool:
		if !ok {
			return nil, errPoolClosed
		}
		return parser, nil
	default:
		return p.createParserIfNeeded()
	}
}

func (p *parserPool) createParserIfNeeded() (*ts.Parser, error) {
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return nil, errPoolClosed
	}
	if p.created >= p.maxSize {
		p.mutex.Unlock()
		parser, ok := <-p.pool
		if !ok {
			return nil, errPoolClosed
		}
		return parser, nil
	}
	defer p.mutex.Unlock()

	parser := ts.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	p.created++
	p.logger.Debug("created parser in pool",
		"language", p.key.lang.String(),
		"tsx", p.key.isTSX,
		"pool_size", p.created)
	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		parser.Close()
		return
	}
	select {
	case p.pool <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser",
			"language", p.key.lang.String())
	}
}

// close releases every idle parser. The pool cannot be used afterwards.
func (p *parserPool) close() int {
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return 0
	}
	p.closed = true
	close(p.pool)
	p.mutex.Unlock()

	count := 0
	for parser := range p.pool {
		parser.Close()
		count++
	}
	return count
}

func (p *parserPool) createdCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}
