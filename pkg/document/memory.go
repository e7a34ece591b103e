package document

import (
	"context"
	"sync"
)

// Memory is an in-memory Document.
type Memory struct {
	mu   sync.RWMutex
	text string

	// applied counts successful non-empty batches.
	applied int
}

// NewMemory creates a buffer holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// Text returns the current buffer contents.
func (m *Memory) Text() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.text
}

// Apply installs the batch atomically.
func (m *Memory) Apply(ctx context.Context, edits []Edit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(edits) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := ApplyEdits(m.text, edits)
	if err != nil {
		return err
	}
	m.text = next
	m.applied++
	return nil
}

// Batches returns how many non-empty batches were applied.
func (m *Memory) Batches() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.applied
}

// StaticHost is a Host whose active document never changes. A nil Doc means
// there is no active document.
type StaticHost struct {
	Doc Document
}

// ActiveDocument implements Host.
func (h StaticHost) ActiveDocument() (Document, bool) {
	if h.Doc == nil {
		return nil, false
	}
	return h.Doc, true
}
