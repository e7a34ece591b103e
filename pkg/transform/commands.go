package transform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gnana997/sfcfix/pkg/document"
)

// Command identifiers, kept stable for editor keybindings and scripts.
const (
	CleanupComponentsID   = "remove-auto-components.cleanup-components"
	ConvertToTypeScriptID = "remove-auto-components.convert-to-typescript"
)

var (
	// ErrUnknownCommand is returned by Run for an unregistered ID.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDuplicateCommand is returned by Register when an ID is taken.
	ErrDuplicateCommand = errors.New("command already registered")
)

// Handler runs a command against the host's active document.
type Handler func(ctx context.Context, host document.Host) error

// Command is a named, invocable transform.
type Command struct {
	ID      string
	Title   string
	Handler Handler
}

// Commands returns the two migrations bound to m.
func Commands(m *Migrator) []Command {
	return []Command{
		{
			ID:      CleanupComponentsID,
			Title:   "Add missing component imports",
			Handler: m.CleanupComponents,
		},
		{
			ID:      ConvertToTypeScriptID,
			Title:   "Convert props and emits to TypeScript",
			Handler: m.ConvertToTyped,
		},
	}
}

// Registry holds the commands available to a session. Register at startup,
// Dispose at shutdown.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Activate returns a registry holding Commands(m).
func Activate(m *Migrator) (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(Commands(m)...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds cmds. Nothing is added if any ID is empty or already taken.
func (r *Registry) Register(cmds ...Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(cmds))
	for _, c := range cmds {
		if c.ID == "" || c.Handler == nil {
			return fmt.Errorf("invalid command %q: id and handler are required", c.ID)
		}
		if _, ok := r.commands[c.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, c.ID)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	for _, c := range cmds {
		r.commands[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	return nil
}

// Lookup returns the command registered under id.
func (r *Registry) Lookup(id string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[id]
	return c, ok
}

// Run invokes the command registered under id.
func (r *Registry) Run(ctx context.Context, id string, host document.Host) error {
	c, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	return c.Handler(ctx, host)
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.order))
	for i, id := range r.order {
		out[i] = r.commands[id]
	}
	return out
}

// Dispose unregisters every command.
func (r *Registry) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = make(map[string]Command)
	r.order = nil
}
