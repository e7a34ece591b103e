package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcfix/pkg/document"
)

func TestActivate_RegistersBothCommands(t *testing.T) {
	r, err := Activate(newTestMigrator())
	require.NoError(t, err)

	var ids []string
	for _, c := range r.Commands() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{CleanupComponentsID, ConvertToTypeScriptID}, ids)

	_, ok := r.Lookup("remove-auto-components.convert-to-typescript")
	assert.True(t, ok)
}

func TestRegistry_Run(t *testing.T) {
	r, err := Activate(newTestMigrator())
	require.NoError(t, err)

	doc := document.NewMemory(legacyComponent)
	require.NoError(t, r.Run(context.Background(), ConvertToTypeScriptID, document.StaticHost{Doc: doc}))
	assert.Equal(t, typedComponent, doc.Text())

	err = r.Run(context.Background(), "nope", document.StaticHost{Doc: doc})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context, document.Host) error { return nil }

	require.NoError(t, r.Register(Command{ID: "a", Handler: noop}))
	assert.ErrorIs(t, r.Register(Command{ID: "b", Handler: noop}, Command{ID: "a", Handler: noop}), ErrDuplicateCommand)
	assert.ErrorIs(t, r.Register(Command{ID: "c", Handler: noop}, Command{ID: "c", Handler: noop}), ErrDuplicateCommand)
	assert.Error(t, r.Register(Command{ID: "d"}))

	_, ok := r.Lookup("b")
	assert.False(t, ok, "a failed Register adds nothing")
	assert.Len(t, r.Commands(), 1)
}

func TestRegistry_Dispose(t *testing.T) {
	r, err := Activate(newTestMigrator())
	require.NoError(t, err)

	r.Dispose()
	assert.Empty(t, r.Commands())
	err = r.Run(context.Background(), CleanupComponentsID, document.StaticHost{})
	assert.ErrorIs(t, err, ErrUnknownCommand)

	// Re-activation after dispose works.
	require.NoError(t, r.Register(Commands(newTestMigrator())...))
	assert.Len(t, r.Commands(), 2)
}
