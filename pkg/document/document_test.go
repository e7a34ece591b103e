package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcfix/pkg/util"
)

func TestApplyEdits(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		edits []Edit
		want  string
	}{
		{
			name: "no edits",
			text: "abc",
			want: "abc",
		},
		{
			name:  "single replace",
			text:  "hello props.name",
			edits: []Edit{{Start: 6, End: 12, Text: ""}},
			want:  "hello name",
		},
		{
			name: "offsets refer to the original text",
			text: "aaa bbb ccc",
			edits: []Edit{
				{Start: 8, End: 11, Text: "CCCCCC"},
				{Start: 0, End: 3, Text: "A"},
			},
			want: "A bbb CCCCCC",
		},
		{
			name: "insertions at the same offset keep order",
			text: "xy",
			edits: []Edit{
				{Start: 1, End: 1, Text: "1"},
				{Start: 1, End: 1, Text: "2"},
			},
			want: "x12y",
		},
		{
			name: "adjacent ranges",
			text: "abcdef",
			edits: []Edit{
				{Start: 0, End: 3, Text: "X"},
				{Start: 3, End: 6, Text: "Y"},
			},
			want: "XY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyEdits(tt.text, tt.edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyEdits_Overlap(t *testing.T) {
	_, err := ApplyEdits("abcdef", []Edit{
		{Start: 0, End: 4, Text: "X"},
		{Start: 2, End: 5, Text: "Y"},
	})
	require.ErrorIs(t, err, ErrOverlappingEdits)
}

func TestApplyEdits_OutOfBounds(t *testing.T) {
	_, err := ApplyEdits("abc", []Edit{{Start: 2, End: 10}})
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = ApplyEdits("abc", []Edit{{Start: 2, End: 1}})
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestOverlaps(t *testing.T) {
	edits := []Edit{{Start: 10, End: 20}, {Start: 30, End: 30, Text: "ins"}}

	assert.True(t, Overlaps(edits, 15, 16))
	assert.True(t, Overlaps(edits, 5, 11))
	assert.False(t, Overlaps(edits, 20, 25))
	assert.False(t, Overlaps(edits, 29, 31), "insertions do not claim text")
}

func TestMemory_AtomicBatch(t *testing.T) {
	doc := NewMemory("abcdef")

	err := doc.Apply(context.Background(), []Edit{
		{Start: 0, End: 1, Text: "A"},
		{Start: 0, End: 3, Text: "B"},
	})
	require.Error(t, err)
	assert.Equal(t, "abcdef", doc.Text(), "a rejected batch must leave the buffer untouched")
	assert.Equal(t, 0, doc.Batches())

	require.NoError(t, doc.Apply(context.Background(), []Edit{{Start: 0, End: 1, Text: "A"}}))
	assert.Equal(t, "Abcdef", doc.Text())
	assert.Equal(t, 1, doc.Batches())

	require.NoError(t, doc.Apply(context.Background(), nil))
	assert.Equal(t, 1, doc.Batches(), "empty batches are not counted")
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := NewMemory("abc")
	err := doc.Apply(ctx, []Edit{{Start: 0, End: 1, Text: "x"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "abc", doc.Text())
}

func TestStaticHost(t *testing.T) {
	_, ok := StaticHost{}.ActiveDocument()
	assert.False(t, ok)

	doc := NewMemory("x")
	got, ok := StaticHost{Doc: doc}.ActiveDocument()
	assert.True(t, ok)
	assert.Same(t, doc, got)
}

func TestFile_ApplyWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Card.vue")
	require.NoError(t, os.WriteFile(path, []byte("<script setup>\n</script>\n"), 0640))

	doc, err := OpenFile(path, util.DiscardLogger())
	require.NoError(t, err)

	require.NoError(t, doc.Apply(context.Background(), []Edit{{Start: 7, End: 7, Text: " lang=\"ts\""}}))
	assert.True(t, doc.Changed())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<script lang=\"ts\" setup>\n</script>\n", string(data))
	assert.Equal(t, string(data), doc.Text())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm(), "file mode is preserved")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFile_EmptyBatchDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Card.vue")
	require.NoError(t, os.WriteFile(path, []byte("<template />"), 0644))
	before, err := os.Stat(path)
	require.NoError(t, err)

	doc, err := OpenFile(path, util.DiscardLogger())
	require.NoError(t, err)
	require.NoError(t, doc.Apply(context.Background(), nil))
	assert.False(t, doc.Changed())

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestFile_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Card.vue")
	require.NoError(t, os.WriteFile(path, []byte("props.a"), 0644))

	doc, err := OpenFile(path, util.DiscardLogger())
	require.NoError(t, err)
	doc.DryRun = true

	require.NoError(t, doc.Apply(context.Background(), []Edit{{Start: 0, End: 6}}))
	assert.Equal(t, "a", doc.Text())
	assert.True(t, doc.Changed())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "props.a", string(data), "dry run leaves the file alone")
}
