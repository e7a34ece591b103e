package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcfix/pkg/document"
	"github.com/gnana997/sfcfix/pkg/transform"
	"github.com/gnana997/sfcfix/pkg/util"
)

const legacy = `<script setup>
const props = defineProps({
  title: { type: String, default: 'Hi' },
});
</script>
<template>
  <SimpleCard>{{ props.title }}</SimpleCard>
</template>
`

func writeComponents(t *testing.T, n int, content string) []string {
	t.Helper()
	dir := t.TempDir()
	files := make([]string, n)
	for i := range files {
		files[i] = filepath.Join(dir, fmt.Sprintf("C%02d.vue", i))
		require.NoError(t, os.WriteFile(files[i], []byte(content), 0644))
	}
	return files
}

func migrator() *transform.Migrator {
	return transform.NewMigrator(transform.DefaultConfig(), transform.WithLogger(util.DiscardLogger()))
}

func TestRun_ConvertsEveryFile(t *testing.T) {
	files := writeComponents(t, 12, legacy)

	summary, err := Run(context.Background(), files, migrator().ConvertToTyped, Options{Workers: 4}, util.DiscardLogger())
	require.NoError(t, err)

	assert.Empty(t, summary.Errors)
	require.Len(t, summary.Results, len(files))
	assert.Equal(t, len(files), summary.Changed)

	for i, r := range summary.Results {
		assert.Equal(t, i, r.JobID, "results are ordered by job")
		data, err := os.ReadFile(r.FilePath)
		require.NoError(t, err)
		assert.Equal(t, r.After, string(data))
		assert.Contains(t, string(data), `<script lang="ts" setup>`)
		assert.Contains(t, string(data), "{{ title }}")
	}
}

func TestRun_DryRunLeavesFiles(t *testing.T) {
	files := writeComponents(t, 3, legacy)

	summary, err := Run(context.Background(), files, migrator().CleanupComponents, Options{DryRun: true}, util.DiscardLogger())
	require.NoError(t, err)
	require.Len(t, summary.Results, 3)

	for _, r := range summary.Results {
		assert.True(t, r.Changed)
		assert.Equal(t, legacy, r.Before)
		assert.Contains(t, r.After, "import SimpleCard from '~/components/Cards/SimpleCard.vue';")

		data, err := os.ReadFile(r.FilePath)
		require.NoError(t, err)
		assert.Equal(t, legacy, string(data), "dry run must not write")
	}
}

func TestRun_UnchangedFilesNotCounted(t *testing.T) {
	files := writeComponents(t, 2, "<template><div /></template>")

	summary, err := Run(context.Background(), files, migrator().CleanupComponents, Options{}, util.DiscardLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Changed)
	assert.Len(t, summary.Results, 2)
}

func TestRun_CollectsErrors(t *testing.T) {
	files := writeComponents(t, 2, legacy)
	missing := filepath.Join(t.TempDir(), "gone.vue")

	summary, err := Run(context.Background(), append(files, missing), migrator().ConvertToTyped, Options{Workers: 2}, util.DiscardLogger())
	require.NoError(t, err)

	assert.Len(t, summary.Results, 2)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, missing, summary.Errors[0].FilePath)
	assert.Contains(t, summary.Errors[0].Error.Error(), "failed to read file")
}

func TestRun_HandlerError(t *testing.T) {
	files := writeComponents(t, 1, legacy)
	boom := errors.New("boom")

	summary, err := Run(context.Background(), files, func(context.Context, document.Host) error { return boom }, Options{}, util.DiscardLogger())
	require.NoError(t, err)
	require.Len(t, summary.Errors, 1)
	assert.ErrorIs(t, summary.Errors[0].Error, boom)
}

func TestRun_Progress(t *testing.T) {
	files := writeComponents(t, 5, legacy)

	var mu sync.Mutex
	var calls []int
	opts := Options{
		Workers: 2,
		DryRun:  true,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 5, total)
			calls = append(calls, done)
		},
	}

	_, err := Run(context.Background(), files, migrator().ConvertToTyped, opts, util.DiscardLogger())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
}

type vetoDoc struct{ document.Document }

func (vetoDoc) Apply(context.Context, []document.Edit) error { return nil }

func TestRun_WrapDecoratesDocuments(t *testing.T) {
	files := writeComponents(t, 2, legacy)
	opts := Options{Wrap: func(f *document.File) document.Document { return vetoDoc{f} }}

	summary, err := Run(context.Background(), files, migrator().ConvertToTyped, opts, util.DiscardLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Changed)

	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.Equal(t, legacy, string(data))
	}
}

func TestRun_Cancelled(t *testing.T) {
	files := writeComponents(t, 3, legacy)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, files, migrator().ConvertToTyped, Options{}, util.DiscardLogger())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Changed, "a cancelled context blocks every write")
}

func TestRun_NoFiles(t *testing.T) {
	summary, err := Run(context.Background(), nil, migrator().ConvertToTyped, Options{}, util.DiscardLogger())
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
}

func TestWorkerPool_SubmitBeforeStart(t *testing.T) {
	pool := NewWorkerPool(migrator().ConvertToTyped, Options{Workers: 1}, util.DiscardLogger())
	assert.Error(t, pool.Submit(FileJob{FilePath: "x.vue"}))
	assert.Equal(t, 1, pool.Stats().NumWorkers)
}

func TestWorkerPool_SubmitAfterFinish(t *testing.T) {
	pool := NewWorkerPool(migrator().ConvertToTyped, Options{Workers: 1}, util.DiscardLogger())
	pool.Start(context.Background())
	pool.FinishSubmitting()
	pool.FinishSubmitting()

	assert.Error(t, pool.Submit(FileJob{FilePath: "x.vue"}))
	pool.Wait()
}
