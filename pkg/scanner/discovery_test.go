package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "App.vue", "<template />")
	writeFile(t, root, "main.ts", "export {}")
	writeFile(t, filepath.Join(root, "components"), "Button.vue", "<template />")
	writeFile(t, filepath.Join(root, "components", "Cards"), "SimpleCard.vue", "<template />")
	writeFile(t, filepath.Join(root, "node_modules", "lib"), "Lib.vue", "<template />")
	writeFile(t, filepath.Join(root, "dist"), "Built.vue", "<template />")
	return root
}

func TestDiscoverFiles_VueOnly(t *testing.T) {
	root := setupProject(t)

	files, err := DiscoverFiles(root, DefaultScanConfig())
	require.NoError(t, err)

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f), "expected absolute path, got %s", f)
	}

	names := fileNames(files)
	assert.ElementsMatch(t, []string{"App.vue", "Button.vue", "SimpleCard.vue"}, names)
}

func TestDiscoverFiles_SortedOutput(t *testing.T) {
	files, err := DiscoverFiles(setupProject(t), DefaultScanConfig())
	require.NoError(t, err)
	require.Greater(t, len(files), 1)

	for i := 1; i < len(files); i++ {
		assert.LessOrEqual(t, files[i-1], files[i], "files should be sorted")
	}
}

func TestDiscoverFiles_EmptyDirectory(t *testing.T) {
	files, err := DiscoverFiles(t.TempDir(), DefaultScanConfig())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverFiles_InvalidGlob(t *testing.T) {
	cfg := DefaultScanConfig()
	cfg.Exclude = append(cfg.Exclude, "[invalid")
	_, err := DiscoverFiles(t.TempDir(), cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}

func TestResolveTargets(t *testing.T) {
	root := setupProject(t)
	explicit := filepath.Join(root, "main.ts")

	files, err := ResolveTargets([]string{root, explicit, filepath.Join(root, "App.vue")}, DefaultScanConfig())
	require.NoError(t, err)

	names := fileNames(files)
	assert.ElementsMatch(t, []string{"App.vue", "Button.vue", "SimpleCard.vue", "main.ts"}, names)
}

func TestResolveTargets_Missing(t *testing.T) {
	_, err := ResolveTargets([]string{filepath.Join(t.TempDir(), "missing.vue")}, DefaultScanConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")
}

func TestMatches(t *testing.T) {
	cfg := DefaultScanConfig()
	assert.True(t, Matches(cfg, "components/Button.vue"))
	assert.False(t, Matches(cfg, "components/Button.ts"))
	assert.False(t, Matches(cfg, "node_modules/x/Y.vue"))
	assert.False(t, Matches(cfg, "packages/a/node_modules/x/Y.vue"))
}

// --- helpers ---

func fileNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestExcludedDir(t *testing.T) {
	cfg := DefaultScanConfig()
	assert.True(t, ExcludedDir(cfg, "node_modules"))
	assert.True(t, ExcludedDir(cfg, "packages/ui/node_modules"))
	assert.True(t, ExcludedDir(cfg, ".sfcfix"))
	assert.False(t, ExcludedDir(cfg, "components"))
	assert.False(t, ExcludedDir(cfg, "src/dist-tools"))
}
