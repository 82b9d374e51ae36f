package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/filecleaner/internal/history"
)

// withCapturedStdout redirects os.Stdout for the duration of fn and
// returns everything written to it.
func withCapturedStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

// isolateUserConfigDir points config.UserConfigDir at a fresh temp
// directory for the duration of the test, so history/run-template
// writes never touch the real invoking user's config.
func isolateUserConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, hadOld := os.LookupEnv("XDG_CONFIG_HOME")
	require.NoError(t, os.Setenv("XDG_CONFIG_HOME", dir))
	t.Cleanup(func() {
		if hadOld {
			os.Setenv("XDG_CONFIG_HOME", old)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	})
	return dir
}

func writeProjectFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"main.go":        "package main\n\n// TODO fix this\nfunc main() {}\n",
		"util.go":        "package main\n\nfunc helper() {\n\treturn\n}\n",
		"notes.txt":      "TODO write better notes\nsecond line\n",
		"vendor/skip.go": "package vendor\n",
	}
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestRunCountWithoutPatternSumsLines(t *testing.T) {
	isolateUserConfigDir(t)
	dir := writeProjectFixture(t)

	out := withCapturedStdout(t, func() {
		code := run([]string{"count", dir})
		assert.Equal(t, exitSuccess, code)
	})
	// main.go (4) + util.go (5) + notes.txt (2) = 11 lines across 3 files;
	// vendor/skip.go is excluded by the zero-config Exclude defaults.
	assert.Contains(t, out, "11 lines across 3 files")
}

func TestRunCountWithPatternCountsMatches(t *testing.T) {
	isolateUserConfigDir(t)
	dir := writeProjectFixture(t)

	out := withCapturedStdout(t, func() {
		code := run([]string{"count", dir, "--pattern", "TODO"})
		assert.Equal(t, exitSuccess, code)
	})
	assert.Contains(t, out, "2 matches across 3 files")
}

func TestRunCountStatsAndTable(t *testing.T) {
	isolateUserConfigDir(t)
	dir := writeProjectFixture(t)

	out := withCapturedStdout(t, func() {
		code := run([]string{"count", dir, "--stats", "--table"})
		assert.Equal(t, exitSuccess, code)
	})
	assert.Contains(t, out, "bytes total")
	assert.Contains(t, out, ".go")
	assert.Contains(t, out, ".txt")
}

func TestRunCountPageSizeLimitsTable(t *testing.T) {
	isolateUserConfigDir(t)
	dir := writeProjectFixture(t)

	out := withCapturedStdout(t, func() {
		code := run([]string{"count", dir, "--table", "--page-size", "1", "--page", "0", "--sort", "path"})
		assert.Equal(t, exitSuccess, code)
	})
	// Sorted by absolute path, main.go sorts first among main.go/notes.txt/util.go;
	// --page-size 1 must keep only that one row out of the table.
	assert.Contains(t, out, "main.go")
	assert.NotContains(t, out, "notes.txt")
	assert.NotContains(t, out, "util.go")
}

func TestRunListFindsLiteralPattern(t *testing.T) {
	isolateUserConfigDir(t)
	dir := writeProjectFixture(t)

	out := withCapturedStdout(t, func() {
		code := run([]string{"list", dir, "--pattern", "TODO"})
		assert.Equal(t, exitSuccess, code)
	})
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "notes.txt")
}

func TestRunDirSortsAndExcludesVendor(t *testing.T) {
	isolateUserConfigDir(t)
	dir := writeProjectFixture(t)

	out := withCapturedStdout(t, func() {
		code := run([]string{"dir", dir, "--sort", "path"})
		assert.Equal(t, exitSuccess, code)
	})
	assert.NotContains(t, out, "vendor")
	assert.Contains(t, out, "main.go")
}

func TestRunDirDedupeGroupsIdenticalContent(t *testing.T) {
	isolateUserConfigDir(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package a\n"), 0o644))

	out := withCapturedStdout(t, func() {
		code := run([]string{"dir", dir, "--dedupe"})
		assert.Equal(t, exitSuccess, code)
	})
	assert.Contains(t, out, "duplicate set (2 files)")
}

func TestRunHistoryRecordsEachInvocation(t *testing.T) {
	isolateUserConfigDir(t)
	dir := writeProjectFixture(t)

	_ = withCapturedStdout(t, func() {
		run([]string{"count", dir})
	})
	out := withCapturedStdout(t, func() {
		code := run([]string{"history"})
		assert.Equal(t, exitSuccess, code)
	})
	assert.Contains(t, out, "count")
}

func TestRunRunTemplateReplaysStoredCommand(t *testing.T) {
	configDir := isolateUserConfigDir(t)
	dir := writeProjectFixture(t)

	doc := &history.Document{
		RunTemplates: []history.RunTemplate{
			{Name: "count-todos", Command: "count " + dir + " --pattern TODO"},
		},
	}
	data, err := toml.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "run-templates.toml"), data, 0o644))

	out := withCapturedStdout(t, func() {
		code := run([]string{"run", "count-todos"})
		assert.Equal(t, exitSuccess, code)
	})
	assert.Contains(t, out, "2 matches across 3 files")
}

func TestRunRunTemplateListsNames(t *testing.T) {
	configDir := isolateUserConfigDir(t)

	doc := &history.Document{
		RunTemplates: []history.RunTemplate{{Name: "one"}, {Name: "two"}},
	}
	data, err := toml.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "run-templates.toml"), data, 0o644))

	out := withCapturedStdout(t, func() {
		code := run([]string{"run", "--list"})
		assert.Equal(t, exitSuccess, code)
	})
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
}

func TestRunUnknownRunTemplateIsNotFound(t *testing.T) {
	isolateUserConfigDir(t)
	code := run([]string{"run", "does-not-exist"})
	assert.Equal(t, exitRuntime, code)
}
