package atomicfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert"
)

func assertFileContent(t *testing.T, path string, exp string) {
	d, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, exp, string(d))
}

func assertNoTempFiles(t *testing.T, dir string) {
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	for _, e := range entries {
		matched, _ := filepath.Match("*.tmp-*", e.Name())
		assert.False(t, matched, "left temporary file '%s'", e.Name())
	}
}

func TestWriteAndClose(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	f, err := New(dst)
	assert.NoError(t, err)
	_, err = f.WriteString("hello ")
	assert.NoError(t, err)
	_, err = f.Write([]byte("world"))
	assert.NoError(t, err)
	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err), "destination visible before Close")
	assert.NoError(t, f.Close())
	// second Close is a no-op
	assert.NoError(t, f.Close())
	assertFileContent(t, dst, "hello world")
	assertNoTempFiles(t, dir)
}

func TestOverwrite(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	assert.NoError(t, os.WriteFile(dst, []byte("old"), 0644))
	f, err := New(dst)
	assert.NoError(t, err)
	_, _ = f.WriteString("new")
	assert.NoError(t, f.Close())
	assertFileContent(t, dst, "new")
}

func TestWriteNew(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "letters.csv")
	assert.NoError(t, WriteNew(dst, []byte("first")))
	assertFileContent(t, dst, "first")

	err := WriteNew(dst, []byte("second"))
	assert.True(t, errors.Is(err, os.ErrExist), "got %v", err)
	assertFileContent(t, dst, "first")
	assertNoTempFiles(t, dir)
}

func TestCancel(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	f, err := New(dst)
	assert.NoError(t, err)
	_, _ = f.WriteString("foo")
	f.Cancel()
	assert.Equal(t, ErrCancelled, f.Close())
	_, err = f.Write([]byte("more"))
	assert.Equal(t, ErrCancelled, err)
	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err))
	assertNoTempFiles(t, dir)
}

func TestSimulatedError(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	f, err := New(dst)
	assert.NoError(t, err)
	_, _ = f.WriteString("foo")
	errSimulated := errors.New("simulated")
	f.err = errSimulated
	assert.Equal(t, errSimulated, f.Close())
	assert.Equal(t, errSimulated, f.Close())
	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err))
	assertNoTempFiles(t, dir)
}

func TestNewInvalidPath(t *testing.T) {
	_, err := New(t.TempDir() + string(filepath.Separator))
	assert.Error(t, err)
}
