package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, dir, "a.py", "x = 1\n")
	write(t, dir, "b.py", "y = 2\n")

	base, err := Files(dir, []string{"a.py", "b.py"}, "")
	require.NoError(t, err)
	assert.Len(t, base, 16, "64-bit digest in hex")

	reordered, err := Files(dir, []string{"b.py", "a.py"}, "")
	require.NoError(t, err)
	assert.Equal(t, base, reordered)

	salted, err := Files(dir, []string{"a.py", "b.py"}, "langs=python")
	require.NoError(t, err)
	assert.NotEqual(t, base, salted)

	subset, err := Files(dir, []string{"a.py"}, "")
	require.NoError(t, err)
	assert.NotEqual(t, base, subset)

	write(t, dir, "b.py", "y = 3\n")
	changed, err := Files(dir, []string{"a.py", "b.py"}, "")
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)
}

func TestFilesBoundaries(t *testing.T) {
	t.Parallel()

	// Moving bytes between a name and its content must change the digest.
	one := t.TempDir()
	write(t, one, "ab", "c")
	two := t.TempDir()
	write(t, two, "a", "bc")

	h1, err := Files(one, []string{"ab"}, "")
	require.NoError(t, err)
	h2, err := Files(two, []string{"a"}, "")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestFilesMissing(t *testing.T) {
	t.Parallel()

	_, err := Files(t.TempDir(), []string{"gone.py"}, "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
