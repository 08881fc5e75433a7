package build

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInDirRestoresWorkingDirectory(t *testing.T) {
	original, err := os.Getwd()
	require.NoError(t, err)
	target := t.TempDir()

	err = InDir(target, func() error {
		wd, err := os.Getwd()
		require.NoError(t, err)
		resolved, _ := filepath.EvalSymlinks(target)
		actual, _ := filepath.EvalSymlinks(wd)
		assert.Equal(t, resolved, actual)
		return nil
	})
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, original, wd)
}

func TestInDirRestoresOnError(t *testing.T) {
	original, err := os.Getwd()
	require.NoError(t, err)

	wantErr := fmt.Errorf("boom")
	err = InDir(t.TempDir(), func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, original, wd, "working directory must be restored on the error path")
}

func TestInDirMissingDirectory(t *testing.T) {
	err := InDir(filepath.Join(t.TempDir(), "nope"), func() error { return nil })
	require.Error(t, err)
}
