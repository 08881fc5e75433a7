package build

import (
	"os"

	"github.com/kcuzner/rstblog/internal/errors"
)

// InDir runs fn with the process working directory set to dir, restoring
// the original directory on every exit path, including when fn fails.
// Relative-path file operations inside fn resolve against dir.
func InDir(dir string, fn func() error) error {
	original, err := os.Getwd()
	if err != nil {
		return errors.FileSystemError("get working directory", err)
	}
	if err := os.Chdir(dir); err != nil {
		return errors.FileSystemError("change working directory", err).
			WithContext("path", dir)
	}

	fnErr := fn()
	if err := os.Chdir(original); err != nil {
		if fnErr != nil {
			return fnErr
		}
		return errors.FileSystemError("restore working directory", err).
			WithContext("path", original)
	}
	return fnErr
}
