package utils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/consts"
)

// WriteFileAtomic writes data to path using a write-temp-then-rename
// discipline: the content lands in a temporary file in the same directory,
// is flushed to disk, and is then renamed into place. A failure on any step
// removes the temporary file and leaves any existing file at path untouched.
//
// Parent directories are created as needed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, consts.ModeDir); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to write temp file %s", tmp.Name())
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to sync temp file %s", tmp.Name())
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close temp file %s", tmp.Name())
	}

	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return errors.Wrapf(err, "failed to chmod temp file %s", tmp.Name())
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}

	committed = true
	return nil
}
