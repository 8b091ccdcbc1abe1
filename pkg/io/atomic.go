package io

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/genomering/pkg/errors"
)

// WriteFileAtomic writes a file by calling write on a temporary file in the
// same directory, syncing it and renaming it over path. On any failure the
// temporary file is removed and path is left untouched. Errors returned by
// write are passed through unchanged.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.IO(err, "create temporary file in %s", dir)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.IO(err, "write %s", path)
	}
	if err := tmp.Sync(); err != nil {
		return errors.IO(err, "sync %s", path)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return errors.IO(err, "chmod %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.IO(err, "close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.IO(err, "rename to %s", path)
	}
	return nil
}
