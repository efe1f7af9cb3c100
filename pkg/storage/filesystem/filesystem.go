// Package filesystem implements storage.Storage on the local filesystem.
// Writes go to a temporary file in the destination directory which is then
// renamed over the destination, so readers never observe a partial file.
package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"vcfclean/pkg/serrors"
	"vcfclean/pkg/storage"
)

// Options configures file and directory permissions.
type Options struct {
	// PermFile is the mode of written files. Zero means 0o644.
	PermFile os.FileMode
	// PermDir is the mode of directories created for written files. Zero means 0o755.
	PermDir os.FileMode
}

// FS is the local filesystem storage.
type FS struct {
	permFile os.FileMode
	permDir  os.FileMode
}

var _ storage.Storage = (*FS)(nil)

// New creates a filesystem storage.
func New(options Options) *FS {
	fsys := &FS{permFile: options.PermFile, permDir: options.PermDir}
	if fsys.permFile == 0 {
		fsys.permFile = 0o644
	}
	if fsys.permDir == 0 {
		fsys.permDir = 0o755
	}

	return fsys
}

// Read returns the content of the file at path.
func (f *FS) Read(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, serrors.Wrap(serrors.ErrInvalidArgument, storage.ErrEmptyPath, "could not read file")
	}
	if err := ctx.Err(); err != nil {
		return nil, serrors.Wrap(serrors.ErrIO, err, "could not read %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, serrors.Wrap(serrors.ErrNotFound, err, "could not read %s", path)
		}

		return nil, serrors.Wrap(serrors.ErrIO, err, "could not read %s", path)
	}

	return data, nil
}

// Write atomically replaces the file at path with data, creating parent
// directories as needed.
func (f *FS) Write(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return serrors.Wrap(serrors.ErrInvalidArgument, storage.ErrEmptyPath, "could not write file")
	}
	if err := ctx.Err(); err != nil {
		return serrors.Wrap(serrors.ErrIO, err, "could not write %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, f.permDir); err != nil {
		return serrors.Wrap(serrors.ErrIO, err, "could not create directory %s", dir)
	}

	if err := f.writeAtomic(dir, path, data); err != nil {
		return serrors.Wrap(serrors.ErrIO, err, "could not write %s", path)
	}

	return nil
}

func (f *FS) writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".vcfclean-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(f.permFile); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)

		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)

		return err
	}

	return nil
}

// Remove deletes the file at path. A missing file is not an error.
func (f *FS) Remove(ctx context.Context, path string) error {
	if path == "" {
		return serrors.Wrap(serrors.ErrInvalidArgument, storage.ErrEmptyPath, "could not remove file")
	}
	if err := ctx.Err(); err != nil {
		return serrors.Wrap(serrors.ErrIO, err, "could not remove %s", path)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return serrors.Wrap(serrors.ErrIO, err, "could not remove %s", path)
	}

	return nil
}
