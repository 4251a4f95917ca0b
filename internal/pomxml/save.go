package pomxml

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"pomorg/internal/source"
)

// Save renders the document and writes it over the manifest. It reports
// whether the bytes changed; an unchanged manifest is not rewritten.
func (f *File) Save(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	out, err := f.Render()
	if err != nil {
		return false, err
	}
	if bytes.Equal(out, f.file.Content) {
		return false, nil
	}
	if f.file.Flags&source.FileVirtual != 0 {
		return false, fmt.Errorf("%w: %s: virtual buffer", ErrPersist, f.file.Path)
	}
	data, err := f.file.Encode(out)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := writeAtomic(f.file.Path, data); err != nil {
		return false, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return true, nil
}

// writeAtomic replaces path through a temporary file in the same directory,
// keeping the permission bits of the existing file.
func writeAtomic(path string, data []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
