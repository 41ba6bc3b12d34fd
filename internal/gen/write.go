package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFile replaces the file at path with content. The content goes to a
// temporary file in the same directory first, so a failed write never leaves
// a truncated output behind. Returns false when the file already had exactly
// this content and was left untouched.
func WriteFile(path string, content []byte) (bool, error) {
	if unchanged(path, content) {
		return false, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return false, fmt.Errorf(`failed to create directory "%s": %w`, dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return false, fmt.Errorf(`failed to create temporary file in "%s": %w`, dir, err)
	}

	tmp := f.Name()
	defer func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}()

	if _, err := f.Write(content); err != nil {
		return false, fmt.Errorf(`failed to write "%s": %w`, tmp, err)
	}
	if err := f.Chmod(filePerm); err != nil {
		return false, fmt.Errorf(`failed to chmod "%s": %w`, tmp, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf(`failed to close "%s": %w`, tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return false, fmt.Errorf(`failed to move output to "%s": %w`, path, err)
	}

	return true, nil
}

func unchanged(path string, content []byte) bool {
	existing, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	return bytes.Equal(existing, content)
}
