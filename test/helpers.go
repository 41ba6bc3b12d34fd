package test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/require"
)

func getWd(t *testing.T, folder string) string {
	wd, err := os.Getwd()
	assert.NoError(t, err, "failed to get working directory")
	return filepath.Join(wd, folder)
}

// copyProject copies a project from testdata into a temporary directory so
// that generated outputs never land in the source tree.
func copyProject(t *testing.T, folder string) string {
	src := getWd(t, filepath.Join("testdata", folder))
	dst := t.TempDir()

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	assert.NoError(t, err, "failed to copy project %s", folder)

	return dst
}

func readOutput(t *testing.T, dir string, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	assert.NoError(t, err, "missing output %s", name)
	return string(data)
}
