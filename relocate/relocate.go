package relocate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Move relocates src into destDir under the suggested name, falling back
// to src's own basename when the suggestion is empty. An existing file at
// the destination is never overwritten: a numeric suffix is appended
// until a free name is found. Returns the final path.
func Move(src, suggested, destDir string) (string, error) {
	name := strings.TrimSpace(suggested)
	if name == "" {
		name = filepath.Base(src)
	}

	dest, err := collisionFreePath(destDir, name)
	if err != nil {
		return "", err
	}

	if err := moveFile(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// collisionFreePath returns destDir/name, or destDir/name_N with the
// smallest N for which no file exists yet.
func collisionFreePath(destDir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(destDir, name)
	for n := 1; ; n++ {
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to probe destination '%s': %w", candidate, err)
		}
		candidate = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// moveFile renames src to dest, degrading to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("copied to '%s' but failed to remove original: %w", dest, err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source '%s': %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination '%s': %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to copy to '%s': %w", dest, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to finalize '%s': %w", dest, err)
	}
	return nil
}
