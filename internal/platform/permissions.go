package platform

import (
	"fmt"
	"io/fs"
	"os"
	"runtime"
)

// honorsModeBits reports whether the filesystem enforces Unix permission bits.
func honorsModeBits() bool {
	return runtime.GOOS != "windows"
}

// Chmod applies the permission bits of mode to path; type bits such as
// fs.ModeDir are dropped so a source's full FileMode can be passed directly.
// It does nothing on Windows.
func Chmod(path string, mode fs.FileMode) error {
	if !honorsModeBits() {
		return nil
	}
	if err := os.Chmod(path, mode.Perm()); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	return nil
}
