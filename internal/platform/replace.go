package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// removeBackup is replaced in tests to simulate a cleanup failure.
var removeBackup = os.RemoveAll

// ReplaceDir moves newDir into place at currentDir. When currentDir already
// exists it is renamed to a hidden sibling backup first and restored if the
// final rename fails. Both paths must live on the same filesystem.
//
// Once the new directory is in place the swap has succeeded; failing to delete
// the backup afterwards is only logged, and the next swap clears it.
func ReplaceDir(newDir, currentDir string) error {
	backupDir := ""

	if _, err := os.Lstat(currentDir); err == nil {
		backupDir = BackupPath(currentDir)
		// Leftover from an interrupted swap.
		if err := os.RemoveAll(backupDir); err != nil {
			return fmt.Errorf("clearing stale backup %s: %w", backupDir, err)
		}
		if err := os.Rename(currentDir, backupDir); err != nil {
			return fmt.Errorf("creating backup: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", currentDir, err)
	}

	if err := os.Rename(newDir, currentDir); err != nil {
		if backupDir != "" {
			if rbErr := RollbackDir(backupDir, currentDir); rbErr != nil {
				return fmt.Errorf("moving %s into place: %w (%v)", newDir, err, rbErr)
			}
		}
		return fmt.Errorf("moving %s into place: %w", newDir, err)
	}

	if backupDir != "" {
		if err := removeBackup(backupDir); err != nil {
			slog.Warn("could not remove backup after replacing directory", "backup", backupDir, "error", err)
		}
	}
	return nil
}

// RollbackDir restores a backup directory to its original location.
func RollbackDir(backupDir, currentDir string) error {
	if err := os.RemoveAll(currentDir); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	if err := os.Rename(backupDir, currentDir); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// BackupPath returns the hidden sibling used to hold dir during a swap.
func BackupPath(dir string) string {
	return filepath.Join(filepath.Dir(dir), "."+filepath.Base(dir)+".backup")
}
