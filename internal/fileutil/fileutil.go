// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package fileutil provides the file bookkeeping helpers shared by all
// building blocks: sandbox directories, output completeness checks, removal
// of temporary files and zip packaging of results.
package fileutil

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bioblocks/internal/logger"
)

// CreateUniqueDir creates a fresh sandbox directory under dir (the working
// directory when empty) and returns its path.
func CreateUniqueDir(dir, prefix string) (string, error) {
	if prefix == "" {
		prefix = "sandbox_"
	}
	path, err := os.MkdirTemp(dir, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to create unique directory: %w", err)
	}
	return path, nil
}

// NotEmpty reports whether path exists and is a non-empty regular file.
func NotEmpty(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// CheckCompleteFiles reports whether every path in the list exists as a
// non-empty file. Used by the restart skip: a step only skips execution when
// all of its declared outputs are already complete.
func CheckCompleteFiles(paths []string) bool {
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if !NotEmpty(p) {
			return false
		}
	}
	return true
}

// RemoveFiles deletes every listed file or directory, returning the paths
// that were actually removed. Missing entries are not errors.
func RemoveFiles(paths []string) []string {
	var removed []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			logger.Warn("Could not remove temporary path", "path", p, "error", err)
			continue
		}
		removed = append(removed, p)
	}
	return removed
}

// CopyFile copies src to dst, creating parent directories as needed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Sync()
}

// ZipFiles packages the given files into a zip archive at zipPath. Entries
// are stored flat under their base names, matching how wrapped tools expect
// bundled outputs.
func ZipFiles(zipPath string, files []string) error {
	archive, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", zipPath, err)
	}
	defer archive.Close()

	w := zip.NewWriter(archive)
	defer w.Close()

	for _, file := range files {
		in, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open %s for archiving: %w", file, err)
		}
		entry, err := w.Create(filepath.Base(file))
		if err != nil {
			in.Close()
			return fmt.Errorf("failed to add %s to archive: %w", file, err)
		}
		if _, err := io.Copy(entry, in); err != nil {
			in.Close()
			return fmt.Errorf("failed to write %s to archive: %w", file, err)
		}
		in.Close()
	}
	return nil
}

// UnzipFiles extracts every entry of the archive into destDir and returns the
// extracted paths.
func UnzipFiles(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer r.Close()

	var extracted []string
	for _, f := range r.File {
		// Reject entries escaping the destination directory.
		dest := filepath.Join(destDir, filepath.Base(f.Name))
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return extracted, fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
		}
		out, err := os.Create(dest)
		if err != nil {
			rc.Close()
			return extracted, fmt.Errorf("failed to create %s: %w", dest, err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			rc.Close()
			return extracted, fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
		out.Close()
		rc.Close()
		extracted = append(extracted, dest)
	}
	return extracted, nil
}
