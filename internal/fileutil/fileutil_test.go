// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNotEmpty(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "full.txt")
	writeFile(t, full, "content")
	empty := filepath.Join(dir, "empty.txt")
	writeFile(t, empty, "")

	if !NotEmpty(full) {
		t.Errorf("NotEmpty(%s) = false", full)
	}
	if NotEmpty(empty) {
		t.Errorf("NotEmpty(%s) = true for empty file", empty)
	}
	if NotEmpty(filepath.Join(dir, "missing.txt")) {
		t.Errorf("NotEmpty = true for missing file")
	}
	if NotEmpty(dir) {
		t.Errorf("NotEmpty = true for directory")
	}
}

func TestCheckCompleteFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	writeFile(t, a, "a")
	writeFile(t, b, "b")

	if !CheckCompleteFiles([]string{a, b}) {
		t.Error("all outputs present, want true")
	}
	if CheckCompleteFiles([]string{a, filepath.Join(dir, "missing.txt")}) {
		t.Error("one output missing, want false")
	}
	if CheckCompleteFiles(nil) {
		t.Error("empty list, want false")
	}
	// Unset paths are ignored, the declared ones still decide.
	if !CheckCompleteFiles([]string{a, ""}) {
		t.Error("blank entries should be skipped")
	}
}

func TestRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.txt")
	gone := filepath.Join(dir, "gone.txt")
	sub := filepath.Join(dir, "sandbox")
	writeFile(t, keep, "k")
	writeFile(t, gone, "g")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	removed := RemoveFiles([]string{gone, sub, filepath.Join(dir, "missing.txt"), ""})
	if len(removed) != 2 {
		t.Fatalf("removed %v, want 2 entries", removed)
	}
	if _, err := os.Stat(gone); !os.IsNotExist(err) {
		t.Errorf("%s still exists", gone)
	}
	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Errorf("%s still exists", sub)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("unrelated file was removed: %v", err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	writeFile(t, src, "payload")

	dst := filepath.Join(dir, "nested", "dst.txt")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("copied content = %q", data)
	}

	if err := CopyFile(filepath.Join(dir, "missing.txt"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestZipUnzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "deep", "b.txt")
	writeFile(t, a, "alpha")
	if err := os.MkdirAll(filepath.Dir(b), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, b, "beta")

	archive := filepath.Join(dir, "bundle.zip")
	if err := ZipFiles(archive, []string{a, b}); err != nil {
		t.Fatalf("ZipFiles: %v", err)
	}

	dest := filepath.Join(dir, "out")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	extracted, err := UnzipFiles(archive, dest)
	if err != nil {
		t.Fatalf("UnzipFiles: %v", err)
	}
	if len(extracted) != 2 {
		t.Fatalf("extracted %v, want 2 entries", extracted)
	}
	// Entries are stored flat under their base names.
	data, err := os.ReadFile(filepath.Join(dest, "b.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "beta" {
		t.Fatalf("extracted content = %q", data)
	}
}

func TestCreateUniqueDir(t *testing.T) {
	dir := t.TempDir()
	first, err := CreateUniqueDir(dir, "sandbox_")
	if err != nil {
		t.Fatalf("CreateUniqueDir: %v", err)
	}
	second, err := CreateUniqueDir(dir, "sandbox_")
	if err != nil {
		t.Fatalf("CreateUniqueDir: %v", err)
	}
	if first == second {
		t.Fatalf("directories are not unique: %s", first)
	}
	if !strings.HasPrefix(filepath.Base(first), "sandbox_") {
		t.Fatalf("unexpected name %s", first)
	}
	info, err := os.Stat(first)
	if err != nil || !info.IsDir() {
		t.Fatalf("sandbox was not created: %v", err)
	}
}
