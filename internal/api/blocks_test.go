// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	_ "bioblocks/internal/blocks/template"
	"bioblocks/internal/config"
)

func testRouter() *mux.Router {
	router := mux.NewRouter()
	RegisterBlockRoutes(router)
	return router
}

func TestListBlocks(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blocks", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}

	var blocks []BlockSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &blocks); err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, b := range blocks {
		names[b.Name] = true
	}
	if !names["template"] || !names["template_container"] {
		t.Fatalf("catalog = %v", names)
	}
}

func TestDescribeBlock(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blocks/template", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var spec struct {
		Name   string `json:"name"`
		Inputs []struct {
			Name     string `json:"name"`
			Required bool   `json:"required"`
		} `json:"inputs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatal(err)
	}
	if spec.Name != "template" {
		t.Errorf("name = %q", spec.Name)
	}
	if len(spec.Inputs) == 0 || spec.Inputs[0].Name != "input_file_path" {
		t.Errorf("inputs = %+v", spec.Inputs)
	}
}

func TestDescribeUnknownBlock(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blocks/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestLaunchBlock(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	tool := filepath.Join(dir, "tool.sh")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\ncp \"$2\" \"$4\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	payload, _ := json.Marshal(LaunchRequest{
		Paths: map[string]string{
			"input_file_path":  in,
			"output_file_path": out,
		},
		Properties: map[string]any{
			"binary_path": tool,
			"path":        dir,
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/blocks/template/launch", bytes.NewReader(payload))
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp LaunchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ExitCode != 0 || resp.Error != "" {
		t.Fatalf("launch response = %+v", resp)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("output = %q", data)
	}
}

func TestLaunchBlockUsesConfiguredWorkingDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	work := t.TempDir()

	if err := config.SaveConfig(config.Config{WorkingDirPath: work}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	in := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(in, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	tool := filepath.Join(dir, "tool.sh")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\ncp \"$2\" \"$4\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	// No "path" property: the configured working directory applies.
	payload, _ := json.Marshal(LaunchRequest{
		Paths: map[string]string{
			"input_file_path":  in,
			"output_file_path": filepath.Join(dir, "out.txt"),
		},
		Properties: map[string]any{"binary_path": tool},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/blocks/template/launch", bytes.NewReader(payload))
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp LaunchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ExitCode != 0 || resp.Error != "" {
		t.Fatalf("launch response = %+v", resp)
	}
	if _, err := os.Stat(filepath.Join(work, "template_log.out")); err != nil {
		t.Errorf("step log not in the configured working directory: %v", err)
	}
}

func TestLaunchBlockBadPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/blocks/template/launch", bytes.NewReader([]byte("{")))
	testRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLaunchUnknownHost(t *testing.T) {
	// An unconfigured host name must fail before anything runs.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	payload, _ := json.Marshal(LaunchRequest{Host: "ghost"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/blocks/template/launch", bytes.NewReader(payload))
	testRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
