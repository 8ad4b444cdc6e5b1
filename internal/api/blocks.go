// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package api implements the HTTP API for bioblocks. It exposes the block
// catalog and a synchronous launch endpoint so workflow managers can drive
// blocks without shelling out to the CLI.
package api

import (
	"encoding/json"
	"net/http"

	"bioblocks/internal/block"
	"bioblocks/internal/config"
	"bioblocks/internal/logger"
	"bioblocks/internal/registry"
	"bioblocks/internal/runner"

	"github.com/gorilla/mux"
)

// BlockSummary is the catalog listing entry.
type BlockSummary struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// LaunchRequest is the payload of a launch call: declared paths plus a flat
// properties mapping, optionally targeting a configured host.
type LaunchRequest struct {
	Paths      map[string]string `json:"paths"`
	Properties map[string]any    `json:"properties"`
	Host       string            `json:"host,omitempty"`
}

// LaunchResponse reports the outcome of a synchronous block run.
type LaunchResponse struct {
	Block    string `json:"block"`
	ExitCode int    `json:"exit_code"`
	Error    string `json:"error,omitempty"`
}

// writeJSONResponse writes a JSON response with CORS headers
func writeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// RegisterBlockRoutes attaches the catalog and launch endpoints.
func RegisterBlockRoutes(router *mux.Router) {
	router.HandleFunc("/api/blocks", handleListBlocks).Methods(http.MethodGet)
	router.HandleFunc("/api/blocks/{name}", handleDescribeBlock).Methods(http.MethodGet)
	router.HandleFunc("/api/blocks/{name}/launch", handleLaunchBlock).Methods(http.MethodPost)
}

func handleListBlocks(w http.ResponseWriter, r *http.Request) {
	var blocks []BlockSummary
	for _, entry := range registry.All() {
		blocks = append(blocks, BlockSummary{
			Name:    entry.Spec.Name,
			Summary: entry.Spec.Summary,
		})
	}
	writeJSONResponse(w, blocks)
}

func handleDescribeBlock(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	entry, err := registry.Get(name)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSONResponse(w, entry.Spec)
}

func handleLaunchBlock(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	entry, err := registry.Get(name)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	var req LaunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid launch payload: "+err.Error())
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	target := runner.LocalTarget()
	if req.Host != "" {
		host, err := cfg.FindHost(req.Host)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		target = runner.RemoteTarget(host)
	}

	props := config.PropertiesFromMap(req.Properties)
	// API launches never write block progress to the server's stdout
	props.CanWriteConsoleLog = false
	if err := cfg.ApplyWorkingDir(&props); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	io := splitPaths(entry.Spec, req.Paths)

	logger.Info("API launch", "block", name, "target", target.ServerName)

	blk := entry.Factory(io, props, target)
	code, runErr := blk.Launch()

	resp := LaunchResponse{Block: name, ExitCode: code}
	if runErr != nil {
		resp.Error = runErr.Error()
	}
	writeJSONResponse(w, resp)
}

// splitPaths sorts the request's flat path mapping into the block's declared
// inputs and outputs, dropping unknown keys.
func splitPaths(spec registry.Spec, paths map[string]string) block.IOMap {
	m := block.IOMap{In: map[string]string{}, Out: map[string]string{}}
	inNames := map[string]bool{}
	for _, f := range spec.Inputs {
		inNames[f.Name] = true
	}
	outNames := map[string]bool{}
	for _, f := range spec.Outputs {
		outNames[f.Name] = true
	}
	for k, v := range paths {
		switch {
		case inNames[k]:
			m.In[k] = v
		case outNames[k]:
			m.Out[k] = v
		}
	}
	return m
}
