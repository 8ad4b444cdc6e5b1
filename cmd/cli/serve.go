// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"bioblocks/internal/api"
	"bioblocks/internal/logger"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts an HTTP server exposing the block catalog and a launch endpoint,
so blocks can be listed and executed over REST.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Note: SSH manager is already initialized in PersistentPreRunE of rootCmd
		router := mux.NewRouter()
		api.RegisterBlockRoutes(router)

		addr := fmt.Sprintf(":%d", servePort)
		fmt.Printf("Starting API server on %s\n", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			logger.Errorf("Server error: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
