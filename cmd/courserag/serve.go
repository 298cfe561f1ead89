package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"courserag/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the HTTP API: POST /api/query answers questions, GET /api/courses
reports indexed courses and /metrics exposes Prometheus metrics. Transcripts
found in the configured docs folder are indexed at startup.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	if err := a.ingestDocs(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.service, a.sessions, a.cfg.Server.StaticDir)
	return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
}
