package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/medrag/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local WebSocket bridge",
	Long: `Start a local HTTP server that exposes the chat flow to other front ends.
Each WebSocket connection gets its own session.

Endpoints:
  GET /health   — Health check
  GET /api/ws   — WebSocket: analyze, chat and state messages`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "address to listen on (default from config, 127.0.0.1)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config, 6143)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Serve.Addr = addr
	}
	if cmd.Flags().Changed("port") {
		cfg.Serve.Port, _ = cmd.Flags().GetInt("port")
	}

	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	listen := fmt.Sprintf("%s:%d", cfg.Serve.Addr, cfg.Serve.Port)
	srv := api.New(listen, newClient(cfg, logger), logger)
	fmt.Fprintf(os.Stderr, "medrag bridge on http://%s (backend %s)\n", listen, cfg.BackendURL)
	return srv.Run(cmd.Context())
}
