// Package cli wires the medrag commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/medrag/internal/client"
	"github.com/sprite-ai/medrag/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "medrag",
	Short: "Chat with a private analysis of your medical report",
	Long: `medrag uploads a medical report to a local analysis backend, shows the
extracted findings, and lets you ask follow-up questions about them.

The backend URL defaults to http://localhost:8000 and can be set with
--backend, MEDRAG_BACKEND_URL, a .env file or a YAML config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("backend", "", "analysis backend base URL")
	pf.String("config", "", "path to YAML config file")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-file", "", "write logs to this file")
	pf.Duration("timeout", 0, "per-request timeout (0 means none)")

	rootCmd.AddCommand(chatCmd, reportCmd, serveCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig resolves settings from file, .env and environment, then lets
// explicitly set flags win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.BackendURL, _ = flags.GetString("backend")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}

	return cfg, cfg.Validate()
}

// newLogger builds a text logger. When cfg names a log file it wins over
// fallback. The returned func closes the file.
func newLogger(cfg config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	lvl, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	w, closeFn := fallback, func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closeFn, nil
}

func newClient(cfg config.Config, logger *slog.Logger) *client.Client {
	return client.New(cfg.BackendURL,
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger),
	)
}
