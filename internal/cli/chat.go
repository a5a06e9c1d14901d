package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/medrag/internal/chat"
	"github.com/sprite-ai/medrag/internal/model"
	"github.com/sprite-ai/medrag/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [file]",
	Short: "Open an interactive analysis session",
	Long: `Open the interactive TUI. Pick a report in the file browser and press
"a" to analyze it, then ask questions about the results.

Examples:
  medrag chat                      # browse for a report
  medrag chat labs.pdf             # preselect a report
  medrag chat --log-file medrag.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringP("dir", "d", "", "directory the file browser opens in")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal; logs go to a file or nowhere.
	logger, closeLog, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := tui.Options{StartDir: cfg.StartDir}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		opts.StartDir = dir
	}
	if len(args) == 1 {
		doc, err := model.LoadDocument(args[0])
		if err != nil {
			return fmt.Errorf("loading report: %w", err)
		}
		opts.Document = doc
	}

	ctrl := chat.New(newClient(cfg, logger), chat.WithLogger(logger))
	logger.Info("starting chat", "backend", cfg.BackendURL)

	return tui.Run(cmd.Context(), ctrl, opts)
}
