package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sprite-ai/medrag/internal/chat"
	"github.com/sprite-ai/medrag/internal/model"
	"github.com/sprite-ai/medrag/internal/render"
)

const reportWidth = 100

var errAnalyzeFailed = errors.New("analysis failed")

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Analyze a report and print the results (non-interactive)",
	Long: `Upload a report, optionally ask follow-up questions, and print the
resulting conversation. Useful for scripting and for saving results.

Exit codes:
  0 — analysis succeeded
  1 — analysis failed or another error occurred

Examples:
  medrag report labs.pdf
  medrag report labs.pdf --ask "Is my cholesterol okay?" --format markdown
  medrag report labs.pdf -f html > labs.html`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringArrayP("ask", "q", nil, "question to ask after analysis (repeatable)")
	reportCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown, html")
}

func runReport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "json", "markdown", "html":
	default:
		return fmt.Errorf("unknown format %q (want text, json, markdown or html)", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	doc, err := model.LoadDocument(args[0])
	if err != nil {
		return fmt.Errorf("loading report: %w", err)
	}

	ctx := cmd.Context()
	ctrl := chat.New(newClient(cfg, logger), chat.WithLogger(logger), chat.WithoutGreeting())

	fmt.Fprintf(os.Stderr, "Analyzing %s (%d bytes)...\n", doc.Name, len(doc.Data))
	analyzeErr := ctrl.Analyze(ctx, doc)

	if analyzeErr == nil {
		questions, _ := cmd.Flags().GetStringArray("ask")
		for _, q := range questions {
			if err := ctrl.Chat(ctx, q); err != nil && !errors.Is(err, chat.ErrEmptyQuery) {
				// The transcript already carries the failure text.
				logger.Debug("question failed", "query", q, "error", err)
			}
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = outputJSON(out, doc.Name, ctrl, isTerminal(out))
	case "markdown":
		err = outputMarkdown(out, doc.Name, ctrl)
	case "html":
		err = outputHTML(out, doc.Name, ctrl)
	default:
		err = outputText(out, ctrl)
	}
	if err != nil {
		return err
	}

	if analyzeErr != nil {
		return fmt.Errorf("%w: %s", errAnalyzeFailed, doc.Name)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func outputText(w io.Writer, ctrl *chat.Controller) error {
	_, err := fmt.Fprintln(w, render.Transcript(ctrl.Entries(), reportWidth))
	return err
}

type reportJSON struct {
	File      string        `json:"file"`
	State     string        `json:"state"`
	SessionID string        `json:"session_id,omitempty"`
	Entries   []model.Entry `json:"entries"`
}

func outputJSON(w io.Writer, file string, ctrl *chat.Controller, color bool) error {
	out := reportJSON{
		File:      file,
		State:     ctrl.State().String(),
		SessionID: ctrl.SessionID(),
		Entries:   ctrl.Entries(),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	text := string(data)
	if color {
		text = render.JSON(text)
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func outputMarkdown(w io.Writer, file string, ctrl *chat.Controller) error {
	fmt.Fprintf(w, "# Medical Report: %s\n\n", file)

	for _, e := range ctrl.Entries() {
		switch {
		case e.Kind == model.KindAnalysis && e.Analysis != nil:
			writeMarkdownAnalysis(w, e.Analysis)
		case e.Role == model.RoleUser:
			fmt.Fprintf(w, "**You:** %s\n\n", e.Text)
		default:
			fmt.Fprintf(w, "**MedRAG:** %s\n\n", e.Text)
			if e.Visualization != nil {
				fmt.Fprintf(w, "> %s\n\n", gaugeLine(e.Visualization))
			}
		}
	}
	return nil
}

func writeMarkdownAnalysis(w io.Writer, a *model.AnalysisResult) {
	fmt.Fprintf(w, "## Analysis\n\n")
	fmt.Fprintf(w, "### Executive Summary\n\n%s\n\n", a.Summary)

	for _, l := range render.Lists(a) {
		fmt.Fprintf(w, "### %s\n\n", l.Title)
		if len(l.Items) == 0 {
			fmt.Fprintf(w, "_None._\n\n")
			continue
		}
		for _, item := range l.Items {
			fmt.Fprintf(w, "- %s\n", item)
		}
		fmt.Fprintln(w)
	}

	if len(a.AllMetrics) == 0 {
		return
	}
	fmt.Fprintf(w, "### Detailed Report Data\n\n_%s_\n\n", render.MetricsCaption(len(a.AllMetrics)))
	fmt.Fprintln(w, "| Test Name | Result | Units | Normal Range |")
	fmt.Fprintln(w, "|-----------|--------|-------|--------------|")
	for _, m := range a.AllMetrics {
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			mdCell(m.Name), mdCell(m.Value), mdCell(m.Unit), mdCell(m.NormalRange))
	}
	fmt.Fprintln(w)
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// gaugeLine summarizes a visualization for non-terminal formats.
func gaugeLine(d *model.GaugeDatum) string {
	line := fmt.Sprintf("%s: %s %s (%s", d.Metric, formatFloat(d.Value), d.Unit, d.Status)
	if d.Min != nil || d.Max != nil {
		line += fmt.Sprintf(", range %s–%s", formatFloat(d.EffectiveMin()), formatFloat(d.EffectiveMax()))
	}
	return line + ")"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func outputHTML(w io.Writer, file string, ctrl *chat.Controller) error {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>MedRAG Report: %s</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; background: #282a36; color: #f8f8f2; }
  h1 { color: #bd93f9; }
  h2, h3 { color: #8be9fd; }
  .panel { background: #343746; padding: 16px 24px; border-radius: 8px; margin-bottom: 24px; }
  .lists { display: flex; gap: 24px; }
  .lists div { flex: 1; }
  .attention h3 { color: #ff5555; }
  .borderline h3 { color: #ffb86c; }
  .normal h3 { color: #50fa7b; }
  .msg { padding: 8px 12px; border-radius: 8px; margin: 8px 0; }
  .user { background: #44475a; text-align: right; }
  .bot { background: #343746; }
  .gauge { color: #f1fa8c; font-size: 0.9em; }
  .alert { color: #ff5555; }
  table { width: 100%%; border-collapse: collapse; }
  th { text-align: left; padding: 8px 12px; background: #44475a; color: #f8f8f2; }
  td { padding: 8px 12px; border-bottom: 1px solid #44475a; }
  tr:hover { background: #343746; }
  footer { margin-top: 32px; color: #6272a4; font-size: 0.85em; }
</style>
</head>
<body>
<h1>MedRAG Report: %s</h1>
`, html.EscapeString(file), html.EscapeString(file))

	for _, e := range ctrl.Entries() {
		switch {
		case e.Kind == model.KindAnalysis && e.Analysis != nil:
			writeHTMLAnalysis(w, e.Analysis)
		case e.Role == model.RoleUser:
			fmt.Fprintf(w, "<div class=\"msg user\">%s</div>\n", html.EscapeString(e.Text))
		default:
			fmt.Fprintf(w, "<div class=\"msg bot\">%s", html.EscapeString(e.Text))
			if d := e.Visualization; d != nil {
				class := "gauge"
				if d.Status.Alert() {
					class += " alert"
				}
				fmt.Fprintf(w, "<div class=\"%s\">%s</div>", class, html.EscapeString(gaugeLine(d)))
			}
			fmt.Fprintln(w, "</div>")
		}
	}

	fmt.Fprintln(w, `<footer>Generated by <strong>medrag</strong></footer>
</body>
</html>`)
	return nil
}

func writeHTMLAnalysis(w io.Writer, a *model.AnalysisResult) {
	fmt.Fprintln(w, `<div class="panel">`)
	fmt.Fprintln(w, "<h2>Medical Report Analysis</h2>")
	fmt.Fprintf(w, "<h3>Executive Summary</h3>\n<p>%s</p>\n", html.EscapeString(a.Summary))

	fmt.Fprintln(w, `<div class="lists">`)
	for _, l := range render.Lists(a) {
		fmt.Fprintf(w, "<div class=\"%s\"><h3>%s</h3><ul>", strings.ToLower(l.Title), l.Title)
		for _, item := range l.Items {
			fmt.Fprintf(w, "<li>%s</li>", html.EscapeString(item))
		}
		fmt.Fprintln(w, "</ul></div>")
	}
	fmt.Fprintln(w, "</div>")

	if len(a.AllMetrics) > 0 {
		fmt.Fprintf(w, "<h3>Detailed Report Data</h3>\n<p>%s</p>\n", render.MetricsCaption(len(a.AllMetrics)))
		fmt.Fprintln(w, `<table>
<thead><tr><th>Test Name</th><th>Result</th><th>Units</th><th>Normal Range</th></tr></thead>
<tbody>`)
		for _, m := range a.AllMetrics {
			fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				html.EscapeString(m.Name), html.EscapeString(m.Value),
				html.EscapeString(m.Unit), html.EscapeString(m.NormalRange))
		}
		fmt.Fprintln(w, "</tbody></table>")
	}
	fmt.Fprintln(w, "</div>")
}
