// Package chat owns the transcript, the session state machine and the busy
// flags, and applies analyze and chat operations to them.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sprite-ai/medrag/internal/client"
	"github.com/sprite-ai/medrag/internal/model"
)

// Fixed user-facing texts.
const (
	Greeting          = "Hello! Upload your medical report (PDF) below to start."
	AnalyzeFailedText = "Error analyzing file. Please try again."
	ChatFailedText    = "Connection error."
)

// Guard errors. An operation rejected with one of these changed nothing.
var (
	ErrNoDocument    = errors.New("no document selected")
	ErrSessionActive = errors.New("a report has already been analyzed")
	ErrEmptyQuery    = errors.New("empty query")
	ErrNoSession     = errors.New("no session")
	ErrInFlight      = errors.New("operation already in flight")
)

// Backend is the remote analysis service.
type Backend interface {
	Analyze(ctx context.Context, doc model.Document) (*model.AnalyzeReply, error)
	Chat(ctx context.Context, sessionID, query string) (*model.ChatReply, error)
}

// State is the session state.
type State int

const (
	StateNoSession State = iota
	StateInSession
)

func (s State) String() string {
	switch s {
	case StateNoSession:
		return "no-session"
	case StateInSession:
		return "in-session"
	default:
		return "unknown"
	}
}

// Mode is which input control is visible.
type Mode int

const (
	ModeUpload Mode = iota
	ModeChat
)

func (m Mode) String() string {
	if m == ModeChat {
		return "chat"
	}
	return "upload"
}

// Controller is the single writer of the transcript and session state.
// It is not safe for concurrent use; the owning event loop serializes calls.
// Only the Send methods of calls may run elsewhere.
type Controller struct {
	backend Backend
	logger  *slog.Logger

	transcript Transcript
	state      State
	sessionID  string

	analyzing bool
	typing    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithoutGreeting starts the transcript empty.
func WithoutGreeting() Option {
	return func(c *Controller) { c.transcript.entries = nil }
}

// New creates a controller in the no-session state with the greeting entry.
func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	c.transcript.append(model.BotText(Greeting))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current session state.
func (c *Controller) State() State { return c.state }

// SessionID returns the backend session id, empty before the first
// successful analyze.
func (c *Controller) SessionID() string { return c.sessionID }

// Analyzing reports whether an analyze call is in flight.
func (c *Controller) Analyzing() bool { return c.analyzing }

// Typing reports whether a chat call is in flight.
func (c *Controller) Typing() bool { return c.typing }

// Len returns the transcript length.
func (c *Controller) Len() int { return c.transcript.Len() }

// Entries returns a copy of the transcript.
func (c *Controller) Entries() []model.Entry { return c.transcript.Entries() }

// Since returns a copy of the entries from index n on.
func (c *Controller) Since(n int) []model.Entry { return c.transcript.Since(n) }

// LatestAnalysis returns the analysis embedded in the transcript, if any.
func (c *Controller) LatestAnalysis() *model.AnalysisResult {
	e, ok := c.transcript.Last(model.KindAnalysis)
	if !ok {
		return nil
	}
	return e.Analysis
}

// Mode returns the input mode, which depends only on session presence.
func (c *Controller) Mode() Mode {
	if c.state == StateInSession {
		return ModeChat
	}
	return ModeUpload
}

// CanAnalyze reports whether the Analyze action is enabled.
func (c *Controller) CanAnalyze(fileSelected bool) bool {
	return c.Mode() == ModeUpload && fileSelected && !c.analyzing
}

// CanSend reports whether the Send action is enabled.
func (c *Controller) CanSend() bool {
	return c.Mode() == ModeChat && !c.typing
}

// AnalyzeCall is an analyze operation that has been started.
type AnalyzeCall struct {
	Document model.Document
	backend  Backend
}

// Send performs the backend call. It does not touch controller state.
func (a *AnalyzeCall) Send(ctx context.Context) (*model.AnalyzeReply, error) {
	return a.backend.Analyze(ctx, a.Document)
}

// BeginAnalyze announces the upload and marks analysis as in flight.
func (c *Controller) BeginAnalyze(doc *model.Document) (*AnalyzeCall, error) {
	switch {
	case doc == nil:
		return nil, ErrNoDocument
	case c.state == StateInSession:
		return nil, ErrSessionActive
	case c.analyzing:
		return nil, ErrInFlight
	}

	c.transcript.append(model.UserText("Uploaded: " + doc.Name))
	c.analyzing = true
	c.logger.Info("analyzing document", "file", doc.Name, "bytes", len(doc.Data))

	return &AnalyzeCall{Document: *doc, backend: c.backend}, nil
}

// FinishAnalyze applies the outcome of an analyze call. It returns the
// failure that was recorded, or nil when the session started.
func (c *Controller) FinishAnalyze(call *AnalyzeCall, reply *model.AnalyzeReply, err error) error {
	defer func() { c.analyzing = false }()

	switch {
	case err != nil:
	case reply == nil || reply.Result == nil:
		err = fmt.Errorf("analyze: %w: empty reply", model.ErrMalformedPayload)
	case reply.SessionID == "":
		err = fmt.Errorf("analyze: %w: missing session id", model.ErrMalformedPayload)
	}
	if err != nil {
		c.logger.Warn("analyze failed", "file", call.Document.Name, "kind", errorKind(err), "error", err)
		c.transcript.append(model.BotText(AnalyzeFailedText))
		return err
	}

	if c.state == StateNoSession {
		c.sessionID = reply.SessionID
		c.state = StateInSession
		c.logger.Info("session started", "session_id", reply.SessionID, "metrics", len(reply.Result.AllMetrics))
	}
	c.transcript.append(model.BotAnalysis(reply.Result))
	return nil
}

// Analyze runs a whole analyze operation on the calling goroutine.
func (c *Controller) Analyze(ctx context.Context, doc *model.Document) error {
	call, err := c.BeginAnalyze(doc)
	if err != nil {
		return err
	}
	reply, err := call.Send(ctx)
	return c.FinishAnalyze(call, reply, err)
}

// ChatCall is a chat operation that has been started.
type ChatCall struct {
	SessionID string
	Query     string
	backend   Backend
}

// Send performs the backend call. It does not touch controller state.
func (q *ChatCall) Send(ctx context.Context) (*model.ChatReply, error) {
	return q.backend.Chat(ctx, q.SessionID, q.Query)
}

// BeginChat records the user's query and marks a reply as pending. The raw
// query text is kept; only the emptiness check trims it.
func (c *Controller) BeginChat(query string) (*ChatCall, error) {
	switch {
	case strings.TrimSpace(query) == "":
		return nil, ErrEmptyQuery
	case c.state != StateInSession:
		return nil, ErrNoSession
	case c.typing:
		return nil, ErrInFlight
	}

	c.transcript.append(model.UserText(query))
	c.typing = true

	return &ChatCall{SessionID: c.sessionID, Query: query, backend: c.backend}, nil
}

// FinishChat applies the outcome of a chat call and returns the recorded
// failure, if any.
func (c *Controller) FinishChat(call *ChatCall, reply *model.ChatReply, err error) error {
	defer func() { c.typing = false }()

	if err == nil && reply == nil {
		err = fmt.Errorf("chat: %w: empty reply", model.ErrMalformedPayload)
	}
	if err != nil {
		c.logger.Warn("chat failed", "session_id", call.SessionID, "kind", errorKind(err), "error", err)
		c.transcript.append(model.BotText(ChatFailedText))
		return err
	}

	c.transcript.append(model.BotAnswer(reply.Answer, reply.Visualization))
	return nil
}

// Chat runs a whole chat operation on the calling goroutine.
func (c *Controller) Chat(ctx context.Context, query string) error {
	call, err := c.BeginChat(query)
	if err != nil {
		return err
	}
	reply, err := call.Send(ctx)
	return c.FinishChat(call, reply, err)
}

// errorKind names the failure class for logs. Users see one fixed text
// regardless.
func errorKind(err error) string {
	var se *client.StatusError
	switch {
	case errors.Is(err, model.ErrMalformedPayload):
		return "malformed_payload"
	case errors.As(err, &se):
		return "status"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport"
	}
}
