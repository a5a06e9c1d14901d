package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sprite-ai/medrag/internal/chat"
	"github.com/sprite-ai/medrag/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // the bridge binds to loopback by default
	},
}

// maxUploadBytes bounds a single inbound frame, base64 payload included.
const maxUploadBytes = 32 << 20

// WebSocket message types from client.
const (
	wsMsgAnalyze = "analyze"
	wsMsgChat    = "chat"
	wsMsgState   = "state"
)

// WebSocket message types to client.
const (
	wsMsgEntry = "entry"
	wsMsgError = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsAnalyze is the payload for "analyze" messages. Content is base64 in JSON.
type wsAnalyze struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

// wsChat is the payload for "chat" messages.
type wsChat struct {
	Query string `json:"query"`
}

// wsEntry carries one transcript entry and its position.
type wsEntry struct {
	Index int         `json:"index"`
	Entry model.Entry `json:"entry"`
}

// wsState mirrors the controller's observable state.
type wsState struct {
	State     string `json:"state"`
	Mode      string `json:"mode"`
	SessionID string `json:"session_id,omitempty"`
	Analyzing bool   `json:"analyzing"`
	Typing    bool   `json:"typing"`
}

// session is one WebSocket connection and the controller it drives.
// Messages are handled one at a time on the read loop.
type session struct {
	id     string
	conn   *websocket.Conn
	ctrl   *chat.Controller
	logger *slog.Logger
	sent   int
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxUploadBytes)

	s.sessions.Add(1)
	defer s.sessions.Done()

	// The request context ends when the server shuts down or the handler
	// returns; closing the socket unblocks the read loop.
	ctx := r.Context()
	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	id := uuid.NewString()
	logger := s.logger.With("conn_id", id)
	sess := &session{
		id:     id,
		conn:   conn,
		ctrl:   chat.New(s.backend, chat.WithLogger(logger)),
		logger: logger,
	}
	logger.Info("bridge connection opened", "remote", r.RemoteAddr)

	sess.flush()
	sess.sendState()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "error", err)
			}
			logger.Info("bridge connection closed", "entries", sess.ctrl.Len())
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sess.sendError("invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgAnalyze:
			sess.handleAnalyze(ctx, msg.Data)
		case wsMsgChat:
			sess.handleChat(ctx, msg.Data)
		case wsMsgState:
			sess.sendState()
		default:
			sess.sendError("unknown message type: " + msg.Type)
		}
	}
}

func (s *session) handleAnalyze(ctx context.Context, data json.RawMessage) {
	var req wsAnalyze
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendError("invalid analyze data")
		return
	}

	var doc *model.Document
	if req.Filename != "" {
		doc = &model.Document{Name: req.Filename, Data: req.Content}
	}

	call, err := s.ctrl.BeginAnalyze(doc)
	if err != nil {
		s.logger.Debug("analyze ignored", "reason", err)
		s.sendState()
		return
	}
	s.flush()
	s.sendState()

	reply, err := call.Send(ctx)
	s.ctrl.FinishAnalyze(call, reply, err)
	s.flush()
	s.sendState()
}

func (s *session) handleChat(ctx context.Context, data json.RawMessage) {
	var req wsChat
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendError("invalid chat data")
		return
	}

	call, err := s.ctrl.BeginChat(req.Query)
	if err != nil {
		s.logger.Debug("chat ignored", "reason", err)
		s.sendState()
		return
	}
	s.flush()
	s.sendState()

	reply, err := call.Send(ctx)
	s.ctrl.FinishChat(call, reply, err)
	s.flush()
	s.sendState()
}

// flush sends every entry appended since the last flush, in order.
func (s *session) flush() {
	for _, e := range s.ctrl.Since(s.sent) {
		s.send(wsMsgEntry, wsEntry{Index: s.sent, Entry: e})
		s.sent++
	}
}

func (s *session) sendState() {
	s.send(wsMsgState, wsState{
		State:     s.ctrl.State().String(),
		Mode:      s.ctrl.Mode().String(),
		SessionID: s.ctrl.SessionID(),
		Analyzing: s.ctrl.Analyzing(),
		Typing:    s.ctrl.Typing(),
	})
}

func (s *session) sendError(msg string) {
	s.send(wsMsgError, map[string]string{"message": msg})
}

func (s *session) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("ws marshal failed", "type", msgType, "error", err)
		return
	}
	if err := s.conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		if !errors.Is(err, websocket.ErrCloseSent) {
			s.logger.Warn("ws write failed", "type", msgType, "error", err)
		}
	}
}
