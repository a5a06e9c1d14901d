package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sprite-ai/medrag/internal/model"
)

const okAnalysis = `{"summary":"ok","risk_areas":[],"moderate_areas":[],"healthy_areas":["glucose"],"all_metrics":[]}`

func newBackend(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestAnalyze(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "labs.pdf" || string(data) != "%PDF" {
			t.Errorf("got file %q with %q", hdr.Filename, data)
		}
		json.NewEncoder(w).Encode(map[string]string{"session_id": "s1", "analysis": okAnalysis})
	})

	reply, err := c.Analyze(context.Background(), model.Document{Name: "labs.pdf", Data: []byte("%PDF")})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if reply.SessionID != "s1" {
		t.Errorf("session = %q, want s1", reply.SessionID)
	}
	if reply.Result.Summary != "ok" || len(reply.Result.HealthyAreas) != 1 {
		t.Errorf("result = %+v", reply.Result)
	}
}

func TestAnalyzeMalformedInnerPayload(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"session_id": "s1", "analysis": "not json"})
	})

	_, err := c.Analyze(context.Background(), model.Document{Name: "a.pdf"})
	if !errors.Is(err, model.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestAnalyzeMissingSessionID(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"analysis": `{"summary":"ok","risk_areas":[],"moderate_areas":[],"healthy_areas":[],"all_metrics":[]}`,
		})
	})

	reply, err := c.Analyze(context.Background(), model.Document{Name: "a.pdf"})
	if !errors.Is(err, model.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
	if reply != nil {
		t.Errorf("expected nil reply, got %+v", reply)
	}
}

func TestAnalyzeMalformedEnvelope(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	})

	_, err := c.Analyze(context.Background(), model.Document{Name: "a.pdf"})
	if !errors.Is(err, model.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestStatusError(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Session not found"}`, http.StatusNotFound)
	})

	_, err := c.Chat(context.Background(), "missing", "hello")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusNotFound || se.Op != "chat" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestChat(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.SessionID != "s1" || req.Query != "Is my cholesterol okay?" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"answer":"Yes","visualization":{"metric":"Cholesterol","value":180,"status":"Normal","unit":"mg/dL"}}`))
	})

	reply, err := c.Chat(context.Background(), "s1", "Is my cholesterol okay?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Answer != "Yes" {
		t.Errorf("answer = %q", reply.Answer)
	}
	viz := reply.Visualization
	if viz == nil || viz.Metric != "Cholesterol" || viz.Value != 180 || viz.Max != nil {
		t.Fatalf("visualization = %+v", viz)
	}
	if viz.EffectiveMax() != 270 {
		t.Errorf("effective max = %v", viz.EffectiveMax())
	}
}

func TestChatWithoutVisualization(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":"No metric found"}`))
	})

	reply, err := c.Chat(context.Background(), "s1", "anything")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Visualization != nil {
		t.Errorf("expected no visualization, got %+v", reply.Visualization)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithTimeout(2*time.Second))
	if _, err := c.Chat(context.Background(), "s1", "q"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestNewDefaults(t *testing.T) {
	if got := New("").BaseURL(); got != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", got, DefaultBaseURL)
	}
	if got := New("http://backend:8000/").BaseURL(); got != "http://backend:8000" {
		t.Errorf("BaseURL = %q", got)
	}
}
