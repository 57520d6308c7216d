package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"hunter-quiz-service/internal/app"
	"hunter-quiz-service/internal/domain"
	"hunter-quiz-service/internal/infra/memory"
	"hunter-quiz-service/internal/metrics"
)

func TestWebSocketFullQuiz(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "")

	session := readUntil(t, conn, msgSession)
	if session.Payload["phase"] != "not_started" {
		t.Fatalf("expected not_started, got %v", session.Payload["phase"])
	}

	send(t, conn, msgStart, map[string]any{"name": "Gon"})
	started := readUntil(t, conn, msgSession)
	if started.Payload["phase"] != "in_progress" || started.Payload["participantName"] != "Gon" {
		t.Fatalf("unexpected start reply %+v", started.Payload)
	}

	for i, q := range domain.DefaultQuiz().Questions {
		send(t, conn, msgSelect, map[string]any{"index": q.CorrectOptionIndex})
		readUntil(t, conn, msgSession)
		send(t, conn, msgAdvance, nil)
		result := readUntil(t, conn, msgAnswerResult)
		if result.Payload["correct"] != true {
			t.Fatalf("question %d: expected correct, got %+v", q.ID, result.Payload)
		}
		last := i == len(domain.DefaultQuiz().Questions)-1
		if result.Payload["finished"] != last {
			t.Fatalf("question %d: finished=%v", q.ID, result.Payload["finished"])
		}
	}

	// a fresh connection is primed with the current ranking
	observer := dial(t, server, "")
	lb := readUntil(t, observer, msgLeaderboard)
	entries, _ := lb.Payload["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected one leaderboard entry, got %+v", lb.Payload)
	}
	entry := entries[0].(map[string]any)
	if entry["name"] != "Gon" || entry["finalScore"] != float64(5) {
		t.Fatalf("unexpected leaderboard entry %+v", entry)
	}

	send(t, conn, msgRestart, nil)
	restarted := readUntil(t, conn, msgSession)
	if restarted.Payload["phase"] != "not_started" {
		t.Fatalf("expected not_started after restart, got %v", restarted.Payload["phase"])
	}
}

func TestWebSocketPreconditionErrors(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "")
	readUntil(t, conn, msgSession)

	send(t, conn, msgStart, map[string]any{"name": "   "})
	if got := readUntil(t, conn, msgError); got.Payload["code"] != codeNameRequired {
		t.Fatalf("expected name_required, got %+v", got.Payload)
	}

	send(t, conn, msgAdvance, nil)
	if got := readUntil(t, conn, msgError); got.Payload["code"] != codeInvalidPhase {
		t.Fatalf("expected invalid_phase, got %+v", got.Payload)
	}

	send(t, conn, msgStart, map[string]any{"name": "Killua"})
	readUntil(t, conn, msgSession)
	send(t, conn, msgAdvance, nil)
	if got := readUntil(t, conn, msgError); got.Payload["code"] != codeNoSelection {
		t.Fatalf("expected no_selection, got %+v", got.Payload)
	}

	send(t, conn, msgSelect, map[string]any{})
	if got := readUntil(t, conn, msgError); got.Payload["code"] != codeBadRequest {
		t.Fatalf("expected bad_request, got %+v", got.Payload)
	}

	send(t, conn, "dance", nil)
	if got := readUntil(t, conn, msgError); got.Payload["code"] != codeBadRequest {
		t.Fatalf("expected bad_request, got %+v", got.Payload)
	}
}

func TestWebSocketClosesSession(t *testing.T) {
	server, store := newTestServer(t)
	conn := dial(t, server, "")
	readUntil(t, conn, msgSession)
	if store.Len() != 1 {
		t.Fatalf("expected one active session, got %d", store.Len())
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session not closed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	service := newTestQuizService(memory.NewSessionStore())
	server := httptest.NewServer(NewRouter(service, RouterConfig{
		AllowedOrigins: []string{"http://quiz.example"},
		Gatherer:       prometheus.NewRegistry(),
	}))
	t.Cleanup(server.Close)

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server), header)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
}

type wsMessage struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

func readUntil(t *testing.T, conn *websocket.Conn, want string) wsMessage {
	t.Helper()
	for i := 0; i < 20; i++ {
		var msg wsMessage
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == want {
			return msg
		}
	}
	t.Fatalf("no %s message received", want)
	return wsMessage{}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func dial(t *testing.T, server *httptest.Server, origin string) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	service := app.NewQuizService(domain.DefaultQuizID, store, memory.NewQuizRepository(memory.NewDefaultQuizLoader(), time.Minute), app.NewLeaderboard(domain.DefaultQuizID), app.WithObserver(m))
	server := httptest.NewServer(NewRouter(service, RouterConfig{
		Gatherer:    reg,
		Connections: m,
		Log:         quietLogger(),
	}))
	t.Cleanup(server.Close)
	return server, store
}

func newTestQuizService(store app.SessionRepository) *app.QuizService {
	return app.NewQuizService(domain.DefaultQuizID, store, memory.NewQuizRepository(memory.NewDefaultQuizLoader(), time.Minute), app.NewLeaderboard(domain.DefaultQuizID))
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
