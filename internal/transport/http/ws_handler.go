package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"hunter-quiz-service/internal/app"
	"hunter-quiz-service/internal/domain"
)

// ConnectionTracker counts open websocket clients.
type ConnectionTracker interface {
	ConnectionOpened()
	ConnectionClosed()
}

type nopTracker struct{}

func (nopTracker) ConnectionOpened() {}
func (nopTracker) ConnectionClosed() {}

// WSHandler binds one quiz session to each websocket connection. The session lives as long
// as the socket; the leaderboard is streamed to every connection.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	conns    ConnectionTracker
	log      logrus.FieldLogger
}

func NewWSHandler(service *app.QuizService, allowedOrigins []string, conns ConnectionTracker, log logrus.FieldLogger) *WSHandler {
	if conns == nil {
		conns = nopTracker{}
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		conns: conns,
		log:   log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()
	h.conns.ConnectionOpened()
	defer h.conns.ConnectionClosed()

	ctx := r.Context()
	view, err := h.service.CreateSession(ctx)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: msgError, Payload: errorPayload{Code: codeFor(err), Message: err.Error()}})
		return
	}
	sessionID := view.SessionID
	defer h.service.CloseSession(context.Background(), sessionID)
	log := h.log.WithField("session", sessionID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				// keep draining so senders never block; closing unblocks the read loop
				log.WithError(err).Debug("ws write error")
				failed = true
				conn.Close()
			}
		}
	}()

	send <- outboundMessage[any]{Type: msgSession, Payload: view}

	updates, cancel := h.service.SubscribeLeaderboard()
	defer cancel()
	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: msgLeaderboard, Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		for _, msg := range h.dispatch(ctx, sessionID, inbound) {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch runs one inbound operation and returns the replies in send order.
func (h *WSHandler) dispatch(ctx context.Context, sessionID string, inbound inboundMessage) []outboundMessage[any] {
	var (
		view domain.SessionView
		err  error
	)
	switch inbound.Type {
	case msgStart:
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return badRequest("invalid start payload")
		}
		view, err = h.service.Start(ctx, sessionID, payload.Name)
	case msgSelect:
		var payload selectPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Index == nil {
			return badRequest("invalid select payload")
		}
		view, err = h.service.SelectOption(ctx, sessionID, *payload.Index)
	case msgAdvance:
		var result domain.AdvanceResult
		view, result, err = h.service.Advance(ctx, sessionID)
		if err == nil {
			return []outboundMessage[any]{
				{Type: msgAnswerResult, Payload: result},
				{Type: msgSession, Payload: view},
			}
		}
	case msgRestart:
		view, err = h.service.Restart(ctx, sessionID)
	case msgState:
		view, err = h.service.View(ctx, sessionID)
	default:
		return badRequest("unsupported message type")
	}
	if err != nil {
		return []outboundMessage[any]{{Type: msgError, Payload: errorPayload{Code: codeFor(err), Message: err.Error()}}}
	}
	return []outboundMessage[any]{{Type: msgSession, Payload: view}}
}

func badRequest(message string) []outboundMessage[any] {
	return []outboundMessage[any]{{Type: msgError, Payload: errorPayload{Code: codeBadRequest, Message: message}}}
}
