package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"hunter-quiz-service/internal/app"
)

// RouterConfig carries the collaborators of the HTTP surface.
type RouterConfig struct {
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
	Connections    ConnectionTracker
	Log            logrus.FieldLogger
}

// NewRouter wires the JSON endpoints, the websocket and /metrics behind CORS for the browser client.
func NewRouter(service *app.QuizService, cfg RouterConfig) http.Handler {
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	api := &apiHandler{service: service}
	ws := NewWSHandler(service, cfg.AllowedOrigins, cfg.Connections, cfg.Log)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/api/quiz", api.getQuiz).Methods(http.MethodGet)
	r.HandleFunc("/api/leaderboard", api.getLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS)

	return handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)
}

type apiHandler struct {
	service *app.QuizService
}

func (h *apiHandler) getQuiz(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Questions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorPayload{Code: codeFor(err), Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, quizPayload{QuizID: h.service.QuizID(), Questions: questions})
}

func (h *apiHandler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: codeBadRequest, Message: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}
	writeJSON(w, http.StatusOK, h.service.Leaderboard(limit))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
