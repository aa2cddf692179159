package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"rag-agent/internal/config"
	"rag-agent/internal/models"

	"github.com/rs/zerolog/log"
)

// Asker answers a validated question from the knowledge base.
type Asker interface {
	Ask(ctx context.Context, question string) (*models.Answer, error)
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	ContextUsed []string `json:"context_used"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// AskHandler is the HTTP boundary for the query service.
type AskHandler struct {
	svc     Asker
	timeout time.Duration
}

func NewAskHandler(svc Asker, timeout time.Duration) *AskHandler {
	return &AskHandler{svc: svc, timeout: timeout}
}

// Ask handles POST /ask. A question that is missing or blank after trimming
// is rejected with 400 before any collaborator is called; collaborator
// failures surface as 500 with a generic message.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	// Validation trims, but the question flows through verbatim.
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing 'question' field"})
		return
	}
	question := req.Question

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	answer, err := h.svc.Ask(ctx, question)
	if err != nil {
		log.Error().Err(err).Str("question", question).Msg("Error answering question")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to answer question"})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Question:    answer.Question,
		Answer:      answer.Answer,
		ContextUsed: answer.ContextUsed,
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewServer wires the routes and returns a server ready to listen.
func NewServer(cfg *config.ServerConfig, svc Asker) *http.Server {
	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	handler := NewAskHandler(svc, timeout)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", handler.Ask)
	mux.HandleFunc("GET /health", healthHandler)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           requestLogger(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Error encoding response")
	}
}
