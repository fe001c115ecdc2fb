package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

// HealthChecker は永続化ストアに到達できるかを確認する
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Handler struct {
	checker     HealthChecker
	frontendURL string
	showDetails bool
}

// New creates the shared Handler. showDetails exposes internal error text to
// clients and must be false in production.
func New(checker HealthChecker, frontendURL string, showDetails bool) *Handler {
	return &Handler{checker: checker, frontendURL: frontendURL, showDetails: showDetails}
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.frontendURL)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// errorResponse はエラー時の共通レスポンス
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
