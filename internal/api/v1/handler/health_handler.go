package handler

import (
	"net/http"
)

const healthMessage = "Resend Webhook Relay is running!"

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// RegisterRoutes mounts the liveness endpoint. "/" is a catch-all pattern,
// so anything other than the exact root path is a 404.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/", methodOnly(http.MethodGet, http.HandlerFunc(h.Health)))
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce plain
// @Success 200 {string} string "Resend Webhook Relay is running!"
// @Router / [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(healthMessage))
}

// methodOnly rejects requests whose method differs from method. HEAD is
// allowed wherever GET is.
func methodOnly(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
			w.Header().Set("Allow", method)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}
