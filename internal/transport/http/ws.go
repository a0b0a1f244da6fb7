package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleWatch upgrades the request to a WebSocket and streams a result
// snapshot after every answer submission for the quiz, starting with the
// current one. The subscription is resolved before the upgrade so unknown
// quiz ids still get a plain 404.
func (h *Handler) handleWatch(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")

	updates, cancel, err := h.service.WatchResults(r.Context(), quizID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "quiz_id", quizID, "error", err)
		return
	}
	defer conn.Close()

	// Reader exists only to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case result, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(result); err != nil {
				h.logger.Error("ws write failed", "quiz_id", quizID, "error", err)
				return
			}
		case <-done:
			return
		}
	}
}
