package http

import (
	"net/http"

	"github.com/mind-engage/mindengage-rewards/internal/progress"
)

// POST /admin/progress/reset wipes cached progress and the active quiz.
// Ledger grants are untouched.
func ResetProgressHandler(store *progress.Store, h *QuizHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Drop()
		if err := store.ResetProgress(r.Context()); err != nil {
			http.Error(w, "reset failed", http.StatusInternalServerError)
			return
		}
		if !store.Ready() {
			http.Error(w, "content unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
}

// ReadyzHandler reports 503 until course content has been loaded.
func ReadyzHandler(store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
