package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/mind-engage/mindengage-rewards/internal/grading"
	"github.com/mind-engage/mindengage-rewards/internal/logger"
	"github.com/mind-engage/mindengage-rewards/internal/progress"
	"github.com/mind-engage/mindengage-rewards/internal/quiz"
)

// QuizHolder keeps the single active quiz session of this learner.
type QuizHolder struct {
	mu     sync.Mutex
	active *quiz.Session

	store  *progress.Store
	grader *grading.Grader
	log    *logger.Logger
}

func NewQuizHolder(store *progress.Store, log *logger.Logger) *QuizHolder {
	return &QuizHolder{store: store, grader: grading.NewGrader(), log: logger.OrNop(log)}
}

// Drop discards the active session, if any.
func (h *QuizHolder) Drop() {
	h.mu.Lock()
	h.active = nil
	h.mu.Unlock()
}

// with runs fn against the active session under the lock and writes its view.
func (h *QuizHolder) with(w http.ResponseWriter, fn func(s *quiz.Session)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		http.Error(w, "no active quiz", http.StatusConflict)
		return
	}
	fn(h.active)
	writeJSON(w, http.StatusOK, h.active.Snapshot())
}

// POST /courses/{courseID}/lections/{lectionID}/quiz
func StartQuizHandler(h *QuizHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, ok := intParam(w, r, "courseID")
		if !ok {
			return
		}
		lectionID, ok := intParam(w, r, "lectionID")
		if !ok {
			return
		}
		l, found := h.store.Lection(courseID, lectionID)
		if !found {
			http.Error(w, "lection not found", http.StatusNotFound)
			return
		}
		s, err := quiz.New(courseID, l, h.store, quiz.WithGrader(h.grader), quiz.WithLogger(h.log))
		if errors.Is(err, quiz.ErrNoQuestions) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			http.Error(w, "start quiz", http.StatusInternalServerError)
			return
		}
		h.mu.Lock()
		h.active = s
		v := s.Snapshot()
		h.mu.Unlock()
		writeJSON(w, http.StatusCreated, v)
	}
}

// GET /quiz
func GetQuizHandler(h *QuizHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.with(w, func(*quiz.Session) {})
	}
}

// POST /quiz/answers { "questionId": 1, "answerOptionId": 2 }
func SelectAnswerHandler(h *QuizHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID     *int `json:"questionId"`
			AnswerOptionID *int `json:"answerOptionId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == nil || req.AnswerOptionID == nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		h.with(w, func(s *quiz.Session) { s.SelectAnswer(*req.QuestionID, *req.AnswerOptionID) })
	}
}

// POST /quiz/check grades the current question (one-at-a-time mode).
func CheckAnswerHandler(h *QuizHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithoutCancel(r.Context())
		h.with(w, func(s *quiz.Session) { s.CheckAnswer(ctx) })
	}
}

// POST /quiz/score grades every question at once.
func ScoreHandler(h *QuizHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithoutCancel(r.Context())
		h.with(w, func(s *quiz.Session) { s.CalculateScore(ctx) })
	}
}

// POST /quiz/restart
func RestartQuizHandler(h *QuizHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.with(w, func(s *quiz.Session) { s.Restart() })
	}
}
