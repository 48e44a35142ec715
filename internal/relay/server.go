package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mindengage-rewards/internal/auth/middleware"
	"github.com/mind-engage/mindengage-rewards/internal/ledger"
	"github.com/mind-engage/mindengage-rewards/internal/logger"
	"github.com/mind-engage/mindengage-rewards/internal/wallet"
)

var ErrNotApproved = errors.New("signer is not an approved caller")

// Ledger is the contract surface the relay forwards to.
type Ledger interface {
	RewardStudent(ctx context.Context, g ledger.Grant) (string, error)
	CompleteLesson(ctx context.Context, g ledger.Grant) (string, error)
	CompleteCourse(ctx context.Context, student string, courseID int) (string, error)
	IsCompleted(ctx context.Context, q ledger.Query) (bool, error)
	IsApprovedCaller(ctx context.Context, address string) (bool, error)
}

// EnsureAuthorized must pass before the relay accepts traffic.
func EnsureAuthorized(ctx context.Context, l Ledger, signer string) error {
	ok, err := l.IsApprovedCaller(ctx, signer)
	if err != nil {
		return fmt.Errorf("approved caller check: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotApproved, signer)
	}
	return nil
}

type Server struct {
	ledger   Ledger
	verifier *wallet.Verifier
	log      *logger.Logger
}

// NewServer builds the relay. A nil verifier accepts unauthenticated callers.
func NewServer(l Ledger, v *wallet.Verifier, log *logger.Logger) *Server {
	return &Server{ledger: l, verifier: v, log: logger.OrNop(log).With("component", "relay")}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	if s.verifier != nil {
		r.Use(authmw.JWTMiddleware(s.verifier))
	}
	r.Post(PathReward, s.reward)
	r.Post(PathCompleteLesson, s.completeLesson)
	r.Post(PathCompleteCourse, s.completeCourse)
	r.Post(PathIsCompleted, s.isCompleted)
	return r
}

// Presence of numeric fields matters (0 is a valid id), hence pointers.
type lessonBody struct {
	Student  string `json:"student"`
	CourseID *int   `json:"courseId"`
	LessonID *int   `json:"lessonId"`
	Level    *uint8 `json:"level"`
	IsLesson *bool  `json:"isLesson"`
}

func (b lessonBody) grant() ledger.Grant {
	return ledger.Grant{Student: b.Student, CourseID: *b.CourseID, LessonID: *b.LessonID, Level: *b.Level}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, b *lessonBody) bool {
	if err := json.NewDecoder(r.Body).Decode(b); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

// ownCaller rejects tokens minted for a different wallet than the student.
func (s *Server) ownCaller(w http.ResponseWriter, r *http.Request, student string) bool {
	if s.verifier == nil {
		return true
	}
	if caller := authmw.CallerFromContext(r.Context()); !wallet.SameAddress(caller, student) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func (s *Server) reward(w http.ResponseWriter, r *http.Request) {
	var b lessonBody
	if !s.decode(w, r, &b) {
		return
	}
	if b.Student == "" || b.CourseID == nil || b.LessonID == nil || b.Level == nil {
		http.Error(w, "missing parameters: student, courseId, lessonId or level", http.StatusBadRequest)
		return
	}
	if !s.ownCaller(w, r, b.Student) {
		return
	}
	hash, err := s.ledger.RewardStudent(r.Context(), b.grant())
	if err != nil {
		s.fail(w, "reward", err)
		return
	}
	s.log.Info("reward sent", "course_id", *b.CourseID, "lesson_id", *b.LessonID, "level", *b.Level, "tx", hash)
	writeJSON(w, http.StatusOK, reply{Success: true, TxRewardHash: hash})
}

func (s *Server) completeLesson(w http.ResponseWriter, r *http.Request) {
	var b lessonBody
	if !s.decode(w, r, &b) {
		return
	}
	if b.Student == "" || b.CourseID == nil || b.LessonID == nil || b.Level == nil {
		http.Error(w, "missing parameters: student, courseId, lessonId or level", http.StatusBadRequest)
		return
	}
	if !s.ownCaller(w, r, b.Student) {
		return
	}
	hash, err := s.ledger.CompleteLesson(r.Context(), b.grant())
	if err != nil {
		s.fail(w, "completeLesson", err)
		return
	}
	s.log.Info("lesson completed", "course_id", *b.CourseID, "lesson_id", *b.LessonID, "tx", hash)
	writeJSON(w, http.StatusOK, reply{Success: true, TxHash: hash})
}

func (s *Server) completeCourse(w http.ResponseWriter, r *http.Request) {
	var b lessonBody
	if !s.decode(w, r, &b) {
		return
	}
	if b.Student == "" || b.CourseID == nil {
		http.Error(w, "missing parameters: student or courseId", http.StatusBadRequest)
		return
	}
	if !s.ownCaller(w, r, b.Student) {
		return
	}
	hash, err := s.ledger.CompleteCourse(r.Context(), b.Student, *b.CourseID)
	if err != nil {
		s.fail(w, "completeCourse", err)
		return
	}
	s.log.Info("course completed", "course_id", *b.CourseID, "tx", hash)
	writeJSON(w, http.StatusOK, reply{Success: true, TxHash: hash})
}

func (s *Server) isCompleted(w http.ResponseWriter, r *http.Request) {
	var b lessonBody
	if !s.decode(w, r, &b) {
		return
	}
	if b.Student == "" || b.CourseID == nil || b.LessonID == nil || b.IsLesson == nil || b.Level == nil {
		http.Error(w, "missing parameters: student, courseId, lessonId, isLesson or level", http.StatusBadRequest)
		return
	}
	if !s.ownCaller(w, r, b.Student) {
		return
	}
	done, err := s.ledger.IsCompleted(r.Context(), ledger.Query{
		Student: b.Student, CourseID: *b.CourseID, LessonID: *b.LessonID, IsLesson: *b.IsLesson, Level: *b.Level,
	})
	if err != nil {
		s.fail(w, "isCompleted", err)
		return
	}
	writeJSON(w, http.StatusOK, reply{Success: true, Completed: &done})
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.log.Error("ledger call failed", "op", op, "error", err)
	writeJSON(w, http.StatusInternalServerError, reply{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
