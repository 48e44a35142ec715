package quiz

import (
	"context"
	"errors"

	"github.com/mind-engage/mindengage-rewards/internal/course"
	"github.com/mind-engage/mindengage-rewards/internal/grading"
	"github.com/mind-engage/mindengage-rewards/internal/logger"
)

var ErrNoQuestions = errors.New("lection has no quiz questions")

type State string

const (
	StateAwaitingAnswer   State = "awaiting-answer"
	StateQuestionAdvanced State = "question-advanced"
	StateFailed           State = "failed"
	StateCompleted        State = "completed"
)

func (s State) Terminal() bool { return s == StateFailed || s == StateCompleted }

// Completer receives the completion side-effect of a fully passed quiz.
// progress.Store satisfies it.
type Completer interface {
	MarkLectionDone(ctx context.Context, courseID, lectionID int) bool
}

// Session is one attempt at one lection's quiz. It is not safe for
// concurrent use and is never persisted.
type Session struct {
	courseID  int
	lection   course.Lection
	grader    *grading.Grader
	completer Completer
	log       *logger.Logger

	state         State
	index         int
	score         int
	selected      map[int][]int
	quizCompleted bool
	completed     bool
}

type Option func(*Session)

func WithGrader(g *grading.Grader) Option { return func(s *Session) { s.grader = g } }
func WithLogger(l *logger.Logger) Option { return func(s *Session) { s.log = l } }

func New(courseID int, lection course.Lection, completer Completer, opts ...Option) (*Session, error) {
	if len(lection.QuizQuestions) == 0 {
		return nil, ErrNoQuestions
	}
	s := &Session{
		courseID:  courseID,
		lection:   lection,
		completer: completer,
	}
	for _, o := range opts {
		o(s)
	}
	if s.grader == nil {
		s.grader = grading.NewGrader()
	}
	s.log = logger.OrNop(s.log).With("course_id", courseID, "lection_id", lection.LectionID)
	s.Restart()
	return s, nil
}

// Restart discards selections and score. Valid from any state.
func (s *Session) Restart() {
	s.state = StateAwaitingAnswer
	s.index = 0
	s.score = 0
	s.selected = map[int][]int{}
	s.quizCompleted = false
	s.completed = false
}

// SelectAnswer records a click on optionID for questionID. Unknown questions
// are ignored; state and score never change here.
func (s *Session) SelectAnswer(questionID, optionID int) {
	if s.state.Terminal() {
		return
	}
	q, ok := s.lection.Question(questionID)
	if !ok {
		s.log.Debug("select for unknown question ignored", "question_id", questionID)
		return
	}
	next := s.grader.ApplySelection(q, s.selected[questionID], optionID)
	if len(next) == 0 {
		delete(s.selected, questionID)
		return
	}
	s.selected[questionID] = next
}

// CheckAnswer gates on the current question only. A wrong answer fails the
// whole attempt; the last right answer completes it.
func (s *Session) CheckAnswer(ctx context.Context) {
	if s.state.Terminal() {
		return
	}
	q := s.lection.QuizQuestions[s.index]
	if !s.grader.Evaluate(q, s.selected[q.QuestionID]) {
		s.state = StateFailed
		return
	}
	s.score++
	if s.index < len(s.lection.QuizQuestions)-1 {
		s.index++
		s.state = StateQuestionAdvanced
		return
	}
	s.quizCompleted = true
	s.finish(ctx)
}

// CalculateScore grades every question in one pass. The quiz counts as taken
// either way; only a perfect score completes the lection.
func (s *Session) CalculateScore(ctx context.Context) {
	if s.state.Terminal() {
		return
	}
	correct := 0
	for _, q := range s.lection.QuizQuestions {
		if s.grader.Evaluate(q, s.selected[q.QuestionID]) {
			correct++
		}
	}
	s.score = correct
	s.quizCompleted = true
	if correct != len(s.lection.QuizQuestions) {
		s.completed = false
		s.state = StateFailed
		return
	}
	s.finish(ctx)
}

func (s *Session) finish(ctx context.Context) {
	s.state = StateCompleted
	s.completed = true
	s.lection.IsCompleted = true
	if s.completer == nil {
		s.log.Warn("no completer wired; lection completion not recorded")
		return
	}
	s.completer.MarkLectionDone(ctx, s.courseID, s.lection.LectionID)
}

func (s *Session) Lection() course.Lection { return s.lection }
func (s *Session) State() State            { return s.state }
func (s *Session) Index() int              { return s.index }
func (s *Session) Score() int              { return s.score }
func (s *Session) HasFailed() bool         { return s.state == StateFailed }
func (s *Session) QuizCompleted() bool     { return s.quizCompleted }
func (s *Session) IsCompleted() bool       { return s.completed }
func (s *Session) CurrentQuestion() course.QuizQuestion {
	return s.lection.QuizQuestions[s.index]
}

// Selected returns a copy of the recorded selection for questionID.
func (s *Session) Selected(questionID int) []int {
	return append([]int(nil), s.selected[questionID]...)
}
