package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/mind-engage/mindengage-rewards/internal/course"
	"github.com/mind-engage/mindengage-rewards/internal/logger"
)

var ErrResetFailed = errors.New("progress reset failed")

// Cache holds exactly one document: the whole Course[] working set.
// ok=false means nothing is cached yet (first load).
type Cache interface {
	Get(ctx context.Context) (courses []course.Course, ok bool, err error)
	Put(ctx context.Context, courses []course.Course) error
	Clear(ctx context.Context) error
}

// Source supplies pristine course content.
type Source interface {
	Courses(ctx context.Context) ([]course.Course, error)
}

// RewardTrigger is told about completions before they are applied locally.
// Implementations must return without waiting on the ledger.
type RewardTrigger interface {
	LectionCompleted(ctx context.Context, courseID, lectionID int, level course.RewardLevel)
	CourseCompleted(ctx context.Context, courseID int)
}

// Store is the single writer of completion flags. The working set is
// optimistic: flags flip before any reward transaction is confirmed.
type Store struct {
	mu      sync.RWMutex
	courses []course.Course

	cache   Cache
	source  Source
	rewards RewardTrigger
	log     *logger.Logger
}

func New(cache Cache, source Source, rewards RewardTrigger, log *logger.Logger) *Store {
	return &Store{
		cache:   cache,
		source:  source,
		rewards: rewards,
		log:     logger.OrNop(log).With("component", "progress"),
	}
}

// Load resumes from the cache, or seeds the cache from pristine content on
// first use. Failures are logged and leave the store as it was; check Ready.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) {
	cached, ok, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		s.log.Warn("progress cache unreadable; falling back to pristine content", "error", err)
	case ok:
		s.courses = cached
		s.log.Info("loaded courses from cache", "courses", len(cached))
		return
	}

	pristine, err := s.source.Courses(ctx)
	if err != nil {
		s.log.Error("error loading courses", "error", err)
		return
	}
	s.courses = pristine
	s.log.Info("loaded courses from content", "courses", len(pristine))
	s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) {
	if err := s.cache.Put(ctx, s.courses); err != nil {
		s.log.Error("error saving courses to cache", "error", err)
	}
}

// Ready is false until some content has been loaded. Callers should treat a
// not-ready store as empty rather than loop on Load.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses) > 0
}

// MarkLectionDone records a passed quiz. Unknown ids are a logged no-op.
// Rewards are triggered first (lection always, course only when this call
// completes it), then the flags flip and the cache is rewritten.
func (s *Store) MarkLectionDone(ctx context.Context, courseID, lectionID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ci := s.courseIndexLocked(courseID)
	if ci == -1 {
		s.log.Warn("course not found", "course_id", courseID)
		return false
	}
	c := &s.courses[ci]
	li := c.LectionIndex(lectionID)
	if li == -1 {
		s.log.Warn("lection not found", "course_id", courseID, "lection_id", lectionID)
		return false
	}

	newlyComplete := !c.IsCompleted && completesCourse(*c, li)
	if s.rewards != nil {
		s.rewards.LectionCompleted(ctx, courseID, lectionID, c.Lections[li].DifficultyLevel.RewardLevel())
		if newlyComplete {
			s.rewards.CourseCompleted(ctx, courseID)
		}
	}

	c.Lections[li].IsCompleted = true
	c.IsCompleted = c.AllLectionsCompleted()
	s.log.Info("lection completed", "course_id", courseID, "lection_id", lectionID, "course_completed", c.IsCompleted)
	s.saveLocked(ctx)
	return true
}

// completesCourse reports whether flipping lection li would leave every lection done.
func completesCourse(c course.Course, li int) bool {
	for i, l := range c.Lections {
		if i != li && !l.IsCompleted {
			return false
		}
	}
	return true
}

// ResetProgress is the only way to undo completion: drop the cache and
// rehydrate pristine content. When the cache can not be cleared nothing is
// reloaded, since the old progress would be read straight back.
func (s *Store) ResetProgress(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cache.Clear(ctx); err != nil {
		s.log.Error("error clearing progress cache", "error", err)
		return fmt.Errorf("%w: %v", ErrResetFailed, err)
	}
	s.loadLocked(ctx)
	s.log.Info("progress reset")
	return nil
}

// --- reads (all return copies) ---

func (s *Store) Courses() []course.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return course.CloneAll(s.courses)
}

func (s *Store) Course(courseID int) (course.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.courseIndexLocked(courseID); i != -1 {
		return s.courses[i].Clone(), true
	}
	return course.Course{}, false
}

func (s *Store) Lection(courseID, lectionID int) (course.Lection, bool) {
	c, ok := s.Course(courseID)
	if !ok {
		return course.Lection{}, false
	}
	if i := c.LectionIndex(lectionID); i != -1 {
		return c.Lections[i], true
	}
	return course.Lection{}, false
}

func (s *Store) Lections(courseID int) []course.Lection {
	c, _ := s.Course(courseID)
	return c.Lections
}

func (s *Store) CompletedLectionsCount(courseID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.courseIndexLocked(courseID); i != -1 {
		return s.courses[i].CompletedLections()
	}
	return 0
}

func (s *Store) TotalCompletedLections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.courses {
		n += c.CompletedLections()
	}
	return n
}

func (s *Store) TotalCompletedCourses() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.courses {
		if c.IsCompleted {
			n++
		}
	}
	return n
}

// CourseProgress is the rounded completion percentage; 0 for unknown courses
// and courses without lections.
func (s *Store) CourseProgress(courseID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.courseIndexLocked(courseID)
	if i == -1 {
		return 0
	}
	total := len(s.courses[i].Lections)
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(s.courses[i].CompletedLections()) / float64(total) * 100))
}

func (s *Store) courseIndexLocked(courseID int) int {
	for i := range s.courses {
		if s.courses[i].CourseID == courseID {
			return i
		}
	}
	return -1
}
