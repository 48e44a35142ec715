package cache

import (
	"context"
	"sync"

	"github.com/mind-engage/mindengage-rewards/internal/course"
)

// Memory keeps the document in process. Progress does not survive restarts.
type Memory struct {
	mu      sync.Mutex
	courses []course.Course
	ok      bool
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Get(_ context.Context) ([]course.Course, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		return nil, false, nil
	}
	return course.CloneAll(m.courses), true, nil
}

func (m *Memory) Put(_ context.Context, cs []course.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses, m.ok = course.CloneAll(cs), true
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses, m.ok = nil, false
	return nil
}
