// Package reward submits ledger grants for completions recorded by the
// progress store and remembers how each submission ended.
package reward

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-rewards/internal/course"
	"github.com/mind-engage/mindengage-rewards/internal/logger"
	"github.com/mind-engage/mindengage-rewards/internal/relay"
	"github.com/mind-engage/mindengage-rewards/internal/wallet"
)

var ErrNoSession = errors.New("no wallet connected")

type Relay interface {
	CompleteLesson(ctx context.Context, req relay.LessonRequest) (string, error)
	CompleteCourse(ctx context.Context, req relay.CourseRequest) (string, error)
	IsCompleted(ctx context.Context, q relay.CompletionQuery) (bool, error)
}

type Journal interface {
	Append(ctx context.Context, o Outcome) error
}

type Kind string

const (
	KindLection Kind = "lection"
	KindCourse  Kind = "course"
)

type Record struct {
	Kind      Kind               `json:"kind"`
	Student   string             `json:"student"`
	CourseID  int                `json:"courseId"`
	LectionID int                `json:"lectionId,omitempty"`
	Level     course.RewardLevel `json:"level,omitempty"`
}

// Outcome is the final state of one submission. Err is nil on success.
type Outcome struct {
	ID string `json:"id"`
	Record
	TxHash string    `json:"txHash,omitempty"`
	Err    error     `json:"-"`
	At     time.Time `json:"at"`
}

func (o Outcome) OK() bool { return o.Err == nil }

// Reason is the failure text, empty on success.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Dispatcher submits each grant exactly once: no retries and no dedup.
// Failures are logged and recorded, never returned to the progress store.
type Dispatcher struct {
	relay   Relay
	session *wallet.Session
	journal Journal
	log     *logger.Logger
	now     func() time.Time

	mu         sync.Mutex
	last       *Outcome
	lastFailed *Outcome
	wg         sync.WaitGroup
}

// New wires a dispatcher. session and journal may be nil.
func New(r Relay, session *wallet.Session, journal Journal, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		relay:   r,
		session: session,
		journal: journal,
		log:     logger.OrNop(log).With("component", "reward"),
		now:     time.Now,
	}
}

func (d *Dispatcher) student() string {
	if d.session == nil {
		return ""
	}
	return d.session.Address
}

func (d *Dispatcher) GrantLection(ctx context.Context, courseID, lectionID int, level course.RewardLevel) Outcome {
	rec := Record{Kind: KindLection, Student: d.student(), CourseID: courseID, LectionID: lectionID, Level: level}
	return d.submit(ctx, rec, func() (string, error) {
		return d.relay.CompleteLesson(ctx, relay.LessonRequest{
			Student: rec.Student, CourseID: courseID, LessonID: lectionID, Level: uint8(level),
		})
	})
}

func (d *Dispatcher) GrantCourse(ctx context.Context, courseID int) Outcome {
	rec := Record{Kind: KindCourse, Student: d.student(), CourseID: courseID}
	return d.submit(ctx, rec, func() (string, error) {
		return d.relay.CompleteCourse(ctx, relay.CourseRequest{Student: rec.Student, CourseID: courseID})
	})
}

func (d *Dispatcher) submit(ctx context.Context, rec Record, call func() (string, error)) Outcome {
	out := Outcome{ID: uuid.NewString(), Record: rec}
	if rec.Student == "" {
		out.Err = ErrNoSession
	} else {
		out.TxHash, out.Err = call()
	}
	out.At = d.now()

	if out.Err != nil {
		d.log.Error("reward grant failed", "kind", rec.Kind, "course_id", rec.CourseID, "lection_id", rec.LectionID,
			"rejected_by_relay", relay.IsRelayError(out.Err), "error", out.Err)
	} else {
		d.log.Info("reward granted", "kind", rec.Kind, "course_id", rec.CourseID, "lection_id", rec.LectionID, "tx", out.TxHash)
	}

	d.mu.Lock()
	d.last = &out
	if out.Err != nil {
		d.lastFailed = &out
	}
	d.mu.Unlock()

	if d.journal != nil {
		if err := d.journal.Append(ctx, out); err != nil {
			d.log.Warn("reward journal append failed", "id", out.ID, "error", err)
		}
	}
	return out
}

// LectionCompleted and CourseCompleted satisfy progress.RewardTrigger: the
// grant runs in the background, detached from the caller's cancellation.
func (d *Dispatcher) LectionCompleted(ctx context.Context, courseID, lectionID int, level course.RewardLevel) {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.GrantLection(ctx, courseID, lectionID, level)
	}()
}

func (d *Dispatcher) CourseCompleted(ctx context.Context, courseID int) {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.GrantCourse(ctx, courseID)
	}()
}

// Wait blocks until every background grant has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// LastOutcome is whichever submission finished last. Lection and course
// grants run concurrently, so a later success can replace an earlier
// failure here; LastFailure keeps that failure.
func (d *Dispatcher) LastOutcome() (Outcome, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return Outcome{}, false
	}
	return *d.last, true
}

// LastFailure is the most recent submission that did not go through.
func (d *Dispatcher) LastFailure() (Outcome, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastFailed == nil {
		return Outcome{}, false
	}
	return *d.lastFailed, true
}

// Confirmed asks the ledger whether rec was granted. It never runs on its own.
func (d *Dispatcher) Confirmed(ctx context.Context, rec Record) (bool, error) {
	if rec.Student == "" {
		rec.Student = d.student()
	}
	if rec.Student == "" {
		return false, ErrNoSession
	}
	return d.relay.IsCompleted(ctx, relay.CompletionQuery{
		Student:  rec.Student,
		CourseID: rec.CourseID,
		LessonID: rec.LectionID,
		IsLesson: rec.Kind == KindLection,
		Level:    uint8(rec.Level),
	})
}
