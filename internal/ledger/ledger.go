// Package ledger is a development stand-in for the reward contract: a grant
// book plus the approved-caller registry, kept in the shared SQL database.
package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrAlreadyCompleted = errors.New("course already completed")

// Grant is a lesson-level reward request.
type Grant struct {
	Student  string
	CourseID int
	LessonID int
	Level    uint8
}

// Query mirrors isCompleted(student, courseId, lessonId, isLesson, level).
// For course queries LessonID and Level are ignored.
type Query struct {
	Student  string
	CourseID int
	LessonID int
	IsLesson bool
	Level    uint8
}

type SQLLedger struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQL(db *sql.DB) *SQLLedger { return &SQLLedger{db: db, now: time.Now} }

func txHash() string {
	id := uuid.New()
	sum := sha256.Sum256(id[:])
	return "0x" + hex.EncodeToString(sum[:])
}

// CompleteLesson records a lesson grant. Repeated grants for the same key
// return the original transaction hash.
func (l *SQLLedger) CompleteLesson(ctx context.Context, g Grant) (string, error) {
	return l.grant(ctx, strings.ToLower(g.Student), g.CourseID, g.LessonID, true, g.Level)
}

// RewardStudent pays out a lesson reward directly; it shares the lesson
// grant book with CompleteLesson.
func (l *SQLLedger) RewardStudent(ctx context.Context, g Grant) (string, error) {
	return l.CompleteLesson(ctx, g)
}

// CompleteCourse records the course grant. A second grant for the same
// course is rejected, like a reverted transaction.
func (l *SQLLedger) CompleteCourse(ctx context.Context, student string, courseID int) (string, error) {
	student = strings.ToLower(student)
	done, err := l.IsCompleted(ctx, Query{Student: student, CourseID: courseID})
	if err != nil {
		return "", err
	}
	if done {
		return "", fmt.Errorf("%w: course %d", ErrAlreadyCompleted, courseID)
	}
	return l.grant(ctx, student, courseID, 0, false, 0)
}

func (l *SQLLedger) grant(ctx context.Context, student string, courseID, lessonID int, isLesson bool, level uint8) (string, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT tx_hash FROM ledger_grants
		WHERE student=$1 AND course_id=$2 AND lesson_id=$3 AND is_lesson=$4 AND level=$5`,
		student, courseID, lessonID, isLesson, level).Scan(&existing)
	switch {
	case err == nil:
		return existing, tx.Commit()
	case !errors.Is(err, sql.ErrNoRows):
		return "", err
	}

	hash := txHash()
	if _, err := tx.ExecContext(ctx, `INSERT INTO ledger_grants
		(student, course_id, lesson_id, is_lesson, level, tx_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		student, courseID, lessonID, isLesson, level, hash, l.now().Unix()); err != nil {
		return "", err
	}
	return hash, tx.Commit()
}

func (l *SQLLedger) IsCompleted(ctx context.Context, q Query) (bool, error) {
	var n int
	var err error
	if q.IsLesson {
		err = l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_grants
			WHERE student=$1 AND course_id=$2 AND lesson_id=$3 AND is_lesson=$4 AND level=$5`,
			strings.ToLower(q.Student), q.CourseID, q.LessonID, true, q.Level).Scan(&n)
	} else {
		err = l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_grants
			WHERE student=$1 AND course_id=$2 AND is_lesson=$3`,
			strings.ToLower(q.Student), q.CourseID, false).Scan(&n)
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Approve registers an address allowed to submit grants.
func (l *SQLLedger) Approve(ctx context.Context, address string) error {
	_, err := l.db.ExecContext(ctx, `INSERT INTO approved_callers (address, created_at)
		VALUES ($1,$2) ON CONFLICT (address) DO NOTHING`, strings.ToLower(address), l.now().Unix())
	return err
}

func (l *SQLLedger) IsApprovedCaller(ctx context.Context, address string) (bool, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM approved_callers WHERE address=$1`,
		strings.ToLower(address)).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
