package reward

import (
	"context"
	"database/sql"

	"github.com/mind-engage/mindengage-rewards/internal/course"
)

// SQLJournal appends every outcome to reward_log for later reconciliation.
type SQLJournal struct{ db *sql.DB }

func NewSQLJournal(db *sql.DB) *SQLJournal { return &SQLJournal{db: db} }

func (j *SQLJournal) Append(ctx context.Context, o Outcome) error {
	status := "ok"
	if !o.OK() {
		status = "failed"
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO reward_log (id, kind, student, course_id, lection_id, level, status, tx_hash, error, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, string(o.Kind), o.Student, o.CourseID, o.LectionID, int(o.Level), status, o.TxHash, o.Reason(), o.At.Unix())
	return err
}

// Failed lists failed submissions, oldest first.
func (j *SQLJournal) Failed(ctx context.Context) ([]Outcome, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, kind, student, course_id, lection_id, level, error FROM reward_log
		 WHERE status='failed' ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Outcome
	for rows.Next() {
		var o Outcome
		var kind, msg string
		var level int
		if err := rows.Scan(&o.ID, &kind, &o.Student, &o.CourseID, &o.LectionID, &level, &msg); err != nil {
			return nil, err
		}
		o.Kind = Kind(kind)
		o.Level = course.RewardLevel(level)
		o.Err = failure(msg)
		out = append(out, o)
	}
	return out, rows.Err()
}

type failure string

func (f failure) Error() string { return string(f) }
