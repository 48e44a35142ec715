package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mind-engage/mindengage-rewards/internal/course"
)

// SQL keeps the document in the progress_cache table (see internal/db).
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQL { return &SQL{db: db} }

func (s *SQL) Get(ctx context.Context) ([]course.Course, bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM progress_cache WHERE key=$1`, DocumentKey).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	cs, err := decode([]byte(doc))
	if err != nil {
		return nil, false, err
	}
	return cs, true, nil
}

func (s *SQL) Put(ctx context.Context, cs []course.Course) error {
	b, err := encode(cs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO progress_cache (key,doc,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET doc=EXCLUDED.doc, updated_at=EXCLUDED.updated_at`,
		DocumentKey, string(b), time.Now().Unix())
	return err
}

func (s *SQL) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM progress_cache WHERE key=$1`, DocumentKey)
	return err
}
