// Package session keeps each visitor's navigation state in sqlite.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/umezakip/portfolio/internal/logger"
	"github.com/umezakip/portfolio/internal/nav"
)

// Stats summarizes the live sessions.
type Stats struct {
	Total          int64            `json:"total"`
	ByView         map[nav.View]int `json:"by_view"`
	OpenCaseStudy  int64            `json:"open_case_study"`
	ActiveLastHour int64            `json:"active_last_hour"`
}

// Store persists nav.State per session id for the life of the process (or of
// the database file, if the DSN names one).
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger
}

// Open connects to dsn and creates the sessions table.
func Open(ctx context.Context, dsn string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps an in-memory
	// database alive and shared.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:  db,
		ttl: ttl,
		now: time.Now,
		log: logger.GetLogger("session"),
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		view TEXT NOT NULL,
		case_study TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS sessions_updated_at ON sessions(updated_at)`)
	if err != nil {
		return fmt.Errorf("creating sessions index: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the state for id, or nav.Initial() when id is unknown.
func (s *Store) Load(ctx context.Context, id string) (nav.State, error) {
	return load(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func load(ctx context.Context, q queryer, id string) (nav.State, error) {
	var view, caseStudy string
	err := q.QueryRowContext(ctx,
		`SELECT view, case_study FROM sessions WHERE id = ?`, id,
	).Scan(&view, &caseStudy)
	if errors.Is(err, sql.ErrNoRows) {
		return nav.Initial(), nil
	}
	if err != nil {
		return nav.State{}, fmt.Errorf("loading session: %w", err)
	}

	v, err := nav.ParseView(view)
	if err != nil {
		// Rows are only written from valid states; treat a bad row as a fresh visitor.
		return nav.Initial(), nil
	}
	st := nav.State{View: v, CaseStudy: caseStudy}
	if !st.Valid() {
		return nav.State{View: v}, nil
	}
	return st, nil
}

// Update applies fn to the state for id and stores the result in one
// transaction, so concurrent requests from one visitor never interleave.
func (s *Store) Update(ctx context.Context, id string, fn func(nav.State) nav.State) (nav.State, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nav.State{}, fmt.Errorf("beginning session update: %w", err)
	}
	defer tx.Rollback()

	cur, err := load(ctx, tx, id)
	if err != nil {
		return nav.State{}, err
	}
	next := fn(cur)
	if !next.Valid() {
		return nav.State{}, fmt.Errorf("transition produced invalid state %s", next)
	}

	now := s.now().Unix()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, view, case_study, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			view = excluded.view,
			case_study = excluded.case_study,
			updated_at = excluded.updated_at
	`, id, string(next.View), next.CaseStudy, now, now)
	if err != nil {
		return nav.State{}, fmt.Errorf("saving session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nav.State{}, fmt.Errorf("committing session: %w", err)
	}
	return next, nil
}

// Sweep deletes sessions idle for longer than the TTL.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.ttl).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeping sessions: %w", err)
	}
	n, _ := result.RowsAffected()
	if n > 0 {
		s.log.Info().Int64("removed", n).Msg("Swept idle sessions")
	}
	return n, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.log.Error().Err(err).Msg("Session sweep failed")
			}
		}
	}
}

// Stats counts sessions overall and per view.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByView: make(map[nav.View]int, len(nav.Views))}
	for _, v := range nav.Views {
		stats.ByView[v] = 0
	}

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&stats.Total)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE case_study != ''`).Scan(&stats.OpenCaseStudy)
	if err != nil {
		return nil, fmt.Errorf("counting open case studies: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE updated_at >= ?`, s.now().Add(-time.Hour).Unix(),
	).Scan(&stats.ActiveLastHour)
	if err != nil {
		return nil, fmt.Errorf("counting active sessions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT view, COUNT(*) FROM sessions GROUP BY view`)
	if err != nil {
		return nil, fmt.Errorf("counting sessions by view: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var view string
		var n int
		if err := rows.Scan(&view, &n); err != nil {
			continue
		}
		stats.ByView[nav.View(view)] = n
	}
	return stats, rows.Err()
}
