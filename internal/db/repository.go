package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai_detector/internal/classify"
	"ai_detector/internal/workflow"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"

	DefaultListLimit = 20
)

// Run is one settled submission as stored in the history table.
type Run struct {
	ID            uuid.UUID
	Workflow      string
	StartedAt     time.Time
	FinishedAt    time.Time
	Status        string
	Score         *float64
	Tier          string
	Label         string
	SentenceCount int
	Error         string
	Input         string
}

func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunFromRecord flattens a workflow record. The tier is derived from the
// overall score with the same thresholds the renderer uses.
func RunFromRecord(rec workflow.Record) Run {
	run := Run{
		ID:            rec.Ticket,
		Workflow:      string(rec.Kind),
		StartedAt:     rec.StartedAt,
		FinishedAt:    rec.FinishedAt,
		Status:        StatusSucceeded,
		SentenceCount: rec.SentenceCount,
		Input:         rec.Input,
	}
	if rec.Err != nil {
		run.Status = StatusFailed
		run.Error = rec.Err.Error()
	}
	if o := rec.Overall; o != nil {
		score := o.Score
		run.Score = &score
		run.Tier = string(classify.TierForScore(score))
		run.Label = o.Label
	}
	return run
}

type ListOptions struct {
	Limit    int
	Workflow string
}

// Store is the run history backed by sqlite.
type Store struct {
	conn *sql.DB
}

func OpenStore(path string) (*Store, error) {
	conn, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == uuid.Nil {
		return errors.New("record run: missing id")
	}
	var score sql.NullFloat64
	if run.Score != nil {
		score = sql.NullFloat64{Float64: *run.Score, Valid: true}
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs(id, workflow, started_at, finished_at, status, score, tier, label, sentence_count, error, input_excerpt)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID.String(),
		run.Workflow,
		run.StartedAt.UnixNano(),
		run.FinishedAt.UnixNano(),
		run.Status,
		score,
		nullString(run.Tier),
		nullString(run.Label),
		run.SentenceCount,
		nullString(run.Error),
		run.Input,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := `SELECT id, workflow, started_at, finished_at, status, score, tier, label, sentence_count, error, input_excerpt FROM runs`
	args := []any{}
	if w := strings.TrimSpace(opts.Workflow); w != "" {
		query += ` WHERE workflow = ?`
		args = append(args, w)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			id                  string
			started, finished   int64
			score               sql.NullFloat64
			tier, label, errMsg sql.NullString
			run                 Run
		)
		if err := rows.Scan(&id, &run.Workflow, &started, &finished, &run.Status, &score, &tier, &label, &run.SentenceCount, &errMsg, &run.Input); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse run id %q: %w", id, err)
		}
		run.StartedAt = time.Unix(0, started)
		run.FinishedAt = time.Unix(0, finished)
		if score.Valid {
			v := score.Float64
			run.Score = &v
		}
		run.Tier = tier.String
		run.Label = label.String
		run.Error = errMsg.String
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return countRowsConn(ctx, s.conn, "runs")
}

func countRowsConn(ctx context.Context, conn *sql.DB, table string) (int, error) {
	row := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
