package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/campuscare/support-triage/internal/core/domain"
)

// DecisionRepository persists the routing-decision audit log. Facilities and
// categories are never stored; only routing outcomes are.
type DecisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DecisionRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS routing_decisions (
	id UUID PRIMARY KEY,
	category TEXT NOT NULL,
	confidence DOUBLE PRECISION,
	branch TEXT NOT NULL,
	action TEXT NOT NULL,
	care_level TEXT,
	confidence_warning TEXT,
	requires_confirmation BOOLEAN NOT NULL DEFAULT FALSE,
	requires_manual_review BOOLEAN NOT NULL DEFAULT FALSE,
	message TEXT NOT NULL,
	user_input TEXT,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS routing_decisions_created_at_idx ON routing_decisions (created_at DESC);
`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *DecisionRepository) Create(ctx context.Context, record *domain.DecisionRecord) error {
	d := record.Decision
	_, err := r.db.ExecContext(ctx, `
INSERT INTO routing_decisions (
	id, category, confidence, branch, action, care_level, confidence_warning,
	requires_confirmation, requires_manual_review, message, user_input, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		record.ID,
		d.Category,
		d.Confidence,
		string(d.Branch),
		string(d.Action),
		nullableString(string(d.CareLevel)),
		nullableString(string(d.ConfidenceWarning)),
		d.RequiresConfirmation,
		d.RequiresManualReview,
		d.Message,
		nullableString(d.OriginalInput),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create decision: %w", err)
	}
	return nil
}

func (r *DecisionRepository) GetByID(ctx context.Context, id string) (*domain.DecisionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, category, confidence, branch, action, care_level, confidence_warning,
	requires_confirmation, requires_manual_review, message, user_input, created_at
FROM routing_decisions
WHERE id = $1
`, id)

	record, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDecisionNotFound, "get decision",
				fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("get decision: %w", err)
	}
	return &record, nil
}

func (r *DecisionRepository) ListRecent(ctx context.Context, limit int) ([]domain.DecisionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, category, confidence, branch, action, care_level, confidence_warning,
	requires_confirmation, requires_manual_review, message, user_input, created_at
FROM routing_decisions
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DecisionRecord, 0, limit)
	for rows.Next() {
		record, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDecision(row rowScanner) (domain.DecisionRecord, error) {
	var (
		record            domain.DecisionRecord
		confidence        sql.NullFloat64
		careLevel         sql.NullString
		confidenceWarning sql.NullString
		userInput         sql.NullString
		branch            string
		action            string
	)
	err := row.Scan(
		&record.ID,
		&record.Decision.Category,
		&confidence,
		&branch,
		&action,
		&careLevel,
		&confidenceWarning,
		&record.Decision.RequiresConfirmation,
		&record.Decision.RequiresManualReview,
		&record.Decision.Message,
		&userInput,
		&record.CreatedAt,
	)
	if err != nil {
		return domain.DecisionRecord{}, err
	}

	record.Decision.Branch = domain.Branch(branch)
	record.Decision.Action = domain.Action(action)
	if confidence.Valid {
		record.Decision.Confidence = &confidence.Float64
	}
	if careLevel.Valid {
		record.Decision.CareLevel = domain.CareLevel(careLevel.String)
	}
	if confidenceWarning.Valid {
		record.Decision.ConfidenceWarning = domain.ConfidenceWarning(confidenceWarning.String)
	}
	if userInput.Valid {
		record.Decision.OriginalInput = userInput.String
	}
	return record, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
