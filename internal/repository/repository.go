// Package repository implements the append-only audit trail of roster
// changes. The activity registry itself lives in memory; nothing here is
// read back to rebuild it.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// AuditSink receives a record of every successful signup and unregister.
type AuditSink interface {
	Record(ctx context.Context, entry model.AuditEntry) error
	// Driver names the backend for logs and metrics.
	Driver() string
}

// NewAuditEntry stamps an entry with a fresh UUID and the current UTC time.
func NewAuditEntry(action model.AuditAction, activity, email string) model.AuditEntry {
	return model.AuditEntry{
		ID:        uuid.New().String(),
		Action:    action,
		Activity:  activity,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}

// NopAuditSink discards every entry.
type NopAuditSink struct{}

func (NopAuditSink) Record(context.Context, model.AuditEntry) error { return nil }

func (NopAuditSink) Driver() string { return "none" }

// execer is the subset of *pgxpool.Pool used by SignupLogRepository.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SignupLogRepository writes audit entries to the signup_log table.
type SignupLogRepository struct {
	db execer
}

// NewSignupLogRepository constructs a SignupLogRepository.
func NewSignupLogRepository(db execer) *SignupLogRepository {
	return &SignupLogRepository{db: db}
}

const createSignupLogSQL = `CREATE TABLE IF NOT EXISTS signup_log (
	id         UUID PRIMARY KEY,
	action     TEXT NOT NULL,
	activity   TEXT NOT NULL,
	email      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

const insertSignupLogSQL = `INSERT INTO signup_log (id, action, activity, email, created_at)
 VALUES ($1, $2, $3, $4, $5)`

// EnsureSchema creates the signup_log table if it does not exist.
func (r *SignupLogRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createSignupLogSQL); err != nil {
		return fmt.Errorf("create signup_log: %w", err)
	}
	return nil
}

// Record inserts one audit entry.
func (r *SignupLogRepository) Record(ctx context.Context, e model.AuditEntry) error {
	_, err := r.db.Exec(ctx, insertSignupLogSQL,
		e.ID, string(e.Action), e.Activity, e.Email, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert signup_log: %w", err)
	}
	return nil
}

func (r *SignupLogRepository) Driver() string { return "postgres" }
