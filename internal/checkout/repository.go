package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/retrorack/storefront/internal/domain"
)

// Repository persists checkout sessions across restarts so an interrupted
// publish can be retried.
type Repository interface {
	CreateSession(ctx context.Context, session *domain.CheckoutSession) error
	GetSession(ctx context.Context, id string) (*domain.CheckoutSession, error)
	GetSessionByIdempotencyKey(ctx context.Context, key string) (*domain.CheckoutSession, error)
	GetSessionsByStatus(ctx context.Context, status domain.CheckoutStatus) ([]*domain.CheckoutSession, error)
	UpdateStatus(ctx context.Context, id string, status domain.CheckoutStatus, updatedAt time.Time) error
}

type sqliteRepository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) Repository {
	return &sqliteRepository{db: database}
}

func (r *sqliteRepository) CreateSession(ctx context.Context, session *domain.CheckoutSession) error {
	snapshot, err := json.Marshal(session.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	query := `
		INSERT INTO checkout_sessions (id, idempotency_key, status, cart_snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx, query,
		session.ID,
		session.IdempotencyKey,
		string(session.Status),
		snapshot,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert checkout session: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetSession(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	return r.getSessionWhere(ctx, "id = $1", id)
}

func (r *sqliteRepository) GetSessionByIdempotencyKey(ctx context.Context, key string) (*domain.CheckoutSession, error) {
	return r.getSessionWhere(ctx, "idempotency_key = $1", key)
}

func (r *sqliteRepository) getSessionWhere(ctx context.Context, where string, arg any) (*domain.CheckoutSession, error) {
	query := fmt.Sprintf(`
		SELECT id, idempotency_key, status, cart_snapshot, created_at, updated_at
		FROM checkout_sessions
		WHERE %s
	`, where)

	return scanSession(r.db.QueryRowContext(ctx, query, arg))
}

func (r *sqliteRepository) GetSessionsByStatus(ctx context.Context, status domain.CheckoutStatus) ([]*domain.CheckoutSession, error) {
	query := `
		SELECT id, idempotency_key, status, cart_snapshot, created_at, updated_at
		FROM checkout_sessions
		WHERE status = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query checkout sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.CheckoutSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return sessions, nil
}

func (r *sqliteRepository) UpdateStatus(ctx context.Context, id string, status domain.CheckoutStatus, updatedAt time.Time) error {
	query := `UPDATE checkout_sessions SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, string(status), updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update checkout status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.CheckoutSession, error) {
	var (
		session  domain.CheckoutSession
		status   string
		snapshot []byte
	)

	err := row.Scan(
		&session.ID,
		&session.IdempotencyKey,
		&status,
		&snapshot,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan checkout session: %w", err)
	}

	session.Status = domain.CheckoutStatus(status)
	if err := json.Unmarshal(snapshot, &session.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart snapshot: %w", err)
	}
	return &session, nil
}
