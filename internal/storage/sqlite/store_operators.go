package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// CreateOperator inserts one staff account.
func (s *Store) CreateOperator(ctx context.Context, operator storage.Operator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(operator.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if strings.TrimSpace(operator.PasswordHash) == "" {
		return fmt.Errorf("password hash is required")
	}
	createdAt := operator.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO operators (username, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		operator.Username,
		operator.Email,
		operator.PasswordHash,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create operator: %w", err)
	}
	return nil
}

// GetOperator returns one staff account by username.
func (s *Store) GetOperator(ctx context.Context, username string) (storage.Operator, error) {
	if err := ctx.Err(); err != nil {
		return storage.Operator{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Operator{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT username, email, password_hash, created_at
		   FROM operators
		  WHERE username = ?`,
		username,
	)
	var operator storage.Operator
	var createdAt int64
	err := row.Scan(&operator.Username, &operator.Email, &operator.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Operator{}, storage.ErrNotFound
		}
		return storage.Operator{}, fmt.Errorf("get operator: %w", err)
	}
	operator.CreatedAt = fromMillis(createdAt)
	return operator, nil
}

// SaveSession inserts one operator session.
func (s *Store) SaveSession(ctx context.Context, session storage.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO operator_sessions (id, username, expires_at, created_at)
		 VALUES (?, ?, ?, ?)`,
		session.ID,
		session.Username,
		toMillis(session.ExpiresAt),
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession returns one session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return storage.Session{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Session{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, expires_at, created_at
		   FROM operator_sessions
		  WHERE id = ?`,
		id,
	)
	var session storage.Session
	var expiresAt, createdAt int64
	err := row.Scan(&session.ID, &session.Username, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Session{}, storage.ErrNotFound
		}
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.ExpiresAt = fromMillis(expiresAt)
	session.CreatedAt = fromMillis(createdAt)
	return session, nil
}

// DeleteSession removes one session.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM operator_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM operator_sessions WHERE expires_at < ?`, toMillis(now))
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}
