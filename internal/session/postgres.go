package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
)

// PostgresStore keeps sessions across restarts, in the table created by db.Migrate.
type PostgresStore struct {
	DB *sql.DB
}

func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	query := `
        INSERT INTO sessions (token, user_id, remember, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (token) DO UPDATE SET expires_at = EXCLUDED.expires_at
    `
	_, err := p.DB.ExecContext(ctx, query, s.Token, s.UserID, s.Remember, s.CreatedAt, s.ExpiresAt)
	return errors.Wrap(err, "insert session")
}

func (p *PostgresStore) Get(ctx context.Context, token string) (*Session, error) {
	query := `SELECT token, user_id, remember, created_at, expires_at FROM sessions WHERE token=$1`
	var s Session
	err := p.DB.QueryRowContext(ctx, query, token).Scan(&s.Token, &s.UserID, &s.Remember, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, errors.Wrap(err, "select session")
	}
	return &s, nil
}

func (p *PostgresStore) Delete(ctx context.Context, token string) error {
	_, err := p.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token=$1`, token)
	return errors.Wrap(err, "delete session")
}

func (p *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := p.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, errors.Wrap(err, "delete expired sessions")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "count deleted sessions")
	}
	return int(n), nil
}

var _ Store = (*PostgresStore)(nil)
