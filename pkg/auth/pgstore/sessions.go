package pgstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/authcore/pkg/auth"
)

const sessionColumns = `id, user_id, token, provider_name, status, created_at, expires_at, last_active_at,
	revoke_code, os, browser, ip, city, country`

func scanSession(row pgx.Row) (auth.Session, error) {
	var v auth.Session
	err := row.Scan(
		&v.ID, &v.UserID, &v.Token, &v.ProviderName, &v.Status, &v.CreatedAt, &v.ExpiresAt, &v.LastActiveAt,
		&v.RevokeCode, &v.OS, &v.Browser, &v.IP, &v.City, &v.Country,
	)
	return v, err
}

func (s *Store) CreateSession(ctx context.Context, v *auth.Session) error {
	query := `INSERT INTO sessions (user_id, token, provider_name, status, created_at, expires_at, last_active_at,
			  revoke_code, os, browser, ip, city, country)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING id`

	err := s.db.QueryRow(ctx, query,
		v.UserID, v.Token, v.ProviderName, v.Status, v.CreatedAt, v.ExpiresAt, v.LastActiveAt,
		v.RevokeCode, v.OS, v.Browser, v.IP, v.City, v.Country,
	).Scan(&v.ID)
	return classify("create session", err)
}

// TouchSession validates and refreshes in one statement, so a session
// that expires or is deleted concurrently is never resolved.
func (s *Store) TouchSession(ctx context.Context, id int64, token string, at time.Time) (auth.Session, error) {
	query := `UPDATE sessions SET last_active_at = $3
			  WHERE id = $1 AND token = $2 AND status = 'active' AND expires_at > $3
			  RETURNING ` + sessionColumns

	v, err := scanSession(s.db.QueryRow(ctx, query, id, token, at))
	return v, classify("touch session", err)
}

func (s *Store) ListSessions(ctx context.Context, userID int64) ([]auth.Session, error) {
	rows, err := s.db.Query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, classify("list sessions", err)
	}
	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (auth.Session, error) {
		return scanSession(row)
	})
	return sessions, classify("list sessions", err)
}

func (s *Store) DeleteUserSession(ctx context.Context, userID, sessionID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1 AND user_id = $2`, sessionID, userID)
	return affected("delete session", tag, err)
}

func (s *Store) DeleteSessionByRevokeCode(ctx context.Context, code string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE revoke_code = $1`, code)
	return affected("revoke session", tag, err)
}
