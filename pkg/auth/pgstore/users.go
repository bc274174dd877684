package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/authcore/pkg/auth"
)

const userColumns = `id, email, full_name, user_name, lower_user_name, COALESCE(password_hash, ''),
	avatar_url, avatar_provider, role, sign_in_alerts, created_at`

func scanUser(row pgx.Row) (auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.UserName, &u.LowerUserName, &u.PasswordHash,
		&u.AvatarURL, &u.AvatarProvider, &u.Role, &u.Settings.SignInAlerts, &u.CreatedAt,
	)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	query := `INSERT INTO users (email, full_name, user_name, lower_user_name, password_hash,
			  avatar_url, avatar_provider, role, sign_in_alerts)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)
			  RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query,
		u.Email, u.FullName, u.UserName, u.LowerUserName, u.PasswordHash,
		u.AvatarURL, u.AvatarProvider, u.Role, u.Settings.SignInAlerts,
	).Scan(&u.ID, &u.CreatedAt)
	return classify("create user", err)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (auth.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, classify("get user by id", err)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	return u, classify("get user by email", err)
}

func (s *Store) GetUserByUserName(ctx context.Context, lowerUserName string) (auth.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower_user_name = $1`, lowerUserName))
	return u, classify("get user by username", err)
}

func (s *Store) UpdateUserPassword(ctx context.Context, userID int64, hash string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET password_hash = NULLIF($2, '') WHERE id = $1`, userID, hash)
	return affected("update password", tag, err)
}

func (s *Store) UpdateUserProfile(ctx context.Context, userID int64, p auth.ProfileUpdate) error {
	query := `UPDATE users
			  SET full_name = $2, user_name = $3, lower_user_name = $4, avatar_url = $5, avatar_provider = $6
			  WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, userID, p.FullName, p.UserName, p.LowerUserName, p.AvatarURL, p.AvatarProvider)
	return affected("update profile", tag, err)
}

// DeleteUser relies on ON DELETE CASCADE for accounts, sessions and codes.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return affected("delete user", tag, err)
}
