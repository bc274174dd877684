package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/authcore/pkg/auth"
)

const accountColumns = `id, user_id, provider_name, provider_account_id, provider_account_email,
	avatar_url, access_token, refresh_token, token_type, scope, created_at`

func scanAccount(row pgx.Row) (auth.AuthAccount, error) {
	var a auth.AuthAccount
	err := row.Scan(
		&a.ID, &a.UserID, &a.ProviderName, &a.ProviderAccountID, &a.ProviderAccountEmail,
		&a.AvatarURL, &a.AccessToken, &a.RefreshToken, &a.TokenType, &a.Scope, &a.CreatedAt,
	)
	return a, err
}

func (s *Store) CreateAuthAccount(ctx context.Context, a *auth.AuthAccount) error {
	query := `INSERT INTO auth_accounts (user_id, provider_name, provider_account_id, provider_account_email,
			  avatar_url, access_token, refresh_token, token_type, scope)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query,
		a.UserID, a.ProviderName, a.ProviderAccountID, a.ProviderAccountEmail,
		a.AvatarURL, a.AccessToken, a.RefreshToken, a.TokenType, a.Scope,
	).Scan(&a.ID, &a.CreatedAt)
	return classify("create auth account", err)
}

func (s *Store) FindAuthAccount(ctx context.Context, provider, accountID, email string) (auth.AuthAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM auth_accounts
			  WHERE provider_name = $1
			    AND (provider_account_id = $2 OR ($3 <> '' AND provider_account_email = $3))
			  ORDER BY id LIMIT 1`

	a, err := scanAccount(s.db.QueryRow(ctx, query, provider, accountID, email))
	return a, classify("find auth account", err)
}

func (s *Store) GetUserAuthAccount(ctx context.Context, userID int64, provider string) (auth.AuthAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM auth_accounts
			  WHERE user_id = $1 AND provider_name = $2
			  ORDER BY id LIMIT 1`

	a, err := scanAccount(s.db.QueryRow(ctx, query, userID, provider))
	return a, classify("get user auth account", err)
}

func (s *Store) ListAuthAccounts(ctx context.Context, userID int64) ([]auth.AuthAccount, error) {
	rows, err := s.db.Query(ctx, `SELECT `+accountColumns+` FROM auth_accounts WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, classify("list auth accounts", err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (auth.AuthAccount, error) {
		return scanAccount(row)
	})
	return accounts, classify("list auth accounts", err)
}
