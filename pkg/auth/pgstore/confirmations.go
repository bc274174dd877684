package pgstore

import (
	"context"

	"github.com/dmitrymomot/authcore/pkg/auth"
)

func (s *Store) CreateConfirmation(ctx context.Context, c *auth.Confirmation) error {
	query := `INSERT INTO confirmations (user_id, code, action_type, data, created_at)
			  VALUES ($1, $2, $3, $4, COALESCE($5, now()))
			  RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, c.UserID, c.Code, c.ActionType, c.Data, timeOrNow(c.CreatedAt)).
		Scan(&c.ID, &c.CreatedAt)
	return classify("create confirmation", err)
}

func (s *Store) GetConfirmation(ctx context.Context, code string) (auth.Confirmation, error) {
	query := `SELECT id, user_id, code, action_type, data, created_at FROM confirmations WHERE code = $1`

	var c auth.Confirmation
	err := s.db.QueryRow(ctx, query, code).Scan(&c.ID, &c.UserID, &c.Code, &c.ActionType, &c.Data, &c.CreatedAt)
	return c, classify("get confirmation", err)
}

// DeleteConfirmations is the consuming step of every confirmation. Two
// concurrent consumers see a single deletion between them.
func (s *Store) DeleteConfirmations(ctx context.Context, userID int64, action auth.ActionType) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM confirmations WHERE user_id = $1 AND action_type = $2`, userID, action)
	if err != nil {
		return 0, classify("delete confirmations", err)
	}
	return tag.RowsAffected(), nil
}
