package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"libraryLoanManagement/models"
)

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Insert persists an issued token. Several live tokens per user are allowed.
func (r *TokenRepository) Insert(ctx context.Context, t *models.AccessToken) error {
	if t == nil {
		return errors.New("token is nil")
	}
	name := t.Name
	if name == "" {
		name = "API Token"
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO access_tokens (id, user_id, name) VALUES (?, ?, ?)`,
		t.ID, t.UserID, name)
	return err
}

// Exists reports whether the token row is still live (i.e. not revoked).
func (r *TokenRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM access_tokens WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteByUserID revokes every outstanding token for the user and returns
// how many were dropped.
func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
