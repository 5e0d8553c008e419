package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sendmenow/sendmenow/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type ResetTokenRepository interface {
	Create(token *model.ResetToken) error
	ByTokenAndEmail(token, email string) (*model.ResetToken, error)
	DeleteByEmail(email string) error
	DeleteByToken(token string) error
	LiveCountByEmail(email string) (int, error)
}

type resetTokenRepository struct {
	db *sqlx.DB
}

func NewResetTokenRepository(db *sqlx.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(token *model.ResetToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO password_reset_tokens (id, user_email, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		token.ID,
		token.UserEmail,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

// ByTokenAndEmail returns the token only when it matches both values and has
// not expired. Expired tokens are rejected here but not purged.
func (r *resetTokenRepository) ByTokenAndEmail(token, email string) (*model.ResetToken, error) {
	var t model.ResetToken
	query := `
		SELECT * FROM password_reset_tokens
		WHERE token = $1 AND user_email = $2 AND expires_at > $3
	`

	err := r.db.Get(&t, query, token, email, time.Now())
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *resetTokenRepository) DeleteByEmail(email string) error {
	query := `DELETE FROM password_reset_tokens WHERE user_email = $1`
	_, err := r.db.Exec(query, email)
	return err
}

func (r *resetTokenRepository) DeleteByToken(token string) error {
	query := `DELETE FROM password_reset_tokens WHERE token = $1`
	_, err := r.db.Exec(query, token)
	return err
}

func (r *resetTokenRepository) LiveCountByEmail(email string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM password_reset_tokens WHERE user_email = $1 AND expires_at > $2`

	err := r.db.Get(&count, query, email, time.Now())
	return count, err
}
