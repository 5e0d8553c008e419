package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sendmenow/sendmenow/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id int64) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	ByName(name string) (*model.User, error)
	UpdatePasswordByEmail(email, password string) (int64, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	// RETURNING works on both drivers; LastInsertId does not under pgx
	query := `
		INSERT INTO users (user_name, user_email, user_password, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.QueryRow(query, user.Name, user.Email, user.Password, user.CreatedAt).Scan(&user.ID)
}

func (r *userRepository) ByID(id int64) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE user_email = $1 ORDER BY id LIMIT 1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByName(name string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE user_name = $1 ORDER BY id LIMIT 1`

	err := r.db.Get(user, query, name)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) UpdatePasswordByEmail(email, password string) (int64, error) {
	query := `UPDATE users SET user_password = $1 WHERE user_email = $2`

	result, err := r.db.Exec(query, password, email)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
