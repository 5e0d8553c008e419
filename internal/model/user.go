package model

import (
	"time"
)

// User is a registered account. Email doubles as a display field and a
// recipient lookup key; no uniqueness is enforced at the schema level.
type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"user_name"`
	Email     string    `db:"user_email"`
	Password  string    `db:"user_password"` // stored as provided, see AuthService.credentialMatch
	CreatedAt time.Time `db:"created_at"`
}
