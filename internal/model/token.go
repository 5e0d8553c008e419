package model

import (
	"time"
)

// ResetToken is a single-use, time-limited credential proving control of an
// email address. At most one live token exists per email (delete-then-insert);
// expiry is enforced by the lookup query.
type ResetToken struct {
	ID        string    `db:"id"`
	UserEmail string    `db:"user_email"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
