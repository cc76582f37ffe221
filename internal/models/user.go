package models

import "time"

// User is a row of the users table.
type User struct {
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
