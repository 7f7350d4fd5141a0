// Package models defines server-side data models persisted by the
// repositories.
package models

import "time"

// User is an account. PasswordHash is an encoded argon2id hash and never
// leaves the server.
type User struct {
	ID           string    `db:"id" bson:"_id"`
	Email        string    `db:"email" bson:"email"`
	PasswordHash string    `db:"password_hash" bson:"passwordHash"`
	CreatedAt    time.Time `db:"created_at" bson:"createdAt"`
}
