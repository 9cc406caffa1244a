package entity

import (
	"time"
)

// User is the aggregate root for the account domain. PasswordHash holds the
// PHC-encoded Argon2id hash and never leaves the storage/hashing boundary.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
