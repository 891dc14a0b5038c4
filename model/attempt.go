package model

import "time"

// LoginAttempt is one row of the append-only login audit log. The auth
// flow only inserts and reads; rows are never updated, and pruning old
// attempts is left to operators.
type LoginAttempt struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	IP         string    `json:"ip"`
	Successful bool      `json:"successful"`
	CreatedAt  time.Time `json:"created_at"`
}
