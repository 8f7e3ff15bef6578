package domain

import "time"

type Session struct {
	Token     string    `json:"-"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
