package domain

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type Request struct {
	ID        int           `json:"id"`
	UserID    int           `json:"user_id"`
	Amount    float64       `json:"amount"`
	Link      string        `json:"link"`
	Quantity  int           `json:"quantity"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Populated by listing joins, not stored on the row.
	Username string `json:"username,omitempty"`
}
