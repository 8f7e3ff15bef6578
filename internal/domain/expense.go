package domain

import "time"

// Expense is one row of the append-only payout ledger. Rows are only ever
// created, by approving a Request; nothing updates or deletes them.
type Expense struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	RequestID int       `json:"request_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`

	// Populated by listing joins, not stored on the row.
	Username string `json:"username,omitempty"`
	TeamName string `json:"team_name,omitempty"`
}
