package domain

type Team struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LeaderID *int   `json:"leader_id,omitempty"`
}
