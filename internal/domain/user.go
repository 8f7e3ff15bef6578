package domain

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTeamLeader Role = "team_leader"
	RoleUser       Role = "user"
)

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	TeamID       *int   `json:"team_id,omitempty"`
	TeamName     string `json:"team_name,omitempty"`
}
