package auth

import (
	"errors"

	"github.com/you/payout-backoffice/internal/domain"
)

var ErrUnauthorized = errors.New("not authorized")

// Identity is the caller's resolved session context. The session middleware
// builds it once per call; everything below the transport layer only consumes
// it and never touches session state.
type Identity struct {
	UserID int
	Role   domain.Role
	TeamID *int
}

type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeTeam
	ScopeOwner
)

// Scope is the row-visibility predicate derived from a role: admins see
// everything, team leaders see rows owned by members of their team, users see
// only their own rows. The same value drives team, user, request and expense
// listings.
type Scope struct {
	Kind   ScopeKind
	TeamID int
	UserID int
}

// ResolveScope maps an identity to its scope. A role outside the known set,
// or a leader/user with no team where one is required, gets no data at all.
func ResolveScope(id Identity) (Scope, error) {
	switch id.Role {
	case domain.RoleAdmin:
		return Scope{Kind: ScopeAll}, nil
	case domain.RoleTeamLeader:
		if id.TeamID == nil {
			return Scope{}, ErrUnauthorized
		}
		return Scope{Kind: ScopeTeam, TeamID: *id.TeamID}, nil
	case domain.RoleUser:
		return Scope{Kind: ScopeOwner, UserID: id.UserID}, nil
	default:
		return Scope{}, ErrUnauthorized
	}
}
