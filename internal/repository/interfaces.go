package repository

import (
	"context"
	"errors"
	"time"

	"github.com/you/payout-backoffice/internal/auth"
	"github.com/you/payout-backoffice/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the request exists but the pending-state predicate
	// did not hold (already approved/rejected, or outside the acting team).
	ErrInvalidState = errors.New("invalid state")
)

// ExpenseFilter carries the optional predicates of an expense listing. A nil
// field imposes no constraint; present fields are ANDed together.
type ExpenseFilter struct {
	WebmasterID *int
	Amount      *float64
	TeamID      *int
	StartDate   *time.Time
	EndDate     *time.Time
}

// ExpenseSort's Column is one of the keys sanitized by the usecase layer; the
// repository maps it to a real column and never sees raw client input.
type ExpenseSort struct {
	Column string
	Desc   bool
}

type ExpensePage struct {
	Limit  int
	Offset int
}

type Repo interface {
	GetUserByID(ctx context.Context, userID int) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	ListUsers(ctx context.Context, scope auth.Scope) ([]domain.User, error)
	ListTeams(ctx context.Context, scope auth.Scope) ([]domain.Team, error)

	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, token string) (domain.Session, error)
	RefreshSession(ctx context.Context, token string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, token string) error

	CreateRequest(ctx context.Context, r domain.Request) (domain.Request, error)
	ListRequests(ctx context.Context, scope auth.Scope) ([]domain.Request, error)
	ListPendingForTeam(ctx context.Context, teamID int) ([]domain.Request, error)
	ApproveRequest(ctx context.Context, requestID, teamID int) (domain.Expense, error)
	RejectRequest(ctx context.Context, requestID, teamID int) error

	QueryExpenses(ctx context.Context, scope auth.Scope, f ExpenseFilter, sort ExpenseSort, page ExpensePage) ([]domain.Expense, int, error)
}
