package usecase

import (
	"context"
	"errors"

	"github.com/you/payout-backoffice/internal/auth"
	"github.com/you/payout-backoffice/internal/domain"
	"github.com/you/payout-backoffice/internal/repository"
)

var (
	ErrUnauthorized       = errors.New("not authorized")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("request already decided")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RequestUsecase drives the payout request lifecycle: creation by regular
// users, pending listings for leaders, and the approve/reject transitions.
type RequestUsecase struct {
	Repo repository.Repo
}

func NewRequestUsecase(r repository.Repo) *RequestUsecase {
	return &RequestUsecase{Repo: r}
}

func (u *RequestUsecase) Create(ctx context.Context, ident auth.Identity, amount float64, link string, quantity int) (domain.Request, error) {
	if ident.Role != domain.RoleUser {
		return domain.Request{}, ErrForbidden
	}
	req := domain.Request{
		UserID:   ident.UserID,
		Amount:   amount,
		Link:     link,
		Quantity: quantity,
	}
	created, err := u.Repo.CreateRequest(ctx, req)
	if err != nil {
		return domain.Request{}, err
	}
	return created, nil
}

// ListForCaller returns the requests the caller may see: all of them for an
// admin, the team's for a leader, only their own for a user.
func (u *RequestUsecase) ListForCaller(ctx context.Context, ident auth.Identity) ([]domain.Request, error) {
	scope, err := auth.ResolveScope(ident)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return u.Repo.ListRequests(ctx, scope)
}

func (u *RequestUsecase) ListPending(ctx context.Context, ident auth.Identity) ([]domain.Request, error) {
	if ident.Role != domain.RoleTeamLeader || ident.TeamID == nil {
		return nil, ErrForbidden
	}
	return u.Repo.ListPendingForTeam(ctx, *ident.TeamID)
}

// Approve transitions a pending request of the leader's team to approved and
// returns the ledger entry materialized from it. A request that is missing,
// already decided, or outside the leader's team comes back as
// ErrNotFound/ErrInvalidState; both hide cross-team existence at the HTTP
// boundary.
func (u *RequestUsecase) Approve(ctx context.Context, ident auth.Identity, requestID int) (domain.Expense, error) {
	if ident.Role != domain.RoleTeamLeader || ident.TeamID == nil {
		return domain.Expense{}, ErrForbidden
	}
	expense, err := u.Repo.ApproveRequest(ctx, requestID, *ident.TeamID)
	if err != nil {
		return domain.Expense{}, mapTransitionErr(err)
	}
	return expense, nil
}

func (u *RequestUsecase) Reject(ctx context.Context, ident auth.Identity, requestID int) error {
	if ident.Role != domain.RoleTeamLeader || ident.TeamID == nil {
		return ErrForbidden
	}
	if err := u.Repo.RejectRequest(ctx, requestID, *ident.TeamID); err != nil {
		return mapTransitionErr(err)
	}
	return nil
}

func mapTransitionErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidState):
		return ErrInvalidState
	default:
		return err
	}
}
