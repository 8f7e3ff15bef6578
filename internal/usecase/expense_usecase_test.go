package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/you/payout-backoffice/internal/auth"
	"github.com/you/payout-backoffice/internal/domain"
)

func adminIdent() auth.Identity {
	return auth.Identity{UserID: 1, Role: domain.RoleAdmin}
}

func seedExpenses(repo *memRepo, n int, userID int, amount float64, day time.Time) {
	for i := 0; i < n; i++ {
		repo.nextExpID++
		repo.expenses = append(repo.expenses, domain.Expense{
			ID:        repo.nextExpID,
			UserID:    userID,
			RequestID: repo.nextExpID,
			Amount:    amount,
			CreatedAt: day.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestQuery_Pagination(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedTeams(repo)
	seedExpenses(repo, 25, 4, 10, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	u := NewExpenseUsecase(repo)

	rows, total, err := u.Query(ctx, adminIdent(), ExpenseQuery{Limit: "10", Offset: "0"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 10 || total != 25 {
		t.Fatalf("expected 10 rows / total 25, got %d / %d", len(rows), total)
	}

	rows, total, err = u.Query(ctx, adminIdent(), ExpenseQuery{Limit: "10", Offset: "20"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 5 || total != 25 {
		t.Fatalf("expected 5 rows / total 25, got %d / %d", len(rows), total)
	}
}

func TestQuery_PaginationDefaults(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedTeams(repo)
	seedExpenses(repo, 25, 4, 10, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	u := NewExpenseUsecase(repo)

	// non-numeric and negative inputs default instead of erroring
	rows, total, err := u.Query(ctx, adminIdent(), ExpenseQuery{Limit: "lots", Offset: "-3"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 10 || total != 25 {
		t.Fatalf("expected default page of 10 / total 25, got %d / %d", len(rows), total)
	}
}

func TestQuery_FilterComposition(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedTeams(repo)
	feb := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seedExpenses(repo, 2, 4, 10, feb) // alice, outside date range
	seedExpenses(repo, 3, 4, 10, mar) // alice, in range
	seedExpenses(repo, 4, 5, 10, mar) // bob, in range but wrong webmaster
	u := NewExpenseUsecase(repo)

	rows, total, err := u.Query(ctx, adminIdent(), ExpenseQuery{
		Webmaster: "4",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("expected 3 matching rows, got %d (total %d)", len(rows), total)
	}
	for _, e := range rows {
		if e.UserID != 4 {
			t.Fatalf("row for wrong user: %+v", e)
		}
		if e.CreatedAt.Before(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("row outside date range: %+v", e)
		}
	}
}

func TestQuery_EndDateInclusive(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedTeams(repo)
	// late on the end day itself
	seedExpenses(repo, 1, 4, 10, time.Date(2026, 3, 31, 23, 30, 0, 0, time.UTC))
	u := NewExpenseUsecase(repo)

	_, total, err := u.Query(ctx, adminIdent(), ExpenseQuery{EndDate: "2026-03-31"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected end date to include the whole day, total %d", total)
	}
}

func TestQuery_TeamFilterAdminOnly(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedTeams(repo)
	mar := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seedExpenses(repo, 2, 4, 10, mar) // team 7
	seedExpenses(repo, 3, 5, 10, mar) // team 8
	u := NewExpenseUsecase(repo)

	_, total, err := u.Query(ctx, adminIdent(), ExpenseQuery{Team: "8"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 rows for team 8, got %d", total)
	}

	// a leader passing team= gets it ignored, their own scope still applies
	_, total, err = u.Query(ctx, leaderIdent(2, 7), ExpenseQuery{Team: "8"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected leader scoped to team 7 (2 rows), got %d", total)
	}
}

func TestQuery_ScopeOwner(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedTeams(repo)
	mar := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seedExpenses(repo, 2, 4, 10, mar)
	seedExpenses(repo, 3, 5, 10, mar)
	u := NewExpenseUsecase(repo)

	rows, total, err := u.Query(ctx, userIdent(4), ExpenseQuery{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 rows for owner, got %d", total)
	}
	for _, e := range rows {
		if e.UserID != 4 {
			t.Fatalf("owner scope leaked row: %+v", e)
		}
	}
}

func TestQuery_SortFallback(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedTeams(repo)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedExpenses(repo, 3, 4, 10, base)
	u := NewExpenseUsecase(repo)

	// unrecognized key falls back to created_at ascending
	rows, _, err := u.Query(ctx, adminIdent(), ExpenseQuery{SortBy: "password"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CreatedAt.Before(rows[i-1].CreatedAt) {
			t.Fatalf("rows not sorted by created_at asc")
		}
	}

	rows, _, err = u.Query(ctx, adminIdent(), ExpenseQuery{SortBy: "created_at", SortOrder: "desc"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CreatedAt.After(rows[i-1].CreatedAt) {
			t.Fatalf("rows not sorted by created_at desc")
		}
	}
}

func TestQuery_SortByAmount(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedTeams(repo)
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedExpenses(repo, 1, 4, 30, day)
	seedExpenses(repo, 1, 4, 10, day)
	seedExpenses(repo, 1, 4, 20, day)
	u := NewExpenseUsecase(repo)

	rows, _, err := u.Query(ctx, adminIdent(), ExpenseQuery{SortBy: "amount"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Amount < rows[i-1].Amount {
			t.Fatalf("rows not sorted by amount asc: %+v", rows)
		}
	}
}

func TestQuery_UnknownRole(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedTeams(repo)
	u := NewExpenseUsecase(repo)

	if _, _, err := u.Query(ctx, auth.Identity{UserID: 9, Role: "guest"}, ExpenseQuery{}); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
