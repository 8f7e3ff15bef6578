package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/you/payout-backoffice/internal/auth"
	"github.com/you/payout-backoffice/internal/domain"
	"github.com/you/payout-backoffice/internal/repository"
)

const (
	defaultLimit  = 10
	defaultOffset = 0
	dateLayout    = "2006-01-02"
)

// ExpenseQuery is the raw, unsanitized query-string input of an expense
// listing. Everything is a string here; sanitizing happens in one place below
// so handlers never parse pagination themselves.
type ExpenseQuery struct {
	Limit     string
	Offset    string
	SortBy    string
	SortOrder string
	Webmaster string
	Amount    string
	Team      string
	StartDate string
	EndDate   string
}

type ExpenseUsecase struct {
	Repo repository.Repo
}

func NewExpenseUsecase(r repository.Repo) *ExpenseUsecase {
	return &ExpenseUsecase{Repo: r}
}

// Query returns the caller-visible page of the expense ledger plus the total
// row count under the same predicates. Malformed pagination and filter values
// fall back to defaults or are dropped rather than erroring; the team filter
// is honored only for admins, whose scope is the only one it could narrow.
func (u *ExpenseUsecase) Query(ctx context.Context, ident auth.Identity, q ExpenseQuery) ([]domain.Expense, int, error) {
	scope, err := auth.ResolveScope(ident)
	if err != nil {
		return nil, 0, ErrUnauthorized
	}

	page := repository.ExpensePage{
		Limit:  parseNonNegative(q.Limit, defaultLimit),
		Offset: parseNonNegative(q.Offset, defaultOffset),
	}

	sort := repository.ExpenseSort{Column: normalizeSortKey(q.SortBy)}
	if strings.EqualFold(q.SortOrder, "desc") {
		sort.Desc = true
	}

	var f repository.ExpenseFilter
	if v, err := strconv.Atoi(q.Webmaster); err == nil {
		f.WebmasterID = &v
	}
	if v, err := strconv.ParseFloat(q.Amount, 64); err == nil {
		f.Amount = &v
	}
	if ident.Role == domain.RoleAdmin {
		if v, err := strconv.Atoi(q.Team); err == nil {
			f.TeamID = &v
		}
	}
	if t, err := time.Parse(dateLayout, q.StartDate); err == nil {
		f.StartDate = &t
	}
	if t, err := time.Parse(dateLayout, q.EndDate); err == nil {
		// inclusive through the whole end day
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndDate = &end
	}

	return u.Repo.QueryExpenses(ctx, scope, f, sort, page)
}

var sortKeys = map[string]struct{}{
	"created_at": {},
	"amount":     {},
	"username":   {},
	"team_name":  {},
}

func normalizeSortKey(key string) string {
	if _, ok := sortKeys[key]; ok {
		return key
	}
	return "created_at"
}

func parseNonNegative(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
