package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/you/payout-backoffice/internal/auth"
	"github.com/you/payout-backoffice/internal/domain"
	"github.com/you/payout-backoffice/internal/repository"
)

// whereBuilder accumulates AND-ed conditions with bound arguments. Each
// condition template holds one %d verb that receives the placeholder index of
// the argument just appended, so indices are never hand-counted.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (b *whereBuilder) add(cond string, arg interface{}) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(cond, len(b.args)))
}

func (b *whereBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// Sort keys clients may ask for, mapped to real columns. Anything else is
// never interpolated; unknown keys are normalized away before this map is
// consulted, and the map itself is the final gate.
var expenseSortColumns = map[string]string{
	"created_at": "e.created_at",
	"amount":     "e.amount",
	"username":   "u.username",
	"team_name":  "t.name",
}

const expenseFrom = `
        FROM expenses e
        JOIN users u ON u.id = e.user_id
        LEFT JOIN teams t ON t.id = u.team_id`

func (p *PGRepo) QueryExpenses(ctx context.Context, scope auth.Scope, f repository.ExpenseFilter, sort repository.ExpenseSort, page repository.ExpensePage) ([]domain.Expense, int, error) {
	var b whereBuilder
	switch scope.Kind {
	case auth.ScopeTeam:
		b.add("u.team_id = $%d", scope.TeamID)
	case auth.ScopeOwner:
		b.add("e.user_id = $%d", scope.UserID)
	}
	if f.WebmasterID != nil {
		b.add("e.user_id = $%d", *f.WebmasterID)
	}
	if f.Amount != nil {
		b.add("e.amount = $%d", *f.Amount)
	}
	if f.TeamID != nil {
		b.add("u.team_id = $%d", *f.TeamID)
	}
	if f.StartDate != nil {
		b.add("e.created_at >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		b.add("e.created_at <= $%d", *f.EndDate)
	}

	var total int
	countQuery := "SELECT COUNT(*)" + expenseFrom + b.clause()
	if err := p.pool.QueryRow(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := expenseSortColumns[sort.Column]
	if !ok {
		col = expenseSortColumns["created_at"]
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	query := "SELECT e.id, e.user_id, e.request_id, e.amount, e.created_at, u.username, COALESCE(t.name, '')" +
		expenseFrom + b.clause() +
		fmt.Sprintf(" ORDER BY %s %s, e.id %s", col, dir, dir) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(b.args)+1, len(b.args)+2)
	args := append(b.args, page.Limit, page.Offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.RequestID, &e.Amount, &e.CreatedAt, &e.Username, &e.TeamName); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
