package pg

import (
	"context"
	"time"

	"github.com/you/payout-backoffice/internal/auth"
	"github.com/you/payout-backoffice/internal/domain"
	"github.com/you/payout-backoffice/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ repository.Repo = (*PGRepo)(nil)

type PGRepo struct {
	pool *pgxpool.Pool
}

func NewPGRepo(pool *pgxpool.Pool) *PGRepo {
	return &PGRepo{pool: pool}
}

const userColumns = `u.id, u.username, u.email, u.password, u.role, u.team_id, COALESCE(t.name, '')`

func (p *PGRepo) GetUserByID(ctx context.Context, userID int) (domain.User, error) {
	var u domain.User
	err := p.pool.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users u
        LEFT JOIN teams t ON t.id = u.team_id
        WHERE u.id=$1
    `, userID).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.TeamID, &u.TeamName)
	if err != nil {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (p *PGRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := p.pool.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users u
        LEFT JOIN teams t ON t.id = u.team_id
        WHERE u.username=$1
    `, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.TeamID, &u.TeamName)
	if err != nil {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (p *PGRepo) ListUsers(ctx context.Context, scope auth.Scope) ([]domain.User, error) {
	q := `
        SELECT ` + userColumns + `
        FROM users u
        LEFT JOIN teams t ON t.id = u.team_id`
	var args []interface{}
	switch scope.Kind {
	case auth.ScopeTeam:
		q += " WHERE u.team_id=$1"
		args = append(args, scope.TeamID)
	case auth.ScopeOwner:
		q += " WHERE u.id=$1"
		args = append(args, scope.UserID)
	}
	q += " ORDER BY u.id"

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.TeamID, &u.TeamName); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *PGRepo) ListTeams(ctx context.Context, scope auth.Scope) ([]domain.Team, error) {
	q := "SELECT id, name, leader_id FROM teams ORDER BY id"
	var args []interface{}
	switch scope.Kind {
	case auth.ScopeTeam:
		q = "SELECT id, name, leader_id FROM teams WHERE id=$1"
		args = append(args, scope.TeamID)
	case auth.ScopeOwner:
		// a user's own team, resolved through their row
		q = `
        SELECT t.id, t.name, t.leader_id
        FROM teams t
        JOIN users u ON u.team_id = t.id
        WHERE u.id=$1`
		args = append(args, scope.UserID)
	}

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.LeaderID); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (p *PGRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES ($1,$2,$3)",
		s.Token, s.UserID, s.ExpiresAt)
	return err
}

func (p *PGRepo) GetSession(ctx context.Context, token string) (domain.Session, error) {
	var s domain.Session
	err := p.pool.QueryRow(ctx,
		"SELECT token, user_id, expires_at FROM sessions WHERE token=$1 AND expires_at > now()",
		token).Scan(&s.Token, &s.UserID, &s.ExpiresAt)
	if err != nil {
		return domain.Session{}, repository.ErrNotFound
	}
	return s, nil
}

func (p *PGRepo) RefreshSession(ctx context.Context, token string, expiresAt time.Time) error {
	tag, err := p.pool.Exec(ctx,
		"UPDATE sessions SET expires_at=$2 WHERE token=$1 AND expires_at > now()",
		token, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (p *PGRepo) DeleteSession(ctx context.Context, token string) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM sessions WHERE token=$1", token)
	return err
}

const requestColumns = `r.id, r.user_id, r.amount, r.link, r.quantity, r.status, r.created_at, r.updated_at, u.username`

func (p *PGRepo) CreateRequest(ctx context.Context, r domain.Request) (domain.Request, error) {
	now := time.Now().UTC()
	err := p.pool.QueryRow(ctx, `
        INSERT INTO requests (user_id, amount, link, quantity, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,'pending',$5,$5)
        RETURNING id, status, created_at, updated_at
    `, r.UserID, r.Amount, r.Link, r.Quantity, now).Scan(&r.ID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return domain.Request{}, err
	}
	return r, nil
}

func (p *PGRepo) ListRequests(ctx context.Context, scope auth.Scope) ([]domain.Request, error) {
	q := `
        SELECT ` + requestColumns + `
        FROM requests r
        JOIN users u ON u.id = r.user_id`
	var args []interface{}
	switch scope.Kind {
	case auth.ScopeTeam:
		q += " WHERE u.team_id=$1"
		args = append(args, scope.TeamID)
	case auth.ScopeOwner:
		q += " WHERE r.user_id=$1"
		args = append(args, scope.UserID)
	}
	q += " ORDER BY r.created_at DESC, r.id DESC"

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequestRows(rows)
}

func (p *PGRepo) ListPendingForTeam(ctx context.Context, teamID int) ([]domain.Request, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT `+requestColumns+`
        FROM requests r
        JOIN users u ON u.id = r.user_id
        WHERE r.status='pending' AND u.team_id=$1
        ORDER BY r.created_at ASC, r.id ASC
    `, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequestRows(rows)
}

// ApproveRequest flips a pending request to approved and writes the matching
// ledger row inside one transaction. The UPDATE's WHERE clause carries the
// whole authorization story: the request must still be pending and owned by a
// member of the acting leader's team. Two racing approvals on the same id can
// never both see an affected row, and a failed ledger insert rolls the status
// change back.
func (p *PGRepo) ApproveRequest(ctx context.Context, requestID, teamID int) (domain.Expense, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Expense{}, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	tag, err := tx.Exec(ctx, `
        UPDATE requests r SET status='approved', updated_at=$3
        FROM users u
        WHERE r.id=$1 AND r.status='pending' AND u.id = r.user_id AND u.team_id=$2
    `, requestID, teamID, now)
	if err != nil {
		return domain.Expense{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Expense{}, p.transitionFailure(ctx, tx, requestID)
	}

	var e domain.Expense
	err = tx.QueryRow(ctx, `
        INSERT INTO expenses (user_id, request_id, amount, created_at)
        SELECT user_id, id, amount, $2 FROM requests WHERE id=$1
        RETURNING id, user_id, request_id, amount, created_at
    `, requestID, now).Scan(&e.ID, &e.UserID, &e.RequestID, &e.Amount, &e.CreatedAt)
	if err != nil {
		return domain.Expense{}, err
	}
	return e, tx.Commit(ctx)
}

func (p *PGRepo) RejectRequest(ctx context.Context, requestID, teamID int) error {
	tag, err := p.pool.Exec(ctx, `
        UPDATE requests r SET status='rejected', updated_at=$3
        FROM users u
        WHERE r.id=$1 AND r.status='pending' AND u.id = r.user_id AND u.team_id=$2
    `, requestID, teamID, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return p.transitionFailure(ctx, nil, requestID)
	}
	return nil
}

// transitionFailure resolves a zero-rows-affected transition into ErrNotFound
// (id absent) or ErrInvalidState (present but decided or out of team scope).
func (p *PGRepo) transitionFailure(ctx context.Context, tx pgx.Tx, requestID int) error {
	var row pgx.Row
	if tx != nil {
		row = tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM requests WHERE id=$1)", requestID)
	} else {
		row = p.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM requests WHERE id=$1)", requestID)
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if exists {
		return repository.ErrInvalidState
	}
	return repository.ErrNotFound
}

func scanRequestRows(rows pgx.Rows) ([]domain.Request, error) {
	var out []domain.Request
	for rows.Next() {
		var r domain.Request
		if err := rows.Scan(&r.ID, &r.UserID, &r.Amount, &r.Link, &r.Quantity, &r.Status, &r.CreatedAt, &r.UpdatedAt, &r.Username); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
