package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Tick struct {
	ID        int64
	User      string
	ProblemID int64
	Date      string
	Notes     string
	CreatedAt int64
}

type CreateTickParams struct {
	User      string
	ProblemID int64
	Date      string
	Notes     string
	CreatedAt int64
}

const createTick = `
INSERT INTO ticks (user, problem_id, date, notes, created_at)
VALUES (?, ?, ?, ?, ?)
`

func (q *Queries) CreateTick(ctx context.Context, arg CreateTickParams) error {
	_, err := q.db.ExecContext(ctx, createTick,
		arg.User, arg.ProblemID, arg.Date, arg.Notes, arg.CreatedAt)
	return err
}

type TickExistsParams struct {
	User      string
	ProblemID int64
}

const tickExists = `
SELECT EXISTS (SELECT 1 FROM ticks WHERE user = ? AND problem_id = ?)
`

func (q *Queries) TickExists(ctx context.Context, arg TickExistsParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, tickExists, arg.User, arg.ProblemID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listTicksByUser = `
SELECT id, user, problem_id, date, notes, created_at
FROM ticks WHERE user = ? ORDER BY date DESC, created_at DESC
`

func (q *Queries) ListTicksByUser(ctx context.Context, user string) ([]Tick, error) {
	rows, err := q.db.QueryContext(ctx, listTicksByUser, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks []Tick
	for rows.Next() {
		var t Tick
		if err := rows.Scan(&t.ID, &t.User, &t.ProblemID, &t.Date, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}
