// Package ticks stores ascent records. At most one tick exists per
// (user, problem) pair; the unique index enforces it even under
// concurrent writers.
package ticks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"karst-backend/services/ticks/db"

	_ "modernc.org/sqlite"
)

// ErrAlreadyExists is returned by Create when a tick for the same
// (user, problem) pair is already present, including when a racing
// writer created it between an Exists check and the insert.
var ErrAlreadyExists = errors.New("tick already exists")

const dateFormat = "2006-01-02"

type Tick struct {
	User      string
	ProblemID int64
	Date      time.Time
	Notes     string
}

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

func (s Service) Exists(ctx context.Context, user string, problemID int64) (bool, error) {
	return s.qry.TickExists(ctx, db.TickExistsParams{
		User:      user,
		ProblemID: problemID,
	})
}

func (s Service) Create(ctx context.Context, tick Tick) error {
	err := s.qry.CreateTick(ctx, db.CreateTickParams{
		User:      tick.User,
		ProblemID: tick.ProblemID,
		Date:      tick.Date.Format(dateFormat),
		Notes:     tick.Notes,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrAlreadyExists
	}
	return err
}

func (s Service) ListByUser(ctx context.Context, user string) ([]Tick, error) {
	rows, err := s.qry.ListTicksByUser(ctx, user)
	if err != nil {
		return nil, err
	}

	ticks := make([]Tick, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse(dateFormat, r.Date)
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, Tick{
			User:      r.User,
			ProblemID: r.ProblemID,
			Date:      date,
			Notes:     r.Notes,
		})
	}
	return ticks, nil
}
