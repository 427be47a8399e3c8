package db

import (
	"context"
	"database/sql"
)

const createArea = `
INSERT INTO areas (name) VALUES (?)
ON CONFLICT (name) DO UPDATE SET name = excluded.name
RETURNING id, name
`

func (q *Queries) CreateArea(ctx context.Context, name string) (Area, error) {
	row := q.db.QueryRowContext(ctx, createArea, name)
	var a Area
	err := row.Scan(&a.ID, &a.Name)
	return a, err
}

const findAreasByNameLike = `
SELECT id, name FROM areas WHERE name LIKE '%' || ? || '%' ORDER BY id
`

func (q *Queries) FindAreasByNameLike(ctx context.Context, hint string) ([]Area, error) {
	rows, err := q.db.QueryContext(ctx, findAreasByNameLike, hint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []Area
	for rows.Next() {
		var a Area
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

type CreateProblemParams struct {
	AreaID         int64
	Sector         string
	Name           string
	NameNormalized string
	Grade          string
}

const createProblem = `
INSERT INTO problems (area_id, sector, name, name_normalized, grade)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (area_id, name) DO UPDATE SET
    sector = excluded.sector,
    name_normalized = excluded.name_normalized,
    grade = excluded.grade
RETURNING id, area_id, sector, name, name_normalized, grade
`

func (q *Queries) CreateProblem(ctx context.Context, arg CreateProblemParams) (Problem, error) {
	row := q.db.QueryRowContext(ctx, createProblem,
		arg.AreaID, arg.Sector, arg.Name, arg.NameNormalized, arg.Grade)
	return scanProblem(row)
}

type RenameProblemParams struct {
	ID             int64
	Name           string
	NameNormalized string
}

const renameProblem = `
UPDATE problems SET name = ?, name_normalized = ? WHERE id = ?
`

func (q *Queries) RenameProblem(ctx context.Context, arg RenameProblemParams) error {
	_, err := q.db.ExecContext(ctx, renameProblem, arg.Name, arg.NameNormalized, arg.ID)
	return err
}

const getProblem = `
SELECT id, area_id, sector, name, name_normalized, grade FROM problems WHERE id = ?
`

func (q *Queries) GetProblem(ctx context.Context, id int64) (Problem, error) {
	return scanProblem(q.db.QueryRowContext(ctx, getProblem, id))
}

type FindProblemsByNormalizedNameParams struct {
	AreaID         int64
	NameNormalized string
}

const findProblemsByNormalizedName = `
SELECT id, area_id, sector, name, name_normalized, grade
FROM problems
WHERE area_id = ? AND name_normalized = ?
ORDER BY id
`

func (q *Queries) FindProblemsByNormalizedName(ctx context.Context, arg FindProblemsByNormalizedNameParams) ([]Problem, error) {
	rows, err := q.db.QueryContext(ctx, findProblemsByNormalizedName, arg.AreaID, arg.NameNormalized)
	if err != nil {
		return nil, err
	}
	return scanProblems(rows)
}

type FindProblemsByNameSubstringParams struct {
	AreaID    int64
	Substring string
}

// instr keeps the match case-sensitive, unlike LIKE
const findProblemsByNameSubstring = `
SELECT id, area_id, sector, name, name_normalized, grade
FROM problems
WHERE area_id = ? AND instr(name, ?) > 0
ORDER BY id
`

func (q *Queries) FindProblemsByNameSubstring(ctx context.Context, arg FindProblemsByNameSubstringParams) ([]Problem, error) {
	rows, err := q.db.QueryContext(ctx, findProblemsByNameSubstring, arg.AreaID, arg.Substring)
	if err != nil {
		return nil, err
	}
	return scanProblems(rows)
}

type FindProblemsByExternalLinkParams struct {
	AreaID      int64
	URLFragment string
}

const findProblemsByExternalLinkInArea = `
SELECT DISTINCT p.id, p.area_id, p.sector, p.name, p.name_normalized, p.grade
FROM problems p
JOIN external_links l ON l.problem_id = p.id
WHERE p.area_id = ? AND instr(l.url, ?) > 0
ORDER BY p.id
`

func (q *Queries) FindProblemsByExternalLinkInArea(ctx context.Context, arg FindProblemsByExternalLinkParams) ([]Problem, error) {
	rows, err := q.db.QueryContext(ctx, findProblemsByExternalLinkInArea, arg.AreaID, arg.URLFragment)
	if err != nil {
		return nil, err
	}
	return scanProblems(rows)
}

const findProblemsByExternalLink = `
SELECT DISTINCT p.id, p.area_id, p.sector, p.name, p.name_normalized, p.grade
FROM problems p
JOIN external_links l ON l.problem_id = p.id
WHERE instr(l.url, ?) > 0
ORDER BY p.id
`

func (q *Queries) FindProblemsByExternalLink(ctx context.Context, urlFragment string) ([]Problem, error) {
	rows, err := q.db.QueryContext(ctx, findProblemsByExternalLink, urlFragment)
	if err != nil {
		return nil, err
	}
	return scanProblems(rows)
}

const listProblemNamesByArea = `
SELECT id, area_id, sector, name, name_normalized, grade
FROM problems WHERE area_id = ? ORDER BY id
`

func (q *Queries) ListProblemsByArea(ctx context.Context, areaID int64) ([]Problem, error) {
	rows, err := q.db.QueryContext(ctx, listProblemNamesByArea, areaID)
	if err != nil {
		return nil, err
	}
	return scanProblems(rows)
}

type AddExternalLinkParams struct {
	ProblemID int64
	Label     string
	URL       string
}

const addExternalLink = `
INSERT INTO external_links (problem_id, label, url) VALUES (?, ?, ?)
`

func (q *Queries) AddExternalLink(ctx context.Context, arg AddExternalLinkParams) error {
	_, err := q.db.ExecContext(ctx, addExternalLink, arg.ProblemID, arg.Label, arg.URL)
	return err
}

const listExternalLinks = `
SELECT id, problem_id, label, url FROM external_links WHERE problem_id = ? ORDER BY id
`

func (q *Queries) ListExternalLinks(ctx context.Context, problemID int64) ([]ExternalLink, error) {
	rows, err := q.db.QueryContext(ctx, listExternalLinks, problemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []ExternalLink
	for rows.Next() {
		var l ExternalLink
		if err := rows.Scan(&l.ID, &l.ProblemID, &l.Label, &l.URL); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func scanProblem(row *sql.Row) (Problem, error) {
	var p Problem
	err := row.Scan(&p.ID, &p.AreaID, &p.Sector, &p.Name, &p.NameNormalized, &p.Grade)
	return p, err
}

func scanProblems(rows *sql.Rows) ([]Problem, error) {
	defer rows.Close()

	var problems []Problem
	for rows.Next() {
		var p Problem
		if err := rows.Scan(&p.ID, &p.AreaID, &p.Sector, &p.Name, &p.NameNormalized, &p.Grade); err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}
