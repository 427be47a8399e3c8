// Package catalog owns the canonical area/problem records that
// scraped and user-submitted data gets reconciled against.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"karst-backend/lib/scrapers/lezec"
	"karst-backend/lib/textutil"
	"karst-backend/services/catalog/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("services/catalog")

type Area = db.Area
type Problem = db.Problem
type ExternalLink = db.ExternalLink

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

func (s Service) CreateArea(ctx context.Context, name string) (Area, error) {
	return s.qry.CreateArea(ctx, name)
}

// FindRegionAreas returns areas whose name contains any of the given
// hints, deduplicated, in creation order.
func (s Service) FindRegionAreas(ctx context.Context, hints []string) ([]Area, error) {
	seen := map[int64]struct{}{}
	var areas []Area
	for _, hint := range hints {
		if hint == "" {
			continue
		}
		matched, err := s.qry.FindAreasByNameLike(ctx, hint)
		if err != nil {
			return nil, err
		}
		for _, a := range matched {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			areas = append(areas, a)
		}
	}
	return areas, nil
}

type CreateProblemRequest struct {
	AreaID int64
	Sector string
	Name   string
	Grade  string
}

// CreateProblem inserts (or refreshes) a problem, computing its
// normalized name. The normalized form is maintained on every write
// to the name; readers rely on that.
func (s Service) CreateProblem(ctx context.Context, req CreateProblemRequest) (Problem, error) {
	return s.qry.CreateProblem(ctx, db.CreateProblemParams{
		AreaID:         req.AreaID,
		Sector:         req.Sector,
		Name:           req.Name,
		NameNormalized: textutil.Normalize(req.Name),
		Grade:          req.Grade,
	})
}

func (s Service) RenameProblem(ctx context.Context, id int64, name string) error {
	return s.qry.RenameProblem(ctx, db.RenameProblemParams{
		ID:             id,
		Name:           name,
		NameNormalized: textutil.Normalize(name),
	})
}

func (s Service) GetProblem(ctx context.Context, id int64) (Problem, error) {
	return s.qry.GetProblem(ctx, id)
}

func (s Service) FindByNormalizedName(ctx context.Context, normalized string, areaID int64) ([]Problem, error) {
	return s.qry.FindProblemsByNormalizedName(ctx, db.FindProblemsByNormalizedNameParams{
		AreaID:         areaID,
		NameNormalized: normalized,
	})
}

// FindByNameSubstring matches problems whose display name contains
// the given fragment, case-sensitively, scoped to one area.
func (s Service) FindByNameSubstring(ctx context.Context, fragment string, areaID int64) ([]Problem, error) {
	return s.qry.FindProblemsByNameSubstring(ctx, db.FindProblemsByNameSubstringParams{
		AreaID:    areaID,
		Substring: fragment,
	})
}

// FindByExternalLink matches problems carrying an external link whose
// URL contains the given fragment. With area ids the scan is scoped
// to those areas; without, it covers the whole catalog.
func (s Service) FindByExternalLink(ctx context.Context, urlFragment string, areaIDs []int64) ([]Problem, error) {
	if len(areaIDs) == 0 {
		return s.qry.FindProblemsByExternalLink(ctx, urlFragment)
	}

	seen := map[int64]struct{}{}
	var problems []Problem
	for _, areaID := range areaIDs {
		matched, err := s.qry.FindProblemsByExternalLinkInArea(ctx, db.FindProblemsByExternalLinkParams{
			AreaID:      areaID,
			URLFragment: urlFragment,
		})
		if err != nil {
			return nil, err
		}
		for _, p := range matched {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			problems = append(problems, p)
		}
	}
	return problems, nil
}

func (s Service) ListProblemsByArea(ctx context.Context, areaID int64) ([]Problem, error) {
	return s.qry.ListProblemsByArea(ctx, areaID)
}

func (s Service) AddExternalLink(ctx context.Context, problemID int64, label, url string) error {
	return s.qry.AddExternalLink(ctx, db.AddExternalLinkParams{
		ProblemID: problemID,
		Label:     label,
		URL:       url,
	})
}

func (s Service) ListExternalLinks(ctx context.Context, problemID int64) ([]ExternalLink, error) {
	return s.qry.ListExternalLinks(ctx, problemID)
}

// ImportRoutes loads scraped routes into the catalog: one area per
// distinct route area, problems upserted by (area, name), each with
// its lezec.cz detail link. Safe to re-run.
func (s Service) ImportRoutes(ctx context.Context, routes []lezec.Route) (int, error) {
	ctx, span := tracer.Start(ctx, "ImportRoutes")
	defer span.End()
	span.SetAttributes(attribute.Int("routes", len(routes)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	areasByName := map[string]Area{}
	imported := 0

	for _, route := range routes {
		areaName := route.Area
		if areaName == "" {
			areaName = route.Location
		}
		if areaName == "" || route.Name == "" {
			slog.WarnContext(ctx, "skipping route without area or name", "id", route.LezecID)
			continue
		}

		area, ok := areasByName[areaName]
		if !ok {
			area, err = txqry.CreateArea(ctx, areaName)
			if err != nil {
				return 0, fmt.Errorf("create area %q: %w", areaName, err)
			}
			areasByName[areaName] = area
		}

		problem, err := txqry.CreateProblem(ctx, db.CreateProblemParams{
			AreaID:         area.ID,
			Sector:         route.Sector,
			Name:           route.Name,
			NameNormalized: textutil.Normalize(route.Name),
			Grade:          route.Grade,
		})
		if err != nil {
			return 0, fmt.Errorf("create problem %q: %w", route.Name, err)
		}

		if route.DetailURL != "" {
			links, err := txqry.ListExternalLinks(ctx, problem.ID)
			if err != nil {
				return 0, err
			}
			alreadyLinked := false
			for _, l := range links {
				if l.URL == route.DetailURL {
					alreadyLinked = true
					break
				}
			}
			if !alreadyLinked {
				err = txqry.AddExternalLink(ctx, db.AddExternalLinkParams{
					ProblemID: problem.ID,
					Label:     "lezec.cz",
					URL:       route.DetailURL,
				})
				if err != nil {
					return 0, err
				}
			}
		}
		imported++
	}

	return imported, tx.Commit()
}
