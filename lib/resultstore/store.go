package resultstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"yoresults/internal/assert"
	"yoresults/lib/scrapers/yo"
	"yoresults/lib/timezone"

	_ "embed"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed schema.sql
var Schema string

var tracer = otel.Tracer("yoresults.lib.resultstore")

var ErrNoRuns = errors.New("resultstore: no runs stored")

// Run is one stored scrape.
type Run struct {
	ID        uuid.UUID
	ScrapedAt time.Time
	// landing page the scrape started from
	Source  string
	Results yo.Results
}

// NewRun stamps results with a fresh id and the current time.
func NewRun(source string, results yo.Results) Run {
	assert.NotEmptyStr(source, "run source")
	return Run{
		ID:        uuid.New(),
		ScrapedAt: timezone.Now(),
		Source:    source,
		Results:   results,
	}
}

type RunInfo struct {
	ID        uuid.UUID
	ScrapedAt time.Time
	Source    string
	// number of sittings in the run
	Years int
}

type runRow struct {
	ID        uuid.UUID `db:"id"`
	ScrapedAt int64     `db:"scraped_at"`
	Source    string    `db:"source"`
	Years     int       `db:"years"`
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) Store {
	assert.NotNil(db, "db")
	return Store{db: db}
}

// Migrate creates the tables if they do not exist yet.
func (s Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

func (s Store) Save(ctx context.Context, run Run) error {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()
	span.SetAttributes(
		attribute.String("id", run.ID.String()),
		attribute.Int("years", len(run.Results.ByYear)),
	)

	err := s.save(ctx, run)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save run")
	}
	return err
}

func (s Store) save(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		"insert into run (id, scraped_at, source) values (?, ?, ?)",
		run.ID, run.ScrapedAt.UnixMilli(), run.Source,
	)
	if err != nil {
		return err
	}

	for _, year := range run.Results.Years() {
		_, err = tx.ExecContext(
			ctx,
			"insert into sitting (run_id, year) values (?, ?)",
			run.ID, year,
		)
		if err != nil {
			return err
		}

		for subject, points := range run.Results.ByYear[year] {
			encoded, err := yo.MarshalCompact(points)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(
				ctx,
				"insert into entry (run_id, year, subject, points) values (?, ?, ?, ?)",
				run.ID, year, subject, string(encoded),
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// List returns every stored run, newest first.
func (s Store) List(ctx context.Context) ([]RunInfo, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	var rows []runRow
	err := s.db.SelectContext(ctx, &rows, `
		select run.id, run.scraped_at, run.source, count(sitting.year) as years
		from run
		left join sitting on sitting.run_id = run.id
		group by run.id
		order by run.scraped_at desc, run.rowid desc
	`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list runs")
		return nil, err
	}

	runs := make([]RunInfo, len(rows))
	for i, row := range rows {
		runs[i] = RunInfo{
			ID:        row.ID,
			ScrapedAt: time.UnixMilli(row.ScrapedAt).In(timezone.Location),
			Source:    row.Source,
			Years:     row.Years,
		}
	}
	return runs, nil
}

// Latest loads the most recent run, ErrNoRuns is returned if there is none.
func (s Store) Latest(ctx context.Context) (Run, error) {
	var id uuid.UUID
	err := s.db.GetContext(ctx, &id, "select id from run order by scraped_at desc, rowid desc limit 1")
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, err
	}
	return s.Get(ctx, id)
}

type entryRow struct {
	Year    string `db:"year"`
	Subject string `db:"subject"`
	Points  string `db:"points"`
}

func (s Store) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("id", id.String()))

	run, err := s.get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get run")
	}
	return run, err
}

func (s Store) get(ctx context.Context, id uuid.UUID) (Run, error) {
	var header struct {
		ScrapedAt int64  `db:"scraped_at"`
		Source    string `db:"source"`
	}
	err := s.db.GetContext(ctx, &header, "select scraped_at, source from run where id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return Run{}, err
	}

	var years []string
	err = s.db.SelectContext(ctx, &years, "select year from sitting where run_id = ?", id)
	if err != nil {
		return Run{}, err
	}
	index := yo.YearIndex{}
	for _, year := range years {
		index[year] = yo.SubjectTable{}
	}

	var rows []entryRow
	err = s.db.SelectContext(ctx, &rows, "select year, subject, points from entry where run_id = ?", id)
	if err != nil {
		return Run{}, err
	}
	for _, row := range rows {
		var points []yo.Score
		err = json.Unmarshal([]byte(row.Points), &points)
		if err != nil {
			return Run{}, fmt.Errorf("decode points of %q in %q: %w", row.Subject, row.Year, err)
		}
		table, ok := index[row.Year]
		if !ok {
			table = yo.SubjectTable{}
			index[row.Year] = table
		}
		table[row.Subject] = points
	}

	return Run{
		ID:        id,
		ScrapedAt: time.UnixMilli(header.ScrapedAt).In(timezone.Location),
		Source:    header.Source,
		Results:   yo.ResultsFromYearIndex(index),
	}, nil
}
