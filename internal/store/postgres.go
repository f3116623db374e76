package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/lumen-bio/leadscout/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, abstracted so tests
// can substitute a mock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_lead":      `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`,
	"update_scores": postgresUpdateScores,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                       TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name                     TEXT NOT NULL UNIQUE,
	title                    TEXT NOT NULL DEFAULT '',
	email                    TEXT NOT NULL DEFAULT '',
	linkedin_url             TEXT NOT NULL DEFAULT '',
	phone                    TEXT NOT NULL DEFAULT '',
	company                  TEXT NOT NULL DEFAULT '',
	company_size             TEXT NOT NULL DEFAULT '',
	funding_stage            TEXT NOT NULL DEFAULT '',
	funding_amount           TEXT NOT NULL DEFAULT '',
	funding_date             TEXT NOT NULL DEFAULT '',
	person_location          TEXT NOT NULL DEFAULT '',
	company_hq               TEXT NOT NULL DEFAULT '',
	publications             TEXT NOT NULL DEFAULT '[]',
	recent_publication_count INTEGER NOT NULL DEFAULT 0,
	conference_participation TEXT NOT NULL DEFAULT '',
	tech_keywords            TEXT NOT NULL DEFAULT '[]',
	role_fit_score           DOUBLE PRECISION NOT NULL DEFAULT 0,
	company_intent_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
	technographic_score      DOUBLE PRECISION NOT NULL DEFAULT 0,
	location_score           DOUBLE PRECISION NOT NULL DEFAULT 0,
	scientific_intent_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_score              DOUBLE PRECISION NOT NULL DEFAULT 0,
	data_source              TEXT NOT NULL DEFAULT '',
	notes                    TEXT NOT NULL DEFAULT '',
	created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_total_score ON leads(total_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_company ON leads(company);
`

const postgresUpdateScores = `UPDATE leads SET
	role_fit_score = $1, company_intent_score = $2, technographic_score = $3,
	location_score = $4, scientific_intent_score = $5, total_score = $6,
	updated_at = $7
 WHERE id = $8`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead *model.Lead) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	pubsJSON, err := marshalPublications(lead.Publications)
	if err != nil {
		return "", err
	}
	keywordsJSON, err := marshalKeywords(lead.TechKeywords)
	if err != nil {
		return "", err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (`+leadColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		         $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`,
		id, lead.Name, lead.Title, lead.Email, lead.LinkedInURL, lead.Phone,
		lead.Company, lead.CompanySize, lead.FundingStage, lead.FundingAmount, lead.FundingDate,
		lead.PersonLocation, lead.CompanyHQ,
		pubsJSON, lead.RecentPublicationCount, lead.ConferenceParticipation, keywordsJSON,
		lead.Scores.RoleFit, lead.Scores.CompanyIntent, lead.Scores.Technographic,
		lead.Scores.Location, lead.Scores.ScientificIntent, lead.Scores.Total,
		lead.DataSource, lead.Notes, now, now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrDuplicateLead
		}
		return "", eris.Wrapf(err, "postgres: insert lead %s", lead.Name)
	}

	lead.ID = id
	lead.CreatedAt = now
	lead.UpdatedAt = now
	return id, nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}
	return lead, nil
}

func (s *PostgresStore) SearchLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE true`
	args := []any{}
	argIdx := 1

	if filter.SearchText != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR company ILIKE $%d OR person_location ILIKE $%d)`,
			argIdx, argIdx+1, argIdx+2)
		pattern := "%" + filter.SearchText + "%"
		args = append(args, pattern, pattern, pattern)
		argIdx += 3
	}
	if filter.Name != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, argIdx)
		args = append(args, "%"+filter.Name+"%")
		argIdx++
	}
	if filter.Company != "" {
		query += fmt.Sprintf(` AND company ILIKE $%d`, argIdx)
		args = append(args, "%"+filter.Company+"%")
		argIdx++
	}
	if filter.Location != "" {
		query += fmt.Sprintf(` AND person_location ILIKE $%d`, argIdx)
		args = append(args, "%"+filter.Location+"%")
		argIdx++
	}
	if filter.MinScore > 0 {
		query += fmt.Sprintf(` AND total_score >= $%d`, argIdx)
		args = append(args, filter.MinScore)
		argIdx++
	}
	if filter.MaxScore > 0 {
		query += fmt.Sprintf(` AND total_score <= $%d`, argIdx)
		args = append(args, filter.MaxScore)
		argIdx++
	}
	query += ` ORDER BY total_score DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: search leads iterate")
}

func (s *PostgresStore) UpdateScores(ctx context.Context, id string, scores model.ScoreBreakdown) error {
	tag, err := s.pool.Exec(ctx, postgresUpdateScores,
		scores.RoleFit, scores.CompanyIntent, scores.Technographic,
		scores.Location, scores.ScientificIntent, scores.Total,
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update scores %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", id)
	}
	return nil
}
