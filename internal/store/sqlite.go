package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/lumen-bio/leadscout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                       TEXT PRIMARY KEY,
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
	role_fit_score           REAL NOT NULL DEFAULT 0,
	company_intent_score     REAL NOT NULL DEFAULT 0,
	technographic_score      REAL NOT NULL DEFAULT 0,
	location_score           REAL NOT NULL DEFAULT 0,
	scientific_intent_score  REAL NOT NULL DEFAULT 0,
	total_score              REAL NOT NULL DEFAULT 0,
	data_source              TEXT NOT NULL DEFAULT '',
	notes                    TEXT NOT NULL DEFAULT '',
	created_at               DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at               DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_total_score ON leads(total_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_company ON leads(company);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *model.Lead) (string, error) {
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

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (`+leadColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, lead.Name, lead.Title, lead.Email, lead.LinkedInURL, lead.Phone,
		lead.Company, lead.CompanySize, lead.FundingStage, lead.FundingAmount, lead.FundingDate,
		lead.PersonLocation, lead.CompanyHQ,
		pubsJSON, lead.RecentPublicationCount, lead.ConferenceParticipation, keywordsJSON,
		lead.Scores.RoleFit, lead.Scores.CompanyIntent, lead.Scores.Technographic,
		lead.Scores.Location, lead.Scores.ScientificIntent, lead.Scores.Total,
		lead.DataSource, lead.Notes, now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return "", ErrDuplicateLead
		}
		return "", eris.Wrapf(err, "sqlite: insert lead %s", lead.Name)
	}

	lead.ID = id
	lead.CreatedAt = now
	lead.UpdatedAt = now
	return id, nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)

	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", id)
	}
	return lead, nil
}

func (s *SQLiteStore) SearchLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	var args []any

	if filter.SearchText != "" {
		query += ` AND (name LIKE ? OR company LIKE ? OR person_location LIKE ?)`
		pattern := "%" + filter.SearchText + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Name != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.Company != "" {
		query += ` AND company LIKE ?`
		args = append(args, "%"+filter.Company+"%")
	}
	if filter.Location != "" {
		query += ` AND person_location LIKE ?`
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.MinScore > 0 {
		query += ` AND total_score >= ?`
		args = append(args, filter.MinScore)
	}
	if filter.MaxScore > 0 {
		query += ` AND total_score <= ?`
		args = append(args, filter.MaxScore)
	}
	query += ` ORDER BY total_score DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: search leads iterate")
}

func (s *SQLiteStore) UpdateScores(ctx context.Context, id string, scores model.ScoreBreakdown) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET
			role_fit_score = ?, company_intent_score = ?, technographic_score = ?,
			location_score = ?, scientific_intent_score = ?, total_score = ?,
			updated_at = ?
		 WHERE id = ?`,
		scores.RoleFit, scores.CompanyIntent, scores.Technographic,
		scores.Location, scores.ScientificIntent, scores.Total,
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update scores %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLead(row scannable) (*model.Lead, error) {
	var l model.Lead
	var pubsJSON, keywordsJSON string

	err := row.Scan(
		&l.ID, &l.Name, &l.Title, &l.Email, &l.LinkedInURL, &l.Phone,
		&l.Company, &l.CompanySize, &l.FundingStage, &l.FundingAmount, &l.FundingDate,
		&l.PersonLocation, &l.CompanyHQ,
		&pubsJSON, &l.RecentPublicationCount, &l.ConferenceParticipation, &keywordsJSON,
		&l.Scores.RoleFit, &l.Scores.CompanyIntent, &l.Scores.Technographic,
		&l.Scores.Location, &l.Scores.ScientificIntent, &l.Scores.Total,
		&l.DataSource, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Publications = unmarshalPublications(l.ID, pubsJSON)
	l.TechKeywords = unmarshalKeywords(l.ID, keywordsJSON)
	return &l, nil
}
