package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/athenahq/athena/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given DSN and configures WAL mode
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS user_queries (
	id              TEXT PRIMARY KEY,
	content         TEXT NOT NULL,
	content_type    TEXT NOT NULL,
	original_format TEXT,
	user_id         TEXT,
	submitted_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS credible_sources (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL UNIQUE,
	domain            TEXT NOT NULL UNIQUE,
	source_type       TEXT NOT NULL,
	credibility_score REAL NOT NULL DEFAULT 1.0,
	description       TEXT,
	last_verified     DATETIME,
	is_active         INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS external_sources (
	id                    TEXT PRIMARY KEY,
	url                   TEXT NOT NULL UNIQUE,
	domain                TEXT NOT NULL,
	title                 TEXT,
	content               TEXT,
	content_type          TEXT,
	credibility_score     REAL NOT NULL DEFAULT 0,
	last_checked          DATETIME NOT NULL,
	is_whitelisted        INTEGER NOT NULL DEFAULT 0,
	suggested_source_name TEXT,
	suggested_source_type TEXT,
	suggested_by          TEXT,
	suggestion_date       DATETIME
);

CREATE TABLE IF NOT EXISTS verified_facts (
	id                 TEXT PRIMARY KEY,
	query_id           TEXT NOT NULL REFERENCES user_queries(id),
	source_id          TEXT REFERENCES credible_sources(id),
	external_source_id TEXT REFERENCES external_sources(id),
	status             TEXT NOT NULL DEFAULT 'unverified',
	summary            TEXT,
	details            TEXT,
	confidence_score   REAL NOT NULL DEFAULT 0,
	verified_at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_verified_facts_query_id ON verified_facts(query_id);
CREATE INDEX IF NOT EXISTS idx_verified_facts_confidence ON verified_facts(confidence_score);
CREATE INDEX IF NOT EXISTS idx_external_sources_domain ON external_sources(domain);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateQuery(ctx context.Context, q *model.UserQuery) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.SubmittedAt.IsZero() {
		q.SubmittedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_queries (id, content, content_type, original_format, user_id, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.Content, string(q.ContentType), nullStr(q.OriginalFormat), nullStr(q.UserID), q.SubmittedAt)
	return eris.Wrap(err, "sqlite: create query")
}

func (s *SQLiteStore) CreateFact(ctx context.Context, f *model.VerifiedFact) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.VerifiedAt.IsZero() {
		f.VerifiedAt = time.Now().UTC()
	}
	f.ConfidenceScore = model.ClampScore(f.ConfidenceScore)
	_, err := s.db.ExecContext(ctx, insertFactSQL,
		f.ID, f.QueryID, nullStr(f.SourceID), nullStr(f.ExternalSourceID),
		string(f.Status), nullStr(f.Summary), nullStr(f.Details), f.ConfidenceScore, f.VerifiedAt)
	return eris.Wrap(err, "sqlite: create fact")
}

const insertFactSQL = `INSERT INTO verified_facts
	(id, query_id, source_id, external_source_id, status, summary, details, confidence_score, verified_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *SQLiteStore) FindBestFactMatch(ctx context.Context, keywords []string) (*model.FactMatch, error) {
	if len(keywords) == 0 {
		return nil, ErrNotFound
	}

	var b strings.Builder
	b.WriteString(`SELECT f.id, f.query_id, f.source_id, f.external_source_id, f.status,
		f.summary, f.details, f.confidence_score, f.verified_at,
		q.content, q.content_type, q.original_format, q.user_id, q.submitted_at,
		s.id, s.name, s.domain, s.source_type, s.credibility_score, s.last_verified
	FROM verified_facts f
	JOIN user_queries q ON q.id = f.query_id
	LEFT JOIN credible_sources s ON s.id = f.source_id
	WHERE 1=1`)

	args := make([]any, 0, len(keywords))
	for _, kw := range keywords {
		b.WriteString(` AND q.content LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(kw)+"%")
	}
	b.WriteString(" ORDER BY f.confidence_score DESC LIMIT 1")

	row := s.db.QueryRowContext(ctx, b.String(), args...)

	var m model.FactMatch
	var srcID, extID, summary, details sql.NullString
	var origFormat, userID sql.NullString
	var csID, csName, csDomain, csType sql.NullString
	var csScore sql.NullFloat64
	var csVerified sql.NullTime

	err := row.Scan(
		&m.Fact.ID, &m.Fact.QueryID, &srcID, &extID, &m.Fact.Status,
		&summary, &details, &m.Fact.ConfidenceScore, &m.Fact.VerifiedAt,
		&m.Query.Content, &m.Query.ContentType, &origFormat, &userID, &m.Query.SubmittedAt,
		&csID, &csName, &csDomain, &csType, &csScore, &csVerified)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: find fact match")
	}

	m.Fact.SourceID = srcID.String
	m.Fact.ExternalSourceID = extID.String
	m.Fact.Summary = summary.String
	m.Fact.Details = details.String
	m.Query.ID = m.Fact.QueryID
	m.Query.OriginalFormat = origFormat.String
	m.Query.UserID = userID.String

	if csID.Valid {
		m.Source = &model.CredibleSource{
			ID:               csID.String,
			Name:             csName.String,
			Domain:           csDomain.String,
			SourceType:       model.SourceType(csType.String),
			CredibilityScore: csScore.Float64,
			LastVerified:     csVerified.Time,
		}
	}
	return &m, nil
}

func (s *SQLiteStore) GetExternalSourceByURL(ctx context.Context, url string) (*model.ExternalSource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, domain, title, content, content_type, credibility_score,
			last_checked, is_whitelisted
		 FROM external_sources WHERE url = ?`, url)

	var src model.ExternalSource
	var title, content, contentType sql.NullString
	err := row.Scan(&src.ID, &src.URL, &src.Domain, &title, &content, &contentType,
		&src.CredibilityScore, &src.LastChecked, &src.IsWhitelisted)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get external source")
	}
	src.Title = title.String
	src.Content = content.String
	src.ContentType = contentType.String
	return &src, nil
}

func (s *SQLiteStore) SaveWebResults(ctx context.Context, batch WebResultBatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin batch")
	}
	defer tx.Rollback()

	for i := range batch.Sources {
		src := &batch.Sources[i]
		if src.ID == "" {
			src.ID = uuid.NewString()
		}
		if src.LastChecked.IsZero() {
			src.LastChecked = time.Now().UTC()
		}
		src.CredibilityScore = model.ClampScore(src.CredibilityScore)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO external_sources (id, url, domain, title, content, content_type,
				credibility_score, last_checked, is_whitelisted)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			src.ID, src.URL, src.Domain, nullStr(src.Title), nullStr(src.Content),
			nullStr(src.ContentType), src.CredibilityScore, src.LastChecked, src.IsWhitelisted)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert external source %s", src.URL)
		}
	}

	for i := range batch.Facts {
		f := &batch.Facts[i]
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		if f.VerifiedAt.IsZero() {
			f.VerifiedAt = time.Now().UTC()
		}
		f.ConfidenceScore = model.ClampScore(f.ConfidenceScore)
		_, err := tx.ExecContext(ctx, insertFactSQL,
			f.ID, f.QueryID, nullStr(f.SourceID), nullStr(f.ExternalSourceID),
			string(f.Status), nullStr(f.Summary), nullStr(f.Details), f.ConfidenceScore, f.VerifiedAt)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert fact")
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit batch")
}

func (s *SQLiteStore) CreateCredibleSource(ctx context.Context, src *model.CredibleSource) error {
	if src.ID == "" {
		src.ID = uuid.NewString()
	}
	if src.LastVerified.IsZero() {
		src.LastVerified = time.Now().UTC()
	}
	src.CredibilityScore = model.ClampScore(src.CredibilityScore)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credible_sources (id, name, domain, source_type, credibility_score,
			description, last_verified, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		src.ID, src.Name, src.Domain, string(src.SourceType), src.CredibilityScore,
		nullStr(src.Description), src.LastVerified, src.IsActive)
	return eris.Wrap(err, "sqlite: create credible source")
}

func (s *SQLiteStore) ListCredibleSources(ctx context.Context, activeOnly bool) ([]model.CredibleSource, error) {
	query := `SELECT id, name, domain, source_type, credibility_score, description,
		last_verified, is_active FROM credible_sources`
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY credibility_score DESC, name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list credible sources")
	}
	defer rows.Close()

	var sources []model.CredibleSource
	for rows.Next() {
		var src model.CredibleSource
		var desc sql.NullString
		if err := rows.Scan(&src.ID, &src.Name, &src.Domain, &src.SourceType,
			&src.CredibilityScore, &desc, &src.LastVerified, &src.IsActive); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan credible source")
		}
		src.Description = desc.String
		sources = append(sources, src)
	}
	return sources, eris.Wrap(rows.Err(), "sqlite: list credible sources")
}

// nullStr maps empty strings to SQL NULL
func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// escapeLike escapes SQL LIKE wildcards in a keyword
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
