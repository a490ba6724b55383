// Package store persists harvest results to SQLite. Persistence is an
// optional downstream consumer: a write failure is reported to the caller
// for logging but must never abort a run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"briefpipe/dbopen"
	"briefpipe/fields"
	"briefpipe/pdfx"
)

// FileRecord is one extracted document within a project.
type FileRecord struct {
	FileName  string
	SizeBytes int64
	Text      string
	Comments  []pdfx.Comment
	Fields    fields.Fields
	Links     []pdfx.Link
}

// ProjectRecord is the persisted form of one project outcome.
type ProjectRecord struct {
	URL           string
	ProjectNumber int
	Name          string
	DSID          string
	Success       bool
	Error         string
	Files         []FileRecord
}

// Sink is the persistence interface the pipeline writes through.
type Sink interface {
	SaveProject(ctx context.Context, rec ProjectRecord) error
	Close() error
}

// Store writes project records to a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ Sink = (*Store)(nil)

// Open opens (creating if needed) the results database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(schema))
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// NewWithDB wraps an already-open database, applying the schema. Used by
// tests running against :memory:.
func NewWithDB(db *sql.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveProject writes one project record and all of its files, comments and
// structured fields in a single transaction.
func (s *Store) SaveProject(ctx context.Context, rec ProjectRecord) error {
	err := dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO projects (url, project_number, name, dsid, success, error, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.URL, rec.ProjectNumber, rec.Name, rec.DSID, rec.Success, rec.Error,
			time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		projectID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("project id: %w", err)
		}
		for _, f := range rec.Files {
			if err := insertFile(ctx, tx, projectID, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: save project %d: %w", rec.ProjectNumber, err)
	}
	return nil
}

func insertFile(ctx context.Context, tx *sql.Tx, projectID int64, f FileRecord) error {
	fieldsJSON, err := json.Marshal(f.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	linksJSON, err := json.Marshal(f.Links)
	if err != nil {
		return fmt.Errorf("marshal links: %w", err)
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO files (project_id, file_name, size_bytes, chars, text, fields_json, links_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		projectID, f.FileName, f.SizeBytes, len(f.Text), f.Text, string(fieldsJSON), string(linksJSON))
	if err != nil {
		return fmt.Errorf("insert file %s: %w", f.FileName, err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("file id: %w", err)
	}
	for _, c := range f.Comments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO comments (file_id, page, author, type, text, created, modified)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fileID, c.Page, c.Author, c.Type, c.Text, c.CreationDate, c.ModificationDate); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
	}
	return nil
}

// CountProjects returns how many project records have been persisted.
func (s *Store) CountProjects(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count projects: %w", err)
	}
	return n, nil
}
