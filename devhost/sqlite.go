package devhost

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vcrobe/assignview/protocol"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id    TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		path  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS content_kinds (
		id    TEXT PRIMARY KEY,
		title TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS examples (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		identifier TEXT NOT NULL DEFAULT '',
		version    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS contents (
		id                TEXT PRIMARY KEY,
		course_id         TEXT NOT NULL REFERENCES courses(id),
		parent_id         TEXT NOT NULL DEFAULT '',
		kind_id           TEXT NOT NULL DEFAULT '',
		title             TEXT NOT NULL,
		path              TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		max_group_size    INTEGER,
		max_test_runs     INTEGER,
		max_submissions   INTEGER,
		example_id        TEXT NOT NULL DEFAULT '',
		deployment_status TEXT NOT NULL DEFAULT ''
	)`,
}

// SQLiteRepository stores host data in SQLite through the pure Go driver.
type SQLiteRepository struct {
	db *sql.DB
}

// Compile-time assertion to ensure SQLiteRepository implements Repository.
var _ Repository = (*SQLiteRepository)(nil)

// OpenSQLite opens dsn and creates the schema if needed.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// One connection: in-memory databases are per connection, and SQLite
	// serializes writers anyway.
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %q: %w", what, id, err)
}

func (r *SQLiteRepository) Course(ctx context.Context, id string) (protocol.Course, error) {
	var c protocol.Course
	err := r.db.QueryRowContext(ctx, `SELECT id, title, path FROM courses WHERE id = ?`, id).
		Scan(&c.ID, &c.Title, &c.Path)
	if err != nil {
		return protocol.Course{}, notFound(err, "course", id)
	}
	return c, nil
}

func (r *SQLiteRepository) ContentKind(ctx context.Context, id string) (protocol.ContentKind, error) {
	var k protocol.ContentKind
	err := r.db.QueryRowContext(ctx, `SELECT id, title FROM content_kinds WHERE id = ?`, id).
		Scan(&k.ID, &k.Title)
	if err != nil {
		return protocol.ContentKind{}, notFound(err, "content kind", id)
	}
	return k, nil
}

func (r *SQLiteRepository) Example(ctx context.Context, id string) (protocol.Example, error) {
	var e protocol.Example
	err := r.db.QueryRowContext(ctx, `SELECT id, title, identifier, version FROM examples WHERE id = ?`, id).
		Scan(&e.ID, &e.Title, &e.Identifier, &e.Version)
	if err != nil {
		return protocol.Example{}, notFound(err, "example", id)
	}
	return e, nil
}

func (r *SQLiteRepository) FirstExample(ctx context.Context) (protocol.Example, error) {
	var e protocol.Example
	err := r.db.QueryRowContext(ctx, `SELECT id, title, identifier, version FROM examples ORDER BY identifier, id LIMIT 1`).
		Scan(&e.ID, &e.Title, &e.Identifier, &e.Version)
	if err != nil {
		return protocol.Example{}, notFound(err, "example", "first")
	}
	return e, nil
}

const contentColumns = `id, course_id, parent_id, kind_id, title, path, description,
	max_group_size, max_test_runs, max_submissions, example_id, deployment_status`

func scanContent(row *sql.Row) (Content, error) {
	var (
		c                        Content
		group, runs, submissions sql.NullInt64
		status                   string
	)
	err := row.Scan(&c.ID, &c.CourseID, &c.ParentID, &c.KindID, &c.Title, &c.Path, &c.Description,
		&group, &runs, &submissions, &c.ExampleID, &status)
	if err != nil {
		return Content{}, err
	}
	c.MaxGroupSize = fromNull(group)
	c.MaxTestRuns = fromNull(runs)
	c.MaxSubmissions = fromNull(submissions)
	c.HasLinkedResource = c.ExampleID != ""
	c.DeploymentStatus = protocol.DeploymentStatus(status)
	return c, nil
}

func fromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func toNull(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func (r *SQLiteRepository) Content(ctx context.Context, id string) (Content, error) {
	c, err := scanContent(r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = ?`, id))
	if err != nil {
		return Content{}, notFound(err, "content", id)
	}
	return c, nil
}

func (r *SQLiteRepository) FirstContent(ctx context.Context, courseID string) (Content, error) {
	c, err := scanContent(r.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE course_id = ? ORDER BY path LIMIT 1`, courseID))
	if err != nil {
		return Content{}, notFound(err, "content of course", courseID)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateContent(ctx context.Context, c Content) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO contents (`+contentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CourseID, c.ParentID, c.KindID, c.Title, c.Path, c.Description,
		toNull(c.MaxGroupSize), toNull(c.MaxTestRuns), toNull(c.MaxSubmissions),
		c.ExampleID, string(c.DeploymentStatus))
	if err != nil {
		return fmt.Errorf("create content %q: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateContent(ctx context.Context, id string, u protocol.ContentUpdates) error {
	// Numeric fields left out of the update keep their stored value.
	return r.exec(ctx, id, `UPDATE contents SET
			title = ?,
			description = ?,
			max_group_size = COALESCE(?, max_group_size),
			max_test_runs = COALESCE(?, max_test_runs),
			max_submissions = COALESCE(?, max_submissions)
		WHERE id = ?`,
		u.Title, u.Description, toNull(u.MaxGroupSize), toNull(u.MaxTestRuns), toNull(u.MaxSubmissions), id)
}

func (r *SQLiteRepository) SetExample(ctx context.Context, id, exampleID string) error {
	return r.exec(ctx, id, `UPDATE contents SET example_id = ?, deployment_status = '' WHERE id = ?`, exampleID, id)
}

func (r *SQLiteRepository) SetDeploymentStatus(ctx context.Context, id string, status protocol.DeploymentStatus) error {
	return r.exec(ctx, id, `UPDATE contents SET deployment_status = ? WHERE id = ?`, string(status), id)
}

// DeleteContent removes the content and everything below it.
func (r *SQLiteRepository) DeleteContent(ctx context.Context, id string) error {
	c, err := r.Content(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM contents WHERE course_id = ? AND (id = ? OR path LIKE ? ESCAPE '\')`,
		c.CourseID, id, escapeLike(c.Path)+".%")
	if err != nil {
		return fmt.Errorf("delete content %q: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) exec(ctx context.Context, id, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update content %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update content %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("content %q: %w", id, ErrNotFound)
	}
	return nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// InsertCourse, InsertContentKind and InsertExample populate the catalog.
func (r *SQLiteRepository) InsertCourse(ctx context.Context, c protocol.Course) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO courses (id, title, path) VALUES (?, ?, ?)`, c.ID, c.Title, c.Path)
	if err != nil {
		return fmt.Errorf("insert course %q: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) InsertContentKind(ctx context.Context, k protocol.ContentKind) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO content_kinds (id, title) VALUES (?, ?)`, k.ID, k.Title)
	if err != nil {
		return fmt.Errorf("insert content kind %q: %w", k.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) InsertExample(ctx context.Context, e protocol.Example) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO examples (id, title, identifier, version) VALUES (?, ?, ?, ?)`,
		e.ID, e.Title, e.Identifier, e.Version)
	if err != nil {
		return fmt.Errorf("insert example %q: %w", e.ID, err)
	}
	return nil
}

// Empty reports whether no course has been stored yet.
func (r *SQLiteRepository) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return false, fmt.Errorf("count courses: %w", err)
	}
	return n == 0, nil
}
