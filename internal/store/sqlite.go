package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/wp-donor/internal/model"
)

// wpDateLayout is how WordPress stores post_date.
const wpDateLayout = "2006-01-02 15:04:05"

// Options configures a SQLiteStore.
type Options struct {
	TablePrefix string // defaults to "wp_"
	SiteURL     string // overrides the siteurl option when set
}

// SQLiteStore implements Source over a WordPress-schema SQLite database.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	prefix  string
	siteURL string
}

// NewSQLiteStore opens the donor database at dbPath. The file must exist.
func NewSQLiteStore(dbPath string, opts Options) (*SQLiteStore, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("donor database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}

	prefix := opts.TablePrefix
	if prefix == "" {
		prefix = "wp_"
	}

	return &SQLiteStore{
		db:      db,
		path:    dbPath,
		prefix:  prefix,
		siteURL: strings.TrimRight(opts.SiteURL, "/"),
	}, nil
}

func (s *SQLiteStore) table(name string) string {
	return s.prefix + name
}

// Migrate creates the subset of the WordPress schema the store reads from.
// Existing tables are left untouched.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]sposts (
		ID             INTEGER PRIMARY KEY,
		post_author    INTEGER NOT NULL DEFAULT 0,
		post_date      TEXT NOT NULL DEFAULT '0000-00-00 00:00:00',
		post_content   TEXT NOT NULL DEFAULT '',
		post_title     TEXT NOT NULL DEFAULT '',
		post_status    TEXT NOT NULL DEFAULT 'publish',
		post_name      TEXT NOT NULL DEFAULT '',
		post_parent    INTEGER NOT NULL DEFAULT 0,
		guid           TEXT NOT NULL DEFAULT '',
		post_type      TEXT NOT NULL DEFAULT 'post',
		post_mime_type TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS %[1]stype_status_date ON %[1]sposts(post_type, post_status, post_date, ID);

	CREATE TABLE IF NOT EXISTS %[1]spostmeta (
		meta_id    INTEGER PRIMARY KEY,
		post_id    INTEGER NOT NULL DEFAULT 0,
		meta_key   TEXT,
		meta_value TEXT
	);
	CREATE INDEX IF NOT EXISTS %[1]spostmeta_post_id ON %[1]spostmeta(post_id);
	CREATE INDEX IF NOT EXISTS %[1]spostmeta_meta_key ON %[1]spostmeta(meta_key);

	CREATE TABLE IF NOT EXISTS %[1]soptions (
		option_id    INTEGER PRIMARY KEY,
		option_name  TEXT NOT NULL UNIQUE,
		option_value TEXT NOT NULL DEFAULT '',
		autoload     TEXT NOT NULL DEFAULT 'yes'
	);
	`, s.prefix)

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLiteStore) QueryPosts(ctx context.Context, q PostQuery) ([]model.Post, error) {
	postType := q.Type
	if postType == "" {
		postType = TypePost
	}
	status := q.Status
	if status == "" {
		status = StatusPublish
	}

	start := time.Date(q.Day.Year(), q.Day.Month(), q.Day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	query := fmt.Sprintf(`SELECT ID, post_title, post_content, post_date
		FROM %s
		WHERE post_type = ? AND post_status = ? AND post_date >= ? AND post_date < ?
		ORDER BY ID ASC`, s.table("posts"))
	args := []interface{}{postType, status, start.Format(wpDateLayout), end.Format(wpDateLayout)}

	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	return posts, nil
}

// Get returns the post with the given ID. Other post types, attachments
// included, are reported as ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.Post, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT ID, post_title, post_content, post_date FROM %s WHERE ID = ? AND post_type = ?`,
		s.table("posts")), id, TypePost)

	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// option reads a value from the options table; a missing option is "".
func (s *SQLiteStore) option(ctx context.Context, name string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT option_value FROM %s WHERE option_name = ?`, s.table("options")), name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// postMeta returns the first meta_value for key, or "" when there is none.
func (s *SQLiteStore) postMeta(ctx context.Context, postID int64, key string) (string, error) {
	var v sql.NullString
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT meta_value FROM %s WHERE post_id = ? AND meta_key = ? ORDER BY meta_id LIMIT 1`,
		s.table("postmeta")), postID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v.String, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row scanner) (model.Post, error) {
	var p model.Post
	var date string

	if err := row.Scan(&p.ID, &p.Title, &p.Content, &date); err != nil {
		return p, err
	}

	// Unscheduled drafts carry a zero date.
	if strings.HasPrefix(date, "0000-00-00") {
		return p, nil
	}
	t, err := time.Parse(wpDateLayout, date)
	if err != nil {
		return p, fmt.Errorf("post %d: parse post_date %q: %w", p.ID, date, err)
	}
	p.Date = t
	return p, nil
}
