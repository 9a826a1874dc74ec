package links

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kinds of shareable links.
const (
	KindCapsule = "capsule"
	KindGift    = "gift"
)

var ErrNoLink = errors.New("no link has been created yet")

// fixed width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Link is a shareable view link produced by a successful capsule or gift submission.
type Link struct {
	ID        string
	Kind      string
	Ref       string // capsule id or gift id as returned by the API
	URL       string
	CreatedAt time.Time
}

func Open(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// Save records a link and returns it with its generated ID and timestamp.
func Save(ctx context.Context, db *sql.DB, kind, ref, url string) (*Link, error) {
	kind = strings.TrimSpace(kind)
	url = strings.TrimSpace(url)
	if kind == "" || url == "" {
		return nil, errors.New("missing kind or url")
	}
	l := &Link{
		ID:        uuid.NewString(),
		Kind:      kind,
		Ref:       strings.TrimSpace(ref),
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.ExecContext(ctx, `INSERT INTO links (id, kind, ref, url, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.Kind, nullIfEmpty(l.Ref), l.URL, l.CreatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("save %s link: %w", kind, err)
	}
	return l, nil
}

// Last returns the most recent link of kind, or ErrNoLink.
func Last(ctx context.Context, db *sql.DB, kind string) (*Link, error) {
	rows, err := List(ctx, db, kind, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoLink
	}
	return &rows[0], nil
}

// List returns links newest first. An empty kind matches every kind and a
// non-positive limit returns everything.
func List(ctx context.Context, db *sql.DB, kind string, limit int) ([]Link, error) {
	q := `SELECT id, kind, ref, url, created_at FROM links`
	var args []any
	if strings.TrimSpace(kind) != "" {
		q += " WHERE kind = ?"
		args = append(args, kind)
	}
	// rowid breaks ties between links saved within the same instant
	q += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Link
	for rows.Next() {
		var (
			l       Link
			ref     sql.NullString
			created string
		)
		if err := rows.Scan(&l.ID, &l.Kind, &ref, &l.URL, &created); err != nil {
			return nil, err
		}
		l.Ref = ref.String
		if t, err := time.Parse(timeLayout, created); err == nil {
			l.CreatedAt = t
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
