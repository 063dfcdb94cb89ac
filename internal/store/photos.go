package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
)

// SavePhoto stores photo bytes under key. Keys are never overwritten.
func SavePhoto(ctx context.Context, db *sql.DB, key string, data []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO photos (key, data, mime) VALUES (?, ?, ?)`,
		key, data, mime,
	)
	if err != nil {
		return fmt.Errorf("saving photo: %w", err)
	}
	return nil
}

// GetPhoto returns photo bytes and MIME type, or nil data when missing.
func GetPhoto(ctx context.Context, db *sql.DB, key string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM photos WHERE key = ?`, key,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting photo: %w", err)
	}
	return data, mime, nil
}

// PhotoStore keeps donor photos in SQLite. Public URLs point at BaseURL,
// the path the web router serves photos from.
type PhotoStore struct {
	DB      *sql.DB
	BaseURL string
}

// Upload stores the photo and returns its public URL.
func (s *PhotoStore) Upload(ctx context.Context, key string, data []byte, mime string) (string, error) {
	if err := SavePhoto(ctx, s.DB, key, data, mime); err != nil {
		return "", err
	}
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + (&url.URL{Path: key}).EscapedPath(), nil
}
