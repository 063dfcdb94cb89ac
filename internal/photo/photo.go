// Package photo stores donor photos behind a pluggable object store.
package photo

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/erazemk/blooddonors/internal/imaging"
)

// Storage is an object store that hands back public URLs.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, mime string) (string, error)
}

// KeyPrefix is the folder all donor photos live under.
const KeyPrefix = "donors/"

// NewKey returns a fresh, collision-free object key.
func NewKey() string {
	return KeyPrefix + uuid.NewString() + ".jpg"
}

// Uploader normalizes photos and puts them into a Storage.
type Uploader struct {
	Storage Storage
}

// Upload processes the photo read from r and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, r io.Reader) (string, error) {
	p, err := imaging.Process(r)
	if err != nil {
		return "", err
	}

	key := NewKey()
	url, err := u.Storage.Upload(ctx, key, p.Data, p.MIME)
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}

	slog.Info("photo stored", "key", key, "size", humanize.Bytes(uint64(len(p.Data))),
		"width", p.Width, "height", p.Height)
	return url, nil
}
