package supabase

import (
	"context"
	"fmt"
	"net/url"
)

// PhotoCacheControl is the max-age, in seconds, sent with uploaded photos.
const PhotoCacheControl = "3600"

// Upload puts a photo into the bucket and returns its public URL. Existing
// objects are never replaced.
func (c *Client) Upload(ctx context.Context, key string, data []byte, mime string) (string, error) {
	path := (&url.URL{Path: key}).EscapedPath()
	resp, err := c.request(ctx).
		SetHeader("Content-Type", mime).
		SetHeader("Cache-Control", "max-age="+PhotoCacheControl).
		SetHeader("x-upsert", "false").
		SetBody(data).
		Post("/storage/v1/object/" + c.bucket + "/" + path)
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	if resp.IsError() {
		return "", failure("uploading photo", resp)
	}
	return c.PublicURL(key), nil
}

// PublicURL is the URL a public bucket serves key at.
func (c *Client) PublicURL(key string) string {
	return c.baseURL + "/storage/v1/object/public/" + c.bucket + "/" + (&url.URL{Path: key}).EscapedPath()
}
