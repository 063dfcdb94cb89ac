// Package supabase talks to a Supabase project: PostgREST for the donors
// table and Storage for donor photos.
package supabase

import (
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/erazemk/blooddonors/internal/donor"
)

// DefaultBucket is the storage bucket donor photos are uploaded to.
const DefaultBucket = "blood-donors"

// Client is a Supabase REST client. It implements donor.Repository and
// photo.Storage.
type Client struct {
	http    *resty.Client
	baseURL string
	bucket  string
	table   string
}

// Option configures a Client.
type Option func(*Client)

// WithBucket overrides the photo bucket.
func WithBucket(bucket string) Option {
	return func(c *Client) { c.bucket = bucket }
}

// New creates a client for the project at baseURL using the given API key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	c := &Client{
		http:    resty.New(),
		baseURL: baseURL,
		bucket:  DefaultBucket,
		table:   "donors",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.
		SetBaseURL(baseURL).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")
	return c
}

// apiError is the error body returned by PostgREST and Storage.
type apiError struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
	StatusCode any    `json:"statusCode"`
	ErrorText  string `json:"error"`
}

// failure converts a non-2xx response into a DataAccessError carrying the
// service's own message.
func failure(op string, resp *resty.Response) error {
	msg := ""
	if e, ok := resp.Error().(*apiError); ok && e != nil {
		msg = e.Message
		if msg == "" {
			msg = e.ErrorText
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	if msg == "" {
		msg = resp.Status()
	}
	return &donor.DataAccessError{
		Op:      op,
		Message: msg,
		Err:     fmt.Errorf("supabase: HTTP %d", resp.StatusCode()),
	}
}
