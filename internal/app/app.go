// Package app bundles the services the HTTP layers share.
package app

import (
	"time"

	"github.com/erazemk/blooddonors/internal/auth"
	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/metrics"
	"github.com/erazemk/blooddonors/internal/photo"
)

// Services is what the API and web routers need to serve requests.
type Services struct {
	Accounts *auth.Accounts
	Donors   donor.Repository
	Gateway  *donor.Gateway
	Photos   *photo.Uploader
	Metrics  *metrics.Metrics

	Policy           donor.Policy
	PageSize         int
	FallbackPhotoURL string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Today is the current calendar day used for eligibility.
func (s *Services) Today() time.Time {
	if s.Now != nil {
		return donor.Day(s.Now())
	}
	return donor.Day(time.Now())
}
