package donor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/erazemk/blooddonors/internal/model"
)

// ErrInvalidPage is returned for a page or page size below 1, or a window
// past the last addressable row.
var ErrInvalidPage = errors.New("invalid page or page size")

// DataAccessError reports a failed read from the backing store. Message is
// the store's own message, unchanged.
type DataAccessError struct {
	Op      string
	Message string
	Err     error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// Page is one window of the donor listing.
type Page struct {
	Items    []model.Donor
	Total    int
	Page     int
	PageSize int
}

// TotalPages is at least 1, even for an empty result.
func (p *Page) TotalPages() int {
	if p.Total <= 0 || p.PageSize <= 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// From is the 1-based position of the first item, 0 when empty.
func (p *Page) From() int {
	if p.Total == 0 || len(p.Items) == 0 {
		return 0
	}
	return (p.Page-1)*p.PageSize + 1
}

// To is the 1-based position of the last item on the page.
func (p *Page) To() int {
	return min(p.Page*p.PageSize, p.Total)
}

func (p *Page) HasPrev() bool { return p.Page > 1 }

func (p *Page) HasNext() bool { return p.Page < p.TotalPages() }

// Observer is told about every fetch.
type Observer interface {
	ObserveFetch(start time.Time, err error)
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithObserver reports fetches to o.
func WithObserver(o Observer) GatewayOption {
	return func(g *Gateway) { g.observer = o }
}

// Gateway turns page requests into range queries against a Source.
type Gateway struct {
	source   Source
	observer Observer
}

// NewGateway creates a Gateway reading from src.
func NewGateway(src Source, opts ...GatewayOption) *Gateway {
	g := &Gateway{source: src}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FetchPage reads page (1-based) of pageSize donors matching c, sorted by
// name. Total counts all matching donors. Store failures come back as
// *DataAccessError.
func (g *Gateway) FetchPage(ctx context.Context, page, pageSize int, c Criteria) (*Page, error) {
	if page < 1 || pageSize < 1 || page-1 > (math.MaxInt-pageSize+1)/pageSize {
		return nil, ErrInvalidPage
	}

	bg, district := c.Constraints()
	if d, ok := model.CanonicalDistrict(district); ok {
		district = d
	}
	q := RangeQuery{
		From:       (page - 1) * pageSize,
		To:         page*pageSize - 1,
		BloodGroup: model.NormalizeBloodGroup(bg),
		District:   district,
	}

	start := time.Now()
	rows, total, err := g.source.QueryDonors(ctx, q)
	if g.observer != nil {
		g.observer.ObserveFetch(start, err)
	}
	if err != nil {
		var dae *DataAccessError
		if errors.As(err, &dae) {
			return nil, dae
		}
		return nil, &DataAccessError{Op: "fetching donors", Message: err.Error(), Err: err}
	}

	return &Page{
		Items:    NormalizeAll(rows),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
