package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
)

var errBadContentRange = errors.New("missing or malformed Content-Range header")

// rowID accepts both text and numeric primary keys.
type rowID string

func (id *rowID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = rowID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("donor id: %w", err)
	}
	*id = rowID(n.String())
	return nil
}

type remoteRow struct {
	ID rowID `json:"id"`
	donor.Row
}

func toRows(remote []remoteRow) []donor.Row {
	rows := make([]donor.Row, len(remote))
	for i, r := range remote {
		rows[i] = r.Row
		rows[i].ID = string(r.ID)
	}
	return rows
}

func selectColumns() string {
	return strings.ReplaceAll(donor.Columns, " ", "")
}

func (c *Client) tablePath() string { return "/rest/v1/" + c.table }

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&apiError{})
}

// QueryDonors reads one name-ordered window of the donors table together
// with the exact count of matching rows.
func (c *Client) QueryDonors(ctx context.Context, q donor.RangeQuery) ([]donor.Row, int, error) {
	var remote []remoteRow
	req := c.request(ctx).
		SetQueryParam("select", selectColumns()).
		SetQueryParam("order", "name.asc").
		SetHeader("Range-Unit", "items").
		SetHeader("Range", fmt.Sprintf("%d-%d", q.From, q.To)).
		SetHeader("Prefer", "count=exact").
		SetResult(&remote)
	if q.BloodGroup != "" {
		req.SetQueryParam("blood_group", "eq."+q.BloodGroup)
	}
	if q.District != "" {
		req.SetQueryParam("district", "eq."+q.District)
	}

	resp, err := req.Get(c.tablePath())
	if err != nil {
		return nil, 0, fmt.Errorf("querying donors: %w", err)
	}
	if resp.IsError() {
		return nil, 0, failure("fetching donors", resp)
	}

	total, err := parseContentRange(resp.Header().Get("Content-Range"))
	if err != nil {
		return nil, 0, &donor.DataAccessError{Op: "fetching donors", Message: err.Error(), Err: err}
	}
	return toRows(remote), total, nil
}

// parseContentRange reads the total from "0-19/45" or "*/0".
func parseContentRange(h string) (int, error) {
	_, totalStr, ok := strings.Cut(h, "/")
	if !ok || totalStr == "*" {
		return 0, errBadContentRange
	}
	total, err := strconv.Atoi(totalStr)
	if err != nil || total < 0 {
		return 0, errBadContentRange
	}
	return total, nil
}

// ListDonors returns every donor ordered by name.
func (c *Client) ListDonors(ctx context.Context) ([]model.Donor, error) {
	var remote []remoteRow
	resp, err := c.request(ctx).
		SetQueryParam("select", selectColumns()).
		SetQueryParam("order", "name.asc").
		SetResult(&remote).
		Get(c.tablePath())
	if err != nil {
		return nil, fmt.Errorf("listing donors: %w", err)
	}
	if resp.IsError() {
		return nil, failure("listing donors", resp)
	}
	return donor.NormalizeAll(toRows(remote)), nil
}

// GetDonor returns one donor or donor.ErrNotFound.
func (c *Client) GetDonor(ctx context.Context, id string) (*model.Donor, error) {
	var remote []remoteRow
	resp, err := c.request(ctx).
		SetQueryParam("select", selectColumns()).
		SetQueryParam("id", "eq."+id).
		SetResult(&remote).
		Get(c.tablePath())
	if err != nil {
		return nil, fmt.Errorf("getting donor: %w", err)
	}
	if resp.IsError() {
		return nil, failure("getting donor", resp)
	}
	return single(remote)
}

// CreateDonor inserts a donor and returns the stored representation.
func (c *Client) CreateDonor(ctx context.Context, in donor.Input) (*model.Donor, error) {
	var remote []remoteRow
	resp, err := c.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("select", selectColumns()).
		SetBody(in.Row("")).
		SetResult(&remote).
		Post(c.tablePath())
	if err != nil {
		return nil, fmt.Errorf("creating donor: %w", err)
	}
	if resp.IsError() {
		return nil, failure("creating donor", resp)
	}
	return single(remote)
}

// UpdateDonor replaces a donor's fields.
func (c *Client) UpdateDonor(ctx context.Context, id string, in donor.Input) (*model.Donor, error) {
	var remote []remoteRow
	resp, err := c.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("select", selectColumns()).
		SetQueryParam("id", "eq."+id).
		SetBody(in.Row("")).
		SetResult(&remote).
		Patch(c.tablePath())
	if err != nil {
		return nil, fmt.Errorf("updating donor: %w", err)
	}
	if resp.IsError() {
		return nil, failure("updating donor", resp)
	}
	return single(remote)
}

// DeleteDonor removes a donor permanently.
func (c *Client) DeleteDonor(ctx context.Context, id string) error {
	var remote []remoteRow
	resp, err := c.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("select", "id").
		SetQueryParam("id", "eq."+id).
		SetResult(&remote).
		Delete(c.tablePath())
	if err != nil {
		return fmt.Errorf("deleting donor: %w", err)
	}
	if resp.IsError() {
		return failure("deleting donor", resp)
	}
	if len(remote) == 0 {
		return donor.ErrNotFound
	}
	return nil
}

func single(remote []remoteRow) (*model.Donor, error) {
	if len(remote) == 0 {
		return nil, donor.ErrNotFound
	}
	d := donor.Normalize(toRows(remote[:1])[0])
	return &d, nil
}
