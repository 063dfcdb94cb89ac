package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, "anon-key")
}

func TestQueryDonorsSendsRangeAndFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/donors", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		assert.Equal(t, "20-39", r.Header.Get("Range"))
		assert.Equal(t, "items", r.Header.Get("Range-Unit"))
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		assert.Equal(t, "eq.O+", r.URL.Query().Get("blood_group"))
		assert.Empty(t, r.URL.Query().Get("district"))
		assert.Equal(t, "name.asc", r.URL.Query().Get("order"))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Range", "20-21/22")
		w.WriteHeader(http.StatusPartialContent)
		io.WriteString(w, `[{"id": 7, "name": " Anu ", "blood_group": "o+", "district": "Kollam"},
			{"id": "b-2", "name": "Biju", "blood_group": "O+", "weight": null}]`)
	})

	rows, total, err := c.QueryDonors(context.Background(), donor.RangeQuery{From: 20, To: 39, BloodGroup: "O+"})
	require.NoError(t, err)
	assert.Equal(t, 22, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "7", rows[0].ID)
	assert.Equal(t, "b-2", rows[1].ID)
	assert.Nil(t, rows[1].Weight)

	d := donor.Normalize(rows[0])
	assert.Equal(t, "Anu", d.Name)
	assert.Equal(t, "O+", d.BloodGroup)
}

func TestQueryDonorsEmptyResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Range", "*/0")
		io.WriteString(w, `[]`)
	})

	rows, total, err := c.QueryDonors(context.Background(), donor.RangeQuery{From: 0, To: 19})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, rows)
}

func TestQueryDonorsPassesErrorMessageThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"code":"42P01","message":"relation \"public.donors\" does not exist","details":null,"hint":null}`)
	})

	_, _, err := c.QueryDonors(context.Background(), donor.RangeQuery{From: 0, To: 19})
	var dae *donor.DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.Equal(t, `relation "public.donors" does not exist`, dae.Message)

	// The gateway keeps the typed error as-is.
	_, err = donor.NewGateway(c).FetchPage(context.Background(), 1, 20, donor.Criteria{})
	require.ErrorAs(t, err, &dae)
	assert.Equal(t, `relation "public.donors" does not exist`, dae.Message)
}

func TestQueryDonorsMissingContentRange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	})

	_, _, err := c.QueryDonors(context.Background(), donor.RangeQuery{From: 0, To: 19})
	var dae *donor.DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.ErrorIs(t, err, errBadContentRange)
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		header  string
		want    int
		wantErr bool
	}{
		{"0-19/45", 45, false},
		{"40-44/45", 45, false},
		{"*/0", 0, false},
		{"0-19/*", 0, true},
		{"", 0, true},
		{"0-19/abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseContentRange(tt.header)
		if tt.wantErr {
			assert.Error(t, err, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestCreateDonorPostsRepresentation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "id")
		assert.Equal(t, "Chitra", body["name"])
		assert.Equal(t, "2024-02-01", body["last_donated"])
		assert.Equal(t, false, body["available_to_donate"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":"new-1","name":"Chitra","blood_group":"B-","district":"Idukki","phone":"9847012345","last_donated":"2024-02-01","available_to_donate":false}]`)
	})

	d, err := c.CreateDonor(context.Background(), donor.Input{
		Name: "Chitra", BloodGroup: "B-", District: "Idukki", Phone: "9847012345",
		LastDonated: "2024-02-01", Availability: model.Override(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "new-1", d.ID)
	assert.Equal(t, "2024-02-01", d.LastDonatedString())
}

func TestMutationsReportNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.missing", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	})
	ctx := context.Background()

	_, err := c.GetDonor(ctx, "missing")
	assert.True(t, errors.Is(err, donor.ErrNotFound))
	_, err = c.UpdateDonor(ctx, "missing", donor.Input{Name: "X"})
	assert.True(t, errors.Is(err, donor.ErrNotFound))
	assert.True(t, errors.Is(c.DeleteDonor(ctx, "missing"), donor.ErrNotFound))
}

func TestUploadPhoto(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		assert.Equal(t, "false", r.Header.Get("x-upsert"))
		assert.Equal(t, "max-age=3600", r.Header.Get("Cache-Control"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "jpeg", string(body))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"Key":"blood-donors/donors/a.jpg"}`)
	})

	url, err := c.Upload(context.Background(), "donors/a.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/blood-donors/donors/a.jpg", gotPath)
	assert.Equal(t, c.baseURL+"/storage/v1/object/public/blood-donors/donors/a.jpg", url)
}

func TestUploadPhotoDuplicate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`)
	})

	_, err := c.Upload(context.Background(), "donors/a.jpg", []byte("jpeg"), "image/jpeg")
	var dae *donor.DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.Equal(t, "The resource already exists", dae.Message)
}

func TestWithBucket(t *testing.T) {
	c := New("https://project.supabase.co/", "key", WithBucket("photos"))
	assert.Equal(t, "https://project.supabase.co/storage/v1/object/public/photos/donors/x.jpg", c.PublicURL("donors/x.jpg"))
}
