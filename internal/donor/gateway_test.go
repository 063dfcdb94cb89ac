package donor_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/donor/mocks"
)

// sliceSource serves a fixed, name-ordered row set.
type sliceSource struct {
	rows []donor.Row
}

func (s *sliceSource) QueryDonors(_ context.Context, q donor.RangeQuery) ([]donor.Row, int, error) {
	var matched []donor.Row
	for _, r := range s.rows {
		if q.BloodGroup != "" && (r.BloodGroup == nil || *r.BloodGroup != q.BloodGroup) {
			continue
		}
		if q.District != "" && (r.District == nil || *r.District != q.District) {
			continue
		}
		matched = append(matched, r)
	}

	if q.From >= len(matched) {
		return []donor.Row{}, len(matched), nil
	}
	to := min(q.To+1, len(matched))
	return matched[q.From:to], len(matched), nil
}

func makeRows(n int, group string) []donor.Row {
	rows := make([]donor.Row, n)
	for i := range rows {
		name := fmt.Sprintf("Donor %03d", i)
		g := group
		rows[i] = donor.Row{ID: fmt.Sprint(i), Name: &name, BloodGroup: &g}
	}
	return rows
}

func TestFetchPagePagination(t *testing.T) {
	src := &sliceSource{rows: append(makeRows(45, "O+"), makeRows(7, "A-")...)}
	gw := donor.NewGateway(src)
	ctx := context.Background()
	c := donor.Criteria{BloodGroup: "o+", District: "all"}

	tests := []struct {
		page  int
		items int
		from  int
		to    int
	}{
		{1, 20, 1, 20},
		{2, 20, 21, 40},
		{3, 5, 41, 45},
		{4, 0, 0, 45},
	}

	for _, tt := range tests {
		p, err := gw.FetchPage(ctx, tt.page, 20, c)
		require.NoError(t, err)
		assert.Len(t, p.Items, tt.items, "page %d", tt.page)
		assert.Equal(t, 45, p.Total, "page %d", tt.page)
		assert.Equal(t, 3, p.TotalPages())
		assert.Equal(t, tt.from, p.From(), "page %d from", tt.page)
		assert.Equal(t, tt.to, p.To(), "page %d to", tt.page)
	}
}

func TestFetchPageRangeQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)

	name := " Anu "
	group := "o+"
	src.EXPECT().
		QueryDonors(gomock.Any(), donor.RangeQuery{From: 20, To: 29, BloodGroup: "O+", District: "Kollam"}).
		Return([]donor.Row{{ID: "1", Name: &name, BloodGroup: &group}}, 21, nil)

	p, err := donor.NewGateway(src).FetchPage(context.Background(), 3, 10, donor.Criteria{BloodGroup: "o+", District: "Kollam"})
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Anu", p.Items[0].Name)
	assert.Equal(t, "O+", p.Items[0].BloodGroup)
	assert.Equal(t, 21, p.Total)
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrev())
}

func TestFetchPageAllSentinelSendsNoFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)

	src.EXPECT().
		QueryDonors(gomock.Any(), donor.RangeQuery{From: 0, To: 11}).
		Return(nil, 0, nil)

	p, err := donor.NewGateway(src).FetchPage(context.Background(), 1, 12, donor.Criteria{BloodGroup: "all", District: "all"})
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.TotalPages())
	assert.Equal(t, 0, p.From())
	assert.False(t, p.HasNext())
}

func TestFetchPageInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := donor.NewGateway(mocks.NewMockSource(ctrl))

	for _, tc := range [][2]int{{0, 10}, {1, 0}, {-1, -1}} {
		_, err := gw.FetchPage(context.Background(), tc[0], tc[1], donor.Criteria{})
		assert.ErrorIs(t, err, donor.ErrInvalidPage)
	}
}

func TestFetchPageRejectsWindowOverflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	gw := donor.NewGateway(src)

	last := (math.MaxInt-20+1)/20 + 1
	src.EXPECT().
		QueryDonors(gomock.Any(), donor.RangeQuery{From: (last - 1) * 20, To: last*20 - 1}).
		Return(nil, 3, nil)

	p, err := gw.FetchPage(context.Background(), last, 20, donor.Criteria{})
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.Positive(t, p.From())

	for _, page := range []int{last + 1, math.MaxInt64/20 + 2, math.MaxInt} {
		_, err := gw.FetchPage(context.Background(), page, 20, donor.Criteria{})
		assert.ErrorIs(t, err, donor.ErrInvalidPage, "page %d", page)
	}

	_, err = gw.FetchPage(context.Background(), 2, math.MaxInt, donor.Criteria{})
	assert.ErrorIs(t, err, donor.ErrInvalidPage)
}

func TestFetchPageCanonicalizesDistrict(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)

	src.EXPECT().
		QueryDonors(gomock.Any(), donor.RangeQuery{From: 0, To: 9, District: "Ernakulam"}).
		Return(nil, 0, nil)
	src.EXPECT().
		QueryDonors(gomock.Any(), donor.RangeQuery{From: 0, To: 9, District: "Atlantis"}).
		Return(nil, 0, nil)

	gw := donor.NewGateway(src)
	_, err := gw.FetchPage(context.Background(), 1, 10, donor.Criteria{District: " ernakulam "})
	require.NoError(t, err)
	_, err = gw.FetchPage(context.Background(), 1, 10, donor.Criteria{District: "Atlantis"})
	require.NoError(t, err)
}

type recordingObserver struct {
	calls int
	err   error
}

func (o *recordingObserver) ObserveFetch(_ time.Time, err error) {
	o.calls++
	o.err = err
}

func TestFetchPageCollaboratorFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	cause := errors.New(`relation "donors" does not exist`)
	src.EXPECT().QueryDonors(gomock.Any(), gomock.Any()).Return(nil, 0, cause)

	obs := &recordingObserver{}
	_, err := donor.NewGateway(src, donor.WithObserver(obs)).FetchPage(context.Background(), 1, 20, donor.Criteria{})
	require.Error(t, err)

	var dae *donor.DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.Equal(t, `relation "donors" does not exist`, dae.Message)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, obs.calls)
	assert.Equal(t, cause, obs.err)
}

func TestFetchPageKeepsTypedCollaboratorError(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	typed := &donor.DataAccessError{Op: "querying supabase", Message: "JWT expired"}
	src.EXPECT().QueryDonors(gomock.Any(), gomock.Any()).Return(nil, 0, typed)

	_, err := donor.NewGateway(src).FetchPage(context.Background(), 1, 20, donor.Criteria{})

	var dae *donor.DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.Same(t, typed, dae)
	assert.Equal(t, "querying supabase: JWT expired", err.Error())
}
