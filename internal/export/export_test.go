package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
)

func TestDonorsWorkbook(t *testing.T) {
	w := 58.5
	donated := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	donors := []model.Donor{
		{Name: "Anu", BloodGroup: "O+", District: "Kollam", Phone: "9847012345", Weight: &w, LastDonated: &donated},
		{Name: "Biju", BloodGroup: "AB-", District: "Wayanad", Phone: "9000000000"},
	}
	today := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, Donors(&buf, donors, donor.DefaultPolicy, today))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetName, f.GetSheetName(0))
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{"Anu", "O+", "Kollam", "9847012345", "58.5", "2024-02-01", "No", "2024-03-28"}, rows[1])
	// Trailing empty cells are dropped by GetRows.
	assert.Equal(t, []string{"Biju", "AB-", "Wayanad", "9000000000", "", "", "Yes"}, rows[2])
}

func TestDonorsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Donors(&buf, nil, donor.DefaultPolicy, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
