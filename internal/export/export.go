// Package export writes the donor directory as a spreadsheet.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
)

// SheetName is the worksheet holding the donors.
const SheetName = "Donors"

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Headers are the column titles, in order.
var Headers = []string{
	"Name", "Blood Group", "District", "Phone", "Weight (kg)",
	"Last Donated", "Available", "Next Eligible",
}

var columnWidths = []float64{28, 12, 20, 16, 12, 14, 10, 14}

// Donors writes an .xlsx workbook with one row per donor. Availability is
// evaluated against today under policy p.
func Donors(w io.Writer, donors []model.Donor, p donor.Policy, today time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#B71C1C"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("writing header %s: %w", cell, err)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, columnWidths[i]); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, d := range donors {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &[]any{
			d.Name,
			d.BloodGroup,
			d.District,
			d.Phone,
			weightCell(d.Weight),
			d.LastDonatedString(),
			yesNo(p.IsAvailable(d, today)),
			p.NextEligibleDate(d, today),
		}); err != nil {
			return fmt.Errorf("writing donor row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func weightCell(w *float64) any {
	if w == nil {
		return ""
	}
	return *w
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
