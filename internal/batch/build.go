package batch

import (
	"fmt"
	"slices"
	"strings"

	api "google.golang.org/api/sheets/v4"

	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
)

// backgroundField is the field mask for formatting updates; other formatting is left alone.
const backgroundField = "userEnteredFormat.backgroundColor"

// maxFormatCells bounds the dense grid materialized for one formatting batch.
const maxFormatCells = 100_000

// BuildValues assembles one values batch. Ranges are passed through unchanged
// since the values endpoint understands A1 notation, including sheet prefixes.
func BuildValues(pairs []sc.RangeValuePair, mode sc.InputMode) (*api.BatchUpdateValuesRequest, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no ranges given", sc.ErrInvalidInput)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown input mode %q", sc.ErrInvalidInput, mode)
	}
	data := make([]*api.ValueRange, 0, len(pairs))
	for i, p := range pairs {
		if strings.TrimSpace(p.Range) == "" {
			return nil, fmt.Errorf("%w: pair %d has an empty range", sc.ErrInvalidInput, i)
		}
		if len(p.Values) == 0 {
			return nil, fmt.Errorf("%w: pair %d (%s) has no rows", sc.ErrInvalidInput, i, p.Range)
		}
		grid := make([][]any, len(p.Values))
		for r, row := range p.Values {
			grid[r] = slices.Clone(row)
		}
		data = append(data, &api.ValueRange{Range: p.Range, Values: grid})
	}
	return &api.BatchUpdateValuesRequest{
		ValueInputOption: string(mode),
		Data:             data,
	}, nil
}

// BuildFormat assembles one formatting batch against sheet. Every cell of each
// range gets its own format record; the returned count is the number of cells covered.
func BuildFormat(pairs []sc.RangeColorPair, sheet sc.SheetID) (*api.BatchUpdateSpreadsheetRequest, int64, error) {
	if len(pairs) == 0 {
		return nil, 0, fmt.Errorf("%w: no ranges given", sc.ErrInvalidInput)
	}
	type resolved struct {
		rect  sc.Rect
		color sc.Color
	}
	// resolve everything first so a bad pair rejects the whole batch
	items := make([]resolved, 0, len(pairs))
	var total int64
	for i, p := range pairs {
		rect, err := sc.ParseRange(p.Range)
		if err != nil {
			return nil, 0, fmt.Errorf("pair %d: %w", i, err)
		}
		color, err := sc.ParseColor(p.Color)
		if err != nil {
			return nil, 0, fmt.Errorf("pair %d: %w", i, err)
		}
		// compare before multiplying so huge rectangles cannot wrap
		if rect.Cols() <= 0 || rect.Rows() > (maxFormatCells-total)/rect.Cols() {
			return nil, 0, fmt.Errorf("%w: batch covers more than %d cells", sc.ErrInvalidInput, maxFormatCells)
		}
		total += rect.Cells()
		items = append(items, resolved{rect: rect, color: color})
	}

	requests := make([]*api.Request, 0, len(items))
	for _, it := range items {
		requests = append(requests, &api.Request{UpdateCells: &api.UpdateCellsRequest{
			Range:  gridRange(sheet, it.rect),
			Rows:   denseRows(it.rect, it.color),
			Fields: backgroundField,
		}})
	}
	return &api.BatchUpdateSpreadsheetRequest{Requests: requests}, total, nil
}

func gridRange(sheet sc.SheetID, r sc.Rect) *api.GridRange {
	return &api.GridRange{
		SheetId:          int64(sheet),
		StartRowIndex:    r.StartRow,
		EndRowIndex:      r.EndRow,
		StartColumnIndex: r.StartCol,
		EndColumnIndex:   r.EndCol,
		// zero indexes are meaningful here; omitempty would turn them into unbounded ranges
		ForceSendFields: []string{"SheetId", "StartRowIndex", "EndRowIndex", "StartColumnIndex", "EndColumnIndex"},
	}
}

func denseRows(r sc.Rect, c sc.Color) []*api.RowData {
	rows := make([]*api.RowData, r.Rows())
	for i := range rows {
		cells := make([]*api.CellData, r.Cols())
		for j := range cells {
			cells[j] = &api.CellData{UserEnteredFormat: &api.CellFormat{BackgroundColor: c.APIColor()}}
		}
		rows[i] = &api.RowData{Values: cells}
	}
	return rows
}
