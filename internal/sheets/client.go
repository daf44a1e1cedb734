package sheets

import (
	"context"

	api "google.golang.org/api/sheets/v4"
)

// Client is the narrow Sheets/Drive surface required by sheetsmcp.
type Client interface {
	ListSpreadsheets(ctx context.Context, pageToken string, pageSize int) ([]File, string, error)
	CreateSpreadsheet(ctx context.Context, title string) (Spreadsheet, error)
	GetSpreadsheet(ctx context.Context, id SpreadsheetID) (Spreadsheet, error)
	CopySheet(ctx context.Context, src SpreadsheetID, sheet SheetID, dest SpreadsheetID) (SheetID, error)
	BatchUpdateValues(ctx context.Context, id SpreadsheetID, req *api.BatchUpdateValuesRequest) (int64, error)
	BatchUpdate(ctx context.Context, id SpreadsheetID, req *api.BatchUpdateSpreadsheetRequest) error
}
