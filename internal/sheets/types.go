// internal/sheets/types.go
package sheets

import (
	"fmt"
	"strings"
)

// SpreadsheetID identifies a spreadsheet in Drive.
type SpreadsheetID string

// Validate rejects an empty id before it reaches the network.
func (id SpreadsheetID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: spreadsheet id is empty", ErrInvalidInput)
	}
	return nil
}

// SheetID identifies a single tab inside a spreadsheet.
type SheetID int64

// DefaultSheet is the tab the formatting path targets unless told otherwise.
const DefaultSheet SheetID = 0

// SpreadsheetMimeType is the Drive MIME type of native spreadsheets.
const SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// File is a Drive entry returned by the spreadsheet listing.
type File struct {
	ID   SpreadsheetID
	Name string
}

// Spreadsheet is the subset of spreadsheet metadata the tools report.
type Spreadsheet struct {
	ID     SpreadsheetID
	Title  string
	URL    string
	Sheets []SheetID
}

// Rect is a 0-indexed cell rectangle. Start bounds are inclusive, end bounds exclusive.
type Rect struct {
	StartRow int64
	EndRow   int64
	StartCol int64
	EndCol   int64
}

// Rows reports the number of rows covered by r.
func (r Rect) Rows() int64 { return r.EndRow - r.StartRow }

// Cols reports the number of columns covered by r.
func (r Rect) Cols() int64 { return r.EndCol - r.StartCol }

// Cells reports the number of cells covered by r.
func (r Rect) Cells() int64 { return r.Rows() * r.Cols() }

// Color is an RGB triple with channels in [0, 1].
type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

// InputMode controls how the remote service interprets written values.
type InputMode string

const (
	// InputRaw stores values verbatim.
	InputRaw InputMode = "RAW"
	// InputUserEntered parses values as if typed into the UI (formulas, dates, numbers).
	InputUserEntered InputMode = "USER_ENTERED"
)

// Valid reports whether m is one of the known modes.
func (m InputMode) Valid() bool {
	return m == InputRaw || m == InputUserEntered
}

// RangeValuePair is one values-path update: an A1 range and the grid written there.
// Range is passed through to the remote service unchanged.
type RangeValuePair struct {
	Range  string
	Values [][]any
}

// RangeColorPair is one formatting-path update: an A1 range and a hex background color.
type RangeColorPair struct {
	Range string
	Color string
}

// Result summarizes a submitted batch.
type Result struct {
	UpdatedCells int64
}
