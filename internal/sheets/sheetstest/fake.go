// Package sheetstest provides an in-memory sheets.Client for tests.
package sheetstest

import (
	"context"
	"sync"

	api "google.golang.org/api/sheets/v4"

	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
)

// Copy records one CopySheet call.
type Copy struct {
	Src   sc.SpreadsheetID
	Sheet sc.SheetID
	Dest  sc.SpreadsheetID
}

// Client records every call and answers from its fields. Err* fields, when
// set, fail the matching method.
type Client struct {
	mu sync.Mutex

	Pages       [][]sc.File
	ListTokens  []string
	ListErr     error
	Spreadsheet sc.Spreadsheet
	CreateErr   error
	GetErr      error
	CopyErr     error
	ValuesErr   error
	UpdateErr   error
	// UpdatedCells is returned by BatchUpdateValues; when zero the cells in the request are counted.
	UpdatedCells int64

	Created      []string
	Copies       []Copy
	ValueBatches []*api.BatchUpdateValuesRequest
	FormatBatch  []*api.BatchUpdateSpreadsheetRequest
}

// ListSpreadsheets serves Pages in order, using "page-N" tokens.
func (c *Client) ListSpreadsheets(ctx context.Context, pageToken string, pageSize int) ([]sc.File, string, error) {
	_ = ctx
	_ = pageSize
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ListTokens = append(c.ListTokens, pageToken)
	if c.ListErr != nil {
		return nil, "", c.ListErr
	}
	idx := len(c.ListTokens) - 1
	if idx >= len(c.Pages) {
		return nil, "", nil
	}
	next := ""
	if idx+1 < len(c.Pages) {
		next = pageToken + "+"
	}
	return c.Pages[idx], next, nil
}

func (c *Client) CreateSpreadsheet(ctx context.Context, title string) (sc.Spreadsheet, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Created = append(c.Created, title)
	if c.CreateErr != nil {
		return sc.Spreadsheet{}, c.CreateErr
	}
	out := c.Spreadsheet
	out.Title = title
	return out, nil
}

func (c *Client) GetSpreadsheet(ctx context.Context, id sc.SpreadsheetID) (sc.Spreadsheet, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return sc.Spreadsheet{}, c.GetErr
	}
	out := c.Spreadsheet
	out.ID = id
	return out, nil
}

func (c *Client) CopySheet(ctx context.Context, src sc.SpreadsheetID, sheet sc.SheetID, dest sc.SpreadsheetID) (sc.SheetID, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CopyErr != nil {
		return 0, c.CopyErr
	}
	c.Copies = append(c.Copies, Copy{Src: src, Sheet: sheet, Dest: dest})
	return sc.SheetID(1000 + len(c.Copies)), nil
}

func (c *Client) BatchUpdateValues(ctx context.Context, id sc.SpreadsheetID, req *api.BatchUpdateValuesRequest) (int64, error) {
	_ = ctx
	_ = id
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ValueBatches = append(c.ValueBatches, req)
	if c.ValuesErr != nil {
		return 0, c.ValuesErr
	}
	if c.UpdatedCells != 0 {
		return c.UpdatedCells, nil
	}
	var n int64
	for _, vr := range req.Data {
		for _, row := range vr.Values {
			n += int64(len(row))
		}
	}
	return n, nil
}

func (c *Client) BatchUpdate(ctx context.Context, id sc.SpreadsheetID, req *api.BatchUpdateSpreadsheetRequest) error {
	_ = ctx
	_ = id
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FormatBatch = append(c.FormatBatch, req)
	return c.UpdateErr
}

// NoLimiter never blocks.
type NoLimiter struct{}

func (NoLimiter) Wait(ctx context.Context) error {
	_ = ctx
	return nil
}

var _ sc.Client = (*Client)(nil)
