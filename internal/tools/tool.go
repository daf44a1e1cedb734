// Package tools exposes the spreadsheet operations as MCP tools. Every tool
// answers with text: a summary on success or a fixed "Unable to ..." sentinel.
package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
)

// Tool is implemented by every operation registered with the MCP server.
type Tool interface {
	// Definition returns the tool's definition for MCP registration
	Definition() mcp.Tool

	// Execute runs the tool with the already-decoded arguments
	Execute(ctx context.Context, logger *slog.Logger, args map[string]any) (*mcp.CallToolResult, error)
}

// Catalog is the spreadsheet-level surface the tools drive.
type Catalog interface {
	List(ctx context.Context) ([]sc.File, error)
	Create(ctx context.Context, title string) (sc.Spreadsheet, error)
	Copy(ctx context.Context, dest, src sc.SpreadsheetID) (int, error)
}

// Mutator submits value and formatting batches.
type Mutator interface {
	UpdateValues(ctx context.Context, id sc.SpreadsheetID, pairs []sc.RangeValuePair, mode sc.InputMode) (sc.Result, error)
	FillColors(ctx context.Context, id sc.SpreadsheetID, pairs []sc.RangeColorPair, sheet sc.SheetID) (sc.Result, error)
}

// failed logs err and answers with the tool's sentinel.
func failed(ctx context.Context, logger *slog.Logger, tool, sentinel string, err error) (*mcp.CallToolResult, error) {
	logger.ErrorContext(ctx, "tool failed", "tool", tool, "error", err)
	return mcp.NewToolResultText(sentinel), nil
}

// Spreadsheets returns the full tool set backed by catalog and mutator.
func Spreadsheets(catalog Catalog, mutator Mutator) []Tool {
	return []Tool{
		&GetSpreadsheets{Catalog: catalog},
		&CreateSpreadsheet{Catalog: catalog},
		&CopySpreadsheet{Catalog: catalog},
		&EditSpreadsheet{Mutator: mutator},
		&FillSpreadsheet{Mutator: mutator},
	}
}
