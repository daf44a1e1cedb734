package tools

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
)

const (
	listSentinel   = "Unable to get spreadsheets"
	createSentinel = "Unable to create spreadsheet"
	copySentinel   = "Unable to copy spreadsheet"
	editSentinel   = "Unable to edit spreadsheet"
	fillSentinel   = "Unable to fill spreadsheet"

	noSpreadsheets = "No spreadsheets found"
	listSeparator  = "\n---\n"
)

// GetSpreadsheets lists every spreadsheet the account can see.
type GetSpreadsheets struct{ Catalog Catalog }

func (t *GetSpreadsheets) Definition() mcp.Tool {
	return mcp.NewTool(
		"get_spreadsheets",
		mcp.WithDescription("List the Google Sheets spreadsheets visible to the signed-in account as \"name: id\" entries."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

func (t *GetSpreadsheets) Execute(ctx context.Context, logger *slog.Logger, args map[string]any) (*mcp.CallToolResult, error) {
	_ = args
	files, err := t.Catalog.List(ctx)
	if err != nil {
		return failed(ctx, logger, "get_spreadsheets", listSentinel, err)
	}
	return mcp.NewToolResultText(FormatListing(files)), nil
}

// FormatListing renders files the way get_spreadsheets reports them.
func FormatListing(files []sc.File) string {
	if len(files) == 0 {
		return noSpreadsheets
	}
	entries := make([]string, len(files))
	for i, f := range files {
		entries[i] = fmt.Sprintf("%s: %s", f.Name, f.ID)
	}
	return strings.Join(entries, listSeparator)
}

// CreateSpreadsheet makes a new empty spreadsheet.
type CreateSpreadsheet struct{ Catalog Catalog }

func (t *CreateSpreadsheet) Definition() mcp.Tool {
	return mcp.NewTool(
		"create_spreadsheet",
		mcp.WithDescription("Create a new, empty Google Sheets spreadsheet and return its ID and URL."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new spreadsheet"),
		),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
	)
}

func (t *CreateSpreadsheet) Execute(ctx context.Context, logger *slog.Logger, args map[string]any) (*mcp.CallToolResult, error) {
	title, err := requireString(args, "title")
	if err != nil {
		return failed(ctx, logger, "create_spreadsheet", createSentinel, err)
	}
	created, err := t.Catalog.Create(ctx, title)
	if err != nil {
		return failed(ctx, logger, "create_spreadsheet", createSentinel, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created spreadsheet %q with ID %s (%s)", created.Title, created.ID, created.URL)), nil
}

// CopySpreadsheet copies every sheet of one spreadsheet into another.
type CopySpreadsheet struct{ Catalog Catalog }

func (t *CopySpreadsheet) Definition() mcp.Tool {
	return mcp.NewTool(
		"copy_spreadsheet",
		mcp.WithDescription("Copy every sheet of the source spreadsheet into the destination spreadsheet as new tabs."),
		mcp.WithString("dest_id",
			mcp.Required(),
			mcp.Description("ID of the spreadsheet receiving the copied sheets"),
		),
		mcp.WithString("src_id",
			mcp.Required(),
			mcp.Description("ID of the spreadsheet whose sheets are copied"),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func (t *CopySpreadsheet) Execute(ctx context.Context, logger *slog.Logger, args map[string]any) (*mcp.CallToolResult, error) {
	dest, err := requireString(args, "dest_id")
	if err != nil {
		return failed(ctx, logger, "copy_spreadsheet", copySentinel, err)
	}
	src, err := requireString(args, "src_id")
	if err != nil {
		return failed(ctx, logger, "copy_spreadsheet", copySentinel, err)
	}
	n, err := t.Catalog.Copy(ctx, sc.SpreadsheetID(dest), sc.SpreadsheetID(src))
	if err != nil {
		return failed(ctx, logger, "copy_spreadsheet", copySentinel, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Copied %d sheet(s) from %s to %s", n, src, dest)), nil
}

// EditSpreadsheet writes grids of values in one batch.
type EditSpreadsheet struct{ Mutator Mutator }

func (t *EditSpreadsheet) Definition() mcp.Tool {
	return mcp.NewTool(
		"edit_spreadsheet",
		mcp.WithDescription("Write values into one or more A1 ranges of a spreadsheet in a single batch. Each entry is {range, values} or [range, values], where values is a list of rows."),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("ID of the spreadsheet to edit"),
		),
		mcp.WithArray("ranges_and_values",
			mcp.Required(),
			mcp.Description("Ranges and the grid of values written to each, e.g. [{\"range\": \"Sheet1!A1:B2\", \"values\": [[1, 2], [3, 4]]}]"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"range":  map[string]any{"type": "string"},
					"values": map[string]any{"type": "array", "items": map[string]any{"type": "array"}},
				},
				"required": []string{"range", "values"},
			}),
		),
		mcp.WithString("input_mode",
			mcp.Description("RAW stores values verbatim; USER_ENTERED parses them as if typed (formulas, dates, numbers)"),
			mcp.Enum(string(sc.InputRaw), string(sc.InputUserEntered)),
			mcp.DefaultString(string(sc.InputUserEntered)),
		),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *EditSpreadsheet) Execute(ctx context.Context, logger *slog.Logger, args map[string]any) (*mcp.CallToolResult, error) {
	id, err := requireString(args, "spreadsheet_id")
	if err != nil {
		return failed(ctx, logger, "edit_spreadsheet", editSentinel, err)
	}
	pairs, err := valuePairs(args)
	if err != nil {
		return failed(ctx, logger, "edit_spreadsheet", editSentinel, err)
	}
	mode, err := inputMode(args)
	if err != nil {
		return failed(ctx, logger, "edit_spreadsheet", editSentinel, err)
	}
	res, err := t.Mutator.UpdateValues(ctx, sc.SpreadsheetID(id), pairs, mode)
	if err != nil {
		return failed(ctx, logger, "edit_spreadsheet", editSentinel, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated %d cells", res.UpdatedCells)), nil
}

// FillSpreadsheet sets background colors in one batch.
type FillSpreadsheet struct{ Mutator Mutator }

func (t *FillSpreadsheet) Definition() mcp.Tool {
	return mcp.NewTool(
		"fill_spreadsheet",
		mcp.WithDescription("Set the background color of every cell in one or more ranges like A1:B2 (single-letter columns, no sheet prefix). Each entry is {range, color} or [range, color] with a hex color such as #FF5733."),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("ID of the spreadsheet to format"),
		),
		mcp.WithArray("ranges_and_colors",
			mcp.Required(),
			mcp.Description("Ranges and hex background colors, e.g. [{\"range\": \"A1:B2\", \"color\": \"#FFFF00\"}]"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"range": map[string]any{"type": "string"},
					"color": map[string]any{"type": "string"},
				},
				"required": []string{"range", "color"},
			}),
		),
		mcp.WithNumber("sheet_id",
			mcp.Description("Numeric ID of the tab to format; the first tab created with a spreadsheet has ID 0"),
			mcp.DefaultNumber(0),
			mcp.Min(0),
			mcp.Max(math.MaxInt32),
		),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *FillSpreadsheet) Execute(ctx context.Context, logger *slog.Logger, args map[string]any) (*mcp.CallToolResult, error) {
	id, err := requireString(args, "spreadsheet_id")
	if err != nil {
		return failed(ctx, logger, "fill_spreadsheet", fillSentinel, err)
	}
	pairs, err := colorPairs(args)
	if err != nil {
		return failed(ctx, logger, "fill_spreadsheet", fillSentinel, err)
	}
	sheet, err := sheetID(args)
	if err != nil {
		return failed(ctx, logger, "fill_spreadsheet", fillSentinel, err)
	}
	res, err := t.Mutator.FillColors(ctx, sc.SpreadsheetID(id), pairs, sheet)
	if err != nil {
		return failed(ctx, logger, "fill_spreadsheet", fillSentinel, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Filled %d cells", res.UpdatedCells)), nil
}
