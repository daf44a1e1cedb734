// internal/batch/service.go
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/joshsymonds/sheetsmcp/internal/rate"
	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
)

// Service submits value and formatting batches. Each operation is one remote
// call; the remote side applies or rejects the whole batch and nothing is retried.
type Service struct {
	Client  sc.Client
	Limiter rate.Limiter
	Logger  *slog.Logger
}

// NewService constructs a Service with sane defaults.
func NewService(client sc.Client, limiter rate.Limiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{Client: client, Limiter: limiter, Logger: logger}
}

// UpdateValues writes every grid in pairs in a single values batch.
func (s *Service) UpdateValues(
	ctx context.Context,
	id sc.SpreadsheetID,
	pairs []sc.RangeValuePair,
	mode sc.InputMode,
) (sc.Result, error) {
	if err := id.Validate(); err != nil {
		return sc.Result{}, err
	}
	req, err := BuildValues(pairs, mode)
	if err != nil {
		return sc.Result{}, err
	}
	if err := rate.Wait(ctx, s.Limiter); err != nil {
		return sc.Result{}, err
	}
	n, err := s.Client.BatchUpdateValues(ctx, id, req)
	if err != nil {
		return sc.Result{}, fmt.Errorf("update values in %s: %w", id, err)
	}
	s.Logger.InfoContext(ctx, "values updated",
		"spreadsheet", id, "ranges", len(pairs), "mode", mode, "cells", n)
	return sc.Result{UpdatedCells: n}, nil
}

// FillColors sets the background of every cell in each range in a single
// formatting batch against sheet.
func (s *Service) FillColors(
	ctx context.Context,
	id sc.SpreadsheetID,
	pairs []sc.RangeColorPair,
	sheet sc.SheetID,
) (sc.Result, error) {
	if err := id.Validate(); err != nil {
		return sc.Result{}, err
	}
	req, cells, err := BuildFormat(pairs, sheet)
	if err != nil {
		return sc.Result{}, err
	}
	if err := rate.Wait(ctx, s.Limiter); err != nil {
		return sc.Result{}, err
	}
	if err := s.Client.BatchUpdate(ctx, id, req); err != nil {
		return sc.Result{}, fmt.Errorf("fill colors in %s: %w", id, err)
	}
	s.Logger.InfoContext(ctx, "background filled",
		"spreadsheet", id, "sheet", sheet, "ranges", len(pairs), "cells", cells)
	return sc.Result{UpdatedCells: cells}, nil
}
