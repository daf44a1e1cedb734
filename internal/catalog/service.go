// internal/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joshsymonds/sheetsmcp/internal/rate"
	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
)

// DefaultPageSize is the Drive listing page size used when none is configured.
const DefaultPageSize = 100

// maxPages stops a listing whose page tokens never run out.
const maxPages = 1000

// Service lists, creates and copies spreadsheets.
type Service struct {
	Client   sc.Client
	Limiter  rate.Limiter
	Logger   *slog.Logger
	PageSize int
}

// NewService constructs a Service with sane defaults.
func NewService(client sc.Client, limiter rate.Limiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{Client: client, Limiter: limiter, Logger: logger, PageSize: DefaultPageSize}
}

// List returns every spreadsheet visible to the account, following pagination
// to the end. Order is whatever the remote service returns.
func (s *Service) List(ctx context.Context) ([]sc.File, error) {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	var all []sc.File
	token := ""
	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("list spreadsheets: gave up after %d pages", maxPages)
		}
		if err := rate.Wait(ctx, s.Limiter); err != nil {
			return nil, err
		}
		files, next, err := s.Client.ListSpreadsheets(ctx, token, size)
		if err != nil {
			return nil, fmt.Errorf("list spreadsheets: %w", err)
		}
		all = append(all, files...)
		if next == "" {
			break
		}
		token = next
	}
	s.Logger.DebugContext(ctx, "spreadsheets listed", "count", len(all))
	return all, nil
}

// Create makes a new empty spreadsheet titled title.
func (s *Service) Create(ctx context.Context, title string) (sc.Spreadsheet, error) {
	if strings.TrimSpace(title) == "" {
		return sc.Spreadsheet{}, fmt.Errorf("%w: title is empty", sc.ErrInvalidInput)
	}
	if err := rate.Wait(ctx, s.Limiter); err != nil {
		return sc.Spreadsheet{}, err
	}
	created, err := s.Client.CreateSpreadsheet(ctx, title)
	if err != nil {
		return sc.Spreadsheet{}, fmt.Errorf("create spreadsheet %q: %w", title, err)
	}
	s.Logger.InfoContext(ctx, "spreadsheet created", "id", created.ID, "title", created.Title)
	return created, nil
}

// Copy copies every sheet of src into dest, in src order, and returns how many
// were copied. A failure part way leaves the sheets already copied in place.
func (s *Service) Copy(ctx context.Context, dest, src sc.SpreadsheetID) (int, error) {
	if err := src.Validate(); err != nil {
		return 0, err
	}
	if err := dest.Validate(); err != nil {
		return 0, err
	}
	if err := rate.Wait(ctx, s.Limiter); err != nil {
		return 0, err
	}
	meta, err := s.Client.GetSpreadsheet(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet %s: %w", src, err)
	}
	copied := 0
	for _, sheet := range meta.Sheets {
		if err := rate.Wait(ctx, s.Limiter); err != nil {
			return copied, err
		}
		newID, err := s.Client.CopySheet(ctx, src, sheet, dest)
		if err != nil {
			return copied, fmt.Errorf("copy sheet %d of %s to %s: %w", sheet, src, dest, err)
		}
		copied++
		s.Logger.DebugContext(ctx, "sheet copied", "src", src, "sheet", sheet, "dest", dest, "new_sheet", newID)
	}
	s.Logger.InfoContext(ctx, "spreadsheet copied", "src", src, "dest", dest, "sheets", copied)
	return copied, nil
}
