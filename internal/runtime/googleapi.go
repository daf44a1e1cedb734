// internal/runtime/googleapi.go — adapts the Sheets and Drive services to our small interface
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/joshsymonds/sheetsmcp/internal/session"
	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
)

const spreadsheetQuery = "mimeType='" + sc.SpreadsheetMimeType + "' and trashed=false"

// SessionSource hands out the authenticated session the services are built on.
type SessionSource interface {
	Session(ctx context.Context) (*session.Session, error)
	Reset()
}

// googleClient builds its services lazily, so the process can start before
// the user has authorized it.
type googleClient struct {
	sessions   SessionSource
	sheetsOpts []option.ClientOption
	driveOpts  []option.ClientOption

	mu     sync.Mutex
	owner  *session.Session
	sheets *sheets.Service
	drive  *drive.Service
}

func NewGoogleAPIClient(sessions SessionSource) *googleClient {
	return &googleClient{sessions: sessions}
}

func (g *googleClient) services(ctx context.Context) (*sheets.Service, *drive.Service, error) {
	s, err := g.sessions.Session(ctx)
	if err != nil {
		return nil, nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.owner == s {
		return g.sheets, g.drive, nil
	}
	sheetsSvc, err := sheets.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(s.HTTPClient)}, g.sheetsOpts...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("create sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(s.HTTPClient)}, g.driveOpts...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("create drive service: %w", err)
	}
	g.owner, g.sheets, g.drive = s, sheetsSvc, driveSvc
	return sheetsSvc, driveSvc, nil
}

// remote classifies a failed call. A token endpoint rejection means the cached
// session is dead, so it is dropped and the next call re-runs authorization.
func (g *googleClient) remote(op string, err error) error {
	if err == nil {
		return nil
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		g.sessions.Reset()
	}
	return sc.NewRemoteError(op, err)
}

func (g *googleClient) ListSpreadsheets(ctx context.Context, pageToken string, pageSize int) ([]sc.File, string, error) {
	_, driveSvc, err := g.services(ctx)
	if err != nil {
		return nil, "", err
	}
	call := driveSvc.Files.List().
		Q(spreadsheetQuery).
		Fields("nextPageToken, files(id, name)").
		PageSize(int64(pageSize))
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, "", g.remote("list spreadsheets", err)
	}
	files := make([]sc.File, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, sc.File{ID: sc.SpreadsheetID(f.Id), Name: f.Name})
	}
	return files, res.NextPageToken, nil
}

func (g *googleClient) CreateSpreadsheet(ctx context.Context, title string) (sc.Spreadsheet, error) {
	sheetsSvc, _, err := g.services(ctx)
	if err != nil {
		return sc.Spreadsheet{}, err
	}
	created, err := sheetsSvc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return sc.Spreadsheet{}, g.remote(fmt.Sprintf("create spreadsheet %q", title), err)
	}
	return toSpreadsheet(created), nil
}

func (g *googleClient) GetSpreadsheet(ctx context.Context, id sc.SpreadsheetID) (sc.Spreadsheet, error) {
	sheetsSvc, _, err := g.services(ctx)
	if err != nil {
		return sc.Spreadsheet{}, err
	}
	got, err := sheetsSvc.Spreadsheets.Get(string(id)).
		Fields("spreadsheetId,spreadsheetUrl,properties.title,sheets.properties.sheetId").
		Context(ctx).Do()
	if err != nil {
		return sc.Spreadsheet{}, g.remote(fmt.Sprintf("get spreadsheet %s", id), err)
	}
	return toSpreadsheet(got), nil
}

func (g *googleClient) CopySheet(ctx context.Context, src sc.SpreadsheetID, sheet sc.SheetID, dest sc.SpreadsheetID) (sc.SheetID, error) {
	sheetsSvc, _, err := g.services(ctx)
	if err != nil {
		return 0, err
	}
	props, err := sheetsSvc.Spreadsheets.Sheets.CopyTo(string(src), int64(sheet), &sheets.CopySheetToAnotherSpreadsheetRequest{
		DestinationSpreadsheetId: string(dest),
	}).Context(ctx).Do()
	if err != nil {
		return 0, g.remote(fmt.Sprintf("copy sheet %d of %s", sheet, src), err)
	}
	return sc.SheetID(props.SheetId), nil
}

func (g *googleClient) BatchUpdateValues(ctx context.Context, id sc.SpreadsheetID, req *sheets.BatchUpdateValuesRequest) (int64, error) {
	sheetsSvc, _, err := g.services(ctx)
	if err != nil {
		return 0, err
	}
	res, err := sheetsSvc.Spreadsheets.Values.BatchUpdate(string(id), req).Context(ctx).Do()
	if err != nil {
		return 0, g.remote("batch update values", err)
	}
	return res.TotalUpdatedCells, nil
}

func (g *googleClient) BatchUpdate(ctx context.Context, id sc.SpreadsheetID, req *sheets.BatchUpdateSpreadsheetRequest) error {
	sheetsSvc, _, err := g.services(ctx)
	if err != nil {
		return err
	}
	if _, err := sheetsSvc.Spreadsheets.BatchUpdate(string(id), req).Context(ctx).Do(); err != nil {
		return g.remote("batch update spreadsheet", err)
	}
	return nil
}

func toSpreadsheet(s *sheets.Spreadsheet) sc.Spreadsheet {
	out := sc.Spreadsheet{ID: sc.SpreadsheetID(s.SpreadsheetId), URL: s.SpreadsheetUrl}
	if s.Properties != nil {
		out.Title = s.Properties.Title
	}
	for _, sh := range s.Sheets {
		if sh.Properties != nil {
			out.Sheets = append(out.Sheets, sc.SheetID(sh.Properties.SheetId))
		}
	}
	return out
}

var _ sc.Client = (*googleClient)(nil)
