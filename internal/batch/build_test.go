package batch

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
)

func TestBuildFormatDenseGrid(t *testing.T) {
	req, cells, err := BuildFormat([]sc.RangeColorPair{{Range: "A1:B2", Color: "#FFFFFF"}}, sc.DefaultSheet)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cells != 4 {
		t.Fatalf("expected 4 cells, got %d", cells)
	}
	if len(req.Requests) != 1 {
		t.Fatalf("expected one request, got %d", len(req.Requests))
	}

	update := req.Requests[0].UpdateCells
	if update == nil {
		t.Fatalf("expected an updateCells request")
	}
	if update.Fields != "userEnteredFormat.backgroundColor" {
		t.Fatalf("unexpected field mask %q", update.Fields)
	}
	rng := update.Range
	if rng.SheetId != 0 || rng.StartRowIndex != 0 || rng.EndRowIndex != 2 || rng.StartColumnIndex != 0 || rng.EndColumnIndex != 2 {
		t.Fatalf("unexpected grid range %+v", rng)
	}

	fragments := 0
	if len(update.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(update.Rows))
	}
	for r, row := range update.Rows {
		if len(row.Values) != 2 {
			t.Fatalf("row %d: expected 2 cells, got %d", r, len(row.Values))
		}
		for _, cell := range row.Values {
			fragments++
			bg := cell.UserEnteredFormat.BackgroundColor
			if bg.Red != 1 || bg.Green != 1 || bg.Blue != 1 {
				t.Fatalf("row %d: unexpected color %+v", r, bg)
			}
		}
	}
	if fragments != 4 {
		t.Fatalf("expected 4 fragments, got %d", fragments)
	}
}

func TestBuildFormatSendsZeroIndexes(t *testing.T) {
	req, _, err := BuildFormat([]sc.RangeColorPair{{Range: "A1:A1", Color: "000000"}}, sc.DefaultSheet)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var body struct {
		Requests []struct {
			UpdateCells struct {
				Range map[string]any `json:"range"`
				Rows  []struct {
					Values []struct {
						UserEnteredFormat struct {
							BackgroundColor map[string]any `json:"backgroundColor"`
						} `json:"userEnteredFormat"`
					} `json:"values"`
				} `json:"rows"`
			} `json:"updateCells"`
		} `json:"requests"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	rng := body.Requests[0].UpdateCells.Range
	for _, key := range []string{"sheetId", "startRowIndex", "startColumnIndex"} {
		if _, ok := rng[key]; !ok {
			t.Fatalf("range %s missing %q", raw, key)
		}
	}
	bg := body.Requests[0].UpdateCells.Rows[0].Values[0].UserEnteredFormat.BackgroundColor
	for _, key := range []string{"red", "green", "blue"} {
		if _, ok := bg[key]; !ok {
			t.Fatalf("color %s missing %q", raw, key)
		}
	}
}

func TestBuildFormatMultiplePairsAndSheet(t *testing.T) {
	pairs := []sc.RangeColorPair{
		{Range: "A1:C1", Color: "#FF0000"},
		{Range: "B2:B4", Color: "00FF00"},
	}
	req, cells, err := BuildFormat(pairs, sc.SheetID(77))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cells != 6 {
		t.Fatalf("expected 6 cells, got %d", cells)
	}
	if len(req.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(req.Requests))
	}
	if got := req.Requests[0].UpdateCells.Range.SheetId; got != 77 {
		t.Fatalf("expected sheet 77, got %d", got)
	}

	second := req.Requests[1].UpdateCells
	if len(second.Rows) != 3 || len(second.Rows[0].Values) != 1 {
		t.Fatalf("expected a 3x1 grid, got %d rows", len(second.Rows))
	}
	bg := second.Rows[0].Values[0].UserEnteredFormat.BackgroundColor
	if bg.Green != 1 || bg.Red != 0 {
		t.Fatalf("unexpected color %+v", bg)
	}
}

func TestBuildFormatRejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name  string
		pairs []sc.RangeColorPair
		want  error
	}{
		{name: "empty", pairs: nil, want: sc.ErrInvalidInput},
		{name: "bad-range", pairs: []sc.RangeColorPair{{Range: "A1:B2", Color: "#FFFFFF"}, {Range: "A1", Color: "#FFFFFF"}}, want: sc.ErrRangeParse},
		{name: "bad-color", pairs: []sc.RangeColorPair{{Range: "A1:B2", Color: "#FFF"}}, want: sc.ErrColorParse},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			req, _, err := BuildFormat(tc.pairs, sc.DefaultSheet)
			if req != nil {
				t.Fatalf("no request should be built on error")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildFormatCellCap(t *testing.T) {
	tests := []struct {
		name  string
		pairs []sc.RangeColorPair
		want  error
	}{
		{
			name:  "single-oversized",
			pairs: []sc.RangeColorPair{{Range: "A1:Z5000", Color: "#FFFFFF"}},
			want:  sc.ErrInvalidInput,
		},
		{
			name: "sum-crosses-cap",
			pairs: []sc.RangeColorPair{
				{Range: "A1:Z2000", Color: "#FFFFFF"},
				{Range: "A2001:Z3000", Color: "#000000"},
				{Range: "A3001:Z4000", Color: "#FF0000"},
				{Range: "A4001:Z4001", Color: "#00FF00"},
			},
			want: sc.ErrInvalidInput,
		},
		{
			name:  "largest-allowed-rows",
			pairs: []sc.RangeColorPair{{Range: "A1:Z10000000", Color: "#FFFFFF"}},
			want:  sc.ErrInvalidInput,
		},
		{
			name:  "row-overflow",
			pairs: []sc.RangeColorPair{{Range: "A1:Z9223372036854775807", Color: "#FFFFFF"}},
			want:  sc.ErrRangeParse,
		},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			req, cells, err := BuildFormat(tc.pairs, sc.DefaultSheet)
			if req != nil || cells != 0 {
				t.Fatalf("no request should be built, got %d cells", cells)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildFormatAtCap(t *testing.T) {
	// 26 columns x 3846 rows = 99,996 cells, plus a 4-cell range lands exactly on the cap
	pairs := []sc.RangeColorPair{
		{Range: "A1:Z3846", Color: "#FFFFFF"},
		{Range: "A3847:D3847", Color: "#000000"},
	}
	_, cells, err := BuildFormat(pairs, sc.DefaultSheet)
	if err != nil {
		t.Fatalf("a batch at the cap should build: %v", err)
	}
	if cells != maxFormatCells {
		t.Fatalf("expected %d cells, got %d", maxFormatCells, cells)
	}
}

func TestBuildValues(t *testing.T) {
	pairs := []sc.RangeValuePair{
		{Range: "Sheet1!A1:B2", Values: [][]any{{"a", 1}, {"b", 2}}},
		{Range: "D4", Values: [][]any{{"=SUM(1,2)"}}},
	}
	req, err := BuildValues(pairs, sc.InputUserEntered)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if req.ValueInputOption != "USER_ENTERED" {
		t.Fatalf("unexpected input option %q", req.ValueInputOption)
	}
	if len(req.Data) != 2 {
		t.Fatalf("expected 2 value ranges, got %d", len(req.Data))
	}
	if req.Data[0].Range != "Sheet1!A1:B2" || req.Data[1].Range != "D4" {
		t.Fatalf("ranges should pass through unchanged: %q %q", req.Data[0].Range, req.Data[1].Range)
	}
	if !reflect.DeepEqual(req.Data[0].Values, [][]any{{"a", 1}, {"b", 2}}) {
		t.Fatalf("unexpected grid %v", req.Data[0].Values)
	}
}

func TestBuildValuesIdempotent(t *testing.T) {
	pairs := []sc.RangeValuePair{{Range: "A1:B1", Values: [][]any{{"x", 3.5}}}}
	first, err := BuildValues(pairs, sc.InputRaw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, err := BuildValues(pairs, sc.InputRaw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("requests differ: %+v vs %+v", first, second)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("bodies differ:\n%s\n%s", a, b)
	}
}

func TestBuildValuesDoesNotAliasInput(t *testing.T) {
	grid := [][]any{{"before"}}
	req, err := BuildValues([]sc.RangeValuePair{{Range: "A1", Values: grid}}, sc.InputRaw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	grid[0][0] = "after"
	if got := req.Data[0].Values[0][0]; got != "before" {
		t.Fatalf("request aliases caller grid: %v", got)
	}
}

func TestBuildValuesErrors(t *testing.T) {
	tests := []struct {
		name  string
		pairs []sc.RangeValuePair
		mode  sc.InputMode
	}{
		{name: "no-pairs", pairs: nil, mode: sc.InputRaw},
		{name: "bad-mode", pairs: []sc.RangeValuePair{{Range: "A1", Values: [][]any{{1}}}}, mode: "FORMATTED"},
		{name: "blank-range", pairs: []sc.RangeValuePair{{Range: " ", Values: [][]any{{1}}}}, mode: sc.InputRaw},
		{name: "no-rows", pairs: []sc.RangeValuePair{{Range: "A1"}}, mode: sc.InputRaw},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildValues(tc.pairs, tc.mode); !errors.Is(err, sc.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
