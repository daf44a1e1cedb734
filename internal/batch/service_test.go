package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
	"github.com/joshsymonds/sheetsmcp/internal/sheets/sheetstest"
)

type countingLimiter struct {
	waits int
	err   error
}

func (c *countingLimiter) Wait(ctx context.Context) error {
	_ = ctx
	c.waits++
	return c.err
}

func TestUpdateValuesSingleCall(t *testing.T) {
	fake := &sheetstest.Client{}
	limiter := &countingLimiter{}
	svc := NewService(fake, limiter, slogDiscard())

	pairs := []sc.RangeValuePair{
		{Range: "A1:B2", Values: [][]any{{1, 2}, {3, 4}}},
		{Range: "C1", Values: [][]any{{"x"}}},
	}
	res, err := svc.UpdateValues(context.Background(), "sheet-1", pairs, sc.InputRaw)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if res.UpdatedCells != 5 {
		t.Fatalf("expected 5 updated cells, got %d", res.UpdatedCells)
	}
	if len(fake.ValueBatches) != 1 {
		t.Fatalf("expected exactly one batch call, got %d", len(fake.ValueBatches))
	}
	if got := fake.ValueBatches[0].ValueInputOption; got != "RAW" {
		t.Fatalf("unexpected input option %q", got)
	}
	if limiter.waits != 1 {
		t.Fatalf("expected one limiter wait, got %d", limiter.waits)
	}
}

func TestUpdateValuesReportsRemoteCount(t *testing.T) {
	fake := &sheetstest.Client{UpdatedCells: 42}
	svc := NewService(fake, nil, nil)
	res, err := svc.UpdateValues(context.Background(), "s", []sc.RangeValuePair{{Range: "A1", Values: [][]any{{1}}}}, sc.InputUserEntered)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if res.UpdatedCells != 42 {
		t.Fatalf("expected remote count 42, got %d", res.UpdatedCells)
	}
}

func TestUpdateValuesRemoteError(t *testing.T) {
	upstream := sc.NewRemoteError("batch update values", errors.New("boom"))
	fake := &sheetstest.Client{ValuesErr: upstream}
	svc := NewService(fake, sheetstest.NoLimiter{}, slogDiscard())

	_, err := svc.UpdateValues(context.Background(), "s", []sc.RangeValuePair{{Range: "A1", Values: [][]any{{1}}}}, sc.InputRaw)
	var re *sc.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if len(fake.ValueBatches) != 1 {
		t.Fatalf("remote failures are not retried; got %d calls", len(fake.ValueBatches))
	}
}

func TestInvalidInputMakesNoCall(t *testing.T) {
	fake := &sheetstest.Client{}
	limiter := &countingLimiter{}
	svc := NewService(fake, limiter, slogDiscard())

	if _, err := svc.UpdateValues(context.Background(), "", []sc.RangeValuePair{{Range: "A1", Values: [][]any{{1}}}}, sc.InputRaw); !errors.Is(err, sc.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty id, got %v", err)
	}
	if _, err := svc.FillColors(context.Background(), "s", []sc.RangeColorPair{{Range: "A1:B2", Color: "#ZZZZZZ"}}, sc.DefaultSheet); !errors.Is(err, sc.ErrColorParse) {
		t.Fatalf("expected ErrColorParse, got %v", err)
	}
	if _, err := svc.FillColors(context.Background(), "s", []sc.RangeColorPair{{Range: "A1B2", Color: "#FFFFFF"}}, sc.DefaultSheet); !errors.Is(err, sc.ErrRangeParse) {
		t.Fatalf("expected ErrRangeParse, got %v", err)
	}
	if len(fake.ValueBatches)+len(fake.FormatBatch) != 0 || limiter.waits != 0 {
		t.Fatalf("no network call should happen for invalid input")
	}
}

func TestFillColors(t *testing.T) {
	fake := &sheetstest.Client{}
	svc := NewService(fake, sheetstest.NoLimiter{}, slogDiscard())

	res, err := svc.FillColors(context.Background(), "s", []sc.RangeColorPair{
		{Range: "A1:B2", Color: "#FFFFFF"},
		{Range: "C3:C5", Color: "#000000"},
	}, sc.DefaultSheet)
	if err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	if res.UpdatedCells != 7 {
		t.Fatalf("expected 7 cells, got %d", res.UpdatedCells)
	}
	if len(fake.FormatBatch) != 1 || len(fake.FormatBatch[0].Requests) != 2 {
		t.Fatalf("expected one batch with two requests, got %+v", fake.FormatBatch)
	}
}

func TestFillColorsRemoteError(t *testing.T) {
	fake := &sheetstest.Client{UpdateErr: sc.NewRemoteError("batch update spreadsheet", errors.New("quota"))}
	svc := NewService(fake, sheetstest.NoLimiter{}, slogDiscard())
	_, err := svc.FillColors(context.Background(), "s", []sc.RangeColorPair{{Range: "A1:A1", Color: "#FFFFFF"}}, sc.DefaultSheet)
	var re *sc.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
}

func TestLimiterCancellationStopsCall(t *testing.T) {
	fake := &sheetstest.Client{}
	limiter := &countingLimiter{err: context.Canceled}
	svc := NewService(fake, limiter, slogDiscard())
	_, err := svc.FillColors(context.Background(), "s", []sc.RangeColorPair{{Range: "A1:A1", Color: "#FFFFFF"}}, sc.DefaultSheet)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(fake.FormatBatch) != 0 {
		t.Fatalf("call should not be made after limiter failure")
	}
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
