package tools

import (
	"fmt"
	"math"
	"strings"

	sc "github.com/joshsymonds/sheetsmcp/internal/sheets"
)

func requireString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%w: missing required parameter %q", sc.ErrInvalidInput, key)
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %q must be a non-empty string", sc.ErrInvalidInput, key)
	}
	return strings.TrimSpace(s), nil
}

func inputMode(args map[string]any) (sc.InputMode, error) {
	raw, ok := args["input_mode"]
	if !ok || raw == nil {
		return sc.InputUserEntered, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: input_mode must be a string", sc.ErrInvalidInput)
	}
	if s == "" {
		return sc.InputUserEntered, nil
	}
	mode := sc.InputMode(strings.ToUpper(s))
	if !mode.Valid() {
		return "", fmt.Errorf("%w: unknown input_mode %q", sc.ErrInvalidInput, s)
	}
	return mode, nil
}

func sheetID(args map[string]any) (sc.SheetID, error) {
	raw, ok := args["sheet_id"]
	if !ok || raw == nil {
		return sc.DefaultSheet, nil
	}
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	default:
		return 0, fmt.Errorf("%w: sheet_id must be a number", sc.ErrInvalidInput)
	}
	if n < 0 || n > math.MaxInt32 || n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: sheet_id must be an integer between 0 and %d", sc.ErrInvalidInput, math.MaxInt32)
	}
	return sc.SheetID(n), nil
}

// pairItems splits every entry of the array under key into its range and
// payload. Entries are either [range, payload] or {"range": ..., field: ...}.
func pairItems(args map[string]any, key, field string) ([]string, []any, error) {
	raw, ok := args[key]
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing required parameter %q", sc.ErrInvalidInput, key)
	}
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil, nil, fmt.Errorf("%w: %q must be a non-empty array", sc.ErrInvalidInput, key)
	}
	ranges := make([]string, len(items))
	payloads := make([]any, len(items))
	for i, item := range items {
		var rng, payload any
		switch v := item.(type) {
		case []any:
			if len(v) != 2 {
				return nil, nil, fmt.Errorf("%w: %s[%d] must have exactly two elements", sc.ErrInvalidInput, key, i)
			}
			rng, payload = v[0], v[1]
		case map[string]any:
			rng, payload = v["range"], v[field]
		default:
			return nil, nil, fmt.Errorf("%w: %s[%d] must be a pair or an object", sc.ErrInvalidInput, key, i)
		}
		s, ok := rng.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, nil, fmt.Errorf("%w: %s[%d] has no range", sc.ErrInvalidInput, key, i)
		}
		ranges[i] = strings.TrimSpace(s)
		payloads[i] = payload
	}
	return ranges, payloads, nil
}

func valuePairs(args map[string]any) ([]sc.RangeValuePair, error) {
	ranges, payloads, err := pairItems(args, "ranges_and_values", "values")
	if err != nil {
		return nil, err
	}
	pairs := make([]sc.RangeValuePair, len(ranges))
	for i, rng := range ranges {
		grid, err := toGrid(payloads[i])
		if err != nil {
			return nil, fmt.Errorf("ranges_and_values[%d]: %w", i, err)
		}
		pairs[i] = sc.RangeValuePair{Range: rng, Values: grid}
	}
	return pairs, nil
}

func toGrid(raw any) ([][]any, error) {
	rows, ok := raw.([]any)
	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("%w: values must be a non-empty array of rows", sc.ErrInvalidInput)
	}
	grid := make([][]any, len(rows))
	for r, row := range rows {
		cells, ok := row.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: row %d is not an array", sc.ErrInvalidInput, r)
		}
		grid[r] = cells
	}
	return grid, nil
}

// colorPairs also resolves ranges and colors up front so a bad entry never
// reaches the network.
func colorPairs(args map[string]any) ([]sc.RangeColorPair, error) {
	ranges, payloads, err := pairItems(args, "ranges_and_colors", "color")
	if err != nil {
		return nil, err
	}
	pairs := make([]sc.RangeColorPair, len(ranges))
	for i, rng := range ranges {
		color, ok := payloads[i].(string)
		if !ok {
			return nil, fmt.Errorf("%w: ranges_and_colors[%d] color must be a string", sc.ErrInvalidInput, i)
		}
		if _, err := sc.ParseRange(rng); err != nil {
			return nil, fmt.Errorf("ranges_and_colors[%d]: %w", i, err)
		}
		if _, err := sc.ParseColor(color); err != nil {
			return nil, fmt.Errorf("ranges_and_colors[%d]: %w", i, err)
		}
		pairs[i] = sc.RangeColorPair{Range: rng, Color: color}
	}
	return pairs, nil
}
