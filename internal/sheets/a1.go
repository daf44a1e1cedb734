package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxRow is the largest row number accepted; the remote grid never holds more
// than ten million cells.
const MaxRow = 10_000_000

// ParseRange converts an "A1:B2" range into a Rect.
//
// The start corner becomes 0-indexed and inclusive. The end row is kept as
// written, which makes it the exclusive 0-indexed bound, and the end column is
// bumped by one for the same reason. Only single-letter columns are accepted.
func ParseRange(s string) (Rect, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Rect{}, fmt.Errorf("%w: %q: want exactly one ':'", ErrRangeParse, s)
	}
	startCol, startRow, err := parseCell(parts[0])
	if err != nil {
		return Rect{}, fmt.Errorf("%w: %q: start: %v", ErrRangeParse, s, err)
	}
	endCol, endRow, err := parseCell(parts[1])
	if err != nil {
		return Rect{}, fmt.Errorf("%w: %q: end: %v", ErrRangeParse, s, err)
	}
	if startRow > endRow || startCol > endCol {
		return Rect{}, fmt.Errorf("%w: %q: start is after end", ErrRangeParse, s)
	}
	return Rect{
		StartRow: startRow - 1,
		EndRow:   endRow,
		StartCol: startCol,
		EndCol:   endCol + 1,
	}, nil
}

// parseCell splits "B7" into column index 1 and row number 7.
func parseCell(cell string) (int64, int64, error) {
	i := 0
	for i < len(cell) && isLetter(cell[i]) {
		i++
	}
	letters, digits := cell[:i], cell[i:]
	if letters == "" {
		return 0, 0, fmt.Errorf("cell %q has no column letter", cell)
	}
	if len(letters) > 1 {
		return 0, 0, fmt.Errorf("cell %q: multi-letter columns are not supported", cell)
	}
	if digits == "" {
		return 0, 0, fmt.Errorf("cell %q has no row number", cell)
	}
	row, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || row < 1 || digits[0] == '+' {
		return 0, 0, fmt.Errorf("cell %q has a bad row number", cell)
	}
	if row > MaxRow {
		return 0, 0, fmt.Errorf("cell %q: row is past %d", cell, MaxRow)
	}
	return ColumnIndex(letters[0]), row, nil
}

// ColumnIndex maps a column letter to its 0-indexed column (A=0 … Z=25).
// Lowercase letters are treated as uppercase.
func ColumnIndex(letter byte) int64 {
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	return int64(letter - 'A')
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
