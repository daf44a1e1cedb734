package sheets

import (
	"encoding/hex"
	"fmt"
	"strings"

	api "google.golang.org/api/sheets/v4"
)

const hexColorLen = 6

// ParseColor converts "#RRGGBB" or "RRGGBB" into channel intensities in [0, 1].
func ParseColor(s string) (Color, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != hexColorLen {
		return Color{}, fmt.Errorf("%w: %q: want 6 hex digits", ErrColorParse, s)
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrColorParse, s, err)
	}
	return Color{
		Red:   float64(raw[0]) / 255.0,
		Green: float64(raw[1]) / 255.0,
		Blue:  float64(raw[2]) / 255.0,
	}, nil
}

// APIColor returns c in the Sheets API representation.
func (c Color) APIColor() *api.Color {
	// zero channels are dropped by omitempty otherwise, which the API reads as unset
	return &api.Color{
		Red:             c.Red,
		Green:           c.Green,
		Blue:            c.Blue,
		ForceSendFields: []string{"Red", "Green", "Blue"},
	}
}
