package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Backend timestamps arrive either zoned (RFC 3339) or naive in UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// DisplayLayout matches the pt-BR short date and time the pages show.
const DisplayLayout = "02/01/2006 15:04"

// Time decodes the backend's timestamp variants.
type Time struct {
	time.Time
}

// ParseTime parses any of the accepted backend layouts.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time{t}, nil
		}
	}
	return Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Time{}
		return nil
	}
	parsed, err := ParseTime(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// Display formats the timestamp for pages, or "" when unset.
func (t Time) Display() string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DisplayLayout)
}
