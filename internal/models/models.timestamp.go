// FilePath: internal/models/models.timestamp.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Output layouts. Sub-second digits are only written when present.
const (
	timestampLayout       = "2006-01-02T15:04:05"
	timestampLayoutMicros = "2006-01-02T15:04:05.000000"
)

// Accepted ISO-8601 input layouts. Fractional seconds are accepted by
// time.Parse after the seconds field even when the layout omits them.
var timestampInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Timestamp is a naive-UTC point in time as stored in processed_agent_data.
// It marshals to ISO-8601 without an offset and scans from either a driver
// time value or its textual form.
type Timestamp struct {
	time.Time
}

// NewTimestamp normalises t to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp accepts a structured time value as-is or parses an
// ISO-8601 string. Any other input is rejected.
func ParseTimestamp(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("timestamp is null")
		}
		return *v, nil
	case Timestamp:
		return v.Time, nil
	case string:
		return parseISO8601(v)
	case []byte:
		return parseISO8601(string(v))
	case nil:
		return time.Time{}, fmt.Errorf("timestamp is null")
	default:
		return time.Time{}, fmt.Errorf("fromisoformat: argument must be str, not %T", value)
	}
}

func parseISO8601(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid isoformat string: %q", s)
}

// String renders the timestamp the way it appears on the wire.
func (t Timestamp) String() string {
	u := t.Time.UTC()
	if u.Nanosecond()/1000 == 0 {
		return u.Format(timestampLayout)
	}
	return u.Format(timestampLayoutMicros)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be an ISO-8601 string: %w", err)
	}
	parsed, err := parseISO8601(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Value implements the driver.Valuer interface
func (t Timestamp) Value() (driver.Value, error) {
	return t.Time.UTC(), nil
}

// Scan implements the sql.Scanner interface
func (t *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		// Naive columns come back in an unnamed zone; read the wall clock.
		t.Time = time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), time.UTC)
		if _, offset := v.Zone(); offset != 0 {
			t.Time = v.UTC()
		}
		return nil
	case string, []byte:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", value)
	}
}
