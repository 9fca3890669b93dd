package entry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ParseTime accepts RFC3339 with or without fractional seconds.
func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Timestamp is persisted as an RFC3339 string with nanoseconds. Numeric epoch
// milliseconds are accepted on read.
type Timestamp struct {
	time.Time
}

// At wraps t.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", FormatTime(t.Time))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		t.Time = time.Time{}
	case float64:
		t.Time = time.UnixMilli(int64(v))
	case string:
		if v == "" {
			t.Time = time.Time{}
			return nil
		}
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms)
			return nil
		}
		parsed, err := ParseTime(v)
		if err != nil {
			return err
		}
		t.Time = parsed
	default:
		return fmt.Errorf("timestamp: unsupported value %s", string(b))
	}
	return nil
}

func (t Timestamp) String() string {
	return FormatTime(t.Time)
}

func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}
