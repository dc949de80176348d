package radar

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the compact UTC form the nowcast feed publishes (YYYYMMDDhhmmss).
const TimestampLayout = "20060102150405"

// Timestamp is a feed time value. It keeps the verbatim feed string so tile URLs
// can be rebuilt byte-for-byte from what the feed published.
type Timestamp struct {
	t   time.Time
	raw string
}

// ParseTimestamp parses a feed timestamp. The result is always UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid feed timestamp %q: %w", s, err)
	}
	return Timestamp{t: t, raw: s}, nil
}

// NewTimestamp builds a Timestamp from a time value, truncated to whole seconds.
func NewTimestamp(t time.Time) Timestamp {
	t = t.UTC().Truncate(time.Second)
	return Timestamp{t: t, raw: t.Format(TimestampLayout)}
}

// Time returns the parsed instant.
func (ts Timestamp) Time() time.Time { return ts.t }

// IsZero reports whether ts was never set.
func (ts Timestamp) IsZero() bool { return ts.raw == "" }

func (ts Timestamp) String() string { return ts.raw }

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.raw)
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Snapshot is one published radar frame. ValidTime is the moment it depicts,
// BaseTime the nowcast run that produced it.
type Snapshot struct {
	BaseTime  Timestamp `json:"basetime"`
	ValidTime Timestamp `json:"validtime"`
}

// Feed is the snapshot list in published order. It is not assumed to be sorted.
type Feed []Snapshot

// SourceDescriptor is the declarative raster source handed to the host map.
type SourceDescriptor struct {
	Type        string   `json:"type"`
	Tiles       []string `json:"tiles"`
	MaxZoom     int      `json:"maxzoom"`
	Attribution string   `json:"attribution"`
}

// LayerDescriptor is the declarative raster layer handed to the host map.
// ID and Source are left empty by DescribeLayer and filled in on registration.
type LayerDescriptor struct {
	ID     string         `json:"id,omitempty"`
	Type   string         `json:"type"`
	Source string         `json:"source,omitempty"`
	Paint  map[string]any `json:"paint"`
	Layout map[string]any `json:"layout,omitempty"`
}

// Selection is the result of one resolution. It is recomputed on every request.
type Selection struct {
	Snapshot        Snapshot         `json:"snapshot"`
	TileURLTemplate string           `json:"tileUrlTemplate"`
	Source          SourceDescriptor `json:"source"`
	Layer           LayerDescriptor  `json:"layer"`
	ResolvedAt      time.Time        `json:"resolvedAt"`
}
