package radar

import "time"

// DefaultWindow is how far back a snapshot may lie and still count as current.
const DefaultWindow = 10 * time.Minute

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// Resolve returns the first snapshot in feed order whose valid time lies in
// (now-window, now]. It does not sort and does not look for the closest match.
// A non-positive window falls back to DefaultWindow.
func Resolve(feed Feed, now time.Time, window time.Duration) (Snapshot, bool) {
	if window <= 0 {
		window = DefaultWindow
	}
	from := now.Add(-window)

	for _, s := range feed {
		vt := s.ValidTime.Time()
		if vt.After(from) && !vt.After(now) {
			return s, true
		}
	}
	return Snapshot{}, false
}
