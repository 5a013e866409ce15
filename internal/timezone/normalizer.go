// Package timezone converts between wall-clock input in named IANA zones and
// absolute UTC instants. It is the single place the timezone database is
// consulted; callers hold a Normalizer instead of loading locations ad hoc.
package timezone

import (
	"errors"
	"fmt"
	"time"
)

// Wall-clock layouts accepted from clients. The short form is what an HTML
// datetime-local input submits.
const (
	layoutMinutes = "2006-01-02T15:04"
	layoutSeconds = "2006-01-02T15:04:05"
)

var (
	// ErrInvalidTimezone signals an unrecognized IANA zone name.
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrInvalidDateTime signals a malformed wall-clock value.
	ErrInvalidDateTime = errors.New("invalid date/time")
)

// Normalizer resolves named zones against the process timezone database.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

// Local is a wall-clock projection of an instant into one zone. It carries no
// offset; it is only meaningful together with Zone.
type Local struct {
	Date string // 2006-01-02
	Time string // 15:04 or 15:04:05
	Zone string
}

// Input renders the value the way a datetime-local form field would submit it.
func (l Local) Input() string {
	return l.Date + "T" + l.Time
}

// ToInstant interprets a wall-clock value as occurring in the named zone and
// returns the corresponding UTC instant.
//
// Ambiguous wall clocks during a DST fall-back resolve to the earlier offset
// and nonexistent spring-forward values roll onto the adjusted clock; both
// follow Go's time package resolution and are deterministic for a given
// timezone database.
func (n *Normalizer) ToInstant(local, zone string) (time.Time, error) {
	loc, err := n.location(zone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseWallClock(local, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ToLocal projects an instant into the named zone. Seconds are included only
// when the instant carries them, so minute-precision input round-trips
// byte-for-byte.
func (n *Normalizer) ToLocal(instant time.Time, zone string) (Local, error) {
	loc, err := n.location(zone)
	if err != nil {
		return Local{}, err
	}
	t := instant.In(loc)
	layout := layoutMinutes
	if t.Second() != 0 || t.Nanosecond() != 0 {
		layout = layoutSeconds
	}
	s := t.Format(layout)
	return Local{Date: s[:10], Time: s[11:], Zone: zone}, nil
}

// Reinterpret treats the same wall-clock fields as if they had been entered in
// fromZone and re-projects them into toZone. Used when a client switches the
// zone selector under an already-typed time. It is exactly ToInstant followed
// by ToLocal; no extra state.
func (n *Normalizer) Reinterpret(local, fromZone, toZone string) (Local, error) {
	instant, err := n.ToInstant(local, fromZone)
	if err != nil {
		return Local{}, err
	}
	return n.ToLocal(instant, toZone)
}

func (n *Normalizer) location(zone string) (*time.Location, error) {
	if zone == "" {
		return nil, fmt.Errorf("%w: empty zone name", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, zone)
	}
	return loc, nil
}

func parseWallClock(local string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{layoutSeconds, layoutMinutes} {
		if t, err := time.ParseInLocation(layout, local, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, local)
}
