package normalise

import (
	"fmt"
	"sync"
	"time"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

// CanonicalZone is the default IANA timezone every fragment timestamp
// is normalised to before IDs are derived or files are written.
// SetZone overrides it from configuration.
const CanonicalZone = "America/Los_Angeles"

var (
	zoneMu  sync.RWMutex
	zoneLoc *time.Location
)

// Zone returns the active target *time.Location: the configured zone
// when SetZone has been called, otherwise CanonicalZone. Falls back to
// UTC if the platform timezone database is missing the zone.
func Zone() *time.Location {
	zoneMu.RLock()
	loc := zoneLoc
	zoneMu.RUnlock()
	if loc != nil {
		return loc
	}

	loc, err := time.LoadLocation(CanonicalZone)
	if err != nil {
		loc = time.UTC
	}
	zoneMu.Lock()
	zoneLoc = loc
	zoneMu.Unlock()
	return loc
}

// SetZone overrides the target timezone for all subsequent
// normalisation. Called once at startup with the configured zone.
func SetZone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, name)
	}
	zoneMu.Lock()
	zoneLoc = loc
	zoneMu.Unlock()
	return nil
}

// ValidateZone reports whether name is a valid IANA timezone.
func ValidateZone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, name)
	}
	return nil
}

// offsetLayouts carry their own zone information.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
}

// naiveLayouts are interpreted in the source timezone, tried in this
// fixed order with first match winning.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// Timestamp parses value against the accepted layouts and converts the
// result to the canonical zone. Naive values (no offset) are interpreted
// in sourceTZ, or UTC when sourceTZ is empty. An unrecognised value
// returns an error wrapping domain.ErrTimestampParse.
func Timestamp(value, sourceTZ string) (time.Time, error) {
	src := time.UTC
	if sourceTZ != "" {
		loc, err := time.LoadLocation(sourceTZ)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, sourceTZ)
		}
		src = loc
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.In(Zone()), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, src); err == nil {
			return t.In(Zone()), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrTimestampParse, value)
}

// FromEpoch converts a Unix timestamp (seconds, fractional allowed)
// into the canonical zone.
func FromEpoch(seconds float64) time.Time {
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).In(Zone())
}
