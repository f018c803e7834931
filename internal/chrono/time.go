package chrono

import (
	"time"
)

// LoadLocation resolves an IANA timezone name, an empty name or "Local" is
// the system timezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	// Now returns the current time in the clock's location.
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct {
	loc *time.Location
}

// NewStandardTime is the constructor of StandardTime, a nil location is time.Local.
func NewStandardTime(loc *time.Location) StandardTime {
	if loc == nil {
		loc = time.Local
	}
	return StandardTime{loc: loc}
}

func (s StandardTime) Now() time.Time {
	return time.Now().In(s.loc)
}

// FixedTime always returns the same instant.
type FixedTime struct {
	T time.Time
}

func (f FixedTime) Now() time.Time {
	return f.T
}
