package types

// TimeClockType represents the kind of a time clock event
type TimeClockType string

const (
	TimeClockIn  TimeClockType = "clock_in"
	TimeClockOut TimeClockType = "clock_out"
)

// IsValid checks if the time clock type is valid
func (t TimeClockType) IsValid() bool {
	switch t {
	case TimeClockIn, TimeClockOut:
		return true
	default:
		return false
	}
}

// String returns the string representation of the time clock type
func (t TimeClockType) String() string {
	return string(t)
}

// WorkTag is a categorical work-mode attribute attached to a day's
// attendance record (e.g. home, office, field, travel).
type WorkTag string

// String returns the string representation of the work tag
func (t WorkTag) String() string {
	return string(t)
}
