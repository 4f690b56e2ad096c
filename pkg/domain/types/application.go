package types

// ApplicationType represents the kind of an application started from the
// /applications command.
type ApplicationType string

const (
	ApplicationLeave    ApplicationType = "leave"
	ApplicationOvertime ApplicationType = "overtime"
	ApplicationShift    ApplicationType = "shift_change"
)

// AllApplicationTypes returns all application types offered in the
// type-selection modal. Only leave is wired to the HR provider today.
func AllApplicationTypes() []ApplicationType {
	return []ApplicationType{
		ApplicationLeave,
		ApplicationOvertime,
		ApplicationShift,
	}
}

// IsValid checks if the application type is valid
func (t ApplicationType) IsValid() bool {
	switch t {
	case ApplicationLeave, ApplicationOvertime, ApplicationShift:
		return true
	default:
		return false
	}
}

// Label returns the human readable label used in Slack select options
func (t ApplicationType) Label() string {
	switch t {
	case ApplicationLeave:
		return "Leave request"
	case ApplicationOvertime:
		return "Overtime request"
	case ApplicationShift:
		return "Shift change request"
	default:
		return string(t)
	}
}

// String returns the string representation of the application type
func (t ApplicationType) String() string {
	return string(t)
}
