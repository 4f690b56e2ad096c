package types

import "github.com/m-mizutani/goerr/v2"

// SlackUserID is the chat platform's stable user ID. It is the primary key
// for linking a Slack user to the HR provider's OAuth tokens.
type SlackUserID string

// String returns the string representation of the Slack user ID
func (x SlackUserID) String() string {
	return string(x)
}

// Validate checks if the Slack user ID is valid
func (x SlackUserID) Validate() error {
	if x == "" {
		return goerr.New("slack user ID is empty")
	}
	return nil
}

// EmployeeID is the HR provider's employee identifier
type EmployeeID int64

// LeaveTypeID identifies a leave template on the HR provider side
type LeaveTypeID int64
