package freee

import (
	"context"
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrEmployeeNotFound is returned when the directory search yields no match
var ErrEmployeeNotFound = goerr.New("employee not found")

// Service provides interface to the freee HR API
type Service interface {
	// AuthorizeURL constructs the user authorization URL for the OAuth
	// code grant. The state carries the Slack user ID so the callback
	// can key the token record.
	AuthorizeURL(state string) string

	// ExchangeCode exchanges an authorization code for a token set
	ExchangeCode(ctx context.Context, code string) (*TokenResponse, error)

	// RefreshToken exchanges a refresh token for a new token set
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)

	// GetEmployeeByEmail searches the employee directory by email and
	// returns the first match, or ErrEmployeeNotFound.
	GetEmployeeByEmail(ctx context.Context, accessToken, email string) (*Employee, error)

	// PostTimeClock posts one timestamped clock-in/clock-out event.
	// Duplicate submissions create duplicate events upstream.
	PostTimeClock(ctx context.Context, accessToken string, employeeID types.EmployeeID, clockType types.TimeClockType, at time.Time) error

	// GetWorkRecord fetches the work record of the given day
	GetWorkRecord(ctx context.Context, accessToken string, employeeID types.EmployeeID, date time.Time) (*WorkRecord, error)

	// UpdateWorkRecordTags overwrites the tag list of the day's work
	// record (read side is GetWorkRecord; there is no optimistic
	// concurrency check, so concurrent writers can lose updates).
	UpdateWorkRecordTags(ctx context.Context, accessToken string, employeeID types.EmployeeID, date time.Time, tags []types.WorkTag) error

	// ListLeaveTypes fetches the work record templates filtered to
	// category "leave"
	ListLeaveTypes(ctx context.Context, accessToken string) ([]LeaveType, error)

	// UpdateLeaveRecord marks one calendar day as leave of the given type
	UpdateLeaveRecord(ctx context.Context, accessToken string, employeeID types.EmployeeID, date time.Time, leaveTypeID types.LeaveTypeID, reason string) error
}

// TokenResponse is the token endpoint response for both the
// authorization-code and refresh-token grants
type TokenResponse struct {
	AccessToken  string `json:"access_token" masq:"secret"`
	RefreshToken string `json:"refresh_token" masq:"secret"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
}

// Employee is one entry of the employee directory
type Employee struct {
	ID          types.EmployeeID `json:"id"`
	Num         string           `json:"num"`
	DisplayName string           `json:"display_name"`
	Email       string           `json:"email"`
}

// WorkRecord is the attendance record of a single day
type WorkRecord struct {
	Date     string   `json:"date"`
	ClockIn  string   `json:"clock_in_at"`
	ClockOut string   `json:"clock_out_at"`
	Tags     []string `json:"tags"`
}

// LeaveType is a work record template of category "leave"
type LeaveType struct {
	ID   types.LeaveTypeID `json:"id"`
	Name string            `json:"name"`
}
