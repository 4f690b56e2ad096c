package model

import (
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// DateLayout is the civil date format used for HR and calendar APIs
const DateLayout = "2006-01-02"

// LeaveRequest represents one leave application: a type, an inclusive date
// range and an optional reason. It is transient and fanned out into one
// work-record update per calendar day.
type LeaveRequest struct {
	TypeID   types.LeaveTypeID
	TypeName string
	Start    time.Time
	End      time.Time
	Reason   string
}

// Validate checks the request before any upstream call is made
func (r *LeaveRequest) Validate() error {
	if r.TypeID == 0 {
		return goerr.New("leave type is required")
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return goerr.New("leave date range is incomplete")
	}
	if r.End.Before(r.Start) {
		return goerr.New("leave end date is before start date",
			goerr.V("start", r.Start.Format(DateLayout)),
			goerr.V("end", r.End.Format(DateLayout)))
	}
	return nil
}

// Days returns every calendar day from Start to End inclusive
func (r *LeaveRequest) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
