package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/service/freee"
	slacksvc "github.com/kintai-dev/workstamper/pkg/service/slack"
)

var errNotReady = goerr.New("upstream not ready")

// fakeFreee implements freee.Service with overridable behavior per method
// and counters for assertions.
type fakeFreee struct {
	exchangeCodeFn   func(code string) (*freee.TokenResponse, error)
	refreshTokenFn   func(refreshToken string) (*freee.TokenResponse, error)
	getEmployeeFn    func(email string) (*freee.Employee, error)
	postTimeClockFn  func(employeeID types.EmployeeID, clockType types.TimeClockType, at time.Time) error
	getWorkRecordFn  func(employeeID types.EmployeeID, date time.Time) (*freee.WorkRecord, error)
	updateTagsFn     func(employeeID types.EmployeeID, date time.Time, tags []types.WorkTag) error
	listLeaveTypesFn func() ([]freee.LeaveType, error)
	updateLeaveFn    func(employeeID types.EmployeeID, date time.Time, leaveTypeID types.LeaveTypeID, reason string) error

	refreshCalls int32

	mu         sync.Mutex
	timeClocks []types.TimeClockType
	taggedWith [][]types.WorkTag
	leaveDays  []string
}

var _ freee.Service = &fakeFreee{}

func (f *fakeFreee) AuthorizeURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (f *fakeFreee) ExchangeCode(ctx context.Context, code string) (*freee.TokenResponse, error) {
	if f.exchangeCodeFn == nil {
		return nil, goerr.New("unexpected ExchangeCode call")
	}
	return f.exchangeCodeFn(code)
}

func (f *fakeFreee) RefreshToken(ctx context.Context, refreshToken string) (*freee.TokenResponse, error) {
	atomic.AddInt32(&f.refreshCalls, 1)
	if f.refreshTokenFn == nil {
		return nil, goerr.New("unexpected RefreshToken call")
	}
	return f.refreshTokenFn(refreshToken)
}

func (f *fakeFreee) GetEmployeeByEmail(ctx context.Context, accessToken, email string) (*freee.Employee, error) {
	if f.getEmployeeFn == nil {
		return nil, goerr.New("unexpected GetEmployeeByEmail call")
	}
	return f.getEmployeeFn(email)
}

func (f *fakeFreee) PostTimeClock(ctx context.Context, accessToken string, employeeID types.EmployeeID, clockType types.TimeClockType, at time.Time) error {
	f.mu.Lock()
	f.timeClocks = append(f.timeClocks, clockType)
	f.mu.Unlock()
	if f.postTimeClockFn == nil {
		return nil
	}
	return f.postTimeClockFn(employeeID, clockType, at)
}

func (f *fakeFreee) GetWorkRecord(ctx context.Context, accessToken string, employeeID types.EmployeeID, date time.Time) (*freee.WorkRecord, error) {
	if f.getWorkRecordFn == nil {
		return &freee.WorkRecord{Date: date.Format("2006-01-02")}, nil
	}
	return f.getWorkRecordFn(employeeID, date)
}

func (f *fakeFreee) UpdateWorkRecordTags(ctx context.Context, accessToken string, employeeID types.EmployeeID, date time.Time, tags []types.WorkTag) error {
	f.mu.Lock()
	f.taggedWith = append(f.taggedWith, tags)
	f.mu.Unlock()
	if f.updateTagsFn == nil {
		return nil
	}
	return f.updateTagsFn(employeeID, date, tags)
}

func (f *fakeFreee) ListLeaveTypes(ctx context.Context, accessToken string) ([]freee.LeaveType, error) {
	if f.listLeaveTypesFn == nil {
		return nil, goerr.New("unexpected ListLeaveTypes call")
	}
	return f.listLeaveTypesFn()
}

func (f *fakeFreee) UpdateLeaveRecord(ctx context.Context, accessToken string, employeeID types.EmployeeID, date time.Time, leaveTypeID types.LeaveTypeID, reason string) error {
	f.mu.Lock()
	f.leaveDays = append(f.leaveDays, date.Format("2006-01-02"))
	f.mu.Unlock()
	if f.updateLeaveFn == nil {
		return nil
	}
	return f.updateLeaveFn(employeeID, date, leaveTypeID, reason)
}

// fakeSlack records DMs and opened views
type fakeSlack struct {
	mu      sync.Mutex
	dms     []string
	views   []slack.ModalViewRequest
	profile *slacksvc.UserProfile

	dmErr      error
	openErr    error
	profileErr error
}

var _ slacksvc.Service = &fakeSlack{}

func (f *fakeSlack) PostDM(ctx context.Context, userID types.SlackUserID, text string) error {
	if f.dmErr != nil {
		return f.dmErr
	}
	f.mu.Lock()
	f.dms = append(f.dms, text)
	f.mu.Unlock()
	return nil
}

func (f *fakeSlack) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.mu.Lock()
	f.views = append(f.views, view)
	f.mu.Unlock()
	return nil
}

func (f *fakeSlack) GetUserProfile(ctx context.Context, userID types.SlackUserID) (*slacksvc.UserProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile == nil {
		return nil, goerr.New("unexpected GetUserProfile call")
	}
	return f.profile, nil
}

func (f *fakeSlack) lastDM() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.dms) == 0 {
		return ""
	}
	return f.dms[len(f.dms)-1]
}

// fakeCalendar records created events
type fakeCalendar struct {
	mu        sync.Mutex
	summaries []string
	starts    []time.Time
	ends      []time.Time

	err error
}

func (f *fakeCalendar) CreateAllDayEvent(ctx context.Context, summary string, start, end time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.summaries = append(f.summaries, summary)
	f.starts = append(f.starts, start)
	f.ends = append(f.ends, end)
	f.mu.Unlock()
	return nil
}
