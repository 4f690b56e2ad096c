package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/repository/memory"
	"github.com/kintai-dev/workstamper/pkg/service/freee"
	slacksvc "github.com/kintai-dev/workstamper/pkg/service/slack"
	"github.com/kintai-dev/workstamper/pkg/usecase"
)

func linkedRepo(t *testing.T, sub types.SlackUserID) *memory.Repository {
	t.Helper()
	repo := memory.New()
	token := model.NewUserToken(sub, "access-1", "refresh-1", testNow.Add(-time.Hour), 21600)
	gt.NoError(t, repo.PutUserToken(context.Background(), token)).Required()
	return repo
}

func testProfile(sub types.SlackUserID) *slacksvc.UserProfile {
	return &slacksvc.UserProfile{ID: sub, Name: "Taro Yamada", Email: "taro@example.com"}
}

func employeeByEmail(t *testing.T) func(email string) (*freee.Employee, error) {
	return func(email string) (*freee.Employee, error) {
		gt.Value(t, email).Equal("taro@example.com")
		return &freee.Employee{ID: 42, DisplayName: "Taro Yamada", Email: email}, nil
	}
}

func TestStartClockInOpensModal(t *testing.T) {
	repo := linkedRepo(t, "U001")
	freeeSvc := &fakeFreee{}
	slackSvc := &fakeSlack{}
	uc := usecase.New(repo, freeeSvc, slackSvc, usecase.WithClock(fixedClock))

	gt.NoError(t, uc.Attendance.StartClockIn(context.Background(), "U001", "trigger-1")).Required()

	gt.Array(t, slackSvc.views).Length(1).Required()
	gt.Value(t, slackSvc.views[0].CallbackID).Equal(usecase.CallbackIDClockIn)
}

func TestStartClockInUnlinkedSendsAuthorizeLink(t *testing.T) {
	repo := memory.New()
	freeeSvc := &fakeFreee{}
	slackSvc := &fakeSlack{}
	uc := usecase.New(repo, freeeSvc, slackSvc, usecase.WithClock(fixedClock))

	gt.NoError(t, uc.Attendance.StartClockIn(context.Background(), "U001", "trigger-1")).Required()

	// No modal, just the authorization link as a DM
	gt.Array(t, slackSvc.views).Length(0)
	gt.Array(t, slackSvc.dms).Length(1).Required()
	gt.Bool(t, strings.Contains(slackSvc.lastDM(), "state=U001")).True()
}

func TestSubmitClockIn(t *testing.T) {
	repo := linkedRepo(t, "U001")
	freeeSvc := &fakeFreee{getEmployeeFn: employeeByEmail(t)}
	slackSvc := &fakeSlack{profile: testProfile("U001")}
	uc := usecase.New(repo, freeeSvc, slackSvc,
		usecase.WithClock(fixedClock),
		usecase.WithWorkRecordPoll(2, time.Millisecond),
	)

	gt.NoError(t, uc.Attendance.SubmitClockIn(context.Background(), "U001", "home")).Required()

	gt.Array(t, freeeSvc.timeClocks).Length(1).Required()
	gt.Value(t, freeeSvc.timeClocks[0]).Equal(types.TimeClockIn)
	gt.Array(t, freeeSvc.taggedWith).Length(1).Required()
	gt.Array(t, freeeSvc.taggedWith[0]).Equal([]types.WorkTag{"home"})
	gt.Bool(t, strings.Contains(slackSvc.lastDM(), "Clocked in")).True()
	gt.Bool(t, strings.Contains(slackSvc.lastDM(), "home")).True()
}

func TestSubmitClockInTagFailureAfterCommit(t *testing.T) {
	repo := linkedRepo(t, "U001")
	freeeSvc := &fakeFreee{
		getEmployeeFn: employeeByEmail(t),
		getWorkRecordFn: func(employeeID types.EmployeeID, date time.Time) (*freee.WorkRecord, error) {
			return nil, errNotReady
		},
	}
	slackSvc := &fakeSlack{profile: testProfile("U001")}
	uc := usecase.New(repo, freeeSvc, slackSvc,
		usecase.WithClock(fixedClock),
		usecase.WithWorkRecordPoll(2, time.Millisecond),
	)

	err := uc.Attendance.SubmitClockIn(context.Background(), "U001", "office")
	gt.Error(t, err)

	// The clock-in itself went through; the user is told the tag did not
	gt.Array(t, freeeSvc.timeClocks).Length(1)
	gt.Array(t, freeeSvc.taggedWith).Length(0)
	gt.Bool(t, strings.Contains(slackSvc.lastDM(), "Clock-in was recorded")).True()
}

func TestSubmitClockInPollsUntilRecordAppears(t *testing.T) {
	repo := linkedRepo(t, "U001")
	var reads int
	freeeSvc := &fakeFreee{
		getEmployeeFn: employeeByEmail(t),
		getWorkRecordFn: func(employeeID types.EmployeeID, date time.Time) (*freee.WorkRecord, error) {
			reads++
			if reads < 3 {
				return nil, errNotReady
			}
			return &freee.WorkRecord{Date: date.Format(model.DateLayout)}, nil
		},
	}
	slackSvc := &fakeSlack{profile: testProfile("U001")}
	uc := usecase.New(repo, freeeSvc, slackSvc,
		usecase.WithClock(fixedClock),
		usecase.WithWorkRecordPoll(5, time.Millisecond),
	)

	gt.NoError(t, uc.Attendance.SubmitClockIn(context.Background(), "U001", "home")).Required()

	gt.Number(t, reads).Equal(3)
	gt.Array(t, freeeSvc.taggedWith).Length(1)
}

func TestSubmitClockInEmployeeNotFound(t *testing.T) {
	repo := linkedRepo(t, "U001")
	freeeSvc := &fakeFreee{
		getEmployeeFn: func(email string) (*freee.Employee, error) {
			return nil, freee.ErrEmployeeNotFound
		},
	}
	slackSvc := &fakeSlack{profile: testProfile("U001")}
	uc := usecase.New(repo, freeeSvc, slackSvc, usecase.WithClock(fixedClock))

	// A missing directory entry is reported to the user, not treated as
	// a handler fault
	gt.NoError(t, uc.Attendance.SubmitClockIn(context.Background(), "U001", "home"))

	gt.Array(t, freeeSvc.timeClocks).Length(0)
	gt.Bool(t, strings.Contains(slackSvc.lastDM(), "administrator")).True()
}

func TestClockOut(t *testing.T) {
	repo := linkedRepo(t, "U001")
	freeeSvc := &fakeFreee{getEmployeeFn: employeeByEmail(t)}
	slackSvc := &fakeSlack{profile: testProfile("U001")}
	uc := usecase.New(repo, freeeSvc, slackSvc, usecase.WithClock(fixedClock))

	gt.NoError(t, uc.Attendance.ClockOut(context.Background(), "U001")).Required()

	gt.Array(t, freeeSvc.timeClocks).Length(1).Required()
	gt.Value(t, freeeSvc.timeClocks[0]).Equal(types.TimeClockOut)
	gt.Bool(t, strings.Contains(slackSvc.lastDM(), "Clocked out")).True()
}

func TestClockOutFailure(t *testing.T) {
	repo := linkedRepo(t, "U001")
	freeeSvc := &fakeFreee{
		getEmployeeFn: employeeByEmail(t),
		postTimeClockFn: func(employeeID types.EmployeeID, clockType types.TimeClockType, at time.Time) error {
			return errNotReady
		},
	}
	slackSvc := &fakeSlack{profile: testProfile("U001")}
	uc := usecase.New(repo, freeeSvc, slackSvc, usecase.WithClock(fixedClock))

	gt.Error(t, uc.Attendance.ClockOut(context.Background(), "U001"))
	gt.Bool(t, strings.Contains(slackSvc.lastDM(), "clock-out")).True()
}
