package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/service/freee"
	slacksvc "github.com/kintai-dev/workstamper/pkg/service/slack"
	"github.com/kintai-dev/workstamper/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// AttendanceUseCase handles clock-in and clock-out commands
type AttendanceUseCase struct {
	auth  *AuthUseCase
	freee freee.Service
	slack slacksvc.Service

	workTags []model.WorkTagOption
	now      func() time.Time

	pollAttempts int
	pollInitial  time.Duration
}

func newAttendanceUseCase(auth *AuthUseCase, freeeSvc freee.Service, slackSvc slacksvc.Service, workTags []model.WorkTagOption, now func() time.Time, pollAttempts int, pollInitial time.Duration) *AttendanceUseCase {
	return &AttendanceUseCase{
		auth:         auth,
		freee:        freeeSvc,
		slack:        slackSvc,
		workTags:     workTags,
		now:          now,
		pollAttempts: pollAttempts,
		pollInitial:  pollInitial,
	}
}

// StartClockIn runs the authentication pre-check and opens the work-mode
// modal. An unlinked user gets the authorization link instead of a modal.
func (uc *AttendanceUseCase) StartClockIn(ctx context.Context, sub types.SlackUserID, triggerID string) error {
	if _, ok, err := uc.auth.requireAccessToken(ctx, sub); !ok {
		return err
	}

	return uc.slack.OpenView(ctx, triggerID, buildClockInView(uc.workTags))
}

// SubmitClockIn posts the clock-in event and then updates the day's
// work-mode tag. The two outcomes are reported to the user distinctly: the
// tag update can fail after the clock-in has already been committed.
func (uc *AttendanceUseCase) SubmitClockIn(ctx context.Context, sub types.SlackUserID, tag types.WorkTag) error {
	token, ok, err := uc.auth.requireAccessToken(ctx, sub)
	if !ok {
		return err
	}

	employee, _, ok, err := resolveEmployee(ctx, uc.freee, uc.slack, token, sub)
	if !ok {
		return err
	}

	now := uc.now()
	if err := uc.freee.PostTimeClock(ctx, token, employee.ID, types.TimeClockIn, now); err != nil {
		if dmErr := uc.slack.PostDM(ctx, sub, "Error: failed to record your clock-in in freee."); dmErr != nil {
			logging.From(ctx).Warn("failed to notify user", "sub", sub, "error", dmErr)
		}
		return goerr.Wrap(err, "clock-in failed", goerr.V("sub", sub))
	}

	if err := uc.updateWorkTag(ctx, token, employee.ID, now, tag); err != nil {
		// Clock-in is committed; only the tag is missing.
		if dmErr := uc.slack.PostDM(ctx, sub, "Clock-in was recorded, but setting the work-mode tag failed. Please set it in freee directly."); dmErr != nil {
			logging.From(ctx).Warn("failed to notify user", "sub", sub, "error", dmErr)
		}
		return goerr.Wrap(err, "work tag update failed after clock-in", goerr.V("sub", sub), goerr.V("tag", tag))
	}

	return uc.slack.PostDM(ctx, sub, fmt.Sprintf("Clocked in. (work mode: %s)\nHave a great day!", tag))
}

// ClockOut posts the clock-out event. No modal is involved.
func (uc *AttendanceUseCase) ClockOut(ctx context.Context, sub types.SlackUserID) error {
	token, ok, err := uc.auth.requireAccessToken(ctx, sub)
	if !ok {
		return err
	}

	employee, _, ok, err := resolveEmployee(ctx, uc.freee, uc.slack, token, sub)
	if !ok {
		return err
	}

	if err := uc.freee.PostTimeClock(ctx, token, employee.ID, types.TimeClockOut, uc.now()); err != nil {
		if dmErr := uc.slack.PostDM(ctx, sub, "Error: failed to record your clock-out in freee."); dmErr != nil {
			logging.From(ctx).Warn("failed to notify user", "sub", sub, "error", dmErr)
		}
		return goerr.Wrap(err, "clock-out failed", goerr.V("sub", sub))
	}

	return uc.slack.PostDM(ctx, sub, "Clocked out. Good work today!")
}

// resolveEmployee maps the Slack user to a freee employee via email. It is
// shared by the attendance commands and the application wizard. Every
// failure mode ends in a user-visible message and ok=false; the not-found
// case is terminal for the user and reported without an error.
func resolveEmployee(ctx context.Context, freeeSvc freee.Service, slackSvc slacksvc.Service, token string, sub types.SlackUserID) (*freee.Employee, *slacksvc.UserProfile, bool, error) {
	profile, err := slackSvc.GetUserProfile(ctx, sub)
	if err != nil || profile.Email == "" {
		if dmErr := slackSvc.PostDM(ctx, sub, "Error: could not get your email address from Slack."); dmErr != nil {
			logging.From(ctx).Warn("failed to notify user", "sub", sub, "error", dmErr)
		}
		if err == nil {
			err = goerr.New("slack profile has no email", goerr.V("sub", sub))
		}
		return nil, nil, false, err
	}

	employee, err := freeeSvc.GetEmployeeByEmail(ctx, token, profile.Email)
	if err != nil {
		if errors.Is(err, freee.ErrEmployeeNotFound) {
			if dmErr := slackSvc.PostDM(ctx, sub, "Error: your account was not found in freee. Please contact your administrator."); dmErr != nil {
				logging.From(ctx).Warn("failed to notify user", "sub", sub, "error", dmErr)
			}
			return nil, nil, false, nil
		}
		if dmErr := slackSvc.PostDM(ctx, sub, "Error: the employee lookup in freee failed."); dmErr != nil {
			logging.From(ctx).Warn("failed to notify user", "sub", sub, "error", dmErr)
		}
		return nil, nil, false, err
	}

	return employee, profile, true, nil
}

// updateWorkTag waits for the day's work record to become readable, then
// overwrites its tag list. The HR system is eventually consistent after a
// time clock post, so the read is polled with backoff instead of relying
// on a fixed sleep.
func (uc *AttendanceUseCase) updateWorkTag(ctx context.Context, token string, employeeID types.EmployeeID, day time.Time, tag types.WorkTag) error {
	interval := uc.pollInitial
	var lastErr error

	for attempt := 0; attempt < uc.pollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return goerr.Wrap(ctx.Err(), "cancelled while waiting for work record")
			case <-time.After(interval):
			}
			interval *= 2
		}

		if _, lastErr = uc.freee.GetWorkRecord(ctx, token, employeeID, day); lastErr == nil {
			return uc.freee.UpdateWorkRecordTags(ctx, token, employeeID, day, []types.WorkTag{tag})
		}
	}

	return goerr.Wrap(lastErr, "work record did not become readable",
		goerr.V("employee_id", employeeID),
		goerr.V("attempts", uc.pollAttempts))
}
