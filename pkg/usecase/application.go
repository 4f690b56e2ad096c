package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/service/freee"
	"github.com/kintai-dev/workstamper/pkg/service/gcal"
	slacksvc "github.com/kintai-dev/workstamper/pkg/service/slack"
	"github.com/kintai-dev/workstamper/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ApplicationUseCase handles the /applications wizard: type selection,
// the leave sub-form, and the fan-out of an approved leave request into
// per-day HR updates plus a calendar event.
type ApplicationUseCase struct {
	auth     *AuthUseCase
	freee    freee.Service
	calendar gcal.Service
	slack    slacksvc.Service
	now      func() time.Time
}

func newApplicationUseCase(auth *AuthUseCase, freeeSvc freee.Service, calendar gcal.Service, slackSvc slacksvc.Service, now func() time.Time) *ApplicationUseCase {
	return &ApplicationUseCase{
		auth:     auth,
		freee:    freeeSvc,
		calendar: calendar,
		slack:    slackSvc,
		now:      now,
	}
}

// Start runs the pre-check, resolves the employee once, and opens the
// type-selection modal with the wizard state attached. Later steps reuse
// the state instead of repeating the directory lookup.
func (uc *ApplicationUseCase) Start(ctx context.Context, sub types.SlackUserID, triggerID string) error {
	token, ok, err := uc.auth.requireAccessToken(ctx, sub)
	if !ok {
		return err
	}

	employee, profile, ok, err := resolveEmployee(ctx, uc.freee, uc.slack, token, sub)
	if !ok {
		return err
	}

	state := &model.WizardState{
		Sub:        sub,
		Email:      profile.Email,
		EmployeeID: employee.ID,
		UserName:   profile.Name,
	}

	view, err := buildApplicationTypeView(state)
	if err != nil {
		return err
	}

	return uc.slack.OpenView(ctx, triggerID, view)
}

// SelectType handles the first wizard submission. Leave opens the
// type-specific sub-form; everything else is reported as not supported
// yet rather than failing the interaction.
func (uc *ApplicationUseCase) SelectType(ctx context.Context, state *model.WizardState, appType types.ApplicationType, triggerID string) error {
	if err := state.Validate(); err != nil {
		return err
	}

	if appType != types.ApplicationLeave {
		msg := fmt.Sprintf("Sorry, %q is not supported yet.", appType.Label())
		if err := uc.slack.PostDM(ctx, state.Sub, msg); err != nil {
			return err
		}
		return goerr.Wrap(ErrUnsupportedApplication, "user selected unimplemented type",
			goerr.V("sub", state.Sub), goerr.V("type", appType))
	}

	token, ok, err := uc.auth.requireAccessToken(ctx, state.Sub)
	if !ok {
		return err
	}

	leaveTypes, err := uc.freee.ListLeaveTypes(ctx, token)
	if err != nil {
		if dmErr := uc.slack.PostDM(ctx, state.Sub, "Error: could not fetch leave types from freee."); dmErr != nil {
			logging.From(ctx).Warn("failed to notify user", "sub", state.Sub, "error", dmErr)
		}
		return err
	}
	if len(leaveTypes) == 0 {
		return uc.slack.PostDM(ctx, state.Sub, "Error: no leave types are configured in freee.")
	}

	view, err := buildLeaveRequestView(state, leaveTypes, uc.now())
	if err != nil {
		return err
	}

	return uc.slack.OpenView(ctx, triggerID, view)
}

// SubmitLeave fans the request out into one HR update per calendar day and
// then mirrors the range onto the calendar. The per-day loop is not
// atomic: days already written stay written when a later day fails, and
// the user is told exactly that. The calendar outcome is reported
// separately from the HR outcome.
func (uc *ApplicationUseCase) SubmitLeave(ctx context.Context, state *model.WizardState, req *model.LeaveRequest) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		if dmErr := uc.slack.PostDM(ctx, state.Sub, "Error: the leave request is invalid. Check that the end date is not before the start date."); dmErr != nil {
			logging.From(ctx).Warn("failed to notify user", "sub", state.Sub, "error", dmErr)
		}
		return err
	}

	token, ok, err := uc.auth.requireAccessToken(ctx, state.Sub)
	if !ok {
		return err
	}

	for _, day := range req.Days() {
		if err := uc.freee.UpdateLeaveRecord(ctx, token, state.EmployeeID, day, req.TypeID, req.Reason); err != nil {
			msg := fmt.Sprintf("Error: the leave update failed at %s. Days before it were already submitted to freee; please review your leave records.", day.Format(model.DateLayout))
			if dmErr := uc.slack.PostDM(ctx, state.Sub, msg); dmErr != nil {
				logging.From(ctx).Warn("failed to notify user", "sub", state.Sub, "error", dmErr)
			}
			return goerr.Wrap(err, "leave record update failed",
				goerr.V("sub", state.Sub),
				goerr.V("day", day.Format(model.DateLayout)))
		}
	}

	period := fmt.Sprintf("%s ~ %s", req.Start.Format(model.DateLayout), req.End.Format(model.DateLayout))

	if uc.calendar != nil {
		summary := fmt.Sprintf("Leave (%s): %s", req.TypeName, state.UserName)
		if err := uc.calendar.CreateAllDayEvent(ctx, summary, req.Start, req.End); err != nil {
			if dmErr := uc.slack.PostDM(ctx, state.Sub, "Your leave was recorded in freee, but adding it to the calendar failed. Please contact your administrator."); dmErr != nil {
				logging.From(ctx).Warn("failed to notify user", "sub", state.Sub, "error", dmErr)
			}
			return goerr.Wrap(err, "calendar event creation failed", goerr.V("sub", state.Sub))
		}
	}

	msg := fmt.Sprintf("Leave request submitted.\nType: %s\nPeriod: %s", req.TypeName, period)
	return uc.slack.PostDM(ctx, state.Sub, msg)
}
