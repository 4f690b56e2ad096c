package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/usecase"
	"github.com/kintai-dev/workstamper/pkg/utils/async"
	"github.com/kintai-dev/workstamper/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// SlackInteractionHandler handles Slack interactive payloads, i.e. the
// modal view submissions of the clock-in and application wizards
type SlackInteractionHandler struct {
	uc *usecase.UseCases
}

// NewSlackInteractionHandler creates a new Slack interaction handler
func NewSlackInteractionHandler(uc *usecase.UseCases) *SlackInteractionHandler {
	return &SlackInteractionHandler{uc: uc}
}

// ServeHTTP acknowledges the submission immediately (closing the modal)
// and processes it asynchronously.
func (h *SlackInteractionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Slack sends interaction payloads as application/x-www-form-urlencoded
	// with a "payload" field containing JSON
	payload := r.FormValue("payload")
	if payload == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing payload field in interaction request"), http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse interaction payload"), http.StatusBadRequest)
		return
	}

	if callback.Type != slack.InteractionTypeViewSubmission {
		w.WriteHeader(http.StatusOK)
		return
	}

	handler, err := h.submissionHandler(&callback)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	async.Dispatch(ctx, handler)
}

// submissionHandler maps a view submission to the use case call that
// performs the slow work after the acknowledgment
func (h *SlackInteractionHandler) submissionHandler(callback *slack.InteractionCallback) (func(ctx context.Context) error, error) {
	sub := types.SlackUserID(callback.User.ID)
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	if callback.View.State == nil {
		return nil, goerr.New("view submission has no state",
			goerr.V("callback_id", callback.View.CallbackID))
	}
	values := callback.View.State.Values

	switch callback.View.CallbackID {
	case usecase.CallbackIDClockIn:
		tagValue := values[usecase.BlockIDWorkTag][usecase.ActionIDWorkTag].SelectedOption.Value
		if tagValue == "" {
			return nil, goerr.New("clock-in submission has no work tag")
		}
		tag := types.WorkTag(tagValue)
		return func(ctx context.Context) error {
			return h.uc.Attendance.SubmitClockIn(ctx, sub, tag)
		}, nil

	case usecase.CallbackIDApplicationType:
		state, err := model.DecodeWizardState(callback.View.PrivateMetadata)
		if err != nil {
			return nil, err
		}
		typeValue := values[usecase.BlockIDAppType][usecase.ActionIDAppType].SelectedOption.Value
		appType := types.ApplicationType(typeValue)
		if !appType.IsValid() {
			return nil, goerr.New("unknown application type", goerr.V("type", typeValue))
		}
		triggerID := callback.TriggerID
		return func(ctx context.Context) error {
			return h.uc.Application.SelectType(ctx, state, appType, triggerID)
		}, nil

	case usecase.CallbackIDLeaveRequest:
		state, err := model.DecodeWizardState(callback.View.PrivateMetadata)
		if err != nil {
			return nil, err
		}
		req, err := parseLeaveRequest(values)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error {
			return h.uc.Application.SubmitLeave(ctx, state, req)
		}, nil

	default:
		return nil, goerr.New("unknown view callback", goerr.V("callback_id", callback.View.CallbackID))
	}
}

func parseLeaveRequest(values map[string]map[string]slack.BlockAction) (*model.LeaveRequest, error) {
	typeValue := values[usecase.BlockIDLeaveType][usecase.ActionIDLeaveType].SelectedOption.Value
	typeID, typeName, err := usecase.ParseLeaveTypeValue(typeValue)
	if err != nil {
		return nil, err
	}

	startValue := values[usecase.BlockIDStartDate][usecase.ActionIDStartDate].SelectedDate
	start, err := time.Parse(model.DateLayout, startValue)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid start date", goerr.V("value", startValue))
	}

	endValue := values[usecase.BlockIDEndDate][usecase.ActionIDEndDate].SelectedDate
	end, err := time.Parse(model.DateLayout, endValue)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid end date", goerr.V("value", endValue))
	}

	reason := values[usecase.BlockIDLeaveReason][usecase.ActionIDLeaveReason].Value

	return &model.LeaveRequest{
		TypeID:   typeID,
		TypeName: typeName,
		Start:    start,
		End:      end,
		Reason:   reason,
	}, nil
}
