package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/service/freee"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Callback IDs route view submissions back to the right wizard step
const (
	CallbackIDClockIn         = "clock_in_modal"
	CallbackIDApplicationType = "application_type_modal"
	CallbackIDLeaveRequest    = "leave_request_modal"
)

// Block and action IDs shared between the view builders and the
// interaction controller that reads submitted values back out
const (
	BlockIDWorkTag      = "work_tag_block"
	ActionIDWorkTag     = "work_tag_select"
	BlockIDAppType      = "application_type_block"
	ActionIDAppType     = "application_type_select"
	BlockIDLeaveType    = "leave_type_block"
	ActionIDLeaveType   = "leave_type_select"
	BlockIDStartDate    = "start_date_block"
	ActionIDStartDate   = "start_date_picker"
	BlockIDEndDate      = "end_date_block"
	ActionIDEndDate     = "end_date_picker"
	BlockIDLeaveReason  = "reason_block"
	ActionIDLeaveReason = "reason_input"
)

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func buildClockInView(workTags []model.WorkTagOption) slack.ModalViewRequest {
	options := make([]*slack.OptionBlockObject, len(workTags))
	for i, tag := range workTags {
		options[i] = slack.NewOptionBlockObject(tag.Tag.String(), plainText(tag.Label), nil)
	}

	selectElem := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plainText("Select your work mode"), ActionIDWorkTag, options...)

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: CallbackIDClockIn,
		Title:      plainText("Clock In"),
		Submit:     plainText("Clock In"),
		Close:      plainText("Cancel"),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewInputBlock(BlockIDWorkTag, plainText("Work mode"), nil, selectElem),
			},
		},
	}
}

func buildApplicationTypeView(state *model.WizardState) (slack.ModalViewRequest, error) {
	metadata, err := state.Encode()
	if err != nil {
		return slack.ModalViewRequest{}, err
	}

	appTypes := types.AllApplicationTypes()
	options := make([]*slack.OptionBlockObject, len(appTypes))
	for i, t := range appTypes {
		options[i] = slack.NewOptionBlockObject(t.String(), plainText(t.Label()), nil)
	}

	selectElem := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plainText("Select an application type"), ActionIDAppType, options...)

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CallbackIDApplicationType,
		Title:           plainText("Applications"),
		Submit:          plainText("Next"),
		Close:           plainText("Cancel"),
		PrivateMetadata: metadata,
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewInputBlock(BlockIDAppType, plainText("Application type"), nil, selectElem),
			},
		},
	}, nil
}

func buildLeaveRequestView(state *model.WizardState, leaveTypes []freee.LeaveType, today time.Time) (slack.ModalViewRequest, error) {
	metadata, err := state.Encode()
	if err != nil {
		return slack.ModalViewRequest{}, err
	}

	options := make([]*slack.OptionBlockObject, len(leaveTypes))
	for i, lt := range leaveTypes {
		options[i] = slack.NewOptionBlockObject(EncodeLeaveTypeValue(lt.ID, lt.Name), plainText(lt.Name), nil)
	}

	typeSelect := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plainText("Select a leave type"), ActionIDLeaveType, options...)

	startPicker := slack.NewDatePickerBlockElement(ActionIDStartDate)
	startPicker.InitialDate = today.Format(model.DateLayout)
	endPicker := slack.NewDatePickerBlockElement(ActionIDEndDate)
	endPicker.InitialDate = today.Format(model.DateLayout)

	reasonInput := slack.NewPlainTextInputBlockElement(plainText("e.g. doctor's appointment"), ActionIDLeaveReason)
	reasonInput.Multiline = true
	reasonBlock := slack.NewInputBlock(BlockIDLeaveReason, plainText("Reason (optional)"), nil, reasonInput)
	reasonBlock.Optional = true

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CallbackIDLeaveRequest,
		Title:           plainText("Leave Request"),
		Submit:          plainText("Submit"),
		Close:           plainText("Cancel"),
		PrivateMetadata: metadata,
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewInputBlock(BlockIDLeaveType, plainText("Leave type"), nil, typeSelect),
				slack.NewInputBlock(BlockIDStartDate, plainText("Start date"), nil, startPicker),
				slack.NewInputBlock(BlockIDEndDate, plainText("End date"), nil, endPicker),
				reasonBlock,
			},
		},
	}, nil
}

// EncodeLeaveTypeValue packs a leave type into a select option value
func EncodeLeaveTypeValue(id types.LeaveTypeID, name string) string {
	return fmt.Sprintf("%d:%s", id, name)
}

// ParseLeaveTypeValue unpacks a select option value produced by
// EncodeLeaveTypeValue
func ParseLeaveTypeValue(value string) (types.LeaveTypeID, string, error) {
	idStr, name, found := strings.Cut(value, ":")
	if !found {
		return 0, "", goerr.New("malformed leave type value", goerr.V("value", value))
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", goerr.Wrap(err, "malformed leave type ID", goerr.V("value", value))
	}

	return types.LeaveTypeID(id), name, nil
}
