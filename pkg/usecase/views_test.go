package usecase

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/service/freee"
	"github.com/slack-go/slack"
)

func TestParseLeaveTypeValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantID   types.LeaveTypeID
		wantName string
		wantErr  bool
	}{
		{name: "valid", value: "12:Paid leave", wantID: 12, wantName: "Paid leave"},
		{name: "name with colon", value: "3:Leave: special", wantID: 3, wantName: "Leave: special"},
		{name: "no separator", value: "12", wantErr: true},
		{name: "non-numeric id", value: "abc:Paid leave", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, name, err := ParseLeaveTypeValue(tt.value)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, id).Equal(tt.wantID)
			gt.Value(t, name).Equal(tt.wantName)
		})
	}
}

func TestEncodeLeaveTypeValueRoundTrip(t *testing.T) {
	value := EncodeLeaveTypeValue(7, "Summer holiday")
	id, name, err := ParseLeaveTypeValue(value)
	gt.NoError(t, err).Required()
	gt.Value(t, id).Equal(types.LeaveTypeID(7))
	gt.Value(t, name).Equal("Summer holiday")
}

func TestBuildClockInView(t *testing.T) {
	view := buildClockInView(model.DefaultWorkTagOptions())

	gt.Value(t, view.Type).Equal(slack.VTModal)
	gt.Value(t, view.CallbackID).Equal(CallbackIDClockIn)
	gt.Array(t, view.Blocks.BlockSet).Length(1).Required()

	input, ok := view.Blocks.BlockSet[0].(*slack.InputBlock)
	gt.Bool(t, ok).True()
	gt.Value(t, input.BlockID).Equal(BlockIDWorkTag)

	sel, ok := input.Element.(*slack.SelectBlockElement)
	gt.Bool(t, ok).True()
	gt.Value(t, sel.ActionID).Equal(ActionIDWorkTag)
	gt.Array(t, sel.Options).Length(len(model.DefaultWorkTagOptions())).Required()
	gt.Value(t, sel.Options[0].Value).Equal("home")
}

func TestBuildApplicationTypeView(t *testing.T) {
	state := &model.WizardState{Sub: "U001", Email: "taro@example.com", EmployeeID: 42, UserName: "Taro"}

	view, err := buildApplicationTypeView(state)
	gt.NoError(t, err).Required()

	gt.Value(t, view.CallbackID).Equal(CallbackIDApplicationType)

	decoded, err := model.DecodeWizardState(view.PrivateMetadata)
	gt.NoError(t, err).Required()
	gt.Value(t, decoded.EmployeeID).Equal(types.EmployeeID(42))

	input, ok := view.Blocks.BlockSet[0].(*slack.InputBlock)
	gt.Bool(t, ok).True()
	sel, ok := input.Element.(*slack.SelectBlockElement)
	gt.Bool(t, ok).True()
	gt.Array(t, sel.Options).Length(len(types.AllApplicationTypes()))
}

func TestBuildLeaveRequestView(t *testing.T) {
	state := &model.WizardState{Sub: "U001", Email: "taro@example.com", EmployeeID: 42, UserName: "Taro"}
	leaveTypes := []freee.LeaveType{{ID: 1, Name: "Paid leave"}}
	today := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	view, err := buildLeaveRequestView(state, leaveTypes, today)
	gt.NoError(t, err).Required()

	gt.Value(t, view.CallbackID).Equal(CallbackIDLeaveRequest)
	gt.Array(t, view.Blocks.BlockSet).Length(4).Required()

	typeInput, ok := view.Blocks.BlockSet[0].(*slack.InputBlock)
	gt.Bool(t, ok).True()
	sel, ok := typeInput.Element.(*slack.SelectBlockElement)
	gt.Bool(t, ok).True()
	gt.Value(t, sel.Options[0].Value).Equal("1:Paid leave")

	startInput, ok := view.Blocks.BlockSet[1].(*slack.InputBlock)
	gt.Bool(t, ok).True()
	picker, ok := startInput.Element.(*slack.DatePickerBlockElement)
	gt.Bool(t, ok).True()
	gt.Value(t, picker.InitialDate).Equal("2025-06-02")

	reasonInput, ok := view.Blocks.BlockSet[3].(*slack.InputBlock)
	gt.Bool(t, ok).True()
	gt.Bool(t, reasonInput.Optional).True()
}
