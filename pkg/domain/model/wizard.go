package model

import (
	"encoding/json"

	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// WizardState is the session context threaded through the multi-step
// application modal via the view's private_metadata field. The employee ID
// is resolved once when the wizard starts so later steps do not have to
// repeat the directory lookup.
type WizardState struct {
	Sub        types.SlackUserID `json:"sub"`
	Email      string            `json:"email"`
	EmployeeID types.EmployeeID  `json:"employee_id"`
	UserName   string            `json:"user_name"`
}

// Validate checks the state at each step boundary
func (s *WizardState) Validate() error {
	if err := s.Sub.Validate(); err != nil {
		return goerr.Wrap(err, "invalid wizard state")
	}
	if s.EmployeeID == 0 {
		return goerr.New("wizard state has no employee ID", goerr.V("sub", s.Sub))
	}
	return nil
}

// Encode serializes the state for private_metadata
func (s *WizardState) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode wizard state")
	}
	return string(data), nil
}

// DecodeWizardState parses and validates a private_metadata blob
func DecodeWizardState(metadata string) (*WizardState, error) {
	if metadata == "" {
		return nil, goerr.New("wizard state metadata is empty")
	}

	var s WizardState
	if err := json.Unmarshal([]byte(metadata), &s); err != nil {
		return nil, goerr.Wrap(err, "failed to decode wizard state")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
