package slack

import (
	"context"

	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/slack-go/slack"
)

// Service provides the narrow Slack capabilities the handlers need.
// Keeping it small lets use cases run against fakes in tests.
type Service interface {
	// PostDM sends a direct message to the user
	PostDM(ctx context.Context, userID types.SlackUserID, text string) error

	// OpenView opens a modal view for the given trigger ID. Trigger IDs
	// expire after a few seconds, so callers must use them promptly.
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error

	// GetUserProfile retrieves the user's email and display name
	GetUserProfile(ctx context.Context, userID types.SlackUserID) (*UserProfile, error)
}

// UserProfile is the subset of the Slack user record the bot needs
type UserProfile struct {
	ID    types.SlackUserID
	Name  string
	Email string
}
