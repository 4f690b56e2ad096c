package slack

import (
	"context"

	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Service
type client struct {
	api *slack.Client
}

// New creates a new Slack service with the provided bot token
func New(token string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	return &client{
		api: slack.New(token),
	}, nil
}

func (c *client) PostDM(ctx context.Context, userID types.SlackUserID, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, userID.String(),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post direct message", goerr.V("user_id", userID))
	}
	return nil
}

func (c *client) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if _, err := c.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return goerr.Wrap(err, "failed to open modal view",
			goerr.V("callback_id", view.CallbackID))
	}
	return nil
}

func (c *client) GetUserProfile(ctx context.Context, userID types.SlackUserID) (*UserProfile, error) {
	user, err := c.api.GetUserInfoContext(ctx, userID.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user info", goerr.V("user_id", userID))
	}

	return &UserProfile{
		ID:    types.SlackUserID(user.ID),
		Name:  user.RealName,
		Email: user.Profile.Email,
	}, nil
}
