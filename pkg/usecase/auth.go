package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/interfaces"
	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/service/freee"
	slacksvc "github.com/kintai-dev/workstamper/pkg/service/slack"
	"github.com/kintai-dev/workstamper/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/singleflight"
)

// AuthUseCase owns the per-user OAuth token lifecycle: acquire via the
// callback, persist, refresh lazily on expiry, signal re-auth on failure.
type AuthUseCase struct {
	repo  interfaces.Repository
	freee freee.Service
	slack slacksvc.Service
	group singleflight.Group
	now   func() time.Time
}

func newAuthUseCase(repo interfaces.Repository, freeeSvc freee.Service, slackSvc slacksvc.Service, now func() time.Time) *AuthUseCase {
	return &AuthUseCase{
		repo:  repo,
		freee: freeeSvc,
		slack: slackSvc,
		now:   now,
	}
}

// AccessToken returns a currently valid access token for the subject.
// Absent record → ErrNotLinked. Expired record → at most one refresh
// exchange (concurrent callers for the same subject share one flight);
// a rejected refresh → ErrReauthRequired. Valid record → returned as is.
func (uc *AuthUseCase) AccessToken(ctx context.Context, sub types.SlackUserID) (string, error) {
	token, err := uc.repo.GetUserToken(ctx, sub)
	if err != nil {
		return "", goerr.Wrap(err, "failed to load user token", goerr.V("sub", sub))
	}
	if token == nil {
		return "", goerr.Wrap(ErrNotLinked, "no credential stored", goerr.V("sub", sub))
	}

	if !token.Expired(uc.now()) {
		return token.AccessToken, nil
	}

	v, err, _ := uc.group.Do(sub.String(), func() (any, error) {
		return uc.refresh(ctx, sub)
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (uc *AuthUseCase) refresh(ctx context.Context, sub types.SlackUserID) (string, error) {
	// Another flight may have refreshed while we queued
	token, err := uc.repo.GetUserToken(ctx, sub)
	if err != nil {
		return "", goerr.Wrap(err, "failed to load user token", goerr.V("sub", sub))
	}
	if token == nil {
		return "", goerr.Wrap(ErrNotLinked, "no credential stored", goerr.V("sub", sub))
	}
	if !token.Expired(uc.now()) {
		return token.AccessToken, nil
	}

	resp, err := uc.freee.RefreshToken(ctx, token.RefreshToken)
	if err != nil {
		return "", goerr.Wrap(ErrReauthRequired, "refresh exchange failed",
			goerr.V("sub", sub), goerr.V("cause", err.Error()))
	}

	refreshToken := resp.RefreshToken
	if refreshToken == "" {
		refreshToken = token.RefreshToken
	}

	renewed := model.NewUserToken(sub, resp.AccessToken, refreshToken, uc.now(), resp.ExpiresIn)
	if err := uc.repo.PutUserToken(ctx, renewed); err != nil {
		return "", goerr.Wrap(err, "failed to persist refreshed token", goerr.V("sub", sub))
	}

	logging.From(ctx).Info("refreshed freee token", "sub", sub, "expires_at", renewed.ExpiresAt())

	return renewed.AccessToken, nil
}

// AuthorizeURL constructs the authorization URL with the subject as state
func (uc *AuthUseCase) AuthorizeURL(sub types.SlackUserID) string {
	return uc.freee.AuthorizeURL(sub.String())
}

// SendAuthorizeLink DMs the authorization URL to the user. Used by /link
// and by the pre-check path of every other command.
func (uc *AuthUseCase) SendAuthorizeLink(ctx context.Context, sub types.SlackUserID) error {
	msg := "Link your freee account to use attendance commands:\n" + uc.AuthorizeURL(sub)
	return uc.slack.PostDM(ctx, sub, msg)
}

// HandleCallback exchanges the authorization code, upserts the token
// record keyed by the state (the Slack user ID), and notifies the user.
func (uc *AuthUseCase) HandleCallback(ctx context.Context, code, state string) error {
	sub := types.SlackUserID(state)
	if err := sub.Validate(); err != nil {
		return goerr.Wrap(err, "invalid state parameter")
	}

	resp, err := uc.freee.ExchangeCode(ctx, code)
	if err != nil {
		return goerr.Wrap(err, "authorization code exchange failed", goerr.V("sub", sub))
	}

	token := model.NewUserToken(sub, resp.AccessToken, resp.RefreshToken, uc.now(), resp.ExpiresIn)
	if err := uc.repo.PutUserToken(ctx, token); err != nil {
		return goerr.Wrap(err, "failed to store user token", goerr.V("sub", sub))
	}

	if err := uc.slack.PostDM(ctx, sub, "Your freee account is now linked. You can clock in and out from Slack."); err != nil {
		// The token is stored; a lost notification is not worth failing
		// the callback for.
		logging.From(ctx).Warn("failed to notify user after linking", "sub", sub, "error", err)
	}

	return nil
}

// requireAccessToken runs the authentication pre-check for a command. On
// ErrNotLinked or ErrReauthRequired it DMs the remedy and reports
// ok=false without an error: those are terminal outcomes of the command,
// not faults.
func (uc *AuthUseCase) requireAccessToken(ctx context.Context, sub types.SlackUserID) (string, bool, error) {
	token, err := uc.AccessToken(ctx, sub)
	switch {
	case err == nil:
		return token, true, nil

	case errors.Is(err, ErrNotLinked):
		if dmErr := uc.SendAuthorizeLink(ctx, sub); dmErr != nil {
			return "", false, dmErr
		}
		return "", false, nil

	case errors.Is(err, ErrReauthRequired):
		msg := "Your freee authorization has expired and could not be renewed. Please re-link your account:\n" + uc.AuthorizeURL(sub)
		if dmErr := uc.slack.PostDM(ctx, sub, msg); dmErr != nil {
			return "", false, dmErr
		}
		return "", false, nil

	default:
		if dmErr := uc.slack.PostDM(ctx, sub, "Error: failed to check your freee link. Please try again later."); dmErr != nil {
			logging.From(ctx).Warn("failed to notify user", "sub", sub, "error", dmErr)
		}
		return "", false, err
	}
}
