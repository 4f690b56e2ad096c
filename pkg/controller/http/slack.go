package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/usecase"
	"github.com/kintai-dev/workstamper/pkg/utils/async"
	"github.com/kintai-dev/workstamper/pkg/utils/errutil"
	"github.com/kintai-dev/workstamper/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Slash commands exposed by the bot
const (
	CommandClockIn      = "/clock-in"
	CommandClockOut     = "/clock-out"
	CommandApplications = "/applications"
	CommandLink         = "/link"
)

// verifySlackSignature verifies the Slack request signature.
// This is a pure function that can be used independently for testing.
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}

	if signature == "" {
		return goerr.New("missing signature")
	}

	// Check timestamp to prevent replay attacks (within 5 minutes)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	now := time.Now().Unix()
	if now-ts > 60*5 {
		return goerr.New("timestamp too old", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware creates a middleware that verifies Slack request
// signatures and restores the consumed body for downstream handlers
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			defer func() {
				if err := r.Body.Close(); err != nil {
					logging.From(ctx).Error("failed to close request body", "error", err)
				}
			}()

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewBuffer(body))
			next.ServeHTTP(w, r)
		})
	}
}

// SlackCommandHandler handles slash command webhook requests
type SlackCommandHandler struct {
	uc *usecase.UseCases
}

// NewSlackCommandHandler creates a new slash command handler
func NewSlackCommandHandler(uc *usecase.UseCases) *SlackCommandHandler {
	return &SlackCommandHandler{uc: uc}
}

// ServeHTTP acknowledges the command within Slack's synchronous-response
// window and runs the actual work asynchronously; results reach the user
// as a direct message.
func (h *SlackCommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
		return
	}

	sub := types.SlackUserID(cmd.UserID)
	if err := sub.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	var handler func(ctx context.Context) error
	switch cmd.Command {
	case CommandClockIn:
		handler = func(ctx context.Context) error {
			return h.uc.Attendance.StartClockIn(ctx, sub, cmd.TriggerID)
		}
	case CommandClockOut:
		handler = func(ctx context.Context) error {
			return h.uc.Attendance.ClockOut(ctx, sub)
		}
	case CommandApplications:
		handler = func(ctx context.Context) error {
			return h.uc.Application.Start(ctx, sub, cmd.TriggerID)
		}
	case CommandLink:
		handler = func(ctx context.Context) error {
			return h.uc.Auth.SendAuthorizeLink(ctx, sub)
		}
	default:
		logging.From(ctx).Warn("unknown slash command", "command", cmd.Command)
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)
	async.Dispatch(ctx, handler)
}
