package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kintai-dev/workstamper/pkg/service/gcal"
)

// Google holds CLI flags for the Google Calendar mirror. All flags are
// optional; when the calendar ID is unset, leave requests are not mirrored.
type Google struct {
	calendarID  string
	accessToken string
	timeZone    string
}

func (x *Google) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "google-calendar-id",
			Usage:       "Google Calendar ID to mirror leave requests onto (mirroring disabled when unset)",
			Category:    "Google",
			Destination: &x.calendarID,
			Sources:     cli.EnvVars("WORKSTAMPER_GOOGLE_CALENDAR_ID"),
		},
		&cli.StringFlag{
			Name:        "google-access-token",
			Usage:       "OAuth access token with calendar write scope",
			Category:    "Google",
			Destination: &x.accessToken,
			Sources:     cli.EnvVars("WORKSTAMPER_GOOGLE_ACCESS_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "google-calendar-timezone",
			Usage:       "Time zone for all-day events",
			Category:    "Google",
			Value:       gcal.DefaultTimeZone,
			Destination: &x.timeZone,
			Sources:     cli.EnvVars("WORKSTAMPER_GOOGLE_CALENDAR_TIMEZONE"),
		},
	}
}

func (x Google) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("calendar-id", x.calendarID),
		slog.Int("access-token.len", len(x.accessToken)),
		slog.String("timezone", x.timeZone),
	)
}

// CalendarID returns the configured calendar ID
func (x *Google) CalendarID() string {
	return x.calendarID
}

// Configure builds the calendar service. Returns (nil, nil) when the
// calendar ID is unset, meaning mirroring is disabled.
func (x *Google) Configure(ctx context.Context) (gcal.Service, error) {
	if x.calendarID == "" {
		return nil, nil
	}
	if x.accessToken == "" {
		return nil, goerr.New("google-access-token is required when google-calendar-id is set")
	}

	return gcal.New(ctx, x.calendarID, x.accessToken, gcal.WithTimeZone(x.timeZone))
}
