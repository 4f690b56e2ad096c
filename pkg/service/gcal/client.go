// Package gcal wraps the Google Calendar API for the single purpose of
// mirroring approved leave as all-day events on a shared calendar.
package gcal

import (
	"context"
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// DefaultTimeZone is used for all-day events when no zone is configured
const DefaultTimeZone = "Asia/Tokyo"

// Service provides interface to the calendar backend
type Service interface {
	// CreateAllDayEvent creates an all-day event spanning start through
	// end inclusive. The calendar API expects an exclusive end boundary,
	// so the implementation must request end + 1 day upstream.
	CreateAllDayEvent(ctx context.Context, summary string, start, end time.Time) error
}

// client implements Service
type client struct {
	svc        *calendar.Service
	calendarID string
	timeZone   string
	endpoint   string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithTimeZone sets the event time zone
func WithTimeZone(tz string) Option {
	return func(c *client) {
		c.timeZone = tz
	}
}

// WithEndpoint overrides the calendar API endpoint (for tests)
func WithEndpoint(endpoint string) Option {
	return func(c *client) {
		c.endpoint = endpoint
	}
}

// New creates a new calendar service authenticated with a static access
// token. Token rotation for the shared calendar is an operational task, not
// part of the per-user OAuth lifecycle.
func New(ctx context.Context, calendarID, accessToken string, opts ...Option) (Service, error) {
	if calendarID == "" {
		return nil, goerr.New("calendar ID is required")
	}
	if accessToken == "" {
		return nil, goerr.New("calendar access token is required")
	}

	c := &client{
		calendarID: calendarID,
		timeZone:   DefaultTimeZone,
	}

	for _, opt := range opts {
		opt(c)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	clientOpts := []option.ClientOption{option.WithTokenSource(ts)}
	if c.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(c.endpoint))
	}

	svc, err := calendar.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create calendar service")
	}
	c.svc = svc

	return c, nil
}

func (c *client) CreateAllDayEvent(ctx context.Context, summary string, start, end time.Time) error {
	if end.Before(start) {
		return goerr.New("event end date is before start date",
			goerr.V("start", start.Format(model.DateLayout)),
			goerr.V("end", end.Format(model.DateLayout)))
	}

	// The calendar API treats the end date as exclusive for all-day
	// events, so the nominal inclusive end shifts by one day.
	event := &calendar.Event{
		Summary: summary,
		Start: &calendar.EventDateTime{
			Date:     start.Format(model.DateLayout),
			TimeZone: c.timeZone,
		},
		End: &calendar.EventDateTime{
			Date:     end.AddDate(0, 0, 1).Format(model.DateLayout),
			TimeZone: c.timeZone,
		},
	}

	if _, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do(); err != nil {
		return goerr.Wrap(err, "failed to insert calendar event",
			goerr.V("calendarID", c.calendarID),
			goerr.V("summary", summary))
	}

	return nil
}
