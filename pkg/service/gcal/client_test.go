package gcal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/kintai-dev/workstamper/pkg/service/gcal"
)

func TestCreateAllDayEventUsesExclusiveEnd(t *testing.T) {
	type eventDate struct {
		Date     string `json:"date"`
		TimeZone string `json:"timeZone"`
	}
	type event struct {
		Summary string    `json:"summary"`
		Start   eventDate `json:"start"`
		End     eventDate `json:"end"`
	}

	var received event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Method).Equal(http.MethodPost)
		gt.Bool(t, strings.Contains(r.URL.Path, "team-calendar%40example.com") ||
			strings.Contains(r.URL.Path, "team-calendar@example.com")).True()

		gt.NoError(t, json.NewDecoder(r.Body).Decode(&received)).Required()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt1"}`))
	}))
	t.Cleanup(server.Close)

	svc, err := gcal.New(context.Background(), "team-calendar@example.com", "token",
		gcal.WithEndpoint(server.URL+"/"))
	gt.NoError(t, err).Required()

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	gt.NoError(t, svc.CreateAllDayEvent(context.Background(), "Leave (Paid leave): Taro", start, end)).Required()

	gt.Value(t, received.Summary).Equal("Leave (Paid leave): Taro")
	gt.Value(t, received.Start.Date).Equal("2024-05-01")
	// All-day events take an exclusive end date: the nominal inclusive
	// end shifts by one day
	gt.Value(t, received.End.Date).Equal("2024-05-04")
	gt.Value(t, received.Start.TimeZone).Equal(gcal.DefaultTimeZone)
}

func TestCreateAllDayEventRejectsInvertedRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	t.Cleanup(server.Close)

	svc, err := gcal.New(context.Background(), "team-calendar@example.com", "token",
		gcal.WithEndpoint(server.URL+"/"))
	gt.NoError(t, err).Required()

	start := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	gt.Error(t, svc.CreateAllDayEvent(context.Background(), "Leave", start, end))
}

func TestNewValidation(t *testing.T) {
	_, err := gcal.New(context.Background(), "", "token")
	gt.Error(t, err)

	_, err = gcal.New(context.Background(), "cal@example.com", "")
	gt.Error(t, err)
}
