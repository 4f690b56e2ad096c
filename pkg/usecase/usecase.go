package usecase

import (
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/interfaces"
	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/service/freee"
	"github.com/kintai-dev/workstamper/pkg/service/gcal"
	slacksvc "github.com/kintai-dev/workstamper/pkg/service/slack"
)

// UseCases bundles the command handlers behind the HTTP controller
type UseCases struct {
	Auth        *AuthUseCase
	Attendance  *AttendanceUseCase
	Application *ApplicationUseCase

	calendar gcal.Service
	workTags []model.WorkTagOption
	now      func() time.Time

	pollAttempts int
	pollInitial  time.Duration
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithCalendar enables mirroring approved leave onto a calendar
func WithCalendar(svc gcal.Service) Option {
	return func(uc *UseCases) {
		uc.calendar = svc
	}
}

// WithWorkTags replaces the built-in work-mode options
func WithWorkTags(tags []model.WorkTagOption) Option {
	return func(uc *UseCases) {
		uc.workTags = tags
	}
}

// WithClock replaces the time source (for tests)
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithWorkRecordPoll tunes the poll that waits for the HR system to expose
// a freshly clocked-in work record
func WithWorkRecordPoll(attempts int, initial time.Duration) Option {
	return func(uc *UseCases) {
		uc.pollAttempts = attempts
		uc.pollInitial = initial
	}
}

// New creates the use case set. The calendar service is optional; when
// absent, leave requests are still relayed to freee but not mirrored.
func New(repo interfaces.Repository, freeeSvc freee.Service, slackSvc slacksvc.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		workTags:     model.DefaultWorkTagOptions(),
		now:          time.Now,
		pollAttempts: 5,
		pollInitial:  time.Second,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Auth = newAuthUseCase(repo, freeeSvc, slackSvc, uc.now)
	uc.Attendance = newAttendanceUseCase(uc.Auth, freeeSvc, slackSvc, uc.workTags, uc.now, uc.pollAttempts, uc.pollInitial)
	uc.Application = newApplicationUseCase(uc.Auth, freeeSvc, uc.calendar, slackSvc, uc.now)

	return uc
}
