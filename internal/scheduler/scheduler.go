package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ykvlv/birthday-bot/internal/domain"
	"github.com/ykvlv/birthday-bot/internal/metrics"
	"github.com/ykvlv/birthday-bot/internal/notifier"
)

const flightKey = "daily-scan"

// Finder is the read side of the store used by the daily scan.
type Finder interface {
	FindPersonalByDayMonth(ctx context.Context, key string) ([]domain.PersonalBirthday, error)
	FindGroupByDayMonth(ctx context.Context, key string) ([]domain.GroupBirthday, error)
}

// Notifier delivers one reminder per matched record.
type Notifier interface {
	NotifyPersonal(ctx context.Context, b domain.PersonalBirthday, tier domain.Tier) (notifier.Delivery, error)
	NotifyGroup(ctx context.Context, b domain.GroupBirthday, tier domain.Tier) (notifier.Delivery, error)
}

// Options configure when the daily scan fires.
type Options struct {
	Location  *time.Location
	AtMinutes int              // minutes after local midnight
	Now       func() time.Time // defaults to time.Now
}

// Report summarises one scan.
type Report struct {
	RunID       string
	Date        string
	Matched     int
	Sent        int
	Pinned      int
	Failed      int
	Skipped     int
	QueryErrors int
	Duration    time.Duration
}

// Scheduler runs the scan-and-notify cycle once a day.
type Scheduler struct {
	finder   Finder
	notifier Notifier
	log      *zap.Logger
	metrics  *metrics.Metrics
	loc      *time.Location
	atM      int
	now      func() time.Time

	flight singleflight.Group
	wg     sync.WaitGroup
}

// New creates a new Scheduler.
func New(finder Finder, n Notifier, log *zap.Logger, m *metrics.Metrics, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scheduler{
		finder:   finder,
		notifier: n,
		log:      log,
		metrics:  m,
		loc:      opts.Location,
		atM:      opts.AtMinutes,
		now:      opts.Now,
	}
}

// Run fires a scan every day at the configured local time until ctx is canceled.
// A scan that is already dispatching when ctx is canceled runs to completion.
func (s *Scheduler) Run(ctx context.Context) {
	defer s.wg.Wait()

	for {
		now := s.now()
		next := domain.NextDailyRun(now, s.loc, s.atM)
		s.log.Info("next birthday scan scheduled", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("scheduler stopping")
			return
		case <-timer.C:
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.Trigger(context.WithoutCancel(ctx), s.Today())
			}()
		}
	}
}

// Today is the current calendar date in the scheduler's zone.
func (s *Scheduler) Today() time.Time {
	return domain.LocalDate(s.now(), s.loc)
}

// Trigger runs a scan for today unless one is already in flight, in which case the caller
// waits for it and receives its report with joined set.
func (s *Scheduler) Trigger(ctx context.Context, today time.Time) (Report, bool) {
	runID := uuid.NewString()
	v, _, _ := s.flight.Do(flightKey, func() (any, error) {
		return s.Scan(ctx, runID, today), nil
	})
	rep := v.(Report)
	if rep.RunID != runID {
		s.log.Warn("scan already in progress, not starting another",
			zap.String("runID", runID),
			zap.String("inFlightRunID", rep.RunID),
		)
		s.metrics.ScanFinished("joined", 0)
		return rep, true
	}
	return rep, false
}

type groupHit struct {
	b    domain.GroupBirthday
	tier domain.Tier
}

type personalHit struct {
	b    domain.PersonalBirthday
	tier domain.Tier
}

// Scan matches today, today+1 and today+2 by day-month and dispatches every hit in order.
// One record's failure is logged and counted; the batch always continues.
func (s *Scheduler) Scan(ctx context.Context, runID string, today time.Time) Report {
	start := time.Now()
	rep := Report{RunID: runID, Date: domain.FormatDate(today)}
	log := s.log.With(zap.String("runID", runID), zap.String("date", rep.Date))
	log.Info("birthday scan started")

	var (
		groups    []groupHit
		personals []personalHit
	)
	for _, k := range domain.Offsets {
		tier, _ := domain.TierForOffset(k)
		key := domain.DayMonthKey(domain.AddDays(today, k))

		gs, err := s.finder.FindGroupByDayMonth(ctx, key)
		if err != nil {
			rep.QueryErrors++
			log.Error("FindGroupByDayMonth failed", zap.Error(err), zap.String("key", key))
		}
		for _, b := range gs {
			groups = append(groups, groupHit{b: b, tier: tier})
		}

		ps, err := s.finder.FindPersonalByDayMonth(ctx, key)
		if err != nil {
			rep.QueryErrors++
			log.Error("FindPersonalByDayMonth failed", zap.Error(err), zap.String("key", key))
		}
		for _, b := range ps {
			personals = append(personals, personalHit{b: b, tier: tier})
		}
	}
	rep.Matched = len(groups) + len(personals)

	for _, h := range groups {
		d, err := s.notifier.NotifyGroup(ctx, h.b, h.tier)
		s.record(log, &rep, "group", h.tier, d, err,
			zap.Int64("chatID", h.b.ChatID), zap.Int64("userID", h.b.UserID))
	}
	for _, h := range personals {
		d, err := s.notifier.NotifyPersonal(ctx, h.b, h.tier)
		s.record(log, &rep, "personal", h.tier, d, err,
			zap.Int64("chatID", h.b.OwnerID), zap.String("name", h.b.Name))
	}

	rep.Duration = time.Since(start)
	s.metrics.ScanFinished("completed", rep.Duration)
	log.Info("birthday scan finished",
		zap.Int("matched", rep.Matched),
		zap.Int("sent", rep.Sent),
		zap.Int("pinned", rep.Pinned),
		zap.Int("failed", rep.Failed),
		zap.Int("skipped", rep.Skipped),
		zap.Duration("took", rep.Duration),
	)
	return rep
}

func (s *Scheduler) record(log *zap.Logger, rep *Report, kind string, tier domain.Tier, d notifier.Delivery, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("tier", tier.String()))
	switch {
	case errors.Is(err, notifier.ErrNameLookup):
		rep.Skipped++
		s.metrics.NotificationDispatched(kind, tier.String(), "skipped")
		log.Error("member lookup failed, skipping record", append(fields, zap.Error(err))...)
	case err != nil:
		rep.Failed++
		s.metrics.NotificationDispatched(kind, tier.String(), "failed")
		log.Error("send failed", append(fields, zap.Error(err))...)
	default:
		rep.Sent++
		if d.Pinned {
			rep.Pinned++
		}
		s.metrics.NotificationDispatched(kind, tier.String(), "sent")
		log.Debug("reminder sent", fields...)
	}
}
