package status

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "wildsl/internal/log"
	"wildsl/internal/schedule"
)

const refreshTimeout = 30 * time.Second

// Refresher owns the current Snapshot. It is refreshed explicitly via
// Refresh and periodically between Start and Stop.
type Refresher struct {
	loader     Loader
	classifier *schedule.Classifier

	mu       sync.RWMutex
	snap     Snapshot
	onChange []func(Snapshot)

	lifeMu sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewRefresher returns a Refresher with an empty snapshot. Call Refresh or
// Start to populate it.
func NewRefresher(loader Loader, c *schedule.Classifier) *Refresher {
	return &Refresher{loader: loader, classifier: c}
}

// OnRefresh registers fn to run after every refresh with the new snapshot.
// Must be called before Start.
func (r *Refresher) OnRefresh(fn func(Snapshot)) {
	r.mu.Lock()
	r.onChange = append(r.onChange, fn)
	r.mu.Unlock()
}

// Snapshot returns the most recent snapshot.
func (r *Refresher) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Refresh rebuilds the snapshot now and returns it.
func (r *Refresher) Refresh(ctx context.Context) Snapshot {
	snap := Build(ctx, r.loader, r.classifier, r.classifier.Now())

	r.mu.Lock()
	r.snap = snap
	hooks := slices.Clone(r.onChange)
	r.mu.Unlock()

	appLog.Info("status refreshed",
		"has_events_today", snap.HasEventsToday,
		"competition_announced", snap.Competition.Announced,
		"submission_closed", snap.Competition.SubmissionClosed,
		"fallback", snap.Fallback,
	)
	for _, fn := range hooks {
		fn(snap)
	}
	return snap
}

// Start performs an initial refresh and then refreshes on spec, a standard
// five-field cron expression evaluated in the classifier's location.
func (r *Refresher) Start(spec string) error {
	r.lifeMu.Lock()
	defer r.lifeMu.Unlock()

	if r.cron != nil {
		return errors.New("status: refresher already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(cron.WithLocation(r.classifier.Location()))
	if _, err := c.AddFunc(spec, func() {
		jobCtx, jobCancel := context.WithTimeout(ctx, refreshTimeout)
		defer jobCancel()
		r.Refresh(jobCtx)
	}); err != nil {
		cancel()
		return err
	}

	initCtx, initCancel := context.WithTimeout(ctx, refreshTimeout)
	r.Refresh(initCtx)
	initCancel()

	c.Start()
	r.cron = c
	r.cancel = cancel
	appLog.Info("status refresher started", "schedule", spec)
	return nil
}

// Stop halts the schedule, cancels an in-flight refresh, and waits for it
// to return. Stop on a stopped Refresher is a no-op.
func (r *Refresher) Stop() {
	r.lifeMu.Lock()
	defer r.lifeMu.Unlock()

	if r.cron == nil {
		return
	}
	r.cancel()
	<-r.cron.Stop().Done()
	r.cron = nil
	r.cancel = nil
	appLog.Info("status refresher stopped")
}

// Running reports whether the schedule is active.
func (r *Refresher) Running() bool {
	r.lifeMu.Lock()
	defer r.lifeMu.Unlock()
	return r.cron != nil
}
