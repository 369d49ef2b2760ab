// Package status maintains the read-only site snapshot ("is anything
// happening today", competition round state) and refreshes it on a cron
// schedule.
package status

import (
	"context"
	"time"

	appLog "wildsl/internal/log"
	"wildsl/internal/model"
	"wildsl/internal/schedule"
)

// Competition is the derived state of the current WPOTY round.
type Competition struct {
	Config           *model.CompetitionConfig `json:"config"`
	Announced        bool                     `json:"announced"`
	SubmissionClosed bool                     `json:"submission_closed"`
	ResultsPublished bool                     `json:"results_published"`
}

// Snapshot is an immutable view of the site state at RefreshedAt.
type Snapshot struct {
	HasEventsToday bool        `json:"has_events_today"`
	Competition    Competition `json:"competition"`
	RefreshedAt    time.Time   `json:"refreshed_at"`
	// Fallback lists documents that were replaced by their fallback payload.
	Fallback []string `json:"fallback,omitempty"`
}

// Loader is the subset of content.Loader a snapshot is built from.
type Loader interface {
	Events(ctx context.Context) ([]model.Entry, bool)
	Competition(ctx context.Context) (*model.CompetitionConfig, bool)
}

// Build loads the events and competition documents and derives a snapshot
// for ref.
func Build(ctx context.Context, loader Loader, c *schedule.Classifier, ref time.Time) Snapshot {
	if ref.IsZero() {
		ref = time.Now()
	}
	snap := Snapshot{RefreshedAt: ref}

	events, fallback := loader.Events(ctx)
	if fallback {
		snap.Fallback = append(snap.Fallback, "events")
	}
	snap.HasEventsToday = c.AnyToday(events, ref)

	cfg, fallback := loader.Competition(ctx)
	if fallback {
		snap.Fallback = append(snap.Fallback, "competition")
	}
	snap.Competition = CompetitionStatus(cfg, c, ref)
	return snap
}

// CompetitionStatus derives the round state for ref.
//
// Submissions close the day after the deadline date: the deadline is a
// calendar day in the site's zone, so entries sent at any hour of it are
// still on time. Comparing against the deadline parsed as UTC midnight would
// instead close at 05:30 Sri Lanka time on the deadline day. Results count as
// published from the results date on. A missing or malformed date leaves the
// corresponding flag false.
func CompetitionStatus(cfg *model.CompetitionConfig, c *schedule.Classifier, ref time.Time) Competition {
	out := Competition{Config: cfg}
	if cfg == nil {
		return out
	}
	out.Announced = cfg.IsAnnounced
	today := c.Midnight(ref)

	if cfg.IsAnnounced && cfg.SubmissionDeadline != "" {
		deadline, err := c.ParseDate(cfg.SubmissionDeadline)
		if err != nil {
			appLog.Error("status: bad submission deadline", err, "value", cfg.SubmissionDeadline)
		} else {
			out.SubmissionClosed = today.After(c.Midnight(deadline))
		}
	}
	if cfg.ResultsDate != "" {
		results, err := c.ParseDate(cfg.ResultsDate)
		if err != nil {
			appLog.Error("status: bad results date", err, "value", cfg.ResultsDate)
		} else {
			out.ResultsPublished = !today.Before(c.Midnight(results))
		}
	}
	return out
}
