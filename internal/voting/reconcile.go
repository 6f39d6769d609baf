package voting

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/theory-forum/backend/internal/metrics"
)

// TargetDrift is one corrected score.
type TargetDrift struct {
	Target Target
	Stored int
	Tally  int
}

// Report describes what Reconcile found and fixed for one author.
type Report struct {
	AuthorID         int
	TargetsChecked   int
	ScoreDrifts      []TargetDrift
	ReputationBefore int
	ReputationAfter  int
}

// Clean reports whether no counter needed correcting.
func (r Report) Clean() bool {
	return len(r.ScoreDrifts) == 0 && r.ReputationBefore == r.ReputationAfter
}

// Reconcile recounts the scores of every target authored by authorID and
// the author's reputation from the live ledger, correcting drift with
// relative adjustments. It takes the same locks as Cast, targets first and
// the user row last. The reputation total is counted only once the user row
// is locked, so casts on targets created after the target scan are either
// fully visible or not at all.
func (e *Engine) Reconcile(ctx context.Context, authorID int) (Report, error) {
	report := Report{AuthorID: authorID}

	err := e.store.WithinTransaction(ctx, func(tx Tx) error {
		targets, err := tx.LockAuthoredTargets(ctx, authorID)
		if err != nil {
			return fmt.Errorf("lock targets of user %d: %w", authorID, err)
		}
		report.TargetsChecked = len(targets)

		for _, t := range targets {
			tally, err := tx.TallyVotes(ctx, t.Target)
			if err != nil {
				return fmt.Errorf("tally %s: %w", t.Target, err)
			}
			if drift := tally - t.Score; drift != 0 {
				if _, err := tx.AdjustScore(ctx, t.Target, drift); err != nil {
					return fmt.Errorf("adjust score of %s: %w", t.Target, err)
				}
				report.ScoreDrifts = append(report.ScoreDrifts, TargetDrift{Target: t.Target, Stored: t.Score, Tally: tally})
			}
		}

		rep, err := tx.Reputation(ctx, authorID)
		if err != nil {
			return fmt.Errorf("reputation of user %d: %w", authorID, err)
		}
		total, err := tx.AuthorTally(ctx, authorID)
		if err != nil {
			return fmt.Errorf("tally votes for user %d: %w", authorID, err)
		}
		report.ReputationBefore = rep
		report.ReputationAfter = rep
		if drift := total - rep; drift != 0 {
			after, err := tx.AdjustReputation(ctx, authorID, drift)
			if err != nil {
				return fmt.Errorf("adjust reputation of user %d: %w", authorID, err)
			}
			report.ReputationAfter = after
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	for _, d := range report.ScoreDrifts {
		metrics.ReconcileDriftTotal.WithLabelValues("score").Add(float64(abs(d.Tally - d.Stored)))
	}
	if !report.Clean() {
		metrics.ReconcileDriftTotal.WithLabelValues("reputation").Add(float64(abs(report.ReputationAfter - report.ReputationBefore)))
		e.logger.Warn("reconciled counter drift",
			"author_id", authorID,
			"targets", report.TargetsChecked,
			"score_drifts", len(report.ScoreDrifts),
			"reputation_before", report.ReputationBefore,
			"reputation_after", report.ReputationAfter,
		)
	}
	return report, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
