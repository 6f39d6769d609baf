package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/emilythestrangee/theory-forum/backend/internal/metrics"
)

// Engine is the only writer of vote ledgers, target scores and author
// reputation. Every cast runs read, decide and the three writes inside one
// Store transaction.
type Engine struct {
	store   Store
	clock   clockwork.Clock
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*Engine)

// WithClock sets the clock used for vote timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTimeout bounds each cast. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// NewEngine creates a voting engine over store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cast records voterID's vote of dir on target and returns the target's
// score after the transition. Casting the direction already on record
// retracts the vote; casting the opposite direction flips it.
func (e *Engine) Cast(ctx context.Context, voterID int, target Target, dir Direction) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.VoteCastDuration.WithLabelValues(string(target.Kind)).Observe(time.Since(start).Seconds())
	}()

	if !dir.Valid() {
		metrics.VoteCastErrors.WithLabelValues("invalid_argument").Inc()
		return Result{}, fmt.Errorf("vote direction %d must be 1 or -1: %w", int(dir), ErrInvalidArgument)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var res Result
	err := e.store.WithinTransaction(ctx, func(tx Tx) error {
		var err error
		res, err = e.apply(ctx, tx, voterID, target, dir)
		return err
	})
	if err != nil {
		e.recordFailure(voterID, target, err)
		return Result{}, err
	}

	metrics.VotesCastTotal.WithLabelValues(string(target.Kind), string(res.Transition)).Inc()
	e.logger.Debug("vote cast",
		"voter_id", voterID,
		"target", target.String(),
		"direction", res.Direction.String(),
		"transition", res.Transition,
		"delta", res.Delta,
		"score", res.Score,
	)
	return res, nil
}

func (e *Engine) apply(ctx context.Context, tx Tx, voterID int, target Target, dir Direction) (Result, error) {
	subject, err := tx.LockTarget(ctx, target)
	if err != nil {
		return Result{}, fmt.Errorf("lock %s: %w", target, err)
	}

	existing, err := tx.FindVote(ctx, voterID, target)
	if err != nil {
		return Result{}, fmt.Errorf("find vote on %s: %w", target, err)
	}

	current := None
	if existing != nil {
		current = existing.Direction
	}
	state, transition := next(current, dir)
	delta := int(state) - int(current)

	if state == None {
		if err := tx.RemoveVote(ctx, voterID, target); err != nil {
			return Result{}, fmt.Errorf("remove vote on %s: %w", target, err)
		}
	} else {
		now := e.clock.Now().UTC()
		vote := &Vote{
			VoterID:   voterID,
			Target:    target,
			Direction: state,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if existing != nil {
			vote.CreatedAt = existing.CreatedAt
		}
		if err := tx.PutVote(ctx, vote); err != nil {
			return Result{}, fmt.Errorf("put vote on %s: %w", target, err)
		}
	}

	score, err := tx.AdjustScore(ctx, target, delta)
	if err != nil {
		return Result{}, fmt.Errorf("adjust score of %s: %w", target, err)
	}
	if _, err := tx.AdjustReputation(ctx, subject.OwnerID(), delta); err != nil {
		return Result{}, fmt.Errorf("adjust reputation of user %d: %w", subject.OwnerID(), err)
	}

	return Result{
		Target:     target,
		Score:      score,
		Direction:  state,
		Transition: transition,
		Delta:      delta,
	}, nil
}

// CurrentVote returns voterID's live direction on target, or None.
func (e *Engine) CurrentVote(ctx context.Context, voterID int, target Target) (Direction, error) {
	dir := None
	err := e.store.WithinTransaction(ctx, func(tx Tx) error {
		vote, err := tx.FindVote(ctx, voterID, target)
		if err != nil {
			return err
		}
		if vote != nil {
			dir = vote.Direction
		}
		return nil
	})
	if err != nil {
		return None, fmt.Errorf("find vote on %s: %w", target, err)
	}
	return dir, nil
}

func (e *Engine) recordFailure(voterID int, target Target, err error) {
	reason := failureReason(err)
	metrics.VoteCastErrors.WithLabelValues(reason).Inc()

	if reason == "constraint_violation" {
		e.logger.Error("vote ledger constraint violated",
			"voter_id", voterID,
			"target", target.String(),
			"error", err,
		)
		return
	}
	e.logger.Debug("vote cast failed",
		"voter_id", voterID,
		"target", target.String(),
		"reason", reason,
		"error", err,
	)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConstraintViolation):
		return "constraint_violation"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "storage"
	}
}
