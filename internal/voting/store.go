package voting

import "context"

// Store runs fn inside one atomic, isolated unit. Either every write made
// through tx commits or none does.
type Store interface {
	WithinTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the transactional view the engine works through.
type Tx interface {
	Targets
	Ledger
	ScoreAccumulator
	ReputationAccumulator
}

// Targets resolves votable rows and takes the exclusive lock that
// serialises casts on one target.
type Targets interface {
	// LockTarget returns ErrNotFound when the row does not exist.
	LockTarget(ctx context.Context, target Target) (Votable, error)
	// LockAuthoredTargets locks every target owned by authorID in a stable
	// order and returns them with their current scores.
	LockAuthoredTargets(ctx context.Context, authorID int) ([]AuthoredTarget, error)
}

// AuthoredTarget is a locked target together with the score stored on it.
type AuthoredTarget struct {
	Target Target
	Score  int
}

// Ledger holds at most one live vote per (voter, target).
type Ledger interface {
	// FindVote returns nil and no error when the pair has no vote.
	FindVote(ctx context.Context, voterID int, target Target) (*Vote, error)
	// PutVote inserts or overwrites the vote for its pair.
	PutVote(ctx context.Context, vote *Vote) error
	// RemoveVote is a no-op when the pair has no vote.
	RemoveVote(ctx context.Context, voterID int, target Target) error
	// TallyVotes sums the directions of every live vote on target.
	TallyVotes(ctx context.Context, target Target) (int, error)
	// AuthorTally sums the directions of every live vote on any target
	// authored by authorID, as committed at the time of the call.
	AuthorTally(ctx context.Context, authorID int) (int, error)
}

type ScoreAccumulator interface {
	AdjustScore(ctx context.Context, target Target, delta int) (int, error)
}

type ReputationAccumulator interface {
	// Reputation locks the user row and returns the stored value.
	Reputation(ctx context.Context, userID int) (int, error)
	AdjustReputation(ctx context.Context, userID int, delta int) (int, error)
}
