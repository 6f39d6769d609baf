package voting

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"
)

// MockStore runs the transaction body directly against Tx. Nothing is rolled
// back; tests assert on the calls made instead.
type MockStore struct {
	mock.Mock
	Tx *MockTx
}

func (m *MockStore) WithinTransaction(ctx context.Context, fn func(tx Tx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}

type MockTx struct {
	mock.Mock
}

type fakeTarget struct {
	score  int
	author int
}

func (f fakeTarget) CurrentScore() int { return f.score }
func (f fakeTarget) OwnerID() int      { return f.author }

func (m *MockTx) LockTarget(ctx context.Context, target Target) (Votable, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Votable), args.Error(1)
}

func (m *MockTx) LockAuthoredTargets(ctx context.Context, authorID int) ([]AuthoredTarget, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AuthoredTarget), args.Error(1)
}

func (m *MockTx) FindVote(ctx context.Context, voterID int, target Target) (*Vote, error) {
	args := m.Called(ctx, voterID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Vote), args.Error(1)
}

func (m *MockTx) PutVote(ctx context.Context, vote *Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockTx) RemoveVote(ctx context.Context, voterID int, target Target) error {
	args := m.Called(ctx, voterID, target)
	return args.Error(0)
}

func (m *MockTx) TallyVotes(ctx context.Context, target Target) (int, error) {
	args := m.Called(ctx, target)
	return args.Int(0), args.Error(1)
}

func (m *MockTx) AuthorTally(ctx context.Context, authorID int) (int, error) {
	args := m.Called(ctx, authorID)
	return args.Int(0), args.Error(1)
}

func (m *MockTx) AdjustScore(ctx context.Context, target Target, delta int) (int, error) {
	args := m.Called(ctx, target, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockTx) Reputation(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockTx) AdjustReputation(ctx context.Context, userID int, delta int) (int, error) {
	args := m.Called(ctx, userID, delta)
	return args.Int(0), args.Error(1)
}

var errStorage = errors.New("connection reset")
