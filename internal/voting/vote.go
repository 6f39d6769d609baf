package voting

import (
	"fmt"
	"time"
)

// Direction is the sign of a vote. The zero value means "no vote".
type Direction int

const (
	None Direction = 0
	Up   Direction = 1
	Down Direction = -1
)

// Valid reports whether d can be cast. None is a ledger state, not a vote.
func (d Direction) Valid() bool {
	return d == Up || d == Down
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case None:
		return "none"
	default:
		return fmt.Sprintf("invalid(%d)", int(d))
	}
}

// TargetKind selects which content table a vote points at.
type TargetKind string

const (
	KindPost    TargetKind = "post"
	KindComment TargetKind = "comment"
)

// Target references a single votable row.
type Target struct {
	Kind TargetKind
	ID   int
}

func PostTarget(id int) Target    { return Target{Kind: KindPost, ID: id} }
func CommentTarget(id int) Target { return Target{Kind: KindComment, ID: id} }

func (t Target) String() string {
	return fmt.Sprintf("%s/%d", t.Kind, t.ID)
}

// Votable is the capability set shared by posts and comments: a running
// score and the author whose reputation the score feeds.
type Votable interface {
	CurrentScore() int
	OwnerID() int
}

// Vote is the current voting relationship between one voter and one target.
type Vote struct {
	VoterID   int
	Target    Target
	Direction Direction
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transition names the ledger change a cast produced.
type Transition string

const (
	Added     Transition = "added"
	Retracted Transition = "retracted"
	Flipped   Transition = "flipped"
)

// Result is what Cast reports back to the API boundary.
type Result struct {
	Target     Target
	Score      int
	Direction  Direction
	Transition Transition
	Delta      int
}

// next decides the new ledger state for a cast of dir over current.
// Casting the same direction twice retracts.
func next(current, dir Direction) (Direction, Transition) {
	switch current {
	case None:
		return dir, Added
	case dir:
		return None, Retracted
	default:
		return dir, Flipped
	}
}
