package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/theory-forum/backend/internal/models"
	"github.com/emilythestrangee/theory-forum/backend/internal/voting"
)

const pgUniqueViolation = "23505"

var (
	_ voting.Store = (*VoteStore)(nil)
	_ voting.Tx    = (*voteTx)(nil)
)

// VoteStore implements voting.Store on gorm. Each transaction locks the
// target row before touching the ledger, which serialises casts on the same
// target and lets casts on different targets run in parallel.
type VoteStore struct {
	db *gorm.DB
}

func NewVoteStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db}
}

func (s *VoteStore) WithinTransaction(ctx context.Context, fn func(tx voting.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&voteTx{db: tx})
	})
}

// AuthorIDs lists every user id in ascending order.
func (s *VoteStore) AuthorIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := s.db.WithContext(ctx).Model(&models.User{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ids, nil
}

type voteTx struct {
	db *gorm.DB
}

// forUpdate adds a row lock on PostgreSQL. SQLite has no row locks and
// serialises write transactions on its own.
func (t *voteTx) forUpdate() *gorm.DB {
	if t.db.Dialector.Name() == "postgres" {
		return t.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return t.db
}

func (t *voteTx) LockTarget(ctx context.Context, target voting.Target) (voting.Votable, error) {
	switch target.Kind {
	case voting.KindPost:
		var post models.Post
		if err := t.forUpdate().First(&post, target.ID).Error; err != nil {
			return nil, notFound(err, target.String())
		}
		return &post, nil
	case voting.KindComment:
		var comment models.Comment
		if err := t.forUpdate().First(&comment, target.ID).Error; err != nil {
			return nil, notFound(err, target.String())
		}
		return &comment, nil
	default:
		return nil, fmt.Errorf("unknown target kind %q: %w", target.Kind, voting.ErrInvalidArgument)
	}
}

func (t *voteTx) LockAuthoredTargets(ctx context.Context, authorID int) ([]voting.AuthoredTarget, error) {
	var posts []models.Post
	if err := t.forUpdate().Select("id", "score").Where("author_id = ?", authorID).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to lock posts: %w", err)
	}
	var comments []models.Comment
	if err := t.forUpdate().Select("id", "score").Where("author_id = ?", authorID).Order("id").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to lock comments: %w", err)
	}

	targets := make([]voting.AuthoredTarget, 0, len(posts)+len(comments))
	for _, p := range posts {
		targets = append(targets, voting.AuthoredTarget{Target: voting.PostTarget(p.ID), Score: p.Score})
	}
	for _, c := range comments {
		targets = append(targets, voting.AuthoredTarget{Target: voting.CommentTarget(c.ID), Score: c.Score})
	}
	return targets, nil
}

func (t *voteTx) FindVote(ctx context.Context, voterID int, target voting.Target) (*voting.Vote, error) {
	col, err := targetColumn(target)
	if err != nil {
		return nil, err
	}

	var row models.Vote
	err = t.db.Where("voter_id = ? AND "+col+" = ?", voterID, target.ID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}

	return &voting.Vote{
		VoterID:   row.VoterID,
		Target:    target,
		Direction: voting.Direction(row.Direction),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (t *voteTx) PutVote(ctx context.Context, vote *voting.Vote) error {
	col, err := targetColumn(vote.Target)
	if err != nil {
		return err
	}

	res := t.db.Model(&models.Vote{}).
		Where("voter_id = ? AND "+col+" = ?", vote.VoterID, vote.Target.ID).
		Updates(map[string]any{
			"direction":  int(vote.Direction),
			"updated_at": vote.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update vote: %w", res.Error)
	}
	if res.RowsAffected > 1 {
		return fmt.Errorf("%d votes for voter %d on %s: %w", res.RowsAffected, vote.VoterID, vote.Target, voting.ErrConstraintViolation)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	row := models.Vote{
		VoterID:   vote.VoterID,
		Direction: int(vote.Direction),
		CreatedAt: vote.CreatedAt,
		UpdatedAt: vote.UpdatedAt,
	}
	id := vote.Target.ID
	if vote.Target.Kind == voting.KindPost {
		row.PostID = &id
	} else {
		row.CommentID = &id
	}

	if err := t.db.Create(&row).Error; err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("duplicate vote for voter %d on %s: %w", vote.VoterID, vote.Target, voting.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

func (t *voteTx) RemoveVote(ctx context.Context, voterID int, target voting.Target) error {
	col, err := targetColumn(target)
	if err != nil {
		return err
	}
	if err := t.db.Where("voter_id = ? AND "+col+" = ?", voterID, target.ID).Delete(&models.Vote{}).Error; err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}

func (t *voteTx) TallyVotes(ctx context.Context, target voting.Target) (int, error) {
	col, err := targetColumn(target)
	if err != nil {
		return 0, err
	}

	var sum int
	row := t.db.Model(&models.Vote{}).Select("COALESCE(SUM(direction), 0)").Where(col+" = ?", target.ID).Row()
	if err := row.Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to tally votes: %w", err)
	}
	return sum, nil
}

func (t *voteTx) AuthorTally(ctx context.Context, authorID int) (int, error) {
	var sum int
	row := t.db.Model(&models.Vote{}).
		Select("COALESCE(SUM(votes.direction), 0)").
		Joins("LEFT JOIN posts ON posts.id = votes.post_id").
		Joins("LEFT JOIN comments ON comments.id = votes.comment_id").
		Where("posts.author_id = ? OR comments.author_id = ?", authorID, authorID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to tally votes for user %d: %w", authorID, err)
	}
	return sum, nil
}

func (t *voteTx) AdjustScore(ctx context.Context, target voting.Target, delta int) (int, error) {
	var model any
	switch target.Kind {
	case voting.KindPost:
		model = &models.Post{}
	case voting.KindComment:
		model = &models.Comment{}
	default:
		return 0, fmt.Errorf("unknown target kind %q: %w", target.Kind, voting.ErrInvalidArgument)
	}
	return t.adjust(model, "score", target.ID, delta, target.String())
}

func (t *voteTx) Reputation(ctx context.Context, userID int) (int, error) {
	var user models.User
	if err := t.forUpdate().Select("id", "reputation").Take(&user, userID).Error; err != nil {
		return 0, notFound(err, fmt.Sprintf("user %d", userID))
	}
	return user.Reputation, nil
}

func (t *voteTx) AdjustReputation(ctx context.Context, userID int, delta int) (int, error) {
	return t.adjust(&models.User{}, "reputation", userID, delta, fmt.Sprintf("user %d", userID))
}

// adjust applies column += delta as a single relative UPDATE and reads the
// result back inside the same transaction.
func (t *voteTx) adjust(model any, column string, id, delta int, what string) (int, error) {
	res := t.db.Model(model).Where("id = ?", id).UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update %s of %s: %w", column, what, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%s: %w", what, voting.ErrNotFound)
	}

	var value int
	if err := t.db.Model(model).Select(column).Where("id = ?", id).Row().Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to read %s of %s: %w", column, what, err)
	}
	return value, nil
}

func targetColumn(target voting.Target) (string, error) {
	switch target.Kind {
	case voting.KindPost:
		return "post_id", nil
	case voting.KindComment:
		return "comment_id", nil
	default:
		return "", fmt.Errorf("unknown target kind %q: %w", target.Kind, voting.ErrInvalidArgument)
	}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, voting.ErrNotFound)
	}
	return err
}

// IsUniqueViolation reports whether err is a duplicate-key failure from the
// database, translated by gorm or raw from pgx.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
