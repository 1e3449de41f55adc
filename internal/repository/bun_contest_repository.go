package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/kusitms-com/meetupd/internal/db/bunx"
	"github.com/kusitms-com/meetupd/internal/db/models"
)

// BunContestRepository implements ContestRepository using Bun ORM.
type BunContestRepository struct {
	db *bun.DB
}

// NewBunContestRepository creates a new Bun-based contest repository.
func NewBunContestRepository(db *bun.DB) *BunContestRepository {
	return &BunContestRepository{db: db}
}

// Create inserts contest, assigning a UUIDv7 id when none is set.
func (r *BunContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	if contest.ID == "" {
		contest.ID = bunx.NewUUIDv7()
	}
	if contest.CreatedAt.IsZero() {
		contest.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NewInsert().Model(contest).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("contest %s: %w", contest.ID, ErrConflict)
		}
		return fmt.Errorf("create contest: %w", err)
	}
	return nil
}

// GetByID retrieves a contest by id.
func (r *BunContestRepository) GetByID(ctx context.Context, id string) (*models.Contest, error) {
	contest := new(models.Contest)
	err := r.db.NewSelect().
		Model(contest).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("contest %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get contest by ID: %w", err)
	}
	return contest, nil
}

// ListOpen returns contests whose recruitment ends on or after from,
// earliest deadline first, optionally restricted to one category.
func (r *BunContestRepository) ListOpen(ctx context.Context, from time.Time, category *int) ([]models.Contest, error) {
	var contests []models.Contest
	q := r.db.NewSelect().
		Model(&contests).
		Where("c.recruit_end >= ?", from).
		OrderExpr("c.recruit_end ASC, c.id ASC")
	if category != nil {
		q = q.Where("c.types = ?", *category)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list open contests: %w", err)
	}
	return contests, nil
}

// ListTopByTeamNum returns up to limit open contests with the most teams.
func (r *BunContestRepository) ListTopByTeamNum(ctx context.Context, from time.Time, limit int) ([]models.Contest, error) {
	var contests []models.Contest
	err := r.db.NewSelect().
		Model(&contests).
		Where("c.recruit_end >= ?", from).
		OrderExpr("c.team_num DESC, c.recruit_end ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recommended contests: %w", err)
	}
	return contests, nil
}

// ListEndingBetween returns contests with from <= recruit_end < to.
func (r *BunContestRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]models.Contest, error) {
	var contests []models.Contest
	err := r.db.NewSelect().
		Model(&contests).
		Where("c.recruit_end >= ?", from).
		Where("c.recruit_end < ?", to).
		OrderExpr("c.recruit_end ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contests ending between: %w", err)
	}
	return contests, nil
}
