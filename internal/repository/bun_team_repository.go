package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/kusitms-com/meetupd/internal/db/models"
)

// BunTeamRepository implements TeamRepository using Bun ORM.
type BunTeamRepository struct {
	db *bun.DB
}

// NewBunTeamRepository creates a new Bun-based team repository.
func NewBunTeamRepository(db *bun.DB) *BunTeamRepository {
	return &BunTeamRepository{db: db}
}

// CreateWithLeader inserts team and its leader membership in one transaction.
func (r *BunTeamRepository) CreateWithLeader(ctx context.Context, team *models.Team, leaderID int64) error {
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now
	if team.Progress == 0 {
		team.Progress = models.ProgressRecruiting
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(team).Exec(ctx); err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		leader := &models.TeamUser{
			TeamID:    team.ID,
			UserID:    leaderID,
			Role:      models.RoleTeamLeader,
			CreatedAt: now,
		}
		if _, err := tx.NewInsert().Model(leader).Exec(ctx); err != nil {
			return fmt.Errorf("create team leader: %w", err)
		}
		team.Members = []*models.TeamUser{leader}
		return nil
	})
}

// GetByID retrieves a team with its contest and members.
func (r *BunTeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	team := new(models.Team)
	err := r.db.NewSelect().
		Model(team).
		Relation("Contest").
		Relation("Members", orderMembers).
		Relation("Members.User").
		Where("t.id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("team %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get team by ID: %w", err)
	}
	return team, nil
}

// ListByProgress returns one page of teams in progress, newest first, and
// the total number of matching teams.
func (r *BunTeamRepository) ListByProgress(ctx context.Context, progress int, offset, limit int) ([]models.Team, int, error) {
	var teams []models.Team
	total, err := r.db.NewSelect().
		Model(&teams).
		Relation("Contest").
		Relation("Members", orderMembers).
		Relation("Members.User").
		Where("t.progress = ?", progress).
		OrderExpr("t.created_at DESC, t.id DESC").
		Offset(offset).
		Limit(limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list teams by progress: %w", err)
	}
	return teams, total, nil
}

// ListByContestAndProgress returns teams for a contest in progress.
func (r *BunTeamRepository) ListByContestAndProgress(ctx context.Context, contestID string, progress int) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.NewSelect().
		Model(&teams).
		Relation("Members", orderMembers).
		Relation("Members.User").
		Where("t.contest_id = ?", contestID).
		Where("t.progress = ?", progress).
		OrderExpr("t.created_at DESC, t.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams by contest: %w", err)
	}
	return teams, nil
}

func orderMembers(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("tu.id ASC")
}
