package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/kusitms-com/meetupd/internal/db/models"
)

// BunTeamUserRepository implements TeamUserRepository using Bun ORM.
type BunTeamUserRepository struct {
	db *bun.DB
}

// NewBunTeamUserRepository creates a new Bun-based membership repository.
func NewBunTeamUserRepository(db *bun.DB) *BunTeamUserRepository {
	return &BunTeamUserRepository{db: db}
}

// Create inserts a membership. A second membership of the same user in the
// same team returns ErrConflict.
func (r *BunTeamUserRepository) Create(ctx context.Context, teamUser *models.TeamUser) error {
	if teamUser.CreatedAt.IsZero() {
		teamUser.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NewInsert().Model(teamUser).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("team %d user %d: %w", teamUser.TeamID, teamUser.UserID, ErrConflict)
		}
		return fmt.Errorf("create team user: %w", err)
	}
	return nil
}

// GetByID retrieves a membership by id.
func (r *BunTeamUserRepository) GetByID(ctx context.Context, id int64) (*models.TeamUser, error) {
	teamUser := new(models.TeamUser)
	err := r.db.NewSelect().
		Model(teamUser).
		Where("tu.id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("team user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get team user by ID: %w", err)
	}
	return teamUser, nil
}

// GetByTeamAndUser retrieves userID's membership in teamID.
func (r *BunTeamUserRepository) GetByTeamAndUser(ctx context.Context, teamID, userID int64) (*models.TeamUser, error) {
	teamUser := new(models.TeamUser)
	err := r.db.NewSelect().
		Model(teamUser).
		Where("tu.team_id = ?", teamID).
		Where("tu.user_id = ?", userID).
		OrderExpr("tu.role ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("team user for team %d user %d: %w", teamID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get team user: %w", err)
	}
	return teamUser, nil
}

// ExistsByRoleAndUserID reports whether userID holds role in any team.
func (r *BunTeamUserRepository) ExistsByRoleAndUserID(ctx context.Context, role int, userID int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.TeamUser)(nil)).
		Where("tu.role = ?", role).
		Where("tu.user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check team user role: %w", err)
	}
	return exists, nil
}

// ExistsByUserID reports whether userID belongs to any team.
func (r *BunTeamUserRepository) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.TeamUser)(nil)).
		Where("tu.user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check team user: %w", err)
	}
	return exists, nil
}

// ListByTeamAndRole returns teamID's memberships with role, users loaded.
func (r *BunTeamUserRepository) ListByTeamAndRole(ctx context.Context, teamID int64, role int) ([]models.TeamUser, error) {
	var teamUsers []models.TeamUser
	err := r.db.NewSelect().
		Model(&teamUsers).
		Relation("User").
		Where("tu.team_id = ?", teamID).
		Where("tu.role = ?", role).
		OrderExpr("tu.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team users: %w", err)
	}
	return teamUsers, nil
}

// UpdateRole changes the role of membership id.
func (r *BunTeamUserRepository) UpdateRole(ctx context.Context, id int64, role int) error {
	result, err := r.db.NewUpdate().
		Model((*models.TeamUser)(nil)).
		Set("role = ?", role).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update team user role: %w", err)
	}
	return expectOneRow(result, "team user", id)
}
