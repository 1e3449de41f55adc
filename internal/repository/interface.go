package repository

import (
	"context"
	"time"

	"github.com/kusitms-com/meetupd/internal/db/models"
)

// UserRepository exposes persistence operations for users, their awards,
// and ticket spends.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateAccount(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User, awards []string) error

	// Tickets
	AddTickets(ctx context.Context, userID int64, amount int) (int, error)
	HasSpentTicket(ctx context.Context, userID, purchaseUserID int64) (bool, error)
	SpendTicket(ctx context.Context, userID, purchaseUserID int64) (int, error)
}

// ContestRepository exposes persistence operations for contests.
type ContestRepository interface {
	Create(ctx context.Context, contest *models.Contest) error
	GetByID(ctx context.Context, id string) (*models.Contest, error)
	ListOpen(ctx context.Context, from time.Time, category *int) ([]models.Contest, error)
	ListTopByTeamNum(ctx context.Context, from time.Time, limit int) ([]models.Contest, error)
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]models.Contest, error)
}

// TeamRepository exposes persistence operations for teams.
type TeamRepository interface {
	// CreateWithLeader inserts team and a TEAM_LEADER membership for
	// leaderID in one transaction.
	CreateWithLeader(ctx context.Context, team *models.Team, leaderID int64) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	ListByProgress(ctx context.Context, progress int, offset, limit int) ([]models.Team, int, error)
	ListByContestAndProgress(ctx context.Context, contestID string, progress int) ([]models.Team, error)
}

// TeamUserRepository exposes persistence operations for team memberships.
type TeamUserRepository interface {
	Create(ctx context.Context, teamUser *models.TeamUser) error
	GetByID(ctx context.Context, id int64) (*models.TeamUser, error)
	GetByTeamAndUser(ctx context.Context, teamID, userID int64) (*models.TeamUser, error)
	ExistsByRoleAndUserID(ctx context.Context, role int, userID int64) (bool, error)
	ExistsByUserID(ctx context.Context, userID int64) (bool, error)
	ListByTeamAndRole(ctx context.Context, teamID int64, role int) ([]models.TeamUser, error)
	UpdateRole(ctx context.Context, id int64, role int) error
}
