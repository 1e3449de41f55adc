package team

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kusitms-com/meetupd/internal/db/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateAccount(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User, awards []string) error {
	args := m.Called(ctx, user, awards)
	return args.Error(0)
}

func (m *MockUserRepository) AddTickets(ctx context.Context, userID int64, amount int) (int, error) {
	args := m.Called(ctx, userID, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) HasSpentTicket(ctx context.Context, userID, purchaseUserID int64) (bool, error) {
	args := m.Called(ctx, userID, purchaseUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SpendTicket(ctx context.Context, userID, purchaseUserID int64) (int, error) {
	args := m.Called(ctx, userID, purchaseUserID)
	return args.Int(0), args.Error(1)
}

type MockContestRepository struct {
	mock.Mock
}

func (m *MockContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	args := m.Called(ctx, contest)
	return args.Error(0)
}

func (m *MockContestRepository) GetByID(ctx context.Context, id string) (*models.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contest), args.Error(1)
}

func (m *MockContestRepository) ListOpen(ctx context.Context, from time.Time, category *int) ([]models.Contest, error) {
	args := m.Called(ctx, from, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contest), args.Error(1)
}

func (m *MockContestRepository) ListTopByTeamNum(ctx context.Context, from time.Time, limit int) ([]models.Contest, error) {
	args := m.Called(ctx, from, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contest), args.Error(1)
}

func (m *MockContestRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]models.Contest, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contest), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) CreateWithLeader(ctx context.Context, team *models.Team, leaderID int64) error {
	args := m.Called(ctx, team, leaderID)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByProgress(ctx context.Context, progress int, offset, limit int) ([]models.Team, int, error) {
	args := m.Called(ctx, progress, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Team), args.Int(1), args.Error(2)
}

func (m *MockTeamRepository) ListByContestAndProgress(ctx context.Context, contestID string, progress int) ([]models.Team, error) {
	args := m.Called(ctx, contestID, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

type MockTeamUserRepository struct {
	mock.Mock
}

func (m *MockTeamUserRepository) Create(ctx context.Context, teamUser *models.TeamUser) error {
	args := m.Called(ctx, teamUser)
	return args.Error(0)
}

func (m *MockTeamUserRepository) GetByID(ctx context.Context, id int64) (*models.TeamUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamUser), args.Error(1)
}

func (m *MockTeamUserRepository) GetByTeamAndUser(ctx context.Context, teamID, userID int64) (*models.TeamUser, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamUser), args.Error(1)
}

func (m *MockTeamUserRepository) ExistsByRoleAndUserID(ctx context.Context, role int, userID int64) (bool, error) {
	args := m.Called(ctx, role, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamUserRepository) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamUserRepository) ListByTeamAndRole(ctx context.Context, teamID int64, role int) ([]models.TeamUser, error) {
	args := m.Called(ctx, teamID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamUser), args.Error(1)
}

func (m *MockTeamUserRepository) UpdateRole(ctx context.Context, id int64, role int) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}
