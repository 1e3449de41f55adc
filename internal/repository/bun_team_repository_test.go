package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusitms-com/meetupd/internal/db/models"
)

func TestBunTeamRepository_CreateAndQuery(t *testing.T) {
	db := setupTestDB(t)
	users := NewBunUserRepository(db)
	contests := NewBunContestRepository(db)
	teams := NewBunTeamRepository(db)
	members := NewBunTeamUserRepository(db)
	ctx := context.Background()

	leader := createTestUser(t, users, "leader@example.com")
	member := createTestUser(t, users, "member@example.com")
	contest := createTestContest(t, contests, "hackathon", day(2026, 5, 1), 5, 0)

	team := &models.Team{ContestID: contest.ID, Title: "alpha", Headcount: 4}
	require.NoError(t, teams.CreateWithLeader(ctx, team, leader.ID))
	require.NotZero(t, team.ID)
	assert.Equal(t, models.ProgressRecruiting, team.Progress)

	require.NoError(t, members.Create(ctx, &models.TeamUser{TeamID: team.ID, UserID: member.ID, Role: models.RoleTeamMember}))

	t.Run("detail loads contest and members", func(t *testing.T) {
		got, err := teams.GetByID(ctx, team.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Contest)
		assert.Equal(t, "hackathon", got.Contest.Title)
		require.Len(t, got.Members, 2)
		require.NotNil(t, got.Leader())
		assert.Equal(t, leader.ID, got.Leader().UserID)
		require.NotNil(t, got.Leader().User)
		assert.Equal(t, "leader@example.com", got.Leader().User.Email)
	})

	t.Run("missing team", func(t *testing.T) {
		_, err := teams.GetByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list by progress pages", func(t *testing.T) {
		second := &models.Team{ContestID: contest.ID, Title: "beta"}
		require.NoError(t, teams.CreateWithLeader(ctx, second, member.ID))

		page, total, err := teams.ListByProgress(ctx, models.ProgressRecruiting, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, page, 1)
		assert.Equal(t, "beta", page[0].Title)

		page, _, err = teams.ListByProgress(ctx, models.ProgressRecruiting, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "alpha", page[0].Title)

		none, total, err := teams.ListByProgress(ctx, models.ProgressCompleted, 0, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, none)
	})

	t.Run("list by contest", func(t *testing.T) {
		got, err := teams.ListByContestAndProgress(ctx, contest.ID, models.ProgressRecruiting)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestBunTeamUserRepository(t *testing.T) {
	db := setupTestDB(t)
	users := NewBunUserRepository(db)
	contests := NewBunContestRepository(db)
	teams := NewBunTeamRepository(db)
	members := NewBunTeamUserRepository(db)
	ctx := context.Background()

	leader := createTestUser(t, users, "leader@example.com")
	volunteer := createTestUser(t, users, "volunteer@example.com")
	outsider := createTestUser(t, users, "outsider@example.com")
	contest := createTestContest(t, contests, "design", day(2026, 6, 1), 3, 0)

	team := &models.Team{ContestID: contest.ID, Title: "gamma"}
	require.NoError(t, teams.CreateWithLeader(ctx, team, leader.ID))

	application := &models.TeamUser{TeamID: team.ID, UserID: volunteer.ID, Role: models.RoleVolunteer}
	require.NoError(t, members.Create(ctx, application))

	duplicate := &models.TeamUser{TeamID: team.ID, UserID: volunteer.ID, Role: models.RoleVolunteer}
	assert.ErrorIs(t, members.Create(ctx, duplicate), ErrConflict)

	isLeader, err := members.ExistsByRoleAndUserID(ctx, models.RoleTeamLeader, leader.ID)
	require.NoError(t, err)
	assert.True(t, isLeader)

	inTeam, err := members.ExistsByUserID(ctx, outsider.ID)
	require.NoError(t, err)
	assert.False(t, inTeam)

	got, err := members.GetByTeamAndUser(ctx, team.ID, leader.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeamLeader, got.Role)

	require.NoError(t, members.UpdateRole(ctx, application.ID, models.RoleTeamMember))
	list, err := members.ListByTeamAndRole(ctx, team.ID, models.RoleTeamMember)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, volunteer.ID, list[0].UserID)
	require.NotNil(t, list[0].User)

	assert.ErrorIs(t, members.UpdateRole(ctx, 999, models.RoleTeamMember), ErrNotFound)
	_, err = members.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
