package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/kusitms-com/meetupd/internal/db/bunx"
	"github.com/kusitms-com/meetupd/internal/db/models"
	"github.com/kusitms-com/meetupd/internal/migrations"
)

// setupTestDB opens an isolated in-memory SQLite database with the full
// schema applied.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	db, err := bunx.NewDB(ctx, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, repo *BunUserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Username:     "user-" + email,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func createTestContest(t *testing.T, repo *BunContestRepository, title string, end time.Time, types, teamNum int) *models.Contest {
	t.Helper()
	contest := &models.Contest{
		Title:        title,
		Types:        types,
		RecruitStart: end.AddDate(0, -1, 0),
		RecruitEnd:   end,
		TeamNum:      teamNum,
	}
	require.NoError(t, repo.Create(context.Background(), contest))
	return contest
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
