package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/kusitms-com/meetupd/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260301000000, down_20260301000000)
}

// up_20260301000000 creates the user, contest, and team tables.
func up_20260301000000(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating users table...")
	if _, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating user_awards table...")
	if _, err := db.NewCreateTable().
		Model((*models.Award)(nil)).
		IfNotExists().
		ForeignKey(`(user_id) REFERENCES users(id) ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create user_awards table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_user_awards_user_id ON user_awards(user_id)`); err != nil {
		return fmt.Errorf("failed to create user_awards index: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating user_ticket_spends table...")
	if _, err := db.NewCreateTable().
		Model((*models.UserTicketSpend)(nil)).
		IfNotExists().
		ForeignKey(`(user_id) REFERENCES users(id) ON DELETE CASCADE`).
		ForeignKey(`(purchase_user_id) REFERENCES users(id) ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create user_ticket_spends table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating contests table...")
	if _, err := db.NewCreateTable().
		Model((*models.Contest)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create contests table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_contests_recruit_end ON contests(recruit_end)`); err != nil {
		return fmt.Errorf("failed to create contests index: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating teams table...")
	if _, err := db.NewCreateTable().
		Model((*models.Team)(nil)).
		IfNotExists().
		ForeignKey(`(contest_id) REFERENCES contests(id)`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create teams table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_teams_contest_progress ON teams(contest_id, progress)`); err != nil {
		return fmt.Errorf("failed to create teams index: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating team_users table...")
	if _, err := db.NewCreateTable().
		Model((*models.TeamUser)(nil)).
		IfNotExists().
		ForeignKey(`(team_id) REFERENCES teams(id) ON DELETE CASCADE`).
		ForeignKey(`(user_id) REFERENCES users(id) ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create team_users table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_team_users_user_role ON team_users(user_id, role)`); err != nil {
		return fmt.Errorf("failed to create team_users index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20260301000000 drops every table in reverse dependency order.
func down_20260301000000(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping all tables...")

	tables := []string{
		"team_users",
		"teams",
		"contests",
		"user_ticket_spends",
		"user_awards",
		"users",
	}
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, dropTable(db, table)); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}

	fmt.Println(" OK")
	return nil
}
