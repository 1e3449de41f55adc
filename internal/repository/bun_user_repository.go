package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/kusitms-com/meetupd/internal/db/models"
)

// BunUserRepository implements UserRepository using Bun ORM.
type BunUserRepository struct {
	db *bun.DB
}

// NewBunUserRepository creates a new Bun-based user repository.
func NewBunUserRepository(db *bun.DB) *BunUserRepository {
	return &BunUserRepository{db: db}
}

// Create inserts a new user. A taken email yields ErrConflict.
func (r *BunUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Internships == nil {
		user.Internships = models.StringList{}
	}
	if user.Tools == nil {
		user.Tools = models.StringList{}
	}
	if user.Certificates == nil {
		user.Certificates = models.StringList{}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(user).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with email %q: %w", user.Email, ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user and their awards.
func (r *BunUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Relation("Awards", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ua.id ASC")
		}).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by ID: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *BunUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.email = ?", email).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("user with email %q: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// ExistsByID reports whether a user with id exists.
func (r *BunUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("u.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// ExistsByEmail reports whether email is already registered.
func (r *BunUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("u.email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// UpdateAccount overwrites the account fields of user.
func (r *BunUserRepository) UpdateAccount(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	result, err := r.db.NewUpdate().
		Model(user).
		Column("username", "location", "major", "task", "self_introduce", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user account: %w", err)
	}
	return expectOneRow(result, "user", user.ID)
}

// UpdateProfile overwrites the profile lists of user and replaces the
// award set in one transaction.
func (r *BunUserRepository) UpdateProfile(ctx context.Context, user *models.User, awards []string) error {
	user.UpdatedAt = time.Now().UTC()
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model(user).
			Column("internships", "tools", "certificates", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update user profile: %w", err)
		}
		if err := expectOneRow(result, "user", user.ID); err != nil {
			return err
		}

		if _, err := tx.NewDelete().
			Model((*models.Award)(nil)).
			Where("user_id = ?", user.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete awards: %w", err)
		}

		if len(awards) == 0 {
			user.Awards = nil
			return nil
		}
		rows := make([]*models.Award, 0, len(awards))
		now := time.Now().UTC()
		for _, name := range awards {
			rows = append(rows, &models.Award{UserID: user.ID, AwardName: name, CreatedAt: now})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert awards: %w", err)
		}
		user.Awards = rows
		return nil
	})
}

// AddTickets increments the ticket balance and returns the new count.
func (r *BunUserRepository) AddTickets(ctx context.Context, userID int64, amount int) (int, error) {
	var count int
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("ticket_count = ticket_count + ?", amount).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("add tickets: %w", err)
		}
		if err := expectOneRow(result, "user", userID); err != nil {
			return err
		}
		count, err = ticketCount(ctx, tx, userID)
		return err
	})
	return count, err
}

// HasSpentTicket reports whether userID already unlocked purchaseUserID.
func (r *BunUserRepository) HasSpentTicket(ctx context.Context, userID, purchaseUserID int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.UserTicketSpend)(nil)).
		Where("user_id = ?", userID).
		Where("purchase_user_id = ?", purchaseUserID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check ticket spend: %w", err)
	}
	return exists, nil
}

// SpendTicket records the spend and decrements the balance atomically.
// It returns ErrNoTickets when the balance is zero and ErrConflict when the
// pair was already recorded.
func (r *BunUserRepository) SpendTicket(ctx context.Context, userID, purchaseUserID int64) (int, error) {
	var count int
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("ticket_count = ticket_count - 1").
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", userID).
			Where("ticket_count > 0").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("decrement tickets: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		} else if n == 0 {
			return ErrNoTickets
		}

		spend := &models.UserTicketSpend{
			UserID:         userID,
			PurchaseUserID: purchaseUserID,
			CreatedAt:      time.Now().UTC(),
		}
		if _, err := tx.NewInsert().Model(spend).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("ticket spend %d->%d: %w", userID, purchaseUserID, ErrConflict)
			}
			return fmt.Errorf("record ticket spend: %w", err)
		}

		count, err = ticketCount(ctx, tx, userID)
		return err
	})
	return count, err
}

func ticketCount(ctx context.Context, db bun.IDB, userID int64) (int, error) {
	var count int
	err := db.NewSelect().
		Model((*models.User)(nil)).
		Column("ticket_count").
		Where("id = ?", userID).
		Scan(ctx, &count)
	if err != nil {
		if isNoRows(err) {
			return 0, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return 0, fmt.Errorf("read ticket count: %w", err)
	}
	return count, nil
}

func expectOneRow(result interface{ RowsAffected() (int64, error) }, entity string, id any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
	}
	return nil
}
