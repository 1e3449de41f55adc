package users

import (
	"bufio"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/kusitms-com/meetupd/internal/config"
	"github.com/kusitms-com/meetupd/internal/db/bunx"
	"github.com/kusitms-com/meetupd/internal/db/models"
	"github.com/kusitms-com/meetupd/internal/repository"
	"github.com/kusitms-com/meetupd/internal/services/account"
)

var (
	emailFlag    string
	usernameFlag string
	passwordFlag string
	stdinFlag    bool
	ticketsFlag  int
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if emailFlag == "" {
			return fmt.Errorf("--email flag is required")
		}
		if usernameFlag == "" {
			return fmt.Errorf("--username flag is required")
		}
		if ticketsFlag < 0 {
			return fmt.Errorf("--tickets must not be negative")
		}

		password := passwordFlag
		if stdinFlag {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(cmd.ErrOrStderr(), "Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}
		if len(password) < account.MinPasswordLength {
			return fmt.Errorf("password must be at least %d characters (use --password or --stdin)", account.MinPasswordLength)
		}

		email := strings.ToLower(strings.TrimSpace(emailFlag))
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("invalid email format: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := cmd.Context()
		db, err := bunx.NewDB(ctx, cfg.DatabaseURL, bunx.WithMaxConns(cfg.MaxDBConnections))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		userRepo := repository.NewBunUserRepository(db)

		hash, err := account.HashPassword(password, bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		u := &models.User{
			Email:        email,
			PasswordHash: hash,
			Username:     usernameFlag,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("user with email %s already exists", email)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		balance := 0
		if ticketsFlag > 0 {
			balance, err = userRepo.AddTickets(ctx, u.ID, ticketsFlag)
			if err != nil {
				return fmt.Errorf("failed to grant tickets: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s), tickets: %d\n", u.ID, email, balance)
		return nil
	},
}
