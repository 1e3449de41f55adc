// Package user implements account details, profiles, and the ticket
// economy used to unlock other users.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kusitms-com/meetupd/internal/db/models"
	"github.com/kusitms-com/meetupd/internal/errcode"
	"github.com/kusitms-com/meetupd/internal/repository"
	"github.com/kusitms-com/meetupd/internal/telemetry"
)

const tracerName = "meetupd/services/user"

// MaxTicketPurchase caps a single ticket purchase.
const MaxTicketPurchase = 100

// Summary identifies the signed-in user.
type Summary struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// Profile is the full view of a user. Email and TicketCount are only
// populated for the owner.
type Profile struct {
	UserID        int64    `json:"userId"`
	Email         string   `json:"email,omitempty"`
	Username      string   `json:"username"`
	Location      string   `json:"location"`
	Major         string   `json:"major"`
	Task          string   `json:"task"`
	SelfIntroduce string   `json:"selfIntroduce"`
	Internships   []string `json:"internships"`
	Awards        []string `json:"awards"`
	Tools         []string `json:"tools"`
	Certificates  []string `json:"certificates"`
	TicketCount   *int     `json:"ticketCount,omitempty"`
}

// AccountInput replaces a user's account fields.
type AccountInput struct {
	Username      string
	Location      string
	Major         string
	Task          string
	SelfIntroduce string
}

// ProfileInput replaces a user's profile lists. Awards are replaced as a set.
type ProfileInput struct {
	Internships  []string
	Awards       []string
	Tools        []string
	Certificates []string
}

// Service orchestrates user operations.
type Service struct {
	users repository.UserRepository
}

// NewService constructs a new Service instance.
func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// Me returns the id and name of userID.
func (s *Service) Me(ctx context.Context, userID int64) (*Summary, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "user.Me",
		attribute.Int64(telemetry.AttrUserID, userID),
	)
	defer span.End()

	u, err := s.getUser(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &Summary{UserID: u.ID, Username: u.Username}, nil
}

// UpdateAccount overwrites the account fields of userID.
func (s *Service) UpdateAccount(ctx context.Context, userID int64, in AccountInput) error {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "user.UpdateAccount",
		attribute.Int64(telemetry.AttrUserID, userID),
	)
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return errcode.Wrap(errcode.InvalidRequest, errors.New("username is required"))
	}

	u, err := s.getUser(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	u.Username = in.Username
	u.Location = in.Location
	u.Major = in.Major
	u.Task = in.Task
	u.SelfIntroduce = in.SelfIntroduce

	if err := s.users.UpdateAccount(ctx, u); err != nil {
		telemetry.RecordError(span, err)
		return mapNotFound(err, errcode.UserNotFound)
	}
	return nil
}

// UpdateProfile overwrites the profile lists of userID.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) error {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "user.UpdateProfile",
		attribute.Int64(telemetry.AttrUserID, userID),
	)
	defer span.End()

	u, err := s.getUser(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	u.Internships = models.StringList(compact(in.Internships))
	u.Tools = models.StringList(compact(in.Tools))
	u.Certificates = models.StringList(compact(in.Certificates))

	if err := s.users.UpdateProfile(ctx, u, compact(in.Awards)); err != nil {
		telemetry.RecordError(span, err)
		return mapNotFound(err, errcode.UserNotFound)
	}
	return nil
}

// Mypage returns the owner's full profile including email and tickets.
func (s *Service) Mypage(ctx context.Context, userID int64) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "user.Mypage",
		attribute.Int64(telemetry.AttrUserID, userID),
	)
	defer span.End()

	u, err := s.getUser(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	p := profileOf(u)
	p.Email = u.Email
	count := u.TicketCount
	p.TicketCount = &count
	return p, nil
}

// PublicProfile returns the profile of userID as seen by others.
func (s *Service) PublicProfile(ctx context.Context, userID int64) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "user.PublicProfile",
		attribute.Int64(telemetry.AttrTargetUserID, userID),
	)
	defer span.End()

	u, err := s.getUser(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return profileOf(u), nil
}

// BuyTickets adds amount tickets to userID and returns the new balance.
func (s *Service) BuyTickets(ctx context.Context, userID int64, amount int) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "user.BuyTickets",
		attribute.Int64(telemetry.AttrUserID, userID),
		attribute.Int(telemetry.AttrTicketCount, amount),
	)
	defer span.End()

	if amount <= 0 || amount > MaxTicketPurchase {
		return 0, errcode.Wrap(errcode.InvalidRequest,
			fmt.Errorf("buy amount must be between 1 and %d", MaxTicketPurchase))
	}
	count, err := s.users.AddTickets(ctx, userID, amount)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, mapNotFound(err, errcode.UserNotFound)
	}
	return count, nil
}

// TicketCount returns the ticket balance of userID.
func (s *Service) TicketCount(ctx context.Context, userID int64) (int, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.TicketCount, nil
}

// CheckTicketUsed reports whether userID already unlocked targetID.
func (s *Service) CheckTicketUsed(ctx context.Context, userID, targetID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "user.CheckTicketUsed",
		attribute.Int64(telemetry.AttrUserID, userID),
		attribute.Int64(telemetry.AttrTargetUserID, targetID),
	)
	defer span.End()

	if err := s.requireUser(ctx, targetID); err != nil {
		telemetry.RecordError(span, err)
		return false, err
	}
	spent, err := s.users.HasSpentTicket(ctx, userID, targetID)
	if err != nil {
		telemetry.RecordError(span, err)
		return false, fmt.Errorf("check ticket spend: %w", err)
	}
	return spent, nil
}

// SpendTicket spends one of userID's tickets to unlock purchaseUserID and
// returns the remaining balance.
func (s *Service) SpendTicket(ctx context.Context, userID, purchaseUserID int64) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "user.SpendTicket",
		attribute.Int64(telemetry.AttrUserID, userID),
		attribute.Int64(telemetry.AttrTargetUserID, purchaseUserID),
	)
	defer span.End()

	buyer, err := s.getUser(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}
	if err := s.requireUser(ctx, purchaseUserID); err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}

	spent, err := s.users.HasSpentTicket(ctx, userID, purchaseUserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, fmt.Errorf("check ticket spend: %w", err)
	}
	if spent {
		return 0, errcode.New(errcode.AlreadyUserUseTicket)
	}
	if buyer.TicketCount <= 0 {
		return 0, errcode.New(errcode.UserNotHaveEnoughTicket)
	}

	remaining, err := s.users.SpendTicket(ctx, userID, purchaseUserID)
	switch {
	case errors.Is(err, repository.ErrNoTickets):
		return 0, errcode.Wrap(errcode.UserNotHaveEnoughTicket, err)
	case errors.Is(err, repository.ErrConflict):
		return 0, errcode.Wrap(errcode.AlreadyUserUseTicket, err)
	case err != nil:
		telemetry.RecordError(span, err)
		return 0, fmt.Errorf("spend ticket: %w", err)
	}

	telemetry.TicketsSpentTotal.Inc()
	telemetry.AddEvent(span, "ticket.spent",
		attribute.Int(telemetry.AttrTicketCount, remaining),
	)
	return remaining, nil
}

func (s *Service) getUser(ctx context.Context, userID int64) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, errcode.UserNotFound)
	}
	return u, nil
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if !exists {
		return errcode.New(errcode.UserNotFound)
	}
	return nil
}

func mapNotFound(err error, code errcode.Code) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errcode.Wrap(code, err)
	}
	return err
}

func profileOf(u *models.User) *Profile {
	return &Profile{
		UserID:        u.ID,
		Username:      u.Username,
		Location:      u.Location,
		Major:         u.Major,
		Task:          u.Task,
		SelfIntroduce: u.SelfIntroduce,
		Internships:   nonNil(u.Internships),
		Awards:        u.AwardNames(),
		Tools:         nonNil(u.Tools),
		Certificates:  nonNil(u.Certificates),
	}
}

func nonNil(l models.StringList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

// compact trims entries and drops blanks.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
