package server

import (
	"context"

	"github.com/kusitms-com/meetupd/internal/services/account"
	"github.com/kusitms-com/meetupd/internal/services/contest"
	"github.com/kusitms-com/meetupd/internal/services/team"
	"github.com/kusitms-com/meetupd/internal/services/user"
)

// AccountService is the account surface used by the auth handlers.
type AccountService interface {
	Register(ctx context.Context, in account.RegisterInput) (*account.Session, error)
	Login(ctx context.Context, email, password string) (*account.Session, error)
	Reissue(ctx context.Context, refreshToken string) (*account.Session, error)
	Logout(ctx context.Context, userID int64) error
}

// UserService is the user surface used by the user handlers.
type UserService interface {
	Me(ctx context.Context, userID int64) (*user.Summary, error)
	UpdateAccount(ctx context.Context, userID int64, in user.AccountInput) error
	UpdateProfile(ctx context.Context, userID int64, in user.ProfileInput) error
	Mypage(ctx context.Context, userID int64) (*user.Profile, error)
	PublicProfile(ctx context.Context, userID int64) (*user.Profile, error)
	BuyTickets(ctx context.Context, userID int64, amount int) (int, error)
	TicketCount(ctx context.Context, userID int64) (int, error)
	CheckTicketUsed(ctx context.Context, userID, targetID int64) (bool, error)
	SpendTicket(ctx context.Context, userID, purchaseUserID int64) (int, error)
}

// TeamService is the team surface used by the team handlers.
type TeamService interface {
	ListTeams(ctx context.Context, progress int, req team.PageRequest) (*team.Page[team.View], error)
	RecruitingTeams(ctx context.Context, req team.PageRequest) (*team.Page[team.View], error)
	ContestRecruitingTeams(ctx context.Context, contestID string) ([]team.View, error)
	TeamDetail(ctx context.Context, teamID int64) (*team.View, error)
	OpenTeam(ctx context.Context, userID int64, in team.OpenTeamInput) (*team.View, error)
	ApplyTeam(ctx context.Context, userID, teamID int64) (*team.Member, error)
	ChangeRole(ctx context.Context, actorID, teamUserID int64, role int) error
}

// ContestService is the contest surface used by the contest handlers.
type ContestService interface {
	Search(ctx context.Context, category *int) ([]contest.View, error)
	Categories() []contest.Category
	Detail(ctx context.Context, contestID string) (*contest.View, error)
	Recommendations(ctx context.Context) ([]contest.View, error)
}

var (
	_ AccountService = (*account.Service)(nil)
	_ UserService    = (*user.Service)(nil)
	_ TeamService    = (*team.Service)(nil)
	_ ContestService = (*contest.Service)(nil)
)
