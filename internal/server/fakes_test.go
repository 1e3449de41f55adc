package server

import (
	"context"

	"github.com/kusitms-com/meetupd/internal/services/account"
	"github.com/kusitms-com/meetupd/internal/services/contest"
	"github.com/kusitms-com/meetupd/internal/services/team"
	"github.com/kusitms-com/meetupd/internal/services/user"
)

type fakeAccounts struct {
	registerFn func(ctx context.Context, in account.RegisterInput) (*account.Session, error)
	loginFn    func(ctx context.Context, email, password string) (*account.Session, error)
	reissueFn  func(ctx context.Context, refreshToken string) (*account.Session, error)
	logoutFn   func(ctx context.Context, userID int64) error
}

func (f *fakeAccounts) Register(ctx context.Context, in account.RegisterInput) (*account.Session, error) {
	return f.registerFn(ctx, in)
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*account.Session, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAccounts) Reissue(ctx context.Context, refreshToken string) (*account.Session, error) {
	return f.reissueFn(ctx, refreshToken)
}

func (f *fakeAccounts) Logout(ctx context.Context, userID int64) error {
	return f.logoutFn(ctx, userID)
}

type fakeUsers struct {
	meFn              func(ctx context.Context, userID int64) (*user.Summary, error)
	updateAccountFn   func(ctx context.Context, userID int64, in user.AccountInput) error
	updateProfileFn   func(ctx context.Context, userID int64, in user.ProfileInput) error
	mypageFn          func(ctx context.Context, userID int64) (*user.Profile, error)
	publicProfileFn   func(ctx context.Context, userID int64) (*user.Profile, error)
	buyTicketsFn      func(ctx context.Context, userID int64, amount int) (int, error)
	ticketCountFn     func(ctx context.Context, userID int64) (int, error)
	checkTicketUsedFn func(ctx context.Context, userID, targetID int64) (bool, error)
	spendTicketFn     func(ctx context.Context, userID, purchaseUserID int64) (int, error)
}

func (f *fakeUsers) Me(ctx context.Context, userID int64) (*user.Summary, error) {
	return f.meFn(ctx, userID)
}

func (f *fakeUsers) UpdateAccount(ctx context.Context, userID int64, in user.AccountInput) error {
	return f.updateAccountFn(ctx, userID, in)
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, userID int64, in user.ProfileInput) error {
	return f.updateProfileFn(ctx, userID, in)
}

func (f *fakeUsers) Mypage(ctx context.Context, userID int64) (*user.Profile, error) {
	return f.mypageFn(ctx, userID)
}

func (f *fakeUsers) PublicProfile(ctx context.Context, userID int64) (*user.Profile, error) {
	return f.publicProfileFn(ctx, userID)
}

func (f *fakeUsers) BuyTickets(ctx context.Context, userID int64, amount int) (int, error) {
	return f.buyTicketsFn(ctx, userID, amount)
}

func (f *fakeUsers) TicketCount(ctx context.Context, userID int64) (int, error) {
	return f.ticketCountFn(ctx, userID)
}

func (f *fakeUsers) CheckTicketUsed(ctx context.Context, userID, targetID int64) (bool, error) {
	return f.checkTicketUsedFn(ctx, userID, targetID)
}

func (f *fakeUsers) SpendTicket(ctx context.Context, userID, purchaseUserID int64) (int, error) {
	return f.spendTicketFn(ctx, userID, purchaseUserID)
}

type fakeTeams struct {
	listTeamsFn       func(ctx context.Context, progress int, req team.PageRequest) (*team.Page[team.View], error)
	recruitingTeamsFn func(ctx context.Context, req team.PageRequest) (*team.Page[team.View], error)
	contestTeamsFn    func(ctx context.Context, contestID string) ([]team.View, error)
	teamDetailFn      func(ctx context.Context, teamID int64) (*team.View, error)
	openTeamFn        func(ctx context.Context, userID int64, in team.OpenTeamInput) (*team.View, error)
	applyTeamFn       func(ctx context.Context, userID, teamID int64) (*team.Member, error)
	changeRoleFn      func(ctx context.Context, actorID, teamUserID int64, role int) error
}

func (f *fakeTeams) ListTeams(ctx context.Context, progress int, req team.PageRequest) (*team.Page[team.View], error) {
	return f.listTeamsFn(ctx, progress, req)
}

func (f *fakeTeams) RecruitingTeams(ctx context.Context, req team.PageRequest) (*team.Page[team.View], error) {
	return f.recruitingTeamsFn(ctx, req)
}

func (f *fakeTeams) ContestRecruitingTeams(ctx context.Context, contestID string) ([]team.View, error) {
	return f.contestTeamsFn(ctx, contestID)
}

func (f *fakeTeams) TeamDetail(ctx context.Context, teamID int64) (*team.View, error) {
	return f.teamDetailFn(ctx, teamID)
}

func (f *fakeTeams) OpenTeam(ctx context.Context, userID int64, in team.OpenTeamInput) (*team.View, error) {
	return f.openTeamFn(ctx, userID, in)
}

func (f *fakeTeams) ApplyTeam(ctx context.Context, userID, teamID int64) (*team.Member, error) {
	return f.applyTeamFn(ctx, userID, teamID)
}

func (f *fakeTeams) ChangeRole(ctx context.Context, actorID, teamUserID int64, role int) error {
	return f.changeRoleFn(ctx, actorID, teamUserID, role)
}

type fakeContests struct {
	searchFn          func(ctx context.Context, category *int) ([]contest.View, error)
	detailFn          func(ctx context.Context, contestID string) (*contest.View, error)
	recommendationsFn func(ctx context.Context) ([]contest.View, error)
}

func (f *fakeContests) Search(ctx context.Context, category *int) ([]contest.View, error) {
	return f.searchFn(ctx, category)
}

func (f *fakeContests) Categories() []contest.Category {
	return []contest.Category{{Code: 1, Name: "PLANNING_IDEA"}}
}

func (f *fakeContests) Detail(ctx context.Context, contestID string) (*contest.View, error) {
	return f.detailFn(ctx, contestID)
}

func (f *fakeContests) Recommendations(ctx context.Context) ([]contest.View, error) {
	return f.recommendationsFn(ctx)
}
