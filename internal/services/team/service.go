// Package team implements team recruiting and membership management.
package team

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kusitms-com/meetupd/internal/db/models"
	"github.com/kusitms-com/meetupd/internal/errcode"
	"github.com/kusitms-com/meetupd/internal/repository"
	"github.com/kusitms-com/meetupd/internal/telemetry"
)

const tracerName = "meetupd/services/team"

// Paging limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest selects one page of results. Page is 1-based.
type PageRequest struct {
	Page int
	Size int
}

// Validate checks that the page is 1-based and the size within bounds.
func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return errcode.Wrap(errcode.InvalidRequest, errors.New("page must be at least 1"))
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		return errcode.Wrap(errcode.InvalidRequest,
			fmt.Errorf("size must be between 1 and %d", MaxPageSize))
	}
	return nil
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Size
}

// Page is one page of items plus paging totals.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func newPage[T any](items []T, req PageRequest, total int) *Page[T] {
	pages := 0
	if req.Size > 0 {
		pages = (total + req.Size - 1) / req.Size
	}
	return &Page[T]{Items: items, Page: req.Page, Size: req.Size, Total: total, TotalPages: pages}
}

// Member is one membership of a team.
type Member struct {
	TeamUserID int64  `json:"teamUserId"`
	UserID     int64  `json:"userId"`
	Username   string `json:"username"`
	Role       int    `json:"role"`
}

// View is a team as returned to clients.
type View struct {
	TeamID       int64     `json:"teamId"`
	ContestID    string    `json:"contestId"`
	ContestTitle string    `json:"contestTitle,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Headcount    int       `json:"headcount"`
	Progress     int       `json:"progress"`
	CreatedAt    time.Time `json:"createdAt"`
	Leader       *Member   `json:"leader,omitempty"`
	Members      []Member  `json:"members,omitempty"`
}

// OpenTeamInput describes a new team.
type OpenTeamInput struct {
	ContestID   string
	Title       string
	Description string
	Location    string
	Headcount   int
}

// Service orchestrates team operations.
type Service struct {
	teams     repository.TeamRepository
	teamUsers repository.TeamUserRepository
	users     repository.UserRepository
	contests  repository.ContestRepository
	policy    RolePolicy
}

// NewService constructs a new Service instance.
func NewService(
	teams repository.TeamRepository,
	teamUsers repository.TeamUserRepository,
	users repository.UserRepository,
	contests repository.ContestRepository,
	policy RolePolicy,
) *Service {
	return &Service{
		teams:     teams,
		teamUsers: teamUsers,
		users:     users,
		contests:  contests,
		policy:    policy,
	}
}

// ListTeams returns one page of teams in progress, newest first.
func (s *Service) ListTeams(ctx context.Context, progress int, req PageRequest) (*Page[View], error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "team.ListTeams",
		attribute.Int("team.progress", progress),
	)
	defer span.End()

	if !models.ValidProgress(progress) {
		return nil, errcode.Wrap(errcode.InvalidRequest, fmt.Errorf("unknown progress %d", progress))
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	teams, total, err := s.teams.ListByProgress(ctx, progress, req.offset(), req.Size)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list teams: %w", err)
	}

	items := make([]View, 0, len(teams))
	for i := range teams {
		v := viewOf(&teams[i])
		v.Leader = memberOf(teams[i].Leader())
		items = append(items, v)
	}
	return newPage(items, req, total), nil
}

// RecruitingTeams returns one page of recruiting teams with their contest
// and leader.
func (s *Service) RecruitingTeams(ctx context.Context, req PageRequest) (*Page[View], error) {
	return s.ListTeams(ctx, models.ProgressRecruiting, req)
}

// ContestRecruitingTeams returns the recruiting teams of a contest with
// their leader and members.
func (s *Service) ContestRecruitingTeams(ctx context.Context, contestID string) ([]View, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "team.ContestRecruitingTeams",
		attribute.String(telemetry.AttrContestID, contestID),
	)
	defer span.End()

	teams, err := s.teams.ListByContestAndProgress(ctx, contestID, models.ProgressRecruiting)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list contest teams: %w", err)
	}

	out := make([]View, 0, len(teams))
	for i := range teams {
		v := viewOf(&teams[i])
		v.Leader = memberOf(teams[i].Leader())
		v.Members = membersOf(teams[i].MembersWithRole(models.RoleTeamMember))
		out = append(out, v)
	}
	return out, nil
}

// TeamDetail returns a team with its leader and members.
func (s *Service) TeamDetail(ctx context.Context, teamID int64) (*View, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "team.TeamDetail",
		attribute.Int64(telemetry.AttrTeamID, teamID),
	)
	defer span.End()

	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, mapNotFound(err, errcode.TeamNotFound)
	}

	leaders, err := s.teamUsers.ListByTeamAndRole(ctx, teamID, models.RoleTeamLeader)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list team leader: %w", err)
	}
	if len(leaders) == 0 {
		return nil, errcode.New(errcode.TeamUserNotFound)
	}
	members, err := s.teamUsers.ListByTeamAndRole(ctx, teamID, models.RoleTeamMember)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list team members: %w", err)
	}

	v := viewOf(t)
	v.Leader = memberOf(&leaders[0])
	v.Members = make([]Member, 0, len(members))
	for i := range members {
		v.Members = append(v.Members, *memberOf(&members[i]))
	}
	return &v, nil
}

// OpenTeam creates a team led by userID.
func (s *Service) OpenTeam(ctx context.Context, userID int64, in OpenTeamInput) (*View, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "team.OpenTeam",
		attribute.Int64(telemetry.AttrUserID, userID),
		attribute.String(telemetry.AttrContestID, in.ContestID),
	)
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return nil, errcode.Wrap(errcode.InvalidRequest, errors.New("title is required"))
	case strings.TrimSpace(in.ContestID) == "":
		return nil, errcode.Wrap(errcode.InvalidRequest, errors.New("contestId is required"))
	case in.Headcount < 0:
		return nil, errcode.Wrap(errcode.InvalidRequest, errors.New("headcount must not be negative"))
	}

	leads, err := s.teamUsers.ExistsByRoleAndUserID(ctx, models.RoleTeamLeader, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("check team leader: %w", err)
	}
	if leads {
		return nil, errcode.New(errcode.AlreadyUserOpenTeam)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	c, err := s.contests.GetByID(ctx, in.ContestID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, mapNotFound(err, errcode.ContestNotFound)
	}

	t := &models.Team{
		ContestID:   c.ID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Headcount:   in.Headcount,
		Progress:    models.ProgressRecruiting,
	}
	if err := s.teams.CreateWithLeader(ctx, t, userID); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("open team: %w", err)
	}
	t.Contest = c

	telemetry.TeamsOpenedTotal.Inc()
	telemetry.AddEvent(span, "team.opened", attribute.Int64(telemetry.AttrTeamID, t.ID))

	v := viewOf(t)
	v.Leader = memberOf(t.Leader())
	return &v, nil
}

// ApplyTeam adds userID to teamID as a volunteer and returns the membership.
func (s *Service) ApplyTeam(ctx context.Context, userID, teamID int64) (*Member, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "team.ApplyTeam",
		attribute.Int64(telemetry.AttrUserID, userID),
		attribute.Int64(telemetry.AttrTeamID, teamID),
	)
	defer span.End()

	member, err := s.teamUsers.ExistsByUserID(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("check team membership: %w", err)
	}
	if member {
		return nil, errcode.New(errcode.AlreadyUserApplyTeam)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		telemetry.RecordError(span, err)
		return nil, mapNotFound(err, errcode.TeamNotFound)
	}

	tu := &models.TeamUser{
		TeamID: teamID,
		UserID: userID,
		Role:   models.RoleVolunteer,
	}
	if err := s.teamUsers.Create(ctx, tu); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, errcode.Wrap(errcode.AlreadyUserApplyTeam, err)
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("apply team: %w", err)
	}
	return memberOf(tu), nil
}

// ChangeRole sets the role of membership teamUserID. The actor must hold a
// membership in the same team whose role may change roles.
func (s *Service) ChangeRole(ctx context.Context, actorID, teamUserID int64, role int) error {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "team.ChangeRole",
		attribute.Int64(telemetry.AttrUserID, actorID),
		attribute.Int64(telemetry.AttrTeamUserID, teamUserID),
		attribute.Int(telemetry.AttrRole, role),
	)
	defer span.End()

	target, err := s.teamUsers.GetByID(ctx, teamUserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return mapNotFound(err, errcode.TeamUserNotFound)
	}
	if !models.ValidRole(role) {
		return errcode.Wrap(errcode.InvalidRequest, fmt.Errorf("unknown role %d", role))
	}

	actor, err := s.teamUsers.GetByTeamAndUser(ctx, target.TeamID, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errcode.Wrap(errcode.NotTeamLeader, err)
		}
		telemetry.RecordError(span, err)
		return fmt.Errorf("get actor membership: %w", err)
	}
	allowed, err := s.policy.Allowed(actor.Role, ActionChangeRole)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if !allowed {
		return errcode.New(errcode.NotTeamLeader)
	}

	if err := s.teamUsers.UpdateRole(ctx, teamUserID, role); err != nil {
		telemetry.RecordError(span, err)
		return mapNotFound(err, errcode.TeamUserNotFound)
	}
	return nil
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

func viewOf(t *models.Team) View {
	v := View{
		TeamID:      t.ID,
		ContestID:   t.ContestID,
		Title:       t.Title,
		Description: t.Description,
		Location:    t.Location,
		Headcount:   t.Headcount,
		Progress:    t.Progress,
		CreatedAt:   t.CreatedAt,
	}
	if t.Contest != nil {
		v.ContestTitle = t.Contest.Title
	}
	return v
}

func memberOf(tu *models.TeamUser) *Member {
	if tu == nil {
		return nil
	}
	m := &Member{TeamUserID: tu.ID, UserID: tu.UserID, Role: tu.Role}
	if tu.User != nil {
		m.Username = tu.User.Username
	}
	return m
}

func membersOf(in []*models.TeamUser) []Member {
	out := make([]Member, 0, len(in))
	for _, tu := range in {
		out = append(out, *memberOf(tu))
	}
	return out
}
