// Package contest implements contest queries for search and recommendations.
package contest

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

const tracerName = "meetupd/services/contest"

// RecommendationLimit is the number of contests on the main page.
const RecommendationLimit = 6

// Category is a contest category code and its display name.
type Category struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

var categories = []Category{
	{Code: 1, Name: "PLANNING_IDEA"},
	{Code: 2, Name: "ADVERTISING_MARKETING"},
	{Code: 3, Name: "DESIGN"},
	{Code: 4, Name: "VIDEO"},
	{Code: 5, Name: "IT_SOFTWARE"},
	{Code: 6, Name: "ETC"},
}

// ValidCategory reports whether code is a known category.
func ValidCategory(code int) bool {
	for _, c := range categories {
		if c.Code == code {
			return true
		}
	}
	return false
}

// View is a contest as returned to clients.
type View struct {
	ContestID    string    `json:"contestId"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Type         int       `json:"type"`
	RecruitStart time.Time `json:"recruitStart"`
	RecruitEnd   time.Time `json:"recruitEnd"`
	TeamNum      int       `json:"teamNum"`
	ImageURL     string    `json:"imageUrl"`
	Description  string    `json:"description,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to compute "today". The calendar date
// is taken in the clock's location.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service orchestrates contest queries.
type Service struct {
	contests repository.ContestRepository
	now      func() time.Time
}

// NewService constructs a new Service instance.
func NewService(contests repository.ContestRepository, opts ...Option) *Service {
	s := &Service{contests: contests, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns the known contest categories in display order.
func (s *Service) Categories() []Category {
	return append([]Category(nil), categories...)
}

// Search returns contests still recruiting today, soonest deadline first,
// optionally limited to one category.
func (s *Service) Search(ctx context.Context, category *int) ([]View, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "contest.Search")
	defer span.End()

	if category != nil && !ValidCategory(*category) {
		return nil, errcode.Wrap(errcode.InvalidRequest, fmt.Errorf("unknown contest type %d", *category))
	}

	found, err := s.contests.ListOpen(ctx, s.today(), category)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("search contests: %w", err)
	}
	return viewsOf(found, false), nil
}

// Detail returns one contest with its description.
func (s *Service) Detail(ctx context.Context, contestID string) (*View, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "contest.Detail",
		attribute.String(telemetry.AttrContestID, contestID),
	)
	defer span.End()

	if strings.TrimSpace(contestID) == "" {
		return nil, errcode.New(errcode.ContestNotFound)
	}
	c, err := s.contests.GetByID(ctx, contestID)
	if err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errcode.Wrap(errcode.ContestNotFound, err)
		}
		return nil, fmt.Errorf("get contest: %w", err)
	}
	v := viewOf(c, true)
	return &v, nil
}

// Recommendations returns the open contests with the most teams.
func (s *Service) Recommendations(ctx context.Context) ([]View, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "contest.Recommendations")
	defer span.End()

	found, err := s.contests.ListTopByTeamNum(ctx, s.today(), RecommendationLimit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list recommended contests: %w", err)
	}
	return viewsOf(found, false), nil
}

// ClosingToday returns contests whose recruiting ends today.
func (s *Service) ClosingToday(ctx context.Context) ([]View, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "contest.ClosingToday")
	defer span.End()

	today := s.today()
	found, err := s.contests.ListEndingBetween(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list contests closing today: %w", err)
	}
	return viewsOf(found, false), nil
}

// today is the clock's calendar date at UTC midnight, the form recruit
// dates are stored in.
func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func viewOf(c *models.Contest, withDescription bool) View {
	v := View{
		ContestID:    c.ID,
		Title:        c.Title,
		Company:      c.Company,
		Type:         c.Types,
		RecruitStart: c.RecruitStart,
		RecruitEnd:   c.RecruitEnd,
		TeamNum:      c.TeamNum,
		ImageURL:     c.ImageURL,
	}
	if withDescription {
		v.Description = c.Description
	}
	return v
}

func viewsOf(in []models.Contest, withDescription bool) []View {
	out := make([]View, 0, len(in))
	for i := range in {
		out = append(out, viewOf(&in[i], withDescription))
	}
	return out
}
