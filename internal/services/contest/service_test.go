package contest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kusitms-com/meetupd/internal/db/models"
	"github.com/kusitms-com/meetupd/internal/errcode"
	"github.com/kusitms-com/meetupd/internal/repository"
)

type MockContestRepository struct {
	mock.Mock
}

func (m *MockContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	args := m.Called(ctx, contest)
	return args.Error(0)
}

func (m *MockContestRepository) GetByID(ctx context.Context, id string) (*models.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contest), args.Error(1)
}

func (m *MockContestRepository) ListOpen(ctx context.Context, from time.Time, category *int) ([]models.Contest, error) {
	args := m.Called(ctx, from, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contest), args.Error(1)
}

func (m *MockContestRepository) ListTopByTeamNum(ctx context.Context, from time.Time, limit int) ([]models.Contest, error) {
	args := m.Called(ctx, from, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contest), args.Error(1)
}

func (m *MockContestRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]models.Contest, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contest), args.Error(1)
}

var (
	fixedNow = time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	midnight = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
)

func newTestService() (*Service, *MockContestRepository) {
	repo := new(MockContestRepository)
	return NewService(repo, WithClock(func() time.Time { return fixedNow })), repo
}

func TestService_Categories(t *testing.T) {
	svc, _ := newTestService()

	got := svc.Categories()
	require.Len(t, got, 6)
	assert.Equal(t, Category{Code: 1, Name: "PLANNING_IDEA"}, got[0])

	got[0].Name = "changed"
	assert.Equal(t, "PLANNING_IDEA", svc.Categories()[0].Name)
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("all categories from today", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("ListOpen", mock.Anything, midnight, (*int)(nil)).Return([]models.Contest{
			{ID: "a", Title: "A", Description: "long text"},
			{ID: "b", Title: "B"},
		}, nil)

		got, err := svc.Search(ctx, nil)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ContestID)
		assert.Empty(t, got[0].Description)
		repo.AssertExpectations(t)
	})

	t.Run("one category", func(t *testing.T) {
		svc, repo := newTestService()
		design := 3
		repo.On("ListOpen", mock.Anything, midnight, &design).Return([]models.Contest{}, nil)

		got, err := svc.Search(ctx, &design)
		require.NoError(t, err)
		assert.Empty(t, got)
		repo.AssertExpectations(t)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, repo := newTestService()
		unknown := 99

		_, err := svc.Search(ctx, &unknown)
		assert.True(t, errcode.HasCode(err, errcode.InvalidRequest))
		repo.AssertExpectations(t)
	})
}

func TestService_Detail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("GetByID", mock.Anything, "c-1").Return(&models.Contest{ID: "c-1", Description: "rules"}, nil)

		got, err := svc.Detail(ctx, "c-1")
		require.NoError(t, err)
		assert.Equal(t, "rules", got.Description)
		repo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("GetByID", mock.Anything, "c-1").Return(nil, repository.ErrNotFound)

		_, err := svc.Detail(ctx, "c-1")
		assert.True(t, errcode.HasCode(err, errcode.ContestNotFound))
		repo.AssertExpectations(t)
	})

	t.Run("blank id", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Detail(ctx, " ")
		assert.True(t, errcode.HasCode(err, errcode.ContestNotFound))
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("GetByID", mock.Anything, "c-1").Return(nil, errors.New("connection reset"))

		_, err := svc.Detail(ctx, "c-1")
		require.Error(t, err)
		assert.Equal(t, errcode.InternalServerError, errcode.CodeOf(err))
	})
}

func TestService_Recommendations(t *testing.T) {
	svc, repo := newTestService()
	repo.On("ListTopByTeamNum", mock.Anything, midnight, RecommendationLimit).
		Return([]models.Contest{{ID: "top", TeamNum: 12}}, nil)

	got, err := svc.Recommendations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12, got[0].TeamNum)
	repo.AssertExpectations(t)
}

func TestService_ClosingToday(t *testing.T) {
	svc, repo := newTestService()
	repo.On("ListEndingBetween", mock.Anything, midnight, midnight.AddDate(0, 0, 1)).
		Return([]models.Contest{{ID: "last-call"}}, nil)

	got, err := svc.ClosingToday(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "last-call", got[0].ContestID)
	repo.AssertExpectations(t)
}

func TestService_TodayUsesCalendarDateAtUTCMidnight(t *testing.T) {
	// 20:00 on the 14th in UTC-5 is already the 15th in UTC.
	eastern := time.FixedZone("UTC-5", -5*60*60)
	evening := time.Date(2026, 3, 14, 20, 0, 0, 0, eastern)

	repo := new(MockContestRepository)
	svc := NewService(repo, WithClock(func() time.Time { return evening }))
	repo.On("ListEndingBetween", mock.Anything, midnight, midnight.AddDate(0, 0, 1)).
		Return([]models.Contest{{ID: "due-today", RecruitEnd: midnight}}, nil)
	repo.On("ListOpen", mock.Anything, midnight, (*int)(nil)).
		Return([]models.Contest{{ID: "due-today", RecruitEnd: midnight}}, nil)

	closing, err := svc.ClosingToday(context.Background())
	require.NoError(t, err)
	require.Len(t, closing, 1)

	open, err := svc.Search(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "due-today", open[0].ContestID)
	repo.AssertExpectations(t)
}
