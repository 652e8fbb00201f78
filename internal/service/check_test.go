package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"breachguard/internal/breach"
	"breachguard/internal/hibp"
	"breachguard/internal/model"
	"breachguard/internal/repository"
	repoMocks "breachguard/internal/repository/mocks"
	"breachguard/internal/service"
	serviceMocks "breachguard/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func assertInvariants(t *testing.T, c *model.Check) {
	t.Helper()
	assert.Len(t, c.Breaches, c.Count)
	assert.Equal(t, c.Count > 0, c.Found)
	assert.Equal(t, c.Source == model.SourceDemo, c.IsDemo)
	assert.False(t, c.CheckedAt.IsZero())
}

func TestCheckService_Check_Demo(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		email     string
		wantCount int
	}{
		{name: "known demo domain", email: "user@example.com", wantCount: 1},
		{name: "known demo domain mixed case", email: "User@Test.COM", wantCount: 1},
		{name: "unknown domain", email: "user@unknown-domain.org", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewCheckService(service.Options{})

			c, err := svc.Check(ctx, tt.email)

			require.NoError(t, err)
			assert.Equal(t, tt.email, c.Email)
			assert.Equal(t, model.SourceDemo, c.Source)
			assert.True(t, c.IsDemo)
			assert.Equal(t, tt.wantCount, c.Count)
			if tt.wantCount > 0 {
				assert.Equal(t, "ExampleBreach", c.Breaches[0].Name)
			}
			assertInvariants(t, c)
		})
	}
}

func TestCheckService_Check_HIBP(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mLookup *serviceMocks.MockBreachLookup)
		wantCount  int
		wantNames  []string
		wantErr    error
		wantUpErr  int
	}{
		{
			name: "breaches found",
			setupMocks: func(mLookup *serviceMocks.MockBreachLookup) {
				mLookup.On("BreachedAccount", ctx, "user@corp.io").
					Return([]breach.Raw{{"Name": "Adobe"}, {"name": "LinkedIn"}}, nil)
			},
			wantCount: 2,
			wantNames: []string{"Adobe", "LinkedIn"},
		},
		{
			name: "not found upstream",
			setupMocks: func(mLookup *serviceMocks.MockBreachLookup) {
				mLookup.On("BreachedAccount", ctx, "user@corp.io").Return([]breach.Raw{}, nil)
			},
			wantCount: 0,
		},
		{
			name: "upstream error",
			setupMocks: func(mLookup *serviceMocks.MockBreachLookup) {
				mLookup.On("BreachedAccount", ctx, "user@corp.io").
					Return(nil, &hibp.UpstreamError{StatusCode: 503, Body: "down"})
			},
			wantUpErr: 503,
		},
		{
			name: "transport error",
			setupMocks: func(mLookup *serviceMocks.MockBreachLookup) {
				mLookup.On("BreachedAccount", ctx, "user@corp.io").Return(nil, context.DeadlineExceeded)
			},
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mLookup := new(serviceMocks.MockBreachLookup)
			mRepo := new(repoMocks.MockCheckRepository)
			tt.setupMocks(mLookup)
			if tt.wantErr == nil && tt.wantUpErr == 0 {
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Check")).Return(nil).Once()
			}

			svc := service.NewCheckService(service.Options{Lookup: mLookup, History: mRepo})
			c, err := svc.Check(ctx, "user@corp.io")

			switch {
			case tt.wantUpErr != 0:
				var upErr *hibp.UpstreamError
				require.ErrorAs(t, err, &upErr)
				assert.Equal(t, tt.wantUpErr, upErr.StatusCode)
				assert.Nil(t, c)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
			default:
				require.NoError(t, err)
				assert.Equal(t, model.SourceHIBP, c.Source)
				assert.False(t, c.IsDemo)
				assert.Equal(t, tt.wantCount, c.Count)
				for i, name := range tt.wantNames {
					assert.Equal(t, name, c.Breaches[i].Name)
				}
				assertInvariants(t, c)
			}

			mLookup.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestCheckService_Check_PersistenceFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockCheckRepository)
	mArchive := new(repoMocks.MockCheckRecorder)

	mRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db unavailable")).Once()
	mArchive.On("Create", mock.Anything, mock.Anything).Return(errors.New("bucket missing")).Once()

	svc := service.NewCheckService(service.Options{
		History:   mRepo,
		Recorders: []repository.CheckRecorder{mArchive},
	})
	c, err := svc.Check(ctx, "user@example.com")

	require.NoError(t, err)
	assert.True(t, c.Found)
	assert.Equal(t, 1, c.Count)
	mRepo.AssertExpectations(t)
	mArchive.AssertExpectations(t)
}

func TestCheckService_Check_PersistsEveryRecorderWithBoundedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mArchive := new(repoMocks.MockCheckRecorder)

	mArchive.On("Create", mock.MatchedBy(func(rctx context.Context) bool {
		deadline, ok := rctx.Deadline()
		return ok && time.Until(deadline) <= time.Second && rctx.Err() == nil
	}), mock.MatchedBy(func(c *model.Check) bool {
		return c.Email == "user@example.com" && c.Source == model.SourceDemo
	})).Return(nil).Once()

	svc := service.NewCheckService(service.Options{
		Recorders:      []repository.CheckRecorder{mArchive},
		PersistTimeout: time.Second,
	})

	// cancelling the request must not cancel persistence
	cancel()
	_, err := svc.Check(ctx, "user@example.com")

	require.NoError(t, err)
	mArchive.AssertExpectations(t)
}

func TestCheckService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockCheckRepository)
		wantErr    bool
		checkRes   func(t *testing.T, res *service.CheckListResult)
	}{
		{
			name:   "happy path",
			limit:  10,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockCheckRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Check]{
						Items: []model.Check{{Email: "a@example.com"}, {Email: "b@example.com"}},
						Total: 2,
					}, nil)
			},
			checkRes: func(t *testing.T, res *service.CheckListResult) {
				assert.Len(t, res.Items, 2)
				assert.Equal(t, 2, res.Total)
			},
		},
		{
			name:   "pagination boundary - zero limit uses default",
			limit:  0,
			offset: -1,
			setupMocks: func(mRepo *repoMocks.MockCheckRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Check]{Items: []model.Check{}, Total: 0}, nil)
			},
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockCheckRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockCheckRepository)
			svc := service.NewCheckService(service.Options{History: mRepo})

			tt.setupMocks(mRepo)

			res, err := svc.List(ctx, tt.limit, tt.offset)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestCheckService_List_NoHistory(t *testing.T) {
	svc := service.NewCheckService(service.Options{})

	res, err := svc.List(context.Background(), 10, 0)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, service.ErrHistoryUnavailable)
}
