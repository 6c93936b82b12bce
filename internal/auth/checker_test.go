package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAdminLookup struct {
	mock.Mock
}

func (m *MockAdminLookup) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func TestIsAdmin_StaticListSkipsRepository(t *testing.T) {
	repo := new(MockAdminLookup)
	checker := NewAdminChecker([]int64{10, 20}, repo)

	ok, err := checker.IsAdmin(context.Background(), 20)
	require.NoError(t, err)
	assert.True(t, ok)
	repo.AssertNotCalled(t, "IsAdmin", mock.Anything, mock.Anything)
}

func TestIsAdmin_FallsBackToRepository(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAdminLookup)
	repo.On("IsAdmin", ctx, int64(30)).Return(true, nil).Once()
	repo.On("IsAdmin", ctx, int64(40)).Return(false, nil).Once()
	checker := NewAdminChecker([]int64{10}, repo)

	ok, err := checker.IsAdmin(ctx, 30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.IsAdmin(ctx, 40)
	require.NoError(t, err)
	assert.False(t, ok)

	repo.AssertExpectations(t)
}

func TestIsAdmin_NilRepository(t *testing.T) {
	checker := NewAdminChecker(nil, nil)

	ok, err := checker.IsAdmin(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAdminLookup)
	repo.On("IsAdmin", ctx, int64(5)).Return(false, errors.New("db down")).Once()
	checker := NewAdminChecker([]int64{1}, repo)

	assert.Equal(t, Capability{UserID: 1, Admin: true}, checker.Resolve(ctx, 1))
	assert.Equal(t, Capability{UserID: 5, Admin: false}, checker.Resolve(ctx, 5))
	repo.AssertExpectations(t)
}

func TestCapabilityContext(t *testing.T) {
	assert.Equal(t, Capability{}, CapabilityFrom(context.Background()))

	ctx := WithCapability(context.Background(), Capability{UserID: 7, Admin: true})
	c := CapabilityFrom(ctx)
	assert.Equal(t, int64(7), c.UserID)
	assert.True(t, c.Admin)
}
