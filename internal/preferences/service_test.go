package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is an in-package mock for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context, address string) (string, error) {
	args := m.Called(ctx, address)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) Set(ctx context.Context, address, language string) error {
	args := m.Called(ctx, address, language)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func TestServiceGet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored preference", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("Get", ctx, "+15551234567").Return("es", nil)
		service := NewService(mockRepo)

		lang, err := service.Get(ctx, "+15551234567")

		require.NoError(t, err)
		assert.Equal(t, "es", lang)
		mockRepo.AssertExpectations(t)
	})

	t.Run("passes ErrNotFound through", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("Get", ctx, "+15551234567").Return("", ErrNotFound)
		service := NewService(mockRepo)

		_, err := service.Get(ctx, "+15551234567")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects empty address", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		_, err := service.Get(ctx, "")

		assert.ErrorIs(t, err, ErrInvalidPreference)
		mockRepo.AssertNotCalled(t, "Get")
	})
}

func TestServiceSet(t *testing.T) {
	ctx := context.Background()

	t.Run("stores normalized language", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("Set", ctx, "+15551234567", "es").Return(nil)
		service := NewService(mockRepo)

		err := service.Set(ctx, "+15551234567", "ES-mx")

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("is idempotent from the caller's view", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("Set", ctx, "+15551234567", "fr").Return(nil).Twice()
		service := NewService(mockRepo)

		require.NoError(t, service.Set(ctx, "+15551234567", "fr"))
		require.NoError(t, service.Set(ctx, "+15551234567", "fr"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects empty address", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		assert.ErrorIs(t, service.Set(ctx, "", "es"), ErrInvalidPreference)
		mockRepo.AssertNotCalled(t, "Set")
	})

	t.Run("rejects empty language", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		assert.ErrorIs(t, service.Set(ctx, "+15551234567", ""), ErrInvalidPreference)
		mockRepo.AssertNotCalled(t, "Set")
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("Set", ctx, "+15551234567", "es").Return(errors.New("connection refused"))
		service := NewService(mockRepo)

		err := service.Set(ctx, "+15551234567", "es")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store preference")
	})
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	mockRepo.On("List", ctx).Return(map[string]string{
		"+15551234567": "es",
		"+15559876543": "fr",
	}, nil)
	service := NewService(mockRepo)

	prefs, err := service.List(ctx)

	require.NoError(t, err)
	assert.Len(t, prefs, 2)
	assert.Equal(t, "es", prefs["+15551234567"])
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	t.Run("miss returns ErrNotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, "+15550000000")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "+15551234567", "es"))
		require.NoError(t, repo.Set(ctx, "+15551234567", "fr"))

		lang, err := repo.Get(ctx, "+15551234567")
		require.NoError(t, err)
		assert.Equal(t, "fr", lang)
	})

	t.Run("list copies state", func(t *testing.T) {
		prefs, err := repo.List(ctx)
		require.NoError(t, err)

		prefs["+15551234567"] = "de"

		lang, err := repo.Get(ctx, "+15551234567")
		require.NoError(t, err)
		assert.Equal(t, "fr", lang, "mutating the listed map must not touch the store")
	})
}
