package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/replaylens/replaylens/internal/models"
)

// MockLichessClient is a mock implementation of lichess.ClientInterface
type MockLichessClient struct {
	mock.Mock
}

func (m *MockLichessClient) FetchGame(ctx context.Context, gameID string) (models.GameRecord, error) {
	args := m.Called(ctx, gameID)
	return args.Get(0).(models.GameRecord), args.Error(1)
}

func (m *MockLichessClient) FetchAnnotatedPGN(ctx context.Context, gameID string) (string, error) {
	args := m.Called(ctx, gameID)
	return args.String(0), args.Error(1)
}

func (m *MockLichessClient) FetchCloudEval(ctx context.Context, fen string, depth int) (models.CloudEval, error) {
	args := m.Called(ctx, fen, depth)
	return args.Get(0).(models.CloudEval), args.Error(1)
}
