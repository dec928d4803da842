package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/replaylens/replaylens/internal/models"
)

// MockReportArchive is a mock implementation of services.ReportArchive
type MockReportArchive struct {
	mock.Mock
}

func (m *MockReportArchive) SaveReport(ctx context.Context, report models.AnalysisReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportArchive) GetReport(ctx context.Context, gameID string) (*models.AnalysisReport, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisReport), args.Error(1)
}

func (m *MockReportArchive) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.ReportSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReportSummary), args.Error(1)
}
