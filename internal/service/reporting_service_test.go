package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports/mocks"
	"returns-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupReportingService(t *testing.T) (*reportingService, *mocks.MockReturnRepository, *mocks.MockCustomerRepository) {
	ctrl := gomock.NewController(t)
	returnRepo := mocks.NewMockReturnRepository(ctrl)
	customerRepo := mocks.NewMockCustomerRepository(ctrl)
	svc := NewReportingService(returnRepo, customerRepo).(*reportingService)
	svc.now = fixedClock
	return svc, returnRepo, customerRepo
}

func TestReportingService_History(t *testing.T) {
	svc, returnRepo, customerRepo := setupReportingService(t)
	ctx := context.Background()
	customer := uuid.New()

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"default", 0, 20},
		{"explicit", 5, 5},
		{"capped", 1000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customerRepo.EXPECT().GetByID(ctx, customer).Return(&domain.Customer{ID: customer}, nil)
			returnRepo.EXPECT().ListByCustomer(ctx, customer, tt.want).Return(nil, nil)

			history, err := svc.GetCustomerReturnHistory(ctx, customer, tt.requested)
			require.NoError(t, err)
			assert.NotNil(t, history)
			assert.Empty(t, history)
		})
	}
}

func TestReportingService_HistoryUnknownCustomer(t *testing.T) {
	svc, _, customerRepo := setupReportingService(t)
	ctx := context.Background()
	id := uuid.New()

	customerRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := svc.GetCustomerReturnHistory(ctx, id, 10)
	assertAppError(t, err, apperror.CodeNotFound)
}

func TestReportingService_Analytics(t *testing.T) {
	svc, returnRepo, _ := setupReportingService(t)
	ctx := context.Background()

	t.Run("defaults to the last 30 days", func(t *testing.T) {
		from := testNow.AddDate(0, 0, -30)
		returnRepo.EXPECT().Analytics(ctx, from, testNow).Return(&domain.ReturnAnalytics{TotalReturns: 4, TotalAmount: 12000}, nil)

		a, err := svc.GetReturnAnalytics(ctx, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), a.TotalReturns)
		assert.Equal(t, from, a.From)
		assert.Equal(t, testNow, a.To)
	})

	t.Run("empty result", func(t *testing.T) {
		from := testNow.AddDate(0, -1, 0)
		returnRepo.EXPECT().Analytics(ctx, from, testNow).Return(nil, nil)

		a, err := svc.GetReturnAnalytics(ctx, from, testNow)
		require.NoError(t, err)
		assert.Zero(t, a.TotalReturns)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := svc.GetReturnAnalytics(ctx, testNow, testNow.AddDate(0, 0, -1))
		assertAppError(t, err, apperror.CodeValidation)
	})

	t.Run("store failure", func(t *testing.T) {
		returnRepo.EXPECT().Analytics(ctx, gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
		_, err := svc.GetReturnAnalytics(ctx, testNow.AddDate(0, 0, -1), testNow)
		assertAppError(t, err, apperror.CodeInternal)
	})
}
