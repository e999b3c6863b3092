package syncing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leverads/meta-sync-api/infrastructure/repository/mocks"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestWriter_WriteCampaigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCampaignRepo := mocks.NewMockCampaignRepository(ctrl)
	mockInsightRepo := mocks.NewMockInsightRepository(ctrl)

	fixedNow := time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)
	writer := NewWriter(mockCampaignRepo, mockInsightRepo)
	writer.now = func() time.Time { return fixedNow }

	tests := []struct {
		name      string
		campaigns []*domain.Campaign
		setup     func()
		expected  WriteStats
	}{
		{
			name: "Todas as campanhas gravadas com last_updated_at atualizado",
			campaigns: []*domain.Campaign{
				{ID: "c1", AccountID: "act_1"},
				{ID: "c2", AccountID: "act_1", LastUpdatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
			},
			setup: func() {
				mockCampaignRepo.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *domain.Campaign) error {
						assert.Equal(t, fixedNow, c.LastUpdatedAt)
						return nil
					}).
					Times(2)
			},
			expected: WriteStats{Attempted: 2, Written: 2, Failed: 0},
		},
		{
			name: "Falha em uma campanha não interrompe o lote",
			campaigns: []*domain.Campaign{
				{ID: "c1", AccountID: "act_1"},
				{ID: "c2", AccountID: "act_1"},
				{ID: "c3", AccountID: "act_1"},
			},
			setup: func() {
				gomock.InOrder(
					mockCampaignRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil),
					mockCampaignRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("conexão perdida")),
					mockCampaignRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil),
				)
			},
			expected: WriteStats{Attempted: 3, Written: 2, Failed: 1},
		},
		{
			name:      "Lista vazia",
			campaigns: []*domain.Campaign{},
			setup:     func() {},
			expected:  WriteStats{},
		},
		{
			name:      "Campanha nula é ignorada",
			campaigns: []*domain.Campaign{nil},
			setup:     func() {},
			expected:  WriteStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			stats := writer.WriteCampaigns(context.Background(), tt.campaigns)

			assert.Equal(t, tt.expected, stats)
		})
	}
}

func TestWriter_WriteInsights(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCampaignRepo := mocks.NewMockCampaignRepository(ctrl)
	mockInsightRepo := mocks.NewMockInsightRepository(ctrl)
	writer := NewWriter(mockCampaignRepo, mockInsightRepo)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	insights := []*domain.Insight{
		{EntityID: "c1", EntityType: domain.EntityTypeCampaign, Date: day},
		{EntityID: "c1", EntityType: domain.EntityTypeCampaign, Date: day.AddDate(0, 0, 1)},
	}

	gomock.InOrder(
		mockInsightRepo.EXPECT().Upsert(gomock.Any(), insights[0]).Return(errors.New("unique violation")),
		mockInsightRepo.EXPECT().Upsert(gomock.Any(), insights[1]).Return(nil),
	)

	stats := writer.WriteInsights(context.Background(), insights)

	assert.Equal(t, WriteStats{Attempted: 2, Written: 1, Failed: 1}, stats)
}
