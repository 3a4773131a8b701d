package campaigning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	assetmocks "github.com/vfg2006/campaign-manager-api/infrastructure/integrator/asset/mocks"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

var (
	owner    = domain.Actor{UserID: "owner-1", Role: domain.RoleOperator}
	stranger = domain.Actor{UserID: "operator-2", Role: domain.RoleOperator}
	admin    = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}

	fixedNow = time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
)

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

type serviceMocks struct {
	campaigns *mocks.MockCampaignRepository
	history   *mocks.MockMetricsHistoryRepository
	dedup     *mocks.MockDeliveryEventDeduplicator
	assets    *assetmocks.MockResolver
	profiles  *mocks.MockRecipientProfileRepository
}

func newMockedService(t *testing.T) (*Service, serviceMocks) {
	ctrl := gomock.NewController(t)

	m := serviceMocks{
		campaigns: mocks.NewMockCampaignRepository(ctrl),
		history:   mocks.NewMockMetricsHistoryRepository(ctrl),
		dedup:     mocks.NewMockDeliveryEventDeduplicator(ctrl),
		assets:    assetmocks.NewMockResolver(ctrl),
		profiles:  mocks.NewMockRecipientProfileRepository(ctrl),
	}

	service := NewService(m.campaigns, m.history, m.dedup, m.assets, m.profiles)
	service.now = func() time.Time { return fixedNow }
	service.newID = func() (string, error) { return "cmp-1", nil }

	return service, m
}

func campaignIn(status domain.CampaignStatus) *domain.Campaign {
	return &domain.Campaign{
		ID:      "cmp-1",
		OwnerID: owner.UserID,
		Name:    "Campanha de inverno",
		Message: "Vacine-se na farmácia mais próxima",
		Status:  status,
		Version: 3,
	}
}

func assertKind(t *testing.T, err error, kind error, code string) {
	t.Helper()

	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "esperado %v, obtido %v", kind, err)

	var campaignErr *CampaignError
	require.True(t, errors.As(err, &campaignErr))
	assert.Equal(t, code, campaignErr.Code)
}

func TestService_Create(t *testing.T) {
	service, m := newMockedService(t)
	ctx := context.Background()

	t.Run("cria rascunho com contadores zerados", func(t *testing.T) {
		input := CreateCampaignInput{
			Name:          "Campanha",
			Message:       "Olá",
			AdImage:       stringPtr("s3://campaign-assets/banner.png"),
			TargetFilters: domain.TargetFilters{City: stringPtr("Cairo")},
		}

		m.campaigns.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, c *domain.Campaign) error {
				assert.Equal(t, "cmp-1", c.ID)
				assert.Equal(t, owner.UserID, c.OwnerID)
				assert.Equal(t, domain.CampaignStatusDraft, c.Status)
				assert.Equal(t, domain.Metrics{}, c.Metrics)
				assert.Equal(t, int64(1), c.Version)
				assert.Equal(t, fixedNow, c.CreatedAt)
				return nil
			})

		campaign, err := service.Create(ctx, owner, input)

		require.NoError(t, err)
		assert.Equal(t, domain.CampaignStatusDraft, campaign.Status)
		assert.Equal(t, "Cairo", *campaign.TargetFilters.City)

		// A campanha não compartilha ponteiros com a entrada
		*input.TargetFilters.City = "Giza"
		assert.Equal(t, "Cairo", *campaign.TargetFilters.City)
	})

	t.Run("faixa etária invertida é inválida", func(t *testing.T) {
		_, err := service.Create(ctx, owner, CreateCampaignInput{
			Name:          "Campanha",
			Message:       "Olá",
			TargetFilters: domain.TargetFilters{AgeRange: &domain.AgeRange{Min: intPtr(40), Max: intPtr(18)}},
		})

		assertKind(t, err, domain.ErrInvalid, apiErrors.ErrInvalidCampaign)
	})

	t.Run("ator sem identificação é proibido", func(t *testing.T) {
		_, err := service.Create(ctx, domain.Actor{}, CreateCampaignInput{Name: "Campanha"})

		assertKind(t, err, domain.ErrForbidden, apiErrors.ErrCampaignForbidden)
	})

	t.Run("falha do banco é transitória", func(t *testing.T) {
		m.campaigns.EXPECT().
			Create(ctx, gomock.Any()).
			Return(domain.NewTransientError(errors.New("connection refused")))

		_, err := service.Create(ctx, owner, CreateCampaignInput{Name: "Campanha", Message: "Olá"})

		assertKind(t, err, domain.ErrTransient, apiErrors.ErrTransientFailure)
	})
}

func TestService_Get(t *testing.T) {
	service, m := newMockedService(t)
	ctx := context.Background()

	m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(campaignIn(domain.CampaignStatusDraft), nil).Times(3)
	m.campaigns.EXPECT().GetByID(ctx, "missing").Return(nil, domain.ErrNotFound)

	_, err := service.Get(ctx, owner, "cmp-1")
	require.NoError(t, err)

	_, err = service.Get(ctx, admin, "cmp-1")
	require.NoError(t, err)

	_, err = service.Get(ctx, stranger, "cmp-1")
	assertKind(t, err, domain.ErrForbidden, apiErrors.ErrCampaignForbidden)

	_, err = service.Get(ctx, owner, "missing")
	assertKind(t, err, domain.ErrNotFound, apiErrors.ErrCampaignNotFound)
}

func TestService_ApplyCommand(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   domain.Actor
		cmd     domain.Command
		payload *EditCampaignInput
		setup   func(m serviceMocks)
		status  domain.CampaignStatus
		err     error
		code    string
	}{
		{
			name:  "admin aprova campanha pendente",
			actor: admin,
			cmd:   domain.CommandApprove,
			setup: func(m serviceMocks) {
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(campaignIn(domain.CampaignStatusPending), nil)
				m.campaigns.EXPECT().
					Update(ctx, gomock.Any(), int64(3)).
					DoAndReturn(func(_ context.Context, c *domain.Campaign, _ int64) (*domain.Campaign, error) {
						assert.Equal(t, domain.CampaignStatusApproved, c.Status)
						updated := c.Clone()
						updated.Version = 4
						return updated, nil
					})
			},
			status: domain.CampaignStatusApproved,
		},
		{
			name:  "operador não aprova e nada é gravado",
			actor: owner,
			cmd:   domain.CommandApprove,
			setup: func(m serviceMocks) {
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(campaignIn(domain.CampaignStatusPending), nil)
			},
			err:  domain.ErrForbidden,
			code: apiErrors.ErrCampaignForbidden,
		},
		{
			name:  "campanha inexistente",
			actor: owner,
			cmd:   domain.CommandSubmit,
			setup: func(m serviceMocks) {
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(nil, domain.ErrNotFound)
			},
			err:  domain.ErrNotFound,
			code: apiErrors.ErrCampaignNotFound,
		},
		{
			name:  "versão desatualizada vira Conflict",
			actor: admin,
			cmd:   domain.CommandReject,
			setup: func(m serviceMocks) {
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(campaignIn(domain.CampaignStatusPending), nil)
				m.campaigns.EXPECT().Update(ctx, gomock.Any(), int64(3)).Return(nil, domain.ErrConflict)
			},
			err:  domain.ErrConflict,
			code: apiErrors.ErrCampaignConflict,
		},
		{
			name:  "submissão com imagem existente",
			actor: owner,
			cmd:   domain.CommandSubmit,
			setup: func(m serviceMocks) {
				c := campaignIn(domain.CampaignStatusDraft)
				c.AdImage = stringPtr("s3://campaign-assets/banner.png")
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(c, nil)
				m.assets.EXPECT().Exists(ctx, "s3://campaign-assets/banner.png").Return(true, nil)
				m.campaigns.EXPECT().
					Update(ctx, gomock.Any(), int64(3)).
					DoAndReturn(func(_ context.Context, c *domain.Campaign, _ int64) (*domain.Campaign, error) {
						return c.Clone(), nil
					})
			},
			status: domain.CampaignStatusPending,
		},
		{
			name:  "submissão com imagem ausente é inválida",
			actor: owner,
			cmd:   domain.CommandSubmit,
			setup: func(m serviceMocks) {
				c := campaignIn(domain.CampaignStatusDraft)
				c.AdImage = stringPtr("s3://campaign-assets/missing.png")
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(c, nil)
				m.assets.EXPECT().Exists(ctx, "s3://campaign-assets/missing.png").Return(false, nil)
			},
			err:  domain.ErrInvalid,
			code: apiErrors.ErrInvalidCampaign,
		},
		{
			name:  "storage indisponível na submissão é transitório",
			actor: owner,
			cmd:   domain.CommandSubmit,
			setup: func(m serviceMocks) {
				c := campaignIn(domain.CampaignStatusDraft)
				c.AdImage = stringPtr("s3://campaign-assets/banner.png")
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(c, nil)
				m.assets.EXPECT().Exists(ctx, gomock.Any()).Return(false, errors.New("timeout"))
			},
			err:  domain.ErrTransient,
			code: apiErrors.ErrTransientFailure,
		},
		{
			name:  "edição sem payload é inválida",
			actor: owner,
			cmd:   domain.CommandEdit,
			setup: func(m serviceMocks) {
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(campaignIn(domain.CampaignStatusDraft), nil)
			},
			err:  domain.ErrInvalid,
			code: apiErrors.ErrInvalidCampaign,
		},
		{
			name:  "edição aplica apenas campos preenchidos",
			actor: owner,
			cmd:   domain.CommandEdit,
			payload: &EditCampaignInput{
				Message:       stringPtr("Nova mensagem"),
				TargetFilters: &domain.TargetFilters{City: stringPtr("Giza")},
			},
			setup: func(m serviceMocks) {
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(campaignIn(domain.CampaignStatusDraft), nil)
				m.campaigns.EXPECT().
					Update(ctx, gomock.Any(), int64(3)).
					DoAndReturn(func(_ context.Context, c *domain.Campaign, _ int64) (*domain.Campaign, error) {
						assert.Equal(t, "Campanha de inverno", c.Name)
						assert.Equal(t, "Nova mensagem", c.Message)
						assert.Equal(t, "Giza", *c.TargetFilters.City)
						return c.Clone(), nil
					})
			},
			status: domain.CampaignStatusDraft,
		},
		{
			name:    "edição com filtros inválidos",
			actor:   owner,
			cmd:     domain.CommandEdit,
			payload: &EditCampaignInput{TargetFilters: &domain.TargetFilters{City: stringPtr(" ")}},
			setup: func(m serviceMocks) {
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(campaignIn(domain.CampaignStatusDraft), nil)
			},
			err:  domain.ErrInvalid,
			code: apiErrors.ErrInvalidCampaign,
		},
		{
			name:  "exclusão usa a versão lida",
			actor: admin,
			cmd:   domain.CommandDelete,
			setup: func(m serviceMocks) {
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(campaignIn(domain.CampaignStatusApproved), nil)
				m.campaigns.EXPECT().Delete(ctx, "cmp-1", int64(3)).Return(nil)
			},
			status: domain.CampaignStatusApproved,
		},
		{
			name:  "falha transitória na gravação",
			actor: owner,
			cmd:   domain.CommandReset,
			setup: func(m serviceMocks) {
				m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(campaignIn(domain.CampaignStatusRejected), nil)
				m.campaigns.EXPECT().Update(ctx, gomock.Any(), int64(3)).Return(nil, domain.NewTransientError(errors.New("deadlock")))
			},
			err:  domain.ErrTransient,
			code: apiErrors.ErrTransientFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newMockedService(t)
			tt.setup(m)

			campaign, err := service.ApplyCommand(ctx, tt.actor, "cmp-1", tt.cmd, tt.payload)

			if tt.err != nil {
				assertKind(t, err, tt.err, tt.code)
				assert.Nil(t, campaign)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, campaign.Status)
		})
	}
}

func TestService_IngestDeliveryEvent(t *testing.T) {
	ctx := context.Background()
	eligible := []domain.CampaignStatus{domain.CampaignStatusApproved}

	t.Run("evento sem id não passa pelo deduplicador", func(t *testing.T) {
		service, m := newMockedService(t)
		m.campaigns.EXPECT().
			IncrementMetric(ctx, "cmp-1", domain.MetricKindSent, int64(1), eligible).
			Return(domain.Metrics{MessagesSent: 1}, nil)

		result, err := service.IngestDeliveryEvent(ctx, domain.DeliveryEvent{CampaignID: "cmp-1", Kind: domain.MetricKindSent})

		require.NoError(t, err)
		assert.False(t, result.Duplicate)
		assert.Equal(t, int64(1), result.Metrics.MessagesSent)
	})

	t.Run("evento novo é registrado", func(t *testing.T) {
		service, m := newMockedService(t)
		m.dedup.EXPECT().Claim(ctx, gomock.Any()).Return(true, nil)
		m.campaigns.EXPECT().
			IncrementMetric(ctx, "cmp-1", domain.MetricKindDelivered, int64(1), eligible).
			Return(domain.Metrics{MessagesSent: 2, MessagesDelivered: 1}, nil)

		result, err := service.IngestDeliveryEvent(ctx, domain.DeliveryEvent{EventID: "evt-1", CampaignID: "cmp-1", Kind: domain.MetricKindDelivered})

		require.NoError(t, err)
		assert.False(t, result.Duplicate)
		assert.Equal(t, int64(1), result.Metrics.MessagesDelivered)
	})

	t.Run("evento repetido não incrementa", func(t *testing.T) {
		service, m := newMockedService(t)
		m.dedup.EXPECT().Claim(ctx, gomock.Any()).Return(false, nil)
		m.campaigns.EXPECT().GetMetrics(ctx, "cmp-1").Return(domain.Metrics{MessagesSent: 7}, nil)

		result, err := service.IngestDeliveryEvent(ctx, domain.DeliveryEvent{EventID: "evt-1", CampaignID: "cmp-1", Kind: domain.MetricKindSent})

		require.NoError(t, err)
		assert.True(t, result.Duplicate)
		assert.Equal(t, int64(7), result.Metrics.MessagesSent)
	})

	t.Run("falha transitória libera a chave", func(t *testing.T) {
		service, m := newMockedService(t)
		var claimedKey string
		m.dedup.EXPECT().Claim(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, key string) (bool, error) {
			claimedKey = key
			return true, nil
		})
		m.campaigns.EXPECT().
			IncrementMetric(ctx, "cmp-1", domain.MetricKindSent, int64(1), eligible).
			Return(domain.Metrics{}, domain.NewTransientError(errors.New("connection reset")))
		m.dedup.EXPECT().Release(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, key string) error {
			assert.Equal(t, claimedKey, key)
			return nil
		})

		_, err := service.IngestDeliveryEvent(ctx, domain.DeliveryEvent{EventID: "evt-1", CampaignID: "cmp-1", Kind: domain.MetricKindSent})

		assertKind(t, err, domain.ErrTransient, apiErrors.ErrTransientFailure)
	})

	t.Run("erro permanente mantém a chave", func(t *testing.T) {
		service, m := newMockedService(t)
		m.dedup.EXPECT().Claim(ctx, gomock.Any()).Return(true, nil)
		m.campaigns.EXPECT().
			IncrementMetric(ctx, "cmp-1", domain.MetricKindSent, int64(1), eligible).
			Return(domain.Metrics{}, domain.ErrNotFound)

		_, err := service.IngestDeliveryEvent(ctx, domain.DeliveryEvent{EventID: "evt-1", CampaignID: "cmp-1", Kind: domain.MetricKindSent})

		assertKind(t, err, domain.ErrNotFound, apiErrors.ErrCampaignNotFound)
	})

	t.Run("tipo desconhecido é inválido", func(t *testing.T) {
		service, _ := newMockedService(t)

		_, err := service.IngestDeliveryEvent(ctx, domain.DeliveryEvent{CampaignID: "cmp-1", Kind: domain.MetricKind("click")})

		assertKind(t, err, domain.ErrInvalid, apiErrors.ErrInvalidCampaign)
	})

	t.Run("campanha obrigatória", func(t *testing.T) {
		service, _ := newMockedService(t)

		_, err := service.IngestDeliveryEvent(ctx, domain.DeliveryEvent{Kind: domain.MetricKindSent})

		assertKind(t, err, domain.ErrInvalid, apiErrors.ErrInvalidCampaign)
	})
}

func TestService_GetMetrics(t *testing.T) {
	service, m := newMockedService(t)
	ctx := context.Background()

	approved := campaignIn(domain.CampaignStatusApproved)
	history := []domain.CampaignMetricsSnapshot{
		{CampaignID: "cmp-1", Date: fixedNow.AddDate(0, 0, -1), Metrics: domain.Metrics{MessagesSent: 2}},
	}

	m.campaigns.EXPECT().GetByID(ctx, "cmp-1").Return(approved, nil)
	m.campaigns.EXPECT().GetMetrics(ctx, "cmp-1").Return(domain.Metrics{MessagesSent: 3, MessagesDelivered: 2}, nil)
	m.history.EXPECT().
		ListByCampaign(ctx, "cmp-1", time.Date(2023, 12, 17, 0, 0, 0, 0, time.UTC)).
		Return(history, nil)

	report, err := service.GetMetrics(ctx, owner, "cmp-1", nil)

	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatusApproved, report.Status)
	assert.Equal(t, int64(3), report.Current.MessagesSent)
	assert.Equal(t, 66.67, report.DeliveryRate)
	assert.Equal(t, history, report.History)
}

func TestService_PreviewAudience(t *testing.T) {
	ctx := context.Background()

	t.Run("conta perfis atendidos", func(t *testing.T) {
		service, m := newMockedService(t)
		m.profiles.EXPECT().ListProfiles(ctx).Return([]domain.RecipientProfile{
			{ID: "1", City: stringPtr("Cairo"), Age: intPtr(29)},
			{ID: "2", City: stringPtr("Cairo"), Age: intPtr(40)},
			{ID: "3", City: stringPtr("Giza"), Age: intPtr(29)},
		}, nil)

		size, err := service.PreviewAudience(ctx, domain.TargetFilters{
			City:     stringPtr("Cairo"),
			AgeRange: &domain.AgeRange{Min: intPtr(18), Max: intPtr(35)},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, size)
	})

	t.Run("filtros inválidos não consultam perfis", func(t *testing.T) {
		service, _ := newMockedService(t)

		_, err := service.PreviewAudience(ctx, domain.TargetFilters{AgeRange: &domain.AgeRange{Min: intPtr(-1)}})

		assertKind(t, err, domain.ErrInvalid, apiErrors.ErrInvalidCampaign)
	})

	t.Run("fonte de perfis indisponível é transitória", func(t *testing.T) {
		service, m := newMockedService(t)
		m.profiles.EXPECT().ListProfiles(ctx).Return(nil, errors.New("connection refused"))

		_, err := service.PreviewAudience(ctx, domain.TargetFilters{})

		assertKind(t, err, domain.ErrTransient, apiErrors.ErrTransientFailure)
	})
}
