// Package campaigning orquestra os comandos sobre campanhas: ciclo de vida,
// eventos de entrega e prévia de audiência
package campaigning

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/lifecycle"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/metering"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/targeting"
	"github.com/vfg2006/campaign-manager-api/pkg/utils"
)

const defaultHistoryDays = 30

var _ CampaignService = (*Service)(nil)

type CampaignService interface {
	Create(ctx context.Context, owner domain.Actor, input CreateCampaignInput) (*domain.Campaign, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Campaign, error)
	ApplyCommand(ctx context.Context, actor domain.Actor, id string, cmd domain.Command, payload *EditCampaignInput) (*domain.Campaign, error)
	RecordDeliveryEvent(ctx context.Context, id string, kind domain.MetricKind) (domain.Metrics, error)
	IngestDeliveryEvent(ctx context.Context, event domain.DeliveryEvent) (*DeliveryEventResult, error)
	GetMetrics(ctx context.Context, actor domain.Actor, id string, from *time.Time) (*MetricsReport, error)
	PreviewAudience(ctx context.Context, filters domain.TargetFilters) (int, error)
}

type CreateCampaignInput struct {
	Name          string               `json:"name"`
	Message       string               `json:"message"`
	AdImage       *string              `json:"ad_image,omitempty"`
	TargetFilters domain.TargetFilters `json:"target_filters"`
}

// EditCampaignInput altera apenas os campos preenchidos
type EditCampaignInput struct {
	Name          *string               `json:"name,omitempty"`
	Message       *string               `json:"message,omitempty"`
	AdImage       *string               `json:"ad_image,omitempty"`
	RemoveAdImage bool                  `json:"remove_ad_image,omitempty"`
	TargetFilters *domain.TargetFilters `json:"target_filters,omitempty"`
}

type DeliveryEventResult struct {
	CampaignID string         `json:"campaign_id"`
	Metrics    domain.Metrics `json:"metrics"`
	Duplicate  bool           `json:"duplicate"`
}

type MetricsReport struct {
	CampaignID   string                           `json:"campaign_id"`
	Status       domain.CampaignStatus            `json:"status"`
	Current      domain.Metrics                   `json:"current"`
	DeliveryRate float64                          `json:"delivery_rate"`
	History      []domain.CampaignMetricsSnapshot `json:"history"`
}

type Service struct {
	campaignRepository repository.CampaignRepository
	historyRepository  repository.MetricsHistoryRepository
	deduplicator       repository.DeliveryEventDeduplicator
	aggregator         *metering.Aggregator
	assets             AssetResolver
	audience           AudienceSource
	now                func() time.Time
	newID              func() (string, error)
}

func NewService(
	campaignRepository repository.CampaignRepository,
	historyRepository repository.MetricsHistoryRepository,
	deduplicator repository.DeliveryEventDeduplicator,
	assets AssetResolver,
	audience AudienceSource,
) *Service {
	return &Service{
		campaignRepository: campaignRepository,
		historyRepository:  historyRepository,
		deduplicator:       deduplicator,
		aggregator:         metering.NewAggregator(campaignRepository),
		assets:             assets,
		audience:           audience,
		now:                time.Now,
		newID:              utils.GenerateID,
	}
}

func (s *Service) Create(ctx context.Context, owner domain.Actor, input CreateCampaignInput) (*domain.Campaign, error) {
	if owner.UserID == "" {
		return nil, NewCampaignError(domain.ErrForbidden, "", "ator sem identificação")
	}

	if err := targeting.ValidateFilters(input.TargetFilters); err != nil {
		return nil, NewCampaignError(err, "", "filtros de segmentação inválidos")
	}

	id, err := s.newID()
	if err != nil {
		return nil, NewCampaignError(domain.NewTransientError(err), "", "falha ao gerar identificador da campanha")
	}

	now := s.now().UTC()
	campaign := &domain.Campaign{
		ID:            id,
		OwnerID:       owner.UserID,
		Name:          input.Name,
		Message:       input.Message,
		AdImage:       normalizeImage(input.AdImage),
		TargetFilters: input.TargetFilters.Clone(),
		Status:        domain.CampaignStatusDraft,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.campaignRepository.Create(ctx, campaign); err != nil {
		return nil, NewCampaignError(err, id, "falha ao salvar campanha")
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": id,
		"actor_id":    owner.UserID,
	}).Info("Campanha criada")

	return campaign, nil
}

// Get permite a leitura apenas para o dono e administradores
func (s *Service) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Campaign, error) {
	campaign, err := s.campaignRepository.GetByID(ctx, id)
	if err != nil {
		return nil, NewCampaignError(err, id, "")
	}

	if !campaign.IsOwnedBy(actor) && !actor.IsAdmin() {
		return nil, NewCampaignError(domain.ErrForbidden, id, "campanha pertence a outro usuário")
	}

	return campaign, nil
}

// ApplyCommand lê a campanha, valida o comando na máquina de estados e grava o
// resultado com compare-and-set na versão lida. Se outra alteração chegou antes,
// devolve Conflict e o chamador deve reler e tentar novamente.
func (s *Service) ApplyCommand(ctx context.Context, actor domain.Actor, id string, cmd domain.Command, payload *EditCampaignInput) (*domain.Campaign, error) {
	current, err := s.campaignRepository.GetByID(ctx, id)
	if err != nil {
		return nil, NewCampaignError(err, id, "")
	}

	next, err := lifecycle.Next(current, cmd, actor)
	if err != nil {
		return nil, NewCampaignError(err, id, "")
	}

	logger := logrus.WithFields(logrus.Fields{
		"campaign_id": id,
		"command":     cmd,
		"actor_id":    actor.UserID,
	})

	if cmd == domain.CommandDelete {
		if err := s.campaignRepository.Delete(ctx, id, current.Version); err != nil {
			return nil, NewCampaignError(err, id, "")
		}
		logger.Info("Campanha excluída")
		return current, nil
	}

	expectedVersion := current.Version
	changed := current.Clone()
	changed.Status = next

	switch cmd {
	case domain.CommandEdit:
		if err := applyEdit(changed, payload); err != nil {
			return nil, NewCampaignError(err, id, "")
		}
	case domain.CommandSubmit:
		if err := s.verifyAsset(ctx, changed); err != nil {
			return nil, NewCampaignError(err, id, "")
		}
	}

	updated, err := s.campaignRepository.Update(ctx, changed, expectedVersion)
	if err != nil {
		if domain.IsRetryable(err) {
			logger.WithError(err).Warn("Comando não aplicado, pode ser repetido")
		}
		return nil, NewCampaignError(err, id, "")
	}

	logger.WithFields(logrus.Fields{
		"from": current.Status,
		"to":   updated.Status,
	}).Info("Comando aplicado")

	return updated, nil
}

// RecordDeliveryEvent soma um evento ao contador; a campanha precisa existir e estar
// em um status elegível para o tipo de métrica
func (s *Service) RecordDeliveryEvent(ctx context.Context, id string, kind domain.MetricKind) (domain.Metrics, error) {
	metrics, err := s.aggregator.Increment(ctx, kind, id, 1)
	if err != nil {
		return domain.Metrics{}, NewCampaignError(err, id, "")
	}
	return metrics, nil
}

// IngestDeliveryEvent registra um evento vindo do pipeline de entrega. Eventos com
// EventID são contados uma única vez dentro da janela do deduplicador.
func (s *Service) IngestDeliveryEvent(ctx context.Context, event domain.DeliveryEvent) (*DeliveryEventResult, error) {
	if event.CampaignID == "" {
		return nil, NewCampaignError(fmt.Errorf("%w: campaign_id obrigatório", domain.ErrInvalid), "", "")
	}

	kind, err := domain.ParseMetricKind(string(event.Kind))
	if err != nil {
		return nil, NewCampaignError(err, event.CampaignID, "")
	}

	if event.EventID == "" || s.deduplicator == nil {
		metrics, err := s.RecordDeliveryEvent(ctx, event.CampaignID, kind)
		if err != nil {
			return nil, err
		}
		return &DeliveryEventResult{CampaignID: event.CampaignID, Metrics: metrics}, nil
	}

	key := utils.IdempotencyKey(event.CampaignID, string(kind), event.EventID)
	claimed, err := s.deduplicator.Claim(ctx, key)
	if err != nil {
		return nil, NewCampaignError(err, event.CampaignID, "falha ao verificar duplicidade do evento")
	}

	if !claimed {
		logrus.WithFields(logrus.Fields{
			"campaign_id": event.CampaignID,
			"event_id":    event.EventID,
			"kind":        kind,
		}).Debug("Evento de entrega duplicado ignorado")

		metrics, err := s.aggregator.Snapshot(ctx, event.CampaignID)
		if err != nil {
			return nil, NewCampaignError(err, event.CampaignID, "")
		}
		return &DeliveryEventResult{CampaignID: event.CampaignID, Metrics: metrics, Duplicate: true}, nil
	}

	metrics, err := s.RecordDeliveryEvent(ctx, event.CampaignID, kind)
	if err != nil {
		// Só devolve a chave quando o evento pode ser reenviado
		if domain.IsRetryable(err) {
			if releaseErr := s.deduplicator.Release(ctx, key); releaseErr != nil {
				logrus.WithError(releaseErr).WithField("event_id", event.EventID).Error("Erro ao liberar chave de evento")
			}
		}
		return nil, err
	}

	return &DeliveryEventResult{CampaignID: event.CampaignID, Metrics: metrics}, nil
}

// GetMetrics devolve os contadores atuais e o histórico diário a partir de from
func (s *Service) GetMetrics(ctx context.Context, actor domain.Actor, id string, from *time.Time) (*MetricsReport, error) {
	campaign, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	current, err := s.aggregator.Snapshot(ctx, id)
	if err != nil {
		return nil, NewCampaignError(err, id, "")
	}

	since := utils.StartOfDay(s.now()).AddDate(0, 0, -defaultHistoryDays)
	if from != nil {
		since = *from
	}

	history := make([]domain.CampaignMetricsSnapshot, 0)
	if s.historyRepository != nil {
		history, err = s.historyRepository.ListByCampaign(ctx, id, since)
		if err != nil {
			return nil, NewCampaignError(err, id, "falha ao buscar histórico de métricas")
		}
	}

	return &MetricsReport{
		CampaignID:   id,
		Status:       campaign.Status,
		Current:      current,
		DeliveryRate: utils.Percentage(current.MessagesDelivered, current.MessagesSent),
		History:      history,
	}, nil
}

// PreviewAudience estima quantos perfis seriam alcançados, sem persistir nada
func (s *Service) PreviewAudience(ctx context.Context, filters domain.TargetFilters) (int, error) {
	if err := targeting.ValidateFilters(filters); err != nil {
		return 0, NewCampaignError(err, "", "filtros de segmentação inválidos")
	}

	profiles, err := s.audience.ListProfiles(ctx)
	if err != nil {
		return 0, NewCampaignError(domain.NewTransientError(err), "", "falha ao carregar perfis")
	}

	return targeting.EstimateAudienceSize(filters, profiles), nil
}

func (s *Service) verifyAsset(ctx context.Context, campaign *domain.Campaign) error {
	if campaign.AdImage == nil {
		return nil
	}

	exists, err := s.assets.Exists(ctx, *campaign.AdImage)
	if err != nil {
		return domain.NewTransientError(err)
	}

	if !exists {
		return ErrAssetNotFound
	}

	return nil
}

func applyEdit(campaign *domain.Campaign, payload *EditCampaignInput) error {
	if payload == nil {
		return ErrPayloadRequired
	}

	if payload.Name != nil {
		campaign.Name = *payload.Name
	}

	if payload.Message != nil {
		campaign.Message = *payload.Message
	}

	if payload.RemoveAdImage {
		campaign.AdImage = nil
	} else if payload.AdImage != nil {
		campaign.AdImage = normalizeImage(payload.AdImage)
	}

	if payload.TargetFilters != nil {
		if err := targeting.ValidateFilters(*payload.TargetFilters); err != nil {
			return err
		}
		campaign.TargetFilters = payload.TargetFilters.Clone()
	}

	return nil
}

func normalizeImage(image *string) *string {
	if image == nil || *image == "" {
		return nil
	}
	v := *image
	return &v
}
