// Package metering acumula as métricas de entrega e conversão das campanhas
package metering

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

// Counter é implementado pelo armazenamento de campanhas. IncrementMetric deve somar
// delta de forma atômica no próprio armazenamento, apenas se o status atual estiver
// em eligible, e devolver os contadores resultantes.
type Counter interface {
	IncrementMetric(ctx context.Context, campaignID string, kind domain.MetricKind, delta int64, eligible []domain.CampaignStatus) (domain.Metrics, error)
	GetMetrics(ctx context.Context, campaignID string) (domain.Metrics, error)
}

// EligibleStatuses devolve os status em que o contador aceita incrementos.
// Envios e entregas só acontecem com a campanha aprovada; visitas também podem ser
// atribuídas enquanto ela aguarda aprovação.
func EligibleStatuses(kind domain.MetricKind) []domain.CampaignStatus {
	switch kind {
	case domain.MetricKindSent, domain.MetricKindDelivered:
		return []domain.CampaignStatus{domain.CampaignStatusApproved}
	case domain.MetricKindVisit:
		return []domain.CampaignStatus{domain.CampaignStatusPending, domain.CampaignStatusApproved}
	}
	return nil
}

type Aggregator struct {
	counter Counter
}

func NewAggregator(counter Counter) *Aggregator {
	return &Aggregator{counter: counter}
}

// Increment soma delta ao contador do tipo informado; delta zero vale 1
func (a *Aggregator) Increment(ctx context.Context, kind domain.MetricKind, campaignID string, delta int64) (domain.Metrics, error) {
	if delta == 0 {
		delta = 1
	}

	if delta < 0 {
		return domain.Metrics{}, fmt.Errorf("%w: contadores não podem diminuir", domain.ErrInvalid)
	}

	eligible := EligibleStatuses(kind)
	if eligible == nil {
		return domain.Metrics{}, fmt.Errorf("%w: tipo de métrica desconhecido %q", domain.ErrInvalid, kind)
	}

	metrics, err := a.counter.IncrementMetric(ctx, campaignID, kind, delta, eligible)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"campaign_id": campaignID,
			"kind":        kind,
		}).WithError(err).Debug("Incremento de métrica recusado")
		return domain.Metrics{}, err
	}

	return metrics, nil
}

// Snapshot devolve os três contadores lidos no mesmo instante
func (a *Aggregator) Snapshot(ctx context.Context, campaignID string) (domain.Metrics, error) {
	return a.counter.GetMetrics(ctx, campaignID)
}
