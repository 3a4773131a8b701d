package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

// memoryCampaign guarda uma campanha com os contadores fora do registro.
// Incrementos seguram mu em modo compartilhado; transições e exclusão em modo exclusivo.
type memoryCampaign struct {
	mu       sync.RWMutex
	campaign *domain.Campaign
	deleted  bool

	sent      atomic.Int64
	delivered atomic.Int64
	visits    atomic.Int64
}

func (m *memoryCampaign) counter(kind domain.MetricKind) *atomic.Int64 {
	switch kind {
	case domain.MetricKindSent:
		return &m.sent
	case domain.MetricKindDelivered:
		return &m.delivered
	case domain.MetricKindVisit:
		return &m.visits
	}
	return nil
}

func (m *memoryCampaign) metrics() domain.Metrics {
	return domain.Metrics{
		MessagesSent:      m.sent.Load(),
		MessagesDelivered: m.delivered.Load(),
		StoreVisits:       m.visits.Load(),
	}
}

// snapshot deve ser chamado com mu seguro
func (m *memoryCampaign) snapshot() *domain.Campaign {
	clone := m.campaign.Clone()
	clone.Metrics = m.metrics()
	return clone
}

type memoryCampaignRepository struct {
	mu        sync.RWMutex
	campaigns map[string]*memoryCampaign
	now       func() time.Time
}

// NewMemoryCampaignRepository cria um armazenamento de campanhas em memória,
// usado com DATABASE_DRIVER=memory e nos testes de concorrência
func NewMemoryCampaignRepository() CampaignRepository {
	return &memoryCampaignRepository{
		campaigns: make(map[string]*memoryCampaign),
		now:       time.Now,
	}
}

func (r *memoryCampaignRepository) lookup(id string) (*memoryCampaign, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.campaigns[id]
	return record, ok
}

func (r *memoryCampaignRepository) Create(_ context.Context, campaign *domain.Campaign) error {
	record := &memoryCampaign{campaign: campaign.Clone()}
	record.campaign.Metrics = domain.Metrics{}
	record.sent.Store(campaign.Metrics.MessagesSent)
	record.delivered.Store(campaign.Metrics.MessagesDelivered)
	record.visits.Store(campaign.Metrics.StoreVisits)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.campaigns[campaign.ID]; exists {
		return fmt.Errorf("%w: campanha %s já existe", domain.ErrConflict, campaign.ID)
	}
	r.campaigns[campaign.ID] = record

	return nil
}

func (r *memoryCampaignRepository) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	record, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}

	record.mu.RLock()
	defer record.mu.RUnlock()

	if record.deleted {
		return nil, domain.ErrNotFound
	}

	return record.snapshot(), nil
}

func (r *memoryCampaignRepository) Update(_ context.Context, campaign *domain.Campaign, expectedVersion int64) (*domain.Campaign, error) {
	record, ok := r.lookup(campaign.ID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	if record.deleted {
		return nil, domain.ErrNotFound
	}

	if record.campaign.Version != expectedVersion {
		return nil, domain.ErrConflict
	}

	stored := campaign.Clone()
	stored.OwnerID = record.campaign.OwnerID
	stored.CreatedAt = record.campaign.CreatedAt
	stored.Metrics = domain.Metrics{}
	stored.Version = expectedVersion + 1
	stored.UpdatedAt = r.now().UTC()
	record.campaign = stored

	return record.snapshot(), nil
}

func (r *memoryCampaignRepository) Delete(_ context.Context, id string, expectedVersion int64) error {
	record, ok := r.lookup(id)
	if !ok {
		return domain.ErrNotFound
	}

	record.mu.Lock()
	if record.deleted {
		record.mu.Unlock()
		return domain.ErrNotFound
	}
	if record.campaign.Version != expectedVersion {
		record.mu.Unlock()
		return domain.ErrConflict
	}
	// A partir daqui nenhum incremento pendente consegue tocar os contadores
	record.deleted = true
	record.mu.Unlock()

	r.mu.Lock()
	delete(r.campaigns, id)
	r.mu.Unlock()

	return nil
}

func (r *memoryCampaignRepository) IncrementMetric(_ context.Context, id string, kind domain.MetricKind, delta int64, eligible []domain.CampaignStatus) (domain.Metrics, error) {
	record, ok := r.lookup(id)
	if !ok {
		return domain.Metrics{}, domain.ErrNotFound
	}

	record.mu.RLock()
	defer record.mu.RUnlock()

	if record.deleted {
		return domain.Metrics{}, domain.ErrNotFound
	}

	status := record.campaign.Status
	if !containsStatus(eligible, status) {
		return domain.Metrics{}, fmt.Errorf("%w: métrica %s não aceita no status %s", domain.ErrInvalidTransition, kind, status)
	}

	counter := record.counter(kind)
	if counter == nil {
		return domain.Metrics{}, fmt.Errorf("%w: tipo de métrica desconhecido %q", domain.ErrInvalid, kind)
	}
	counter.Add(delta)

	return record.metrics(), nil
}

// GetMetrics segura o registro em modo exclusivo para ler os três contadores no mesmo instante
func (r *memoryCampaignRepository) GetMetrics(_ context.Context, id string) (domain.Metrics, error) {
	record, ok := r.lookup(id)
	if !ok {
		return domain.Metrics{}, domain.ErrNotFound
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	if record.deleted {
		return domain.Metrics{}, domain.ErrNotFound
	}

	return record.metrics(), nil
}

func (r *memoryCampaignRepository) ListByStatus(_ context.Context, statuses []domain.CampaignStatus) ([]*domain.Campaign, error) {
	r.mu.RLock()
	records := make([]*memoryCampaign, 0, len(r.campaigns))
	for _, record := range r.campaigns {
		records = append(records, record)
	}
	r.mu.RUnlock()

	campaigns := make([]*domain.Campaign, 0)
	for _, record := range records {
		record.mu.RLock()
		if !record.deleted && containsStatus(statuses, record.campaign.Status) {
			campaigns = append(campaigns, record.snapshot())
		}
		record.mu.RUnlock()
	}

	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.Before(campaigns[j].CreatedAt)
	})

	return campaigns, nil
}

func containsStatus(statuses []domain.CampaignStatus, status domain.CampaignStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
