package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

const (
	metricsHistoryTable = "campaign_metrics_daily"
)

// MetricsHistoryRepository guarda uma foto diária dos contadores de cada campanha
type MetricsHistoryRepository interface {
	SaveSnapshots(ctx context.Context, snapshots []domain.CampaignMetricsSnapshot) error
	ListByCampaign(ctx context.Context, campaignID string, from time.Time) ([]domain.CampaignMetricsSnapshot, error)
}

type metricsHistoryRepository struct {
	conn postgres.Queryer
}

func NewMetricsHistoryRepository(conn postgres.Queryer) MetricsHistoryRepository {
	return &metricsHistoryRepository{
		conn: conn,
	}
}

func (r *metricsHistoryRepository) SaveSnapshots(ctx context.Context, snapshots []domain.CampaignMetricsSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	// Construir query de inserção em lote
	query := squirrel.StatementBuilder.
		Insert(metricsHistoryTable).
		Columns(
			"campaign_id",
			"date",
			"messages_sent",
			"messages_delivered",
			"store_visits",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, snapshot := range snapshots {
		query = query.Values(
			snapshot.CampaignID,
			snapshot.Date.Format(time.DateOnly),
			snapshot.MessagesSent,
			snapshot.MessagesDelivered,
			snapshot.StoreVisits,
		)
	}

	// Reexecutar o job no mesmo dia sobrescreve a foto
	query = query.Suffix(`
		ON CONFLICT (campaign_id, date) DO UPDATE SET
			messages_sent = EXCLUDED.messages_sent,
			messages_delivered = EXCLUDED.messages_delivered,
			store_visits = EXCLUDED.store_visits
	`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	if _, err := r.conn.Exec(ctx, sqlQuery, args...); err != nil {
		return domain.NewTransientError(errors.Wrap(err, "erro ao salvar histórico de métricas"))
	}

	return nil
}

func (r *metricsHistoryRepository) ListByCampaign(ctx context.Context, campaignID string, from time.Time) ([]domain.CampaignMetricsSnapshot, error) {
	query, args, err := squirrel.
		Select("campaign_id", "date", "messages_sent", "messages_delivered", "store_visits").
		From(metricsHistoryTable).
		Where(squirrel.Eq{"campaign_id": campaignID}).
		Where(squirrel.GtOrEq{"date": from.Format(time.DateOnly)}).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewTransientError(errors.Wrap(err, "erro ao buscar histórico de métricas"))
	}
	defer rows.Close()

	history := make([]domain.CampaignMetricsSnapshot, 0)
	for rows.Next() {
		var snapshot domain.CampaignMetricsSnapshot
		err := rows.Scan(
			&snapshot.CampaignID,
			&snapshot.Date,
			&snapshot.MessagesSent,
			&snapshot.MessagesDelivered,
			&snapshot.StoreVisits,
		)
		if err != nil {
			return nil, domain.NewTransientError(errors.Wrap(err, "erro ao escanear histórico"))
		}
		history = append(history, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewTransientError(errors.Wrap(err, "erro durante a iteração de linhas"))
	}

	return history, nil
}

type memoryMetricsHistoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string]map[string]domain.CampaignMetricsSnapshot
}

func NewMemoryMetricsHistoryRepository() MetricsHistoryRepository {
	return &memoryMetricsHistoryRepository{
		snapshots: make(map[string]map[string]domain.CampaignMetricsSnapshot),
	}
}

func (r *memoryMetricsHistoryRepository) SaveSnapshots(_ context.Context, snapshots []domain.CampaignMetricsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, snapshot := range snapshots {
		byDate, ok := r.snapshots[snapshot.CampaignID]
		if !ok {
			byDate = make(map[string]domain.CampaignMetricsSnapshot)
			r.snapshots[snapshot.CampaignID] = byDate
		}
		byDate[snapshot.Date.Format(time.DateOnly)] = snapshot
	}

	return nil
}

func (r *memoryMetricsHistoryRepository) ListByCampaign(_ context.Context, campaignID string, from time.Time) ([]domain.CampaignMetricsSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fromDate := from.Format(time.DateOnly)
	history := make([]domain.CampaignMetricsSnapshot, 0)
	for date, snapshot := range r.snapshots[campaignID] {
		if date >= fromDate {
			history = append(history, snapshot)
		}
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	return history, nil
}
