// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	campaignsTable = "campaigns"
)

var campaignColumns = []string{
	"id",
	"owner_id",
	"name",
	"message",
	"ad_image",
	"target_filters",
	"status",
	"messages_sent",
	"messages_delivered",
	"store_visits",
	"version",
	"created_at",
	"updated_at",
}

// CampaignRepository persiste campanhas e seus contadores.
// Update e Delete são compare-and-set na versão do registro: se a versão mudou,
// devolvem domain.ErrConflict; se a campanha não existe, domain.ErrNotFound.
// Falhas de infraestrutura são devolvidas como domain.ErrTransient.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	Update(ctx context.Context, campaign *domain.Campaign, expectedVersion int64) (*domain.Campaign, error)
	Delete(ctx context.Context, id string, expectedVersion int64) error
	IncrementMetric(ctx context.Context, id string, kind domain.MetricKind, delta int64, eligible []domain.CampaignStatus) (domain.Metrics, error)
	GetMetrics(ctx context.Context, id string) (domain.Metrics, error)
	ListByStatus(ctx context.Context, statuses []domain.CampaignStatus) ([]*domain.Campaign, error)
}

type campaignRepository struct {
	conn postgres.Queryer
	now  func() time.Time
}

func NewCampaignRepository(conn postgres.Queryer) CampaignRepository {
	return &campaignRepository{
		conn: conn,
		now:  time.Now,
	}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	filters, err := json.Marshal(campaign.TargetFilters)
	if err != nil {
		return fmt.Errorf("%w: filtros não serializáveis: %v", domain.ErrInvalid, err)
	}

	query, args, err := squirrel.
		Insert(campaignsTable).
		Columns(campaignColumns...).
		Values(
			campaign.ID,
			campaign.OwnerID,
			campaign.Name,
			campaign.Message,
			campaign.AdImage,
			string(filters),
			campaign.Status,
			campaign.Metrics.MessagesSent,
			campaign.Metrics.MessagesDelivered,
			campaign.Metrics.StoreVisits,
			campaign.Version,
			campaign.CreatedAt,
			campaign.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return domain.NewTransientError(errors.Wrap(err, "erro ao inserir campanha"))
	}

	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query, args, err := squirrel.
		Select(campaignColumns...).
		From(campaignsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	campaign, err := scanCampaign(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewTransientError(errors.Wrapf(err, "erro ao buscar campanha %s", id))
	}

	return campaign, nil
}

// Update grava o conteúdo e o status da campanha. Os contadores não são tocados e
// voltam atualizados no registro devolvido.
func (r *campaignRepository) Update(ctx context.Context, campaign *domain.Campaign, expectedVersion int64) (*domain.Campaign, error) {
	filters, err := json.Marshal(campaign.TargetFilters)
	if err != nil {
		return nil, fmt.Errorf("%w: filtros não serializáveis: %v", domain.ErrInvalid, err)
	}

	query, args, err := squirrel.
		Update(campaignsTable).
		SetMap(map[string]interface{}{
			"name":           campaign.Name,
			"message":        campaign.Message,
			"ad_image":       campaign.AdImage,
			"target_filters": string(filters),
			"status":         campaign.Status,
			"version":        squirrel.Expr("version + 1"),
			"updated_at":     r.now().UTC(),
		}).
		Where(squirrel.Eq{"id": campaign.ID, "version": expectedVersion}).
		Suffix("RETURNING " + columnList()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir query de atualização")
	}

	updated, err := scanCampaign(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.missOrConflict(ctx, campaign.ID)
		}
		return nil, domain.NewTransientError(errors.Wrapf(err, "erro ao atualizar campanha %s", campaign.ID))
	}

	return updated, nil
}

func (r *campaignRepository) Delete(ctx context.Context, id string, expectedVersion int64) error {
	query, args, err := squirrel.
		Delete(campaignsTable).
		Where(squirrel.Eq{"id": id, "version": expectedVersion}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de exclusão")
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return domain.NewTransientError(errors.Wrapf(err, "erro ao excluir campanha %s", id))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewTransientError(errors.Wrap(err, "erro ao obter linhas afetadas"))
	}

	if affected == 0 {
		return r.missOrConflict(ctx, id)
	}

	return nil
}

// IncrementMetric soma delta em um único UPDATE condicionado ao status, sem
// leitura prévia na aplicação
func (r *campaignRepository) IncrementMetric(ctx context.Context, id string, kind domain.MetricKind, delta int64, eligible []domain.CampaignStatus) (domain.Metrics, error) {
	column := kind.Column()
	if column == "" {
		return domain.Metrics{}, fmt.Errorf("%w: tipo de métrica desconhecido %q", domain.ErrInvalid, kind)
	}

	query, args, err := squirrel.
		Update(campaignsTable).
		Set(column, squirrel.Expr(column+" + ?", delta)).
		Where(squirrel.Eq{"id": id, "status": statusStrings(eligible)}).
		Suffix("RETURNING messages_sent, messages_delivered, store_visits").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.Metrics{}, errors.Wrap(err, "erro ao construir query de incremento")
	}

	var metrics domain.Metrics
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&metrics.MessagesSent,
		&metrics.MessagesDelivered,
		&metrics.StoreVisits,
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return domain.Metrics{}, domain.NewTransientError(errors.Wrapf(err, "erro ao incrementar %s da campanha %s", column, id))
		}

		status, err := r.currentStatus(ctx, id)
		if err != nil {
			return domain.Metrics{}, err
		}
		return domain.Metrics{}, fmt.Errorf("%w: métrica %s não aceita no status %s", domain.ErrInvalidTransition, kind, status)
	}

	return metrics, nil
}

func (r *campaignRepository) GetMetrics(ctx context.Context, id string) (domain.Metrics, error) {
	query, args, err := squirrel.
		Select("messages_sent", "messages_delivered", "store_visits").
		From(campaignsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.Metrics{}, errors.Wrap(err, "erro ao construir a query")
	}

	var metrics domain.Metrics
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&metrics.MessagesSent,
		&metrics.MessagesDelivered,
		&metrics.StoreVisits,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Metrics{}, domain.ErrNotFound
		}
		return domain.Metrics{}, domain.NewTransientError(errors.Wrapf(err, "erro ao buscar métricas da campanha %s", id))
	}

	return metrics, nil
}

func (r *campaignRepository) ListByStatus(ctx context.Context, statuses []domain.CampaignStatus) ([]*domain.Campaign, error) {
	query, args, err := squirrel.
		Select(campaignColumns...).
		From(campaignsTable).
		Where(squirrel.Eq{"status": statusStrings(statuses)}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewTransientError(errors.Wrap(err, "erro ao listar campanhas"))
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, domain.NewTransientError(errors.Wrap(err, "erro ao escanear campanha"))
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewTransientError(errors.Wrap(err, "erro durante a iteração de linhas"))
	}

	return campaigns, nil
}

// missOrConflict distingue uma campanha inexistente de uma versão desatualizada
func (r *campaignRepository) missOrConflict(ctx context.Context, id string) error {
	if _, err := r.currentStatus(ctx, id); err != nil {
		return err
	}
	return domain.ErrConflict
}

func (r *campaignRepository) currentStatus(ctx context.Context, id string) (domain.CampaignStatus, error) {
	query, args, err := squirrel.
		Select("status").
		From(campaignsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", errors.Wrap(err, "erro ao construir a query")
	}

	var status string
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", domain.NewTransientError(errors.Wrapf(err, "erro ao buscar status da campanha %s", id))
	}

	return domain.CampaignStatus(status), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	var (
		campaign domain.Campaign
		adImage  sql.NullString
		filters  []byte
		status   string
	)

	err := row.Scan(
		&campaign.ID,
		&campaign.OwnerID,
		&campaign.Name,
		&campaign.Message,
		&adImage,
		&filters,
		&status,
		&campaign.Metrics.MessagesSent,
		&campaign.Metrics.MessagesDelivered,
		&campaign.Metrics.StoreVisits,
		&campaign.Version,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if adImage.Valid {
		campaign.AdImage = &adImage.String
	}

	if len(filters) > 0 {
		if err := json.Unmarshal(filters, &campaign.TargetFilters); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar filtros da campanha")
		}
	}

	campaign.Status, err = domain.ParseCampaignStatus(status)
	if err != nil {
		return nil, err
	}

	return &campaign, nil
}

func columnList() string {
	return strings.Join(campaignColumns, ", ")
}

func statusStrings(statuses []domain.CampaignStatus) []string {
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}
	return values
}
