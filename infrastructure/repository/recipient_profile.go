package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

const (
	recipientProfilesTable = "recipient_profiles"
)

// RecipientProfileRepository lê os perfis mantidos pelo subsistema de usuários
type RecipientProfileRepository interface {
	ListProfiles(ctx context.Context) ([]domain.RecipientProfile, error)
}

type recipientProfileRepository struct {
	conn postgres.Queryer
}

func NewRecipientProfileRepository(conn postgres.Queryer) RecipientProfileRepository {
	return &recipientProfileRepository{
		conn: conn,
	}
}

func (r *recipientProfileRepository) ListProfiles(ctx context.Context) ([]domain.RecipientProfile, error) {
	query, args, err := squirrel.
		Select("id", "city", "neighborhood", "gender", "age", "health_status").
		From(recipientProfilesTable).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewTransientError(errors.Wrap(err, "erro ao listar perfis de destinatários"))
	}
	defer rows.Close()

	profiles := make([]domain.RecipientProfile, 0)
	for rows.Next() {
		var (
			profile      domain.RecipientProfile
			city         sql.NullString
			neighborhood sql.NullString
			gender       sql.NullString
			age          sql.NullInt64
			healthStatus sql.NullString
		)

		if err := rows.Scan(&profile.ID, &city, &neighborhood, &gender, &age, &healthStatus); err != nil {
			return nil, domain.NewTransientError(errors.Wrap(err, "erro ao escanear perfil"))
		}

		profile.City = nullString(city)
		profile.Neighborhood = nullString(neighborhood)
		profile.HealthStatus = nullString(healthStatus)

		if gender.Valid {
			g := domain.Gender(gender.String)
			profile.Gender = &g
		}

		if age.Valid {
			a := int(age.Int64)
			profile.Age = &a
		}

		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewTransientError(errors.Wrap(err, "erro durante a iteração de linhas"))
	}

	return profiles, nil
}

// memoryRecipientProfileRepository serve perfis fixos quando não há banco configurado
type memoryRecipientProfileRepository struct {
	profiles []domain.RecipientProfile
}

func NewMemoryRecipientProfileRepository(profiles []domain.RecipientProfile) RecipientProfileRepository {
	return &memoryRecipientProfileRepository{profiles: profiles}
}

func (r *memoryRecipientProfileRepository) ListProfiles(_ context.Context) ([]domain.RecipientProfile, error) {
	profiles := make([]domain.RecipientProfile, len(r.profiles))
	copy(profiles, r.profiles)
	return profiles, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
