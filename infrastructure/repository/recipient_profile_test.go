package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

func TestRecipientProfileRepository_ListProfiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecipientProfileRepository(&postgres.Connection{DB: db})

	mock.ExpectQuery("SELECT id, city, neighborhood, gender, age, health_status FROM recipient_profiles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "city", "neighborhood", "gender", "age", "health_status"}).
			AddRow("p-1", "Cairo", "Zamalek", "female", int64(34), nil).
			AddRow("p-2", nil, nil, nil, nil, "diabetic"))

	profiles, err := repo.ListProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	require.NotNil(t, profiles[0].City)
	assert.Equal(t, "Cairo", *profiles[0].City)
	require.NotNil(t, profiles[0].Gender)
	assert.Equal(t, domain.Gender("female"), *profiles[0].Gender)
	require.NotNil(t, profiles[0].Age)
	assert.Equal(t, 34, *profiles[0].Age)
	assert.Nil(t, profiles[0].HealthStatus)

	assert.Nil(t, profiles[1].City)
	assert.Nil(t, profiles[1].Gender)
	assert.Nil(t, profiles[1].Age)
	require.NotNil(t, profiles[1].HealthStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientProfileRepository_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecipientProfileRepository(&postgres.Connection{DB: db})

	mock.ExpectQuery("SELECT (.+) FROM recipient_profiles").
		WillReturnError(errors.New("timeout"))

	_, err = repo.ListProfiles(context.Background())
	assert.True(t, errors.Is(err, domain.ErrTransient))
}

func TestMemoryRecipientProfileRepository_ReturnsCopy(t *testing.T) {
	city := "Cairo"
	repo := NewMemoryRecipientProfileRepository([]domain.RecipientProfile{{ID: "p-1", City: &city}})

	profiles, err := repo.ListProfiles(context.Background())
	require.NoError(t, err)
	profiles[0].ID = "alterado"

	again, err := repo.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p-1", again[0].ID)
}
