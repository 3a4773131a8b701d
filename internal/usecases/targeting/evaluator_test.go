package targeting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func genderPtr(g domain.Gender) *domain.Gender { return &g }

func TestMatches(t *testing.T) {
	cairoAdults := domain.TargetFilters{
		City:     stringPtr("Cairo"),
		AgeRange: &domain.AgeRange{Min: intPtr(18), Max: intPtr(35)},
	}

	tests := []struct {
		name     string
		filters  domain.TargetFilters
		profile  domain.RecipientProfile
		expected bool
	}{
		{
			name:     "Cairo com 29 anos atende",
			filters:  cairoAdults,
			profile:  domain.RecipientProfile{City: stringPtr("Cairo"), Age: intPtr(29)},
			expected: true,
		},
		{
			name:     "Cairo com 40 anos fica fora da faixa",
			filters:  cairoAdults,
			profile:  domain.RecipientProfile{City: stringPtr("Cairo"), Age: intPtr(40)},
			expected: false,
		},
		{
			name:     "Giza com 29 anos não atende a cidade",
			filters:  cairoAdults,
			profile:  domain.RecipientProfile{City: stringPtr("Giza"), Age: intPtr(29)},
			expected: false,
		},
		{
			name:     "limites da faixa são inclusivos",
			filters:  cairoAdults,
			profile:  domain.RecipientProfile{City: stringPtr("Cairo"), Age: intPtr(35)},
			expected: true,
		},
		{
			name:     "filtro vazio atende perfil vazio",
			filters:  domain.TargetFilters{},
			profile:  domain.RecipientProfile{},
			expected: true,
		},
		{
			name:     "comparação de cidade diferencia maiúsculas",
			filters:  domain.TargetFilters{City: stringPtr("Cairo")},
			profile:  domain.RecipientProfile{City: stringPtr("cairo")},
			expected: false,
		},
		{
			name:     "idade desconhecida não atende faixa etária",
			filters:  cairoAdults,
			profile:  domain.RecipientProfile{City: stringPtr("Cairo")},
			expected: false,
		},
		{
			name:     "bairro desconhecido não atende filtro de bairro",
			filters:  domain.TargetFilters{Neighborhood: stringPtr("Zamalek")},
			profile:  domain.RecipientProfile{City: stringPtr("Cairo")},
			expected: false,
		},
		{
			name:     "faixa sem máximo é ilimitada acima",
			filters:  domain.TargetFilters{AgeRange: &domain.AgeRange{Min: intPtr(60)}},
			profile:  domain.RecipientProfile{Age: intPtr(92)},
			expected: true,
		},
		{
			name:     "faixa sem mínimo é ilimitada abaixo",
			filters:  domain.TargetFilters{AgeRange: &domain.AgeRange{Max: intPtr(17)}},
			profile:  domain.RecipientProfile{Age: intPtr(3)},
			expected: true,
		},
		{
			name:     "faixa sem limites não exige idade",
			filters:  domain.TargetFilters{AgeRange: &domain.AgeRange{}},
			profile:  domain.RecipientProfile{},
			expected: true,
		},
		{
			name:     "gênero diferente não atende",
			filters:  domain.TargetFilters{Gender: genderPtr(domain.GenderFemale)},
			profile:  domain.RecipientProfile{Gender: genderPtr(domain.GenderMale)},
			expected: false,
		},
		{
			name:     "gênero desconhecido não atende",
			filters:  domain.TargetFilters{Gender: genderPtr(domain.GenderFemale)},
			profile:  domain.RecipientProfile{},
			expected: false,
		},
		{
			name: "todas as dimensões preenchidas e atendidas",
			filters: domain.TargetFilters{
				City:         stringPtr("Cairo"),
				Neighborhood: stringPtr("Zamalek"),
				Gender:       genderPtr(domain.GenderFemale),
				AgeRange:     &domain.AgeRange{Min: intPtr(20), Max: intPtr(30)},
				HealthStatus: stringPtr("diabetic"),
			},
			profile: domain.RecipientProfile{
				City:         stringPtr("Cairo"),
				Neighborhood: stringPtr("Zamalek"),
				Gender:       genderPtr(domain.GenderFemale),
				Age:          intPtr(25),
				HealthStatus: stringPtr("diabetic"),
			},
			expected: true,
		},
		{
			name:     "condição de saúde diferente não atende",
			filters:  domain.TargetFilters{HealthStatus: stringPtr("diabetic")},
			profile:  domain.RecipientProfile{HealthStatus: stringPtr("healthy")},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Matches(tt.filters, tt.profile))
			// Sem efeitos colaterais: repetir a avaliação dá o mesmo resultado
			assert.Equal(t, tt.expected, Matches(tt.filters, tt.profile))
		})
	}
}

func TestMatches_EmptyFiltersMatchEveryProfile(t *testing.T) {
	profiles := []domain.RecipientProfile{
		{},
		{City: stringPtr("Cairo"), Age: intPtr(29)},
		{Gender: genderPtr(domain.GenderMale), HealthStatus: stringPtr("healthy")},
		{Age: intPtr(0)},
	}

	for _, profile := range profiles {
		assert.True(t, Matches(domain.TargetFilters{}, profile))
	}
}

func TestMatches_DoesNotMutateInputs(t *testing.T) {
	filters := domain.TargetFilters{
		City:     stringPtr("Cairo"),
		AgeRange: &domain.AgeRange{Min: intPtr(18), Max: intPtr(35)},
	}
	profile := domain.RecipientProfile{City: stringPtr("Cairo"), Age: intPtr(29)}

	filtersBefore := filters.Clone()
	Matches(filters, profile)

	assert.Equal(t, filtersBefore, filters)
	assert.Equal(t, "Cairo", *profile.City)
	assert.Equal(t, 29, *profile.Age)
}

func TestEstimateAudienceSize(t *testing.T) {
	profiles := []domain.RecipientProfile{
		{ID: "1", City: stringPtr("Cairo"), Age: intPtr(29)},
		{ID: "2", City: stringPtr("Cairo"), Age: intPtr(40)},
		{ID: "3", City: stringPtr("Giza"), Age: intPtr(29)},
		{ID: "4", City: stringPtr("Cairo")},
		{ID: "5", City: stringPtr("Cairo"), Age: intPtr(18)},
	}

	t.Run("conta apenas os perfis atendidos", func(t *testing.T) {
		filters := domain.TargetFilters{
			City:     stringPtr("Cairo"),
			AgeRange: &domain.AgeRange{Min: intPtr(18), Max: intPtr(35)},
		}
		assert.Equal(t, 2, EstimateAudienceSize(filters, profiles))
	})

	t.Run("filtro vazio alcança todos", func(t *testing.T) {
		assert.Equal(t, len(profiles), EstimateAudienceSize(domain.TargetFilters{}, profiles))
	})

	t.Run("sem perfis não há audiência", func(t *testing.T) {
		assert.Equal(t, 0, EstimateAudienceSize(domain.TargetFilters{City: stringPtr("Cairo")}, nil))
	})

	t.Run("equivale a contar Matches", func(t *testing.T) {
		filters := domain.TargetFilters{City: stringPtr("Cairo")}
		expected := 0
		for _, p := range profiles {
			if Matches(filters, p) {
				expected++
			}
		}
		assert.Equal(t, expected, EstimateAudienceSize(filters, profiles))
	})
}

func TestValidateFilters(t *testing.T) {
	unknown := domain.Gender("other")

	tests := []struct {
		name    string
		filters domain.TargetFilters
		wantErr bool
	}{
		{name: "filtros vazios são válidos", filters: domain.TargetFilters{}},
		{
			name: "filtros completos são válidos",
			filters: domain.TargetFilters{
				City:         stringPtr("Cairo"),
				Neighborhood: stringPtr("Zamalek"),
				Gender:       genderPtr(domain.GenderMale),
				AgeRange:     &domain.AgeRange{Min: intPtr(18), Max: intPtr(18)},
				HealthStatus: stringPtr("healthy"),
			},
		},
		{name: "cidade em branco", filters: domain.TargetFilters{City: stringPtr("  ")}, wantErr: true},
		{name: "bairro vazio", filters: domain.TargetFilters{Neighborhood: stringPtr("")}, wantErr: true},
		{name: "condição de saúde vazia", filters: domain.TargetFilters{HealthStatus: stringPtr("")}, wantErr: true},
		{name: "gênero desconhecido", filters: domain.TargetFilters{Gender: &unknown}, wantErr: true},
		{
			name:    "mínimo maior que máximo",
			filters: domain.TargetFilters{AgeRange: &domain.AgeRange{Min: intPtr(40), Max: intPtr(18)}},
			wantErr: true,
		},
		{
			name:    "idade negativa",
			filters: domain.TargetFilters{AgeRange: &domain.AgeRange{Min: intPtr(-1)}},
			wantErr: true,
		},
		{
			name:    "máximo negativo",
			filters: domain.TargetFilters{AgeRange: &domain.AgeRange{Max: intPtr(-5)}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilters(tt.filters)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalid))
		})
	}
}
