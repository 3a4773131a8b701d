// Package targeting decide quais perfis de destinatários uma campanha alcança
package targeting

import (
	"fmt"
	"strings"

	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

// Matches indica se o perfil atende a todos os filtros preenchidos.
// Um campo desconhecido no perfil nunca atende a um filtro preenchido.
func Matches(filters domain.TargetFilters, profile domain.RecipientProfile) bool {
	if !matchString(filters.City, profile.City) {
		return false
	}

	if !matchString(filters.Neighborhood, profile.Neighborhood) {
		return false
	}

	if filters.Gender != nil {
		if profile.Gender == nil || *profile.Gender != *filters.Gender {
			return false
		}
	}

	if !matchAge(filters.AgeRange, profile.Age) {
		return false
	}

	return matchString(filters.HealthStatus, profile.HealthStatus)
}

// EstimateAudienceSize conta os perfis alcançados pelos filtros
func EstimateAudienceSize(filters domain.TargetFilters, profiles []domain.RecipientProfile) int {
	if filters.IsEmpty() {
		return len(profiles)
	}

	count := 0
	for _, profile := range profiles {
		if Matches(filters, profile) {
			count++
		}
	}
	return count
}

func matchString(filter, value *string) bool {
	if filter == nil {
		return true
	}
	return value != nil && *value == *filter
}

func matchAge(ageRange *domain.AgeRange, age *int) bool {
	if ageRange.IsEmpty() {
		return true
	}

	if age == nil {
		return false
	}

	if ageRange.Min != nil && *age < *ageRange.Min {
		return false
	}

	if ageRange.Max != nil && *age > *ageRange.Max {
		return false
	}

	return true
}

// ValidateFilters rejeita filtros malformados antes que sejam persistidos
func ValidateFilters(filters domain.TargetFilters) error {
	for field, value := range map[string]*string{
		"city":          filters.City,
		"neighborhood":  filters.Neighborhood,
		"health_status": filters.HealthStatus,
	} {
		if value != nil && strings.TrimSpace(*value) == "" {
			return fmt.Errorf("%w: filtro %s não pode ser vazio", domain.ErrInvalid, field)
		}
	}

	if filters.Gender != nil && !filters.Gender.IsValid() {
		return fmt.Errorf("%w: gênero desconhecido %q", domain.ErrInvalid, *filters.Gender)
	}

	if r := filters.AgeRange; r != nil {
		if r.Min != nil && *r.Min < 0 {
			return fmt.Errorf("%w: idade mínima negativa", domain.ErrInvalid)
		}
		if r.Max != nil && *r.Max < 0 {
			return fmt.Errorf("%w: idade máxima negativa", domain.ErrInvalid)
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return fmt.Errorf("%w: faixa etária com mínimo %d maior que máximo %d", domain.ErrInvalid, *r.Min, *r.Max)
		}
	}

	return nil
}
