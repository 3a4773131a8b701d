package domain

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// AgeRange é um intervalo fechado de idade; um limite nulo não restringe aquele lado
type AgeRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// IsEmpty indica um intervalo sem nenhum limite, que não restringe nada
func (r *AgeRange) IsEmpty() bool {
	return r == nil || (r.Min == nil && r.Max == nil)
}

// TargetFilters são os critérios de segmentação de uma campanha.
// Campo nulo significa "sem restrição nesta dimensão".
type TargetFilters struct {
	City         *string   `json:"city,omitempty"`
	Neighborhood *string   `json:"neighborhood,omitempty"`
	Gender       *Gender   `json:"gender,omitempty"`
	AgeRange     *AgeRange `json:"age_range,omitempty"`
	HealthStatus *string   `json:"health_status,omitempty"`
}

func (f TargetFilters) IsEmpty() bool {
	return f.City == nil &&
		f.Neighborhood == nil &&
		f.Gender == nil &&
		f.AgeRange.IsEmpty() &&
		f.HealthStatus == nil
}

func (f TargetFilters) Clone() TargetFilters {
	clone := TargetFilters{
		City:         cloneString(f.City),
		Neighborhood: cloneString(f.Neighborhood),
		HealthStatus: cloneString(f.HealthStatus),
	}

	if f.Gender != nil {
		gender := *f.Gender
		clone.Gender = &gender
	}

	if f.AgeRange != nil {
		clone.AgeRange = &AgeRange{
			Min: cloneInt(f.AgeRange.Min),
			Max: cloneInt(f.AgeRange.Max),
		}
	}

	return clone
}

// RecipientProfile é o perfil de um destinatário, mantido pelo subsistema de usuários.
// Campos nulos são desconhecidos.
type RecipientProfile struct {
	ID           string  `json:"id"`
	City         *string `json:"city,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	Gender       *Gender `json:"gender,omitempty"`
	Age          *int    `json:"age,omitempty"`
	HealthStatus *string `json:"health_status,omitempty"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
