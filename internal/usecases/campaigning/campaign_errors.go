package campaigning

import (
	"errors"
	"fmt"

	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
)

// Erros específicos para o contexto de campanhas
var (
	ErrPayloadRequired = fmt.Errorf("%w: payload obrigatório para o comando", domain.ErrInvalid)
	ErrAssetNotFound   = fmt.Errorf("%w: imagem da campanha não encontrada", domain.ErrInvalid)
)

// CampaignError é um erro com contexto adicional para campanhas.
// Err sempre encapsula um dos tipos de erro de domain.
type CampaignError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	CampaignID string // ID da campanha envolvida (quando aplicável)
	Details    string // Detalhes adicionais
}

// Error implementa a interface error
func (e *CampaignError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *CampaignError) Unwrap() error {
	return e.Err
}

// Retryable indica se o mesmo comando pode ser repetido
func (e *CampaignError) Retryable() bool {
	return domain.IsRetryable(e.Err)
}

// NewCampaignError cria um novo CampaignError com o código derivado do tipo de erro
func NewCampaignError(err error, campaignID string, details string) *CampaignError {
	var campaignErr *CampaignError
	if errors.As(err, &campaignErr) {
		return campaignErr
	}

	return &CampaignError{
		Err:        err,
		Code:       CodeFor(err),
		CampaignID: campaignID,
		Details:    details,
	}
}

// CodeFor traduz o tipo de erro do núcleo para o código estável da API
func CodeFor(err error) string {
	switch domain.Kind(err) {
	case domain.ErrNotFound:
		return apiErrors.ErrCampaignNotFound
	case domain.ErrForbidden:
		return apiErrors.ErrCampaignForbidden
	case domain.ErrInvalidTransition:
		return apiErrors.ErrInvalidTransition
	case domain.ErrInvalid:
		return apiErrors.ErrInvalidCampaign
	case domain.ErrConflict:
		return apiErrors.ErrCampaignConflict
	case domain.ErrTransient:
		return apiErrors.ErrTransientFailure
	}
	return apiErrors.ErrInternalServer
}
