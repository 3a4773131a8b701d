package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro expostos pela API
const (
	// Erros de autenticação (1000-1999)
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes

	// Erros de campanha (3000-3999)
	ErrCampaignNotFound       = "CMP_001" // Campanha inexistente ou excluída
	ErrCampaignForbidden      = "CMP_002" // Ator sem permissão sobre a campanha
	ErrInvalidTransition      = "CMP_003" // Comando não permitido no status atual
	ErrInvalidCampaign        = "CMP_004" // Dados da campanha inválidos
	ErrCampaignConflict       = "CMP_005" // Alteração concorrente, repetir após reler
	ErrTransientFailure       = "CMP_006" // Falha transitória, repetir
	ErrDuplicateDeliveryEvent = "CMP_007" // Evento de entrega já registrado

	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros do servidor (5000-5999)
	ErrInternalServer = "SRV_001" // Erro interno do servidor
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:           http.StatusUnauthorized,
	ErrExpiredToken:           http.StatusUnauthorized,
	ErrInsufficientPrivilege:  http.StatusForbidden,
	ErrCampaignNotFound:       http.StatusNotFound,
	ErrCampaignForbidden:      http.StatusForbidden,
	ErrInvalidTransition:      http.StatusConflict,
	ErrInvalidCampaign:        http.StatusBadRequest,
	ErrCampaignConflict:       http.StatusConflict,
	ErrTransientFailure:       http.StatusServiceUnavailable,
	ErrDuplicateDeliveryEvent: http.StatusOK,
	ErrInvalidRequest:         http.StatusBadRequest,
	ErrMissingRequiredData:    http.StatusBadRequest,
	ErrInvalidFormat:          http.StatusBadRequest,
	ErrInternalServer:         http.StatusInternalServerError,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor devolve o status HTTP de um código; códigos desconhecidos viram 500
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	json.NewEncoder(w).Encode(apiErr)
}
