package handler

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-manager-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxBodyBytes      = 1 << 20
	retryAfterSeconds = 1
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
		return false
	}
	return true
}

// requireActor devolve o ator autenticado ou responde 401
func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok || actor.UserID == "" {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return domain.Actor{}, false
	}
	return actor, true
}

// writeCampaignError traduz o erro do serviço para o código estável da API.
// Erros que podem ser repetidos levam o header Retry-After.
func writeCampaignError(w http.ResponseWriter, err error, fallback string) {
	var campaignErr *campaigning.CampaignError
	if !errors.As(err, &campaignErr) {
		logrus.WithError(err).Error(fallback)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
		return
	}

	details := map[string]any{
		"retryable": campaignErr.Retryable(),
	}
	if campaignErr.CampaignID != "" {
		details["campaign_id"] = campaignErr.CampaignID
	}

	if campaignErr.Retryable() {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}

	if campaignErr.Code == apiErrors.ErrInternalServer {
		logrus.WithError(err).Error(fallback)
	}

	apiErrors.WriteError(w, campaignErr.Code, campaignErr.Error(), details)
}
