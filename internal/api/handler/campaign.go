package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/lifecycle"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
)

// CampaignResponse acompanha a campanha com os comandos que o ator pode aplicar agora
type CampaignResponse struct {
	*domain.Campaign
	AllowedActions []domain.Command `json:"allowed_actions"`
}

func newCampaignResponse(campaign *domain.Campaign, actor domain.Actor) CampaignResponse {
	return CampaignResponse{
		Campaign:       campaign,
		AllowedActions: lifecycle.AllowedFor(campaign, actor),
	}
}

func CreateCampaign(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var input campaigning.CreateCampaignInput
		if !decodeBody(w, r, &input) {
			return
		}

		campaign, err := service.Create(r.Context(), actor, input)
		if err != nil {
			writeCampaignError(w, err, "Erro ao criar campanha")
			return
		}

		writeJSON(w, http.StatusCreated, newCampaignResponse(campaign, actor))
	})
}

func GetCampaign(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da campanha é obrigatório", nil)
			return
		}

		campaign, err := service.Get(r.Context(), actor, id)
		if err != nil {
			writeCampaignError(w, err, "Erro ao buscar campanha")
			return
		}

		writeJSON(w, http.StatusOK, newCampaignResponse(campaign, actor))
	})
}

func EditCampaign(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var input campaigning.EditCampaignInput
		if !decodeBody(w, r, &input) {
			return
		}

		campaign, err := service.ApplyCommand(r.Context(), actor, id, domain.CommandEdit, &input)
		if err != nil {
			writeCampaignError(w, err, "Erro ao editar campanha")
			return
		}

		writeJSON(w, http.StatusOK, newCampaignResponse(campaign, actor))
	})
}

func DeleteCampaign(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if _, err := service.ApplyCommand(r.Context(), actor, id, domain.CommandDelete, nil); err != nil {
			writeCampaignError(w, err, "Erro ao excluir campanha")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// RunCampaignCommand aplica um comando sem corpo (submit, approve, reject, complete, reset)
func RunCampaignCommand(service campaigning.CampaignService, cmd domain.Command) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		logrus.WithFields(logrus.Fields{
			"campaign_id": id,
			"command":     cmd,
		}).Debug("INIT - RunCampaignCommand")

		campaign, err := service.ApplyCommand(r.Context(), actor, id, cmd, nil)
		if err != nil {
			writeCampaignError(w, err, "Erro ao aplicar comando na campanha")
			return
		}

		writeJSON(w, http.StatusOK, newCampaignResponse(campaign, actor))
	})
}
