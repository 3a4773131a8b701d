package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-manager-api/pkg/utils"
)

// GetCampaignMetrics devolve os contadores atuais, a taxa de entrega e o histórico
// diário a partir de ?from=YYYY-MM-DD
func GetCampaignMetrics(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var from *time.Time
		if fromStr := r.URL.Query().Get("from"); fromStr != "" {
			parsed, err := utils.ParseDate(fromStr, time.Time{})
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Formato de data inválido. Use YYYY-MM-DD", nil)
				return
			}
			from = &parsed
		}

		report, err := service.GetMetrics(r.Context(), actor, id, from)
		if err != nil {
			writeCampaignError(w, err, "Erro ao buscar métricas da campanha")
			return
		}

		writeJSON(w, http.StatusOK, report)
	})
}
