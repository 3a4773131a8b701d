package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/campaigning"
)

type AudiencePreviewResponse struct {
	AudienceSize int `json:"audience_size"`
}

func PreviewAudience(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireActor(w, r); !ok {
			return
		}

		var filters domain.TargetFilters
		if !decodeBody(w, r, &filters) {
			return
		}

		size, err := service.PreviewAudience(r.Context(), filters)
		if err != nil {
			writeCampaignError(w, err, "Erro ao estimar audiência")
			return
		}

		writeJSON(w, http.StatusOK, AudiencePreviewResponse{AudienceSize: size})
	})
}
