package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// RecordDeliveryEvent recebe um evento do pipeline de entrega. O header
// Idempotency-Key, quando presente, prevalece sobre o event_id do corpo.
func RecordDeliveryEvent(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireActor(w, r); !ok {
			return
		}

		var event domain.DeliveryEvent
		if !decodeBody(w, r, &event) {
			return
		}

		event.CampaignID = httprouter.ParamsFromContext(r.Context()).ByName("id")
		if key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader)); key != "" {
			event.EventID = key
		}

		result, err := service.IngestDeliveryEvent(r.Context(), event)
		if err != nil {
			writeCampaignError(w, err, "Erro ao registrar evento de entrega")
			return
		}

		if result.Duplicate {
			apiErrors.WriteError(w, apiErrors.ErrDuplicateDeliveryEvent, "Evento de entrega já registrado", result)
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}
