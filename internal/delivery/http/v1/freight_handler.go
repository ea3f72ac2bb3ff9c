package v1

import (
	"errors"
	"net/http"

	"essencia-backend/internal/domain"
	"essencia-backend/internal/usecase"
	"essencia-backend/pkg/logger"
	"essencia-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type FreightHandler struct {
	freightUC *usecase.FreightUsecase
}

func NewFreightHandler(uc *usecase.FreightUsecase) *FreightHandler {
	return &FreightHandler{freightUC: uc}
}

type calculateFreightReq struct {
	CEP        string  `json:"cep"`
	Weight     float64 `json:"weight"`
	OrderValue float64 `json:"orderValue"`
}

// CalculateFreight handles POST /api/v1/freight/calculate.
func (h *FreightHandler) CalculateFreight(w http.ResponseWriter, r *http.Request) {
	var req calculateFreightReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quote, err := h.freightUC.CalculateFreight(r.Context(), req.CEP, req.Weight, req.OrderValue)
	if err != nil {
		h.writeFreightError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, quote)
}

// writeFreightError maps the resolver's failure taxonomy onto HTTP statuses.
func (h *FreightHandler) writeFreightError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPostalCode):
		utils.WriteErrorKind(w, http.StatusBadRequest, "InvalidFormat")
	case errors.Is(err, domain.ErrRegionNotServed):
		utils.WriteErrorKind(w, http.StatusBadRequest, "RegionNotServed")
	case errors.Is(err, domain.ErrPostalCodeNotFound):
		utils.WriteErrorKind(w, http.StatusNotFound, "NotFound")
	case errors.Is(err, domain.ErrDirectoryTimeout):
		utils.WriteErrorKind(w, http.StatusGatewayTimeout, "Timeout")
	default:
		logger.WithContext(r.Context()).Error().Err(err).Msg("freight calculation failed")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
