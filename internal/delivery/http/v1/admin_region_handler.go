package v1

import (
	"errors"
	"net/http"

	"essencia-backend/internal/domain"
	"essencia-backend/internal/usecase"
	"essencia-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type AdminRegionHandler struct {
	regionUC *usecase.RegionUsecase
}

func NewAdminRegionHandler(uc *usecase.RegionUsecase) *AdminRegionHandler {
	return &AdminRegionHandler{regionUC: uc}
}

func (h *AdminRegionHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.regionUC.ListRegions(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, regions)
}

func (h *AdminRegionHandler) GetRegion(w http.ResponseWriter, r *http.Request) {
	region, err := h.regionUC.GetRegion(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrRegionNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Region not found")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, region)
}

func (h *AdminRegionHandler) CreateRegion(w http.ResponseWriter, r *http.Request) {
	var req usecase.SaveRegionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	region, err := h.regionUC.CreateRegion(r.Context(), req)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusCreated, region)
}

func (h *AdminRegionHandler) UpdateRegion(w http.ResponseWriter, r *http.Request) {
	var req usecase.SaveRegionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	region, err := h.regionUC.UpdateRegion(r.Context(), r.PathValue("id"), req)
	if err != nil {
		if errors.Is(err, domain.ErrRegionNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Region not found")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, region)
}

type updateRegionStatusReq struct {
	IsActive bool `json:"isActive"`
}

func (h *AdminRegionHandler) UpdateRegionStatus(w http.ResponseWriter, r *http.Request) {
	var req updateRegionStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.regionUC.SetRegionStatus(r.Context(), r.PathValue("id"), req.IsActive); err != nil {
		if errors.Is(err, domain.ErrRegionNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Region not found")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminRegionHandler) DeleteRegion(w http.ResponseWriter, r *http.Request) {
	if err := h.regionUC.DeleteRegion(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrRegionNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Region not found")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
