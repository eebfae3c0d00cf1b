package handler

import (
	"github.com/gin-gonic/gin"
	assetsapp "github.com/m77ag/backend/internal/application/assets"
)

// AssetHandler handles equipment, real estate and net-worth adjustments
type AssetHandler struct {
	BaseHandler
	assets *assetsapp.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assets *assetsapp.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// CreateEquipment godoc
// @Summary      Register a machine
// @Tags         assets
// @Router       /equipment [post]
func (h *AssetHandler) CreateEquipment(c *gin.Context) {
	var req assetsapp.CreateEquipmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	equipment, err := h.assets.CreateEquipment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, equipment)
}

// ListEquipment godoc
// @Summary      List equipment
// @Tags         assets
// @Param        status query string false "owned, for_sale or sold"
// @Param        entity query string false "Owning entity"
// @Router       /equipment [get]
func (h *AssetHandler) ListEquipment(c *gin.Context) {
	var filter assetsapp.AssetListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	equipment, err := h.assets.ListEquipment(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, equipment)
}

// GetEquipment godoc
// @Summary      Get a machine
// @Tags         assets
// @Router       /equipment/{id} [get]
func (h *AssetHandler) GetEquipment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	equipment, err := h.assets.GetEquipment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, equipment)
}

// ListForSale godoc
// @Summary      Offer a machine for sale at an asking price
// @Tags         assets
// @Router       /equipment/{id}/list-for-sale [post]
func (h *AssetHandler) ListForSale(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req assetsapp.ListForSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	equipment, err := h.assets.ListForSale(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, equipment)
}

// CreateRealEstate godoc
// @Summary      Register a parcel
// @Tags         assets
// @Router       /real-estate [post]
func (h *AssetHandler) CreateRealEstate(c *gin.Context) {
	var req assetsapp.CreateRealEstateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	parcel, err := h.assets.CreateRealEstate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, parcel)
}

// ListRealEstate godoc
// @Summary      List real estate
// @Tags         assets
// @Param        entity query string false "Owning entity"
// @Router       /real-estate [get]
func (h *AssetHandler) ListRealEstate(c *gin.Context) {
	var filter assetsapp.AssetListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	parcels, err := h.assets.ListRealEstate(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, parcels)
}

// ReplaceAdjustments godoc
// @Summary      Replace an entity's manual assets and liabilities
// @Tags         assets
// @Param        name path string true "Legal entity name"
// @Router       /net-worth/entities/{name} [put]
func (h *AssetHandler) ReplaceAdjustments(c *gin.Context) {
	var req assetsapp.UpdateAdjustmentsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	adjustments, err := h.assets.ReplaceAdjustments(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustments)
}
