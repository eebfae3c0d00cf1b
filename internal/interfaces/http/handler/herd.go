package handler

import (
	"github.com/gin-gonic/gin"
	herdapp "github.com/m77ag/backend/internal/application/herd"
)

// HerdHandler handles cattle endpoints
type HerdHandler struct {
	BaseHandler
	cattleService *herdapp.CattleService
}

// NewHerdHandler creates a new HerdHandler
func NewHerdHandler(cattleService *herdapp.CattleService) *HerdHandler {
	return &HerdHandler{cattleService: cattleService}
}

// CreateCattle godoc
// @Summary      Register an animal
// @Tags         herd
// @Success      201 {object} dto.Response{data=herdapp.CattleResponse}
// @Router       /cattle [post]
func (h *HerdHandler) CreateCattle(c *gin.Context) {
	var req herdapp.CreateCattleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	animal, err := h.cattleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, animal)
}

// ListCattle godoc
// @Summary      List the herd
// @Tags         herd
// @Param        status query string false "active, sold, deceased or culled"
// @Param        sex query string false "bull, cow, heifer, steer or calf"
// @Param        pasture query string false "Pasture name"
// @Param        dam_tag query string false "Calves of this dam"
// @Router       /cattle [get]
func (h *HerdHandler) ListCattle(c *gin.Context) {
	var filter herdapp.CattleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.cattleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetCattle godoc
// @Summary      Get an animal with its records
// @Tags         herd
// @Router       /cattle/{id} [get]
func (h *HerdHandler) GetCattle(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	animal, err := h.cattleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, animal)
}

// UpdateCattle godoc
// @Summary      Update an animal
// @Tags         herd
// @Router       /cattle/{id} [put]
func (h *HerdHandler) UpdateCattle(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req herdapp.UpdateCattleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	animal, err := h.cattleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, animal)
}

// AddWeight godoc
// @Summary      Record a weigh-in
// @Tags         herd
// @Router       /cattle/{id}/weights [post]
func (h *HerdHandler) AddWeight(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req herdapp.WeightRequest
	if !h.bindJSON(c, &req) {
		return
	}

	animal, err := h.cattleService.AddWeight(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, animal)
}

// AddHealthRecord godoc
// @Summary      Record a treatment
// @Tags         herd
// @Router       /cattle/{id}/health [post]
func (h *HerdHandler) AddHealthRecord(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req herdapp.HealthRequest
	if !h.bindJSON(c, &req) {
		return
	}

	animal, err := h.cattleService.AddHealthRecord(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, animal)
}

// AddBreeding godoc
// @Summary      Record a breeding
// @Tags         herd
// @Router       /cattle/{id}/breeding [post]
func (h *HerdHandler) AddBreeding(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req herdapp.BreedingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	animal, err := h.cattleService.AddBreeding(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, animal)
}

// RecordCalving godoc
// @Summary      Register a calf born to this dam
// @Tags         herd
// @Router       /cattle/{id}/calving [post]
func (h *HerdHandler) RecordCalving(c *gin.Context) {
	damID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req herdapp.CalvingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.cattleService.RecordCalving(c.Request.Context(), damID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// SellCattle godoc
// @Summary      Record the sale of an animal
// @Tags         herd
// @Router       /cattle/{id}/sell [post]
func (h *HerdHandler) SellCattle(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req herdapp.SellRequest
	if !h.bindJSON(c, &req) {
		return
	}

	animal, err := h.cattleService.Sell(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, animal)
}

// Summary godoc
// @Summary      Herd counts and value
// @Tags         herd
// @Router       /cattle/summary [get]
func (h *HerdHandler) Summary(c *gin.Context) {
	summary, err := h.cattleService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
