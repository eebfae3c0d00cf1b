package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/m77ag/backend/internal/application/common"
	croppingapp "github.com/m77ag/backend/internal/application/cropping"
	"github.com/m77ag/backend/internal/interfaces/http/dto"
)

// MaxReceiptSize bounds an uploaded receipt file
const MaxReceiptSize = 10 << 20

var receiptTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/heic":      true,
}

// CroppingHandler handles fields and crop expenses
type CroppingHandler struct {
	BaseHandler
	fields   *croppingapp.FieldService
	expenses *croppingapp.ExpenseService
}

// NewCroppingHandler creates a new CroppingHandler
func NewCroppingHandler(fields *croppingapp.FieldService, expenses *croppingapp.ExpenseService) *CroppingHandler {
	return &CroppingHandler{fields: fields, expenses: expenses}
}

// ===================== Fields =====================

// CreateField godoc
// @Summary      Register a field
// @Tags         cropping-fields
// @Router       /fields [post]
func (h *CroppingHandler) CreateField(c *gin.Context) {
	var req croppingapp.CreateFieldRequest
	if !h.bindJSON(c, &req) {
		return
	}

	field, err := h.fields.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, field)
}

type fieldListQuery struct {
	common.PageQuery
	Entity string `form:"entity" binding:"max=100"`
}

// ListFields godoc
// @Summary      List fields with their cost buckets
// @Tags         cropping-fields
// @Param        entity query string false "Owning entity"
// @Router       /fields [get]
func (h *CroppingHandler) ListFields(c *gin.Context) {
	var q fieldListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	fields, err := h.fields.List(c.Request.Context(), q.PageQuery, q.Entity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fields)
}

// GetField godoc
// @Summary      Get a field
// @Tags         cropping-fields
// @Router       /fields/{id} [get]
func (h *CroppingHandler) GetField(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	field, err := h.fields.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, field)
}

// FieldBudget godoc
// @Summary      Projected against actual for a field and year
// @Tags         cropping-fields
// @Param        year query int false "Crop year"
// @Router       /fields/{id}/budget [get]
func (h *CroppingHandler) FieldBudget(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	year, ok := h.queryYear(c)
	if !ok {
		return
	}

	budget, err := h.fields.Budget(c.Request.Context(), id, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}

// SetProjection godoc
// @Summary      Set the yield and price projection for a field and year
// @Tags         cropping-fields
// @Router       /fields/{id}/projections [post]
func (h *CroppingHandler) SetProjection(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req croppingapp.ProjectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	projection, err := h.fields.SetProjection(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, projection)
}

// RecordHarvest godoc
// @Summary      Record harvested bushels
// @Tags         cropping-fields
// @Router       /fields/{id}/harvests [post]
func (h *CroppingHandler) RecordHarvest(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req croppingapp.HarvestRequest
	if !h.bindJSON(c, &req) {
		return
	}

	harvest, err := h.fields.RecordHarvest(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, harvest)
}

// ===================== Expenses =====================

// CreateExpense godoc
// @Summary      Record a crop expense and allocate it across fields
// @Tags         cropping-expenses
// @Router       /crop-expenses [post]
func (h *CroppingHandler) CreateExpense(c *gin.Context) {
	var req croppingapp.CreateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// ListExpenses godoc
// @Summary      List crop expenses
// @Tags         cropping-expenses
// @Param        crop_code query string false "Crop code such as CORN-2026"
// @Param        year query int false "Crop year"
// @Param        category query string false "Expense category"
// @Param        field_id query string false "Allocated to this field"
// @Router       /crop-expenses [get]
func (h *CroppingHandler) ListExpenses(c *gin.Context) {
	var filter croppingapp.ExpenseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.expenses.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// UpdateExpense godoc
// @Summary      Update an expense and re-run its allocation
// @Tags         cropping-expenses
// @Router       /crop-expenses/{id} [put]
func (h *CroppingHandler) UpdateExpense(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req croppingapp.UpdateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// DeleteExpense godoc
// @Summary      Delete an expense and reverse its allocation
// @Tags         cropping-expenses
// @Router       /crop-expenses/{id} [delete]
func (h *CroppingHandler) DeleteExpense(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CropSummary godoc
// @Summary      Totals for one crop code
// @Tags         cropping-expenses
// @Router       /crop-expenses/summary/{cropCode} [get]
func (h *CroppingHandler) CropSummary(c *gin.Context) {
	summary, err := h.expenses.SummaryByCropCode(c.Request.Context(), c.Param("cropCode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// UploadReceipt godoc
// @Summary      Attach a receipt file to an expense
// @Tags         cropping-expenses
// @Accept       multipart/form-data
// @Param        file formData file true "PDF or image"
// @Router       /crop-expenses/{id}/receipt [post]
func (h *CroppingHandler) UploadReceipt(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	if header.Size > MaxReceiptSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Receipt exceeds "+strconv.Itoa(MaxReceiptSize>>20)+"MB")
		return
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0]))
	if !receiptTypes[contentType] {
		h.BadRequest(c, "Receipt must be a PDF, JPEG, PNG or HEIC file")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read upload")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, MaxReceiptSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read upload")
		return
	}

	receipt, err := h.expenses.AttachReceipt(c.Request.Context(), id, header.Filename, contentType, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}
