package zones

import (
	"errors"
	"net/http"

	"popupzone/internal/shared/middleware"
	"popupzone/internal/shared/utils/pagination"
	"popupzone/internal/shared/utils/response"
	"popupzone/internal/shared/utils/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validation.New(),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAreaUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidWindow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Describe(err))
		return false
	}
	return true
}

func parseID(ctx *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(param))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid "+param, nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

//  ZONE AREAS

func (c *Controller) CreateArea(ctx *gin.Context) {
	var req CreateAreaRequest
	if !c.bind(ctx, &req) {
		return
	}

	area, err := c.service.CreateArea(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create zone area", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Zone area created successfully", area, nil)
}

func (c *Controller) GetArea(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	area, err := c.service.GetArea(ctx.Request.Context(), id)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get zone area", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Zone area retrieved successfully", area, nil)
}

func (c *Controller) ListAreas(ctx *gin.Context) {
	areas, err := c.service.ListAreas(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to list zone areas", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Zone areas retrieved successfully", areas, nil)
}

func (c *Controller) ChangeAreaStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req ChangeAreaStatusRequest
	if !c.bind(ctx, &req) {
		return
	}

	if err := c.service.ChangeAreaStatus(ctx.Request.Context(), id, AreaStatus(req.Status)); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to change zone area status", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Zone area status changed successfully", nil, nil)
}

func (c *Controller) ListCellsByArea(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var query pagination.Query
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	page, err := c.service.ListCellsByArea(ctx.Request.Context(), id, query)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to list zone cells", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Zone cells retrieved successfully", page, nil)
}

//  ZONE CELLS

func (c *Controller) CreateCell(ctx *gin.Context) {
	ownerID, err := middleware.CurrentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	var req CreateCellRequest
	if !c.bind(ctx, &req) {
		return
	}

	cell, err := c.service.CreateCell(ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create zone cell", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Zone cell created successfully", cell, nil)
}

func (c *Controller) GetCell(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	cell, err := c.service.GetCell(ctx.Request.Context(), id)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get zone cell", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Zone cell retrieved successfully", cell, nil)
}

func (c *Controller) ListMyCells(ctx *gin.Context) {
	ownerID, err := middleware.CurrentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	cells, err := c.service.ListMyCells(ctx.Request.Context(), ownerID)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to list zone cells", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Zone cells retrieved successfully", cells, nil)
}

func (c *Controller) ChangeCellStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req ChangeCellStatusRequest
	if !c.bind(ctx, &req) {
		return
	}

	if err := c.service.ChangeCellStatus(ctx.Request.Context(), id, CellStatus(req.Status)); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to change zone cell status", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Zone cell status changed successfully", nil, nil)
}

//  AVAILABILITY WINDOWS

func (c *Controller) AddWindow(ctx *gin.Context) {
	adminID, err := middleware.CurrentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	var req CreateWindowRequest
	if !c.bind(ctx, &req) {
		return
	}

	window, err := c.service.AddWindow(ctx.Request.Context(), adminID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create availability window", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Availability window created successfully", window, nil)
}

func (c *Controller) ListWindows(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	windows, err := c.service.ListWindows(ctx.Request.Context(), id)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to list availability windows", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability windows retrieved successfully", windows, nil)
}

func (c *Controller) RemoveWindow(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.RemoveWindow(ctx.Request.Context(), id); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to remove availability window", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability window removed successfully", nil, nil)
}
